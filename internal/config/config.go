package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"

	"github.com/gubarz/sloclass/internal/log"
)

// Config holds the application configuration
type Config struct {
	Language       string   `mapstructure:"lang"`
	Relaxed        bool     `mapstructure:"relaxed"`
	Jobs           int      `mapstructure:"jobs"`
	Exclude        []string `mapstructure:"exclude"`
	Output         string   `mapstructure:"output"`
	LogLevel       string   `mapstructure:"log_level"`
	LogFile        string   `mapstructure:"log_file"`
	LogFormat      string   `mapstructure:"log_format"`
	MetricsFile    string   `mapstructure:"metrics_file"`
	ColorPath      string   `mapstructure:"color_path"`
	ColorCode      string   `mapstructure:"color_code"`
	ColorDirective string   `mapstructure:"color_directive"`
	ColorDim       string   `mapstructure:"color_dim"`
	ColorBorder    string   `mapstructure:"color_border"`
	ColorCursor    string   `mapstructure:"color_cursor"`
	ColorSelected  string   `mapstructure:"color_selected"`
}

// C is the global config instance
var C Config

// Init initializes configuration with viper
func Init() error {
	viper.SetDefault("lang", "")
	viper.SetDefault("relaxed", false)
	viper.SetDefault("jobs", runtime.NumCPU())
	viper.SetDefault("exclude", []string{})
	viper.SetDefault("output", "text")
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("log_file", "")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("metrics_file", "")
	viper.SetDefault("color_path", "36")      // Cyan
	viper.SetDefault("color_code", "32")      // Green
	viper.SetDefault("color_directive", "35") // Magenta
	viper.SetDefault("color_dim", "90")       // Gray
	viper.SetDefault("color_border", "240")
	viper.SetDefault("color_cursor", "212")
	viper.SetDefault("color_selected", "236")

	viper.SetConfigName("sloclass")
	viper.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "sloclass"))
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("SLOCLASS")
	viper.AutomaticEnv()

	// Try to read config, but don't fail if not found or malformed
	_ = viper.ReadInConfig()

	return viper.Unmarshal(&C)
}

// expandTilde expands ~ to the user's home directory
func expandTilde(path string) string {
	if len(path) == 0 {
		return path
	}
	if path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetLanguage returns the forced language name, empty to detect per file
func GetLanguage() string {
	return viper.GetString("lang")
}

// GetRelaxed returns whether inputs may end inside a comment or literal
func GetRelaxed() bool {
	return viper.GetBool("relaxed")
}

// GetJobs returns the number of files scanned in parallel
func GetJobs() int {
	if n := viper.GetInt("jobs"); n > 0 {
		return n
	}
	return 1
}

// GetExclude returns the paths and globs left out of directory walks
func GetExclude() []string {
	return viper.GetStringSlice("exclude")
}

// GetOutput returns the report format
func GetOutput() string {
	return viper.GetString("output")
}

// GetMetricsFile returns where scan metrics are written, with tilde expansion
func GetMetricsFile() string {
	return expandTilde(viper.GetString("metrics_file"))
}

// GetLogConfig returns the logger settings
func GetLogConfig() *log.Config {
	return &log.Config{
		Level:  viper.GetString("log_level"),
		File:   expandTilde(viper.GetString("log_file")),
		Format: viper.GetString("log_format"),
	}
}

// GetColorPath returns ANSI color code for file paths
func GetColorPath() string {
	return viper.GetString("color_path")
}

// GetColorCode returns ANSI color code for code lines
func GetColorCode() string {
	return viper.GetString("color_code")
}

// GetColorDirective returns ANSI color code for preprocessor directives
func GetColorDirective() string {
	return viper.GetString("color_directive")
}

// GetColorDim returns ANSI color code for secondary text
func GetColorDim() string {
	return viper.GetString("color_dim")
}

// GetColorBorder returns ANSI color code for borders
func GetColorBorder() string {
	return viper.GetString("color_border")
}

// GetColorCursor returns ANSI color code for the cursor
func GetColorCursor() string {
	return viper.GetString("color_cursor")
}

// GetColorSelected returns ANSI background color for the selected row
func GetColorSelected() string {
	return viper.GetString("color_selected")
}

// SetOutput sets output mode at runtime
func SetOutput(mode string) {
	viper.Set("output", mode)
	C.Output = mode
}

// SetLanguage sets the forced language at runtime
func SetLanguage(name string) {
	viper.Set("lang", name)
	C.Language = name
}

// SetRelaxed sets relaxed mode at runtime
func SetRelaxed(relaxed bool) {
	viper.Set("relaxed", relaxed)
	C.Relaxed = relaxed
}
