package log

import (
	"os"
	"strings"

	"github.com/pingcap/errors"
	pclog "github.com/pingcap/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	appLogger = Logger{zap.NewNop()}
	appLevel  = zap.NewAtomicLevel()
)

// Logger wraps the zap logger.
type Logger struct {
	*zap.Logger
}

// Zap returns the global logger.
func Zap() Logger {
	return appLogger
}

// Config holds logging settings.
type Config struct {
	// Log level.
	// One of "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Log filename, leave empty to log to stderr.
	File string `mapstructure:"file"`
	// Max size for a single file, in MB.
	FileMaxSize int `mapstructure:"max_size"`
	// Max log keep days, default is never deleting.
	FileMaxDays int `mapstructure:"max_days"`
	// Maximum number of old log files to retain.
	FileMaxBackups int `mapstructure:"max_backups"`
	// Format of the log, one of `text`, `json` or `console`.
	Format string `mapstructure:"format"`
}

// InitAppLogger builds the global logger from cfg. Without a file the log
// goes to stderr so that reports on stdout stay clean.
func InitAppLogger(cfg *Config) error {
	if cfg.File != "" {
		logger, props, err := pclog.InitLogger(&pclog.Config{
			Level: cfg.Level,
			File: pclog.FileLogConfig{
				Filename:   cfg.File,
				MaxSize:    cfg.FileMaxSize,
				MaxDays:    cfg.FileMaxDays,
				MaxBackups: cfg.FileMaxBackups,
			},
			Format: cfg.Format,
		})
		if err != nil {
			return errors.Trace(err)
		}
		appLogger = Logger{logger.WithOptions(zap.AddCallerSkip(1))}
		appLevel = props.Level
		return nil
	}

	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(levelOrDefault(cfg.Level))); err != nil {
		return errors.Annotatef(err, "invalid log level %q", cfg.Level)
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if strings.EqualFold(cfg.Format, "json") {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level)
	appLogger = Logger{zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))}
	appLevel = level
	return nil
}

func levelOrDefault(level string) string {
	if level == "" {
		return "warn"
	}
	return level
}

// SetAppLogger replaces the global logger.
func SetAppLogger(logger *zap.Logger) {
	appLogger = Logger{logger}
}

// ChangeAppLogLevel changes the global logger's level.
func ChangeAppLogLevel(level zapcore.Level) {
	appLevel.SetLevel(level)
}

// Sync flushes buffered entries.
func Sync() error {
	return appLogger.Sync()
}

// Info wraps *zap.Logger's Info function.
func Info(msg string, fields ...zap.Field) {
	appLogger.Info(msg, fields...)
}

// Warn wraps *zap.Logger's Warn function.
func Warn(msg string, fields ...zap.Field) {
	appLogger.Warn(msg, fields...)
}

// Error wraps *zap.Logger's Error function.
func Error(msg string, fields ...zap.Field) {
	appLogger.Error(msg, fields...)
}

// Debug wraps *zap.Logger's Debug function.
func Debug(msg string, fields ...zap.Field) {
	appLogger.Debug(msg, fields...)
}
