package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pingcap/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/gubarz/sloclass/internal/config"
	"github.com/gubarz/sloclass/internal/lang"
	"github.com/gubarz/sloclass/internal/log"
	"github.com/gubarz/sloclass/internal/report"
	"github.com/gubarz/sloclass/internal/scan"
	"github.com/gubarz/sloclass/internal/ui"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "sloclass [paths...]",
	Short: "Count source lines of code in C, C++, Fortran and assembly",
	Long: `Classifies every line of C, C++, fixed-form Fortran and assembly
sources as blank, preprocessor directive or code, and counts the
physical lines that carry code.

Comments are stripped, whitespace is collapsed and continued lines
are joined before a line is classified.`,
	PersistentPreRunE: initLogger,
	RunE:              runScan,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

var linesCmd = &cobra.Command{
	Use:   "lines <file>",
	Short: "Print every logical line of a file with its interval and category",
	Args:  cobra.ExactArgs(1),
	RunE:  runLines,
}

var browseCmd = &cobra.Command{
	Use:   "browse <file>",
	Short: "Browse the logical lines of a file interactively",
	Args:  cobra.ExactArgs(1),
	RunE:  runBrowse,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(linesCmd, browseCmd)

	flags := rootCmd.PersistentFlags()
	flags.String("lang", "", "Force the language: "+fmt.Sprint(lang.Names()))
	flags.Bool("relaxed", false, "Accept files that end inside a comment or literal")
	flags.IntP("jobs", "j", 0, "Files classified in parallel (default: number of CPUs)")
	flags.StringSlice("exclude", nil, "Path, path prefix or base-name glob to skip (repeatable)")
	flags.StringP("output", "o", "", "Report format: text, csv, json")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-file", "", "Log to this file instead of stderr")
	flags.String("log-format", "", "Log format: text, json")
	flags.String("metrics-file", "", "Write scan metrics to this file in Prometheus text format")

	for key, name := range map[string]string{
		"lang":         "lang",
		"relaxed":      "relaxed",
		"jobs":         "jobs",
		"exclude":      "exclude",
		"output":       "output",
		"log_level":    "log-level",
		"log_file":     "log-file",
		"log_format":   "log-format",
		"metrics_file": "metrics-file",
	} {
		viper.BindPFlag(key, flags.Lookup(name))
	}
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}
}

func initLogger(cmd *cobra.Command, args []string) error {
	return log.InitAppLogger(config.GetLogConfig())
}

// language returns the forced language, or "" to detect per file.
func language() (lang.Language, error) {
	name := config.GetLanguage()
	if name == "" {
		return "", nil
	}
	return lang.Parse(name)
}

func fileLanguage(path string) (lang.Language, error) {
	l, err := language()
	if err != nil || l != "" {
		return l, err
	}
	return lang.Detect(path)
}

func runScan(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	l, err := language()
	if err != nil {
		return err
	}
	mode, err := report.ParseOutputMode(config.GetOutput())
	if err != nil {
		return err
	}
	registry := prometheus.NewRegistry()
	scan.RegisterMetrics(registry)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := scan.NewScanner(scan.Options{
		Language: l,
		Relaxed:  config.GetRelaxed(),
		Jobs:     config.GetJobs(),
		Exclude:  config.GetExclude(),
	})
	idx, err := s.ScanPaths(ctx, paths)
	if err != nil {
		return err
	}

	r := report.NewReporter(os.Stdout, mode).WithStyles(
		ui.ParseANSIColor(config.GetColorPath()),
		ui.ParseANSIColor(config.GetColorDim()))
	if err := r.Write(idx); err != nil {
		return err
	}

	if path := config.GetMetricsFile(); path != "" {
		if err := scan.WriteMetrics(registry, path); err != nil {
			log.Error("failed to write metrics", zap.String("file", path), zap.Error(err))
		}
	}

	if idx.Failed > 0 {
		return errors.Errorf("%d of %d files could not be classified", idx.Failed, len(idx.Files))
	}
	return nil
}

func runLines(cmd *cobra.Command, args []string) error {
	path := args[0]
	l, err := fileLanguage(path)
	if err != nil {
		return err
	}
	lines, sum, err := scan.Lines(path, l, config.GetRelaxed())
	if err != nil {
		return err
	}
	return report.WriteLines(os.Stdout, path, lines, sum)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	path := args[0]
	l, err := fileLanguage(path)
	if err != nil {
		return err
	}
	lines, _, err := scan.Lines(path, l, config.GetRelaxed())
	if err != nil {
		return err
	}
	physical, err := scan.PhysicalLines(path)
	if err != nil {
		return err
	}
	return ui.Browse(path, lines, physical)
}

func main() {
	rootCmd.Version = version
	err := rootCmd.Execute()
	_ = log.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
