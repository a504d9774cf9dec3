package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/powerclean/internal/config"
	"github.com/KaramelBytes/powerclean/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logFormat string

	// Loaded configuration
	cfg *cfgpkg.Global
	// Structured logger on stderr; replaced once config is loaded
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

var rootCmd = &cobra.Command{
	Use:           "powerclean",
	Short:         "powerclean: inspect and clean household power consumption data",
	Long:          `powerclean loads the household power consumption time series, reports descriptive statistics, merges Date/Time into one timestamp, coerces measurements to numbers and fills missing readings with column means.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.powerclean/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text|json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to defaults via effectiveConfig
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
	} else {
		cfg = c
	}

	lc := logging.Config{Level: "info", Format: "text"}
	if cfg != nil {
		lc.Level = cfg.LogLevel
		lc.Format = cfg.LogFormat
	}
	f := rootCmd.PersistentFlags()
	if f.Changed("debug") && debug {
		lc.Level = "debug"
	}
	if f.Changed("log-format") && logFormat != "" {
		lc.Format = logFormat
	}
	l, err := logging.New(rootCmd.ErrOrStderr(), lc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v; using text logs\n", err)
		l = slog.New(slog.NewTextHandler(rootCmd.ErrOrStderr(), nil))
	}
	logger = l
}

// effectiveConfig returns the loaded config, or defaults when loading failed.
func effectiveConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load("")
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}
