package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/powerclean/internal/clean"
	cfgpkg "github.com/KaramelBytes/powerclean/internal/config"
	"github.com/KaramelBytes/powerclean/internal/logging"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set powerclean configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "input_path: %s\n", cfg.InputPath)
		fmt.Fprintf(w, "delimiter: %q\n", cfg.Delimiter)
		fmt.Fprintf(w, "null_tokens: %q\n", cfg.NullTokens)
		if cfg.MaxRows > 0 {
			fmt.Fprintf(w, "max_rows: %d\n", cfg.MaxRows)
		}
		fmt.Fprintf(w, "skip_malformed: %t\n", cfg.SkipMalformed)
		fmt.Fprintf(w, "date_column: %s\n", cfg.DateColumn)
		fmt.Fprintf(w, "time_column: %s\n", cfg.TimeColumn)
		fmt.Fprintf(w, "datetime_column: %s\n", cfg.DatetimeColumn)
		fmt.Fprintf(w, "datetime_layout: %s\n", cfg.DatetimeLayout)
		fmt.Fprintf(w, "on_bad_timestamp: %s\n", cfg.OnBadTimestamp)
		fmt.Fprintf(w, "numeric_columns: %s\n", strings.Join(cfg.NumericColumns, ","))
		fmt.Fprintf(w, "impute_columns: %s\n", strings.Join(cfg.ImputeColumns, ","))
		fmt.Fprintf(w, "on_empty_column: %s\n", cfg.OnEmptyColumn)
		fmt.Fprintf(w, "head_rows: %d\n", cfg.HeadRows)
		fmt.Fprintf(w, "write_manifest: %t\n", cfg.WriteManifest)
		fmt.Fprintf(w, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(w, "log_format: %s\n", cfg.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "input_path":
			cfg.InputPath = val
		case "delimiter":
			if _, err := cfgpkg.ParseDelimiter(val); err != nil {
				return err
			}
			cfg.Delimiter = val
		case "null_tokens":
			cfg.NullTokens = splitList(val)
		case "max_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_rows: %v", val)
			}
			cfg.MaxRows = i
		case "skip_malformed", "write_manifest":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for %s: %w", key, err)
			}
			if key == "skip_malformed" {
				cfg.SkipMalformed = b
			} else {
				cfg.WriteManifest = b
			}
		case "date_column":
			cfg.DateColumn = val
		case "time_column":
			cfg.TimeColumn = val
		case "datetime_column":
			cfg.DatetimeColumn = val
		case "datetime_layout":
			cfg.DatetimeLayout = val
		case "on_bad_timestamp":
			p, err := clean.ParsePolicy(strings.ToLower(val), clean.PolicyFail, clean.PolicyMissing)
			if err != nil {
				return err
			}
			cfg.OnBadTimestamp = string(p)
		case "on_empty_column":
			p, err := clean.ParsePolicy(strings.ToLower(val), clean.PolicyFail, clean.PolicySkip)
			if err != nil {
				return err
			}
			cfg.OnEmptyColumn = string(p)
		case "numeric_columns":
			cfg.NumericColumns = splitList(val)
		case "impute_columns":
			cfg.ImputeColumns = splitList(val)
		case "head_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for head_rows: %v", val)
			}
			cfg.HeadRows = i
		case "log_level":
			if _, err := logging.ParseLevel(val); err != nil {
				return err
			}
			cfg.LogLevel = strings.ToLower(val)
		case "log_format":
			switch strings.ToLower(val) {
			case "text", "json":
				cfg.LogFormat = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDelimiterFlag(s string) (rune, error) {
	d, err := cfgpkg.ParseDelimiter(s)
	if err != nil {
		return 0, fmt.Errorf("unsupported --delimiter: %s", s)
	}
	return d, nil
}
