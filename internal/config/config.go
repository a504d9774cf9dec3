package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/powerclean/internal/clean"
	"github.com/KaramelBytes/powerclean/internal/dataset"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	InputPath     string   `mapstructure:"input_path" yaml:"input_path"`
	Delimiter     string   `mapstructure:"delimiter" yaml:"delimiter"`
	NullTokens    []string `mapstructure:"null_tokens" yaml:"null_tokens"`
	MaxRows       int      `mapstructure:"max_rows" yaml:"max_rows"`
	SkipMalformed bool     `mapstructure:"skip_malformed" yaml:"skip_malformed"`

	// Date/time merge
	DateColumn     string `mapstructure:"date_column" yaml:"date_column"`
	TimeColumn     string `mapstructure:"time_column" yaml:"time_column"`
	DatetimeColumn string `mapstructure:"datetime_column" yaml:"datetime_column"`
	DatetimeLayout string `mapstructure:"datetime_layout" yaml:"datetime_layout"`
	OnBadTimestamp string `mapstructure:"on_bad_timestamp" yaml:"on_bad_timestamp"`

	// Coercion and imputation
	NumericColumns []string `mapstructure:"numeric_columns" yaml:"numeric_columns"`
	ImputeColumns  []string `mapstructure:"impute_columns" yaml:"impute_columns"`
	OnEmptyColumn  string   `mapstructure:"on_empty_column" yaml:"on_empty_column"`

	// Reporting and output
	HeadRows      int    `mapstructure:"head_rows" yaml:"head_rows"`
	WriteManifest bool   `mapstructure:"write_manifest" yaml:"write_manifest"`
	LogLevel      string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat     string `mapstructure:"log_format" yaml:"log_format"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.powerclean/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults; CLI flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("POWERCLEAN")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("input_path", "household_power_consumption.txt")
	v.SetDefault("delimiter", ";")
	v.SetDefault("null_tokens", dataset.DefaultNullTokens)
	v.SetDefault("max_rows", 0)
	v.SetDefault("skip_malformed", false)
	v.SetDefault("date_column", "Date")
	v.SetDefault("time_column", "Time")
	v.SetDefault("datetime_column", "Datetime")
	v.SetDefault("datetime_layout", clean.DefaultDateTimeLayout)
	v.SetDefault("on_bad_timestamp", string(clean.PolicyFail))
	v.SetDefault("numeric_columns", clean.NumericColumns)
	v.SetDefault("impute_columns", clean.ImputeColumns)
	v.SetDefault("on_empty_column", string(clean.PolicyFail))
	v.SetDefault("head_rows", 5)
	v.SetDefault("write_manifest", true)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".powerclean"), nil
}

// ParseDelimiter accepts a single character or one of the names "tab", "comma", "semicolon".
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case ";", "semicolon":
		return ';', nil
	case ",", "comma":
		return ',', nil
	case "\t", "tab", `\t`:
		return '\t', nil
	case "|", "pipe":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %q (use ';'|','|'tab'|'|')", s)
	}
}

// LoadOptions derives dataset loading options.
func (c *Global) LoadOptions() (dataset.LoadOptions, error) {
	delim, err := ParseDelimiter(c.Delimiter)
	if err != nil {
		return dataset.LoadOptions{}, err
	}
	return dataset.LoadOptions{
		Delimiter:     delim,
		NullTokens:    c.NullTokens,
		MaxRows:       c.MaxRows,
		SkipMalformed: c.SkipMalformed,
	}, nil
}

// PipelineOptions derives the cleaning sequence.
func (c *Global) PipelineOptions() (clean.Options, error) {
	opt := clean.DefaultOptions()
	onBad, err := clean.ParsePolicy(c.OnBadTimestamp, clean.PolicyFail, clean.PolicyMissing)
	if err != nil {
		return opt, fmt.Errorf("on_bad_timestamp: %w", err)
	}
	onEmpty, err := clean.ParsePolicy(c.OnEmptyColumn, clean.PolicyFail, clean.PolicySkip)
	if err != nil {
		return opt, fmt.Errorf("on_empty_column: %w", err)
	}
	opt.Merge = clean.MergeOptions{
		DateColumn: c.DateColumn,
		TimeColumn: c.TimeColumn,
		Target:     c.DatetimeColumn,
		Layout:     c.DatetimeLayout,
		OnError:    onBad,
	}
	opt.Numeric = c.NumericColumns
	opt.Impute = c.ImputeColumns
	opt.OnEmptyColumn = onEmpty
	if c.HeadRows > 0 {
		opt.Inspect.HeadRows = c.HeadRows
	}
	return opt, nil
}
