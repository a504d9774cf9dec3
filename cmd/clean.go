package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/powerclean/internal/clean"
	cfgpkg "github.com/KaramelBytes/powerclean/internal/config"
	"github.com/KaramelBytes/powerclean/internal/dataset"
	"github.com/KaramelBytes/powerclean/internal/export"
	"github.com/KaramelBytes/powerclean/internal/manifest"
	"github.com/KaramelBytes/powerclean/internal/utils"
	"github.com/spf13/cobra"
)

var (
	clnDelimiter     string
	clnOutput        string
	clnFormat        string
	clnSheet         string
	clnReport        string
	clnHead          int
	clnMaxRows       int
	clnSkipMalformed bool
	clnOnBadTS       string
	clnOnEmpty       string
	clnNoManifest    bool
	clnQuiet         bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean [files...]",
	Short: "Merge Date/Time, coerce measurements and impute missing values",
	Long: `Runs the cleaning sequence on each input file: report, merge Date and Time into
Datetime, coerce the measurement columns to numbers, fill missing readings with the
column mean, report again. With no arguments the configured input_path is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := effectiveConfig()
		if err != nil {
			return err
		}
		c := *base
		if err := applyCleanFlags(cmd, &c); err != nil {
			return err
		}
		loadOpt, err := c.LoadOptions()
		if err != nil {
			return err
		}
		pipeOpt, err := c.PipelineOptions()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			p, err := utils.ExpandHome(c.InputPath)
			if err != nil {
				return err
			}
			args = []string{p}
		}
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		multi := len(files) > 1

		out := cmd.OutOrStdout()
		for i, path := range files {
			if !clnQuiet && multi {
				fmt.Fprintf(out, "[%d/%d] Cleaning %s...\n", i+1, len(files), filepath.Base(path))
			}
			if err := cleanOne(cmd, &c, path, multi, loadOpt, pipeOpt); err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			}
		}
		return nil
	},
}

func cleanOne(cmd *cobra.Command, c *cfgpkg.Global, path string, multi bool, loadOpt dataset.LoadOptions, pipeOpt clean.Options) error {
	out := cmd.OutOrStdout()
	m := manifest.New(path)
	ds, err := dataset.Load(path, loadOpt)
	if err != nil {
		return err
	}

	var reportW io.Writer
	var reportBuf bytes.Buffer
	switch {
	case clnReport != "":
		reportW = &reportBuf
	case !clnQuiet:
		reportW = out
	}
	res, err := clean.New(pipeOpt, reportW, logger).Run(ds)
	if err != nil {
		return err
	}
	m.Record(res)

	if clnReport != "" {
		rp := clnReport
		if multi {
			rp = filepath.Join(clnReport, stem(path)+".report.md")
		}
		if err := utils.SafeWriteFile(rp, reportBuf.Bytes()); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		if !clnQuiet {
			fmt.Fprintf(out, "✓ Wrote report to %s\n", rp)
		}
	}

	if clnOutput == "" {
		return nil
	}
	op, format, err := outputPath(clnOutput, clnFormat, path, multi)
	if err != nil {
		return err
	}
	delim := loadOpt.Delimiter
	if err := export.Write(op, res.Dataset, export.Options{Format: format, Delimiter: delim, Sheet: clnSheet}); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	logger.Info("dataset exported", slog.String("path", op), slog.String("format", string(format)), slog.Int("rows", res.Dataset.Rows()))
	if !clnQuiet {
		fmt.Fprintf(out, "✓ Wrote cleaned dataset to %s\n", op)
	}
	if !c.WriteManifest {
		return nil
	}
	m.Output = op
	m.Format = string(format)
	mp := manifest.PathFor(op)
	if err := m.Save(mp); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if !clnQuiet {
		fmt.Fprintf(out, "✓ %s (manifest %s)\n", m.Summary(), filepath.Base(mp))
	}
	return nil
}

func applyCleanFlags(cmd *cobra.Command, c *cfgpkg.Global) error {
	f := cmd.Flags()
	if f.Changed("delimiter") {
		c.Delimiter = clnDelimiter
	}
	if f.Changed("head") && clnHead > 0 {
		c.HeadRows = clnHead
	}
	if f.Changed("max-rows") {
		c.MaxRows = clnMaxRows
	}
	if f.Changed("skip-malformed") {
		c.SkipMalformed = clnSkipMalformed
	}
	if f.Changed("on-bad-timestamp") {
		c.OnBadTimestamp = strings.ToLower(strings.TrimSpace(clnOnBadTS))
	}
	if f.Changed("on-empty-column") {
		c.OnEmptyColumn = strings.ToLower(strings.TrimSpace(clnOnEmpty))
	}
	if f.Changed("no-manifest") && clnNoManifest {
		c.WriteManifest = false
	}
	if clnFormat != "" {
		switch export.Format(strings.ToLower(clnFormat)) {
		case export.FormatCSV, export.FormatJSON, export.FormatXLSX:
		default:
			return fmt.Errorf("unsupported --format: %s (use csv|json|xlsx)", clnFormat)
		}
	}
	return nil
}

// expandInputs resolves globs and literal paths, de-duplicated and sorted.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// keep literal paths so a missing file surfaces as an IOError
			matches = []string{arg}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// outputPath resolves the export path. With several inputs, output is a directory.
func outputPath(output, format, src string, multi bool) (string, export.Format, error) {
	f := export.Format(strings.ToLower(format))
	if !multi {
		if f == "" {
			detected, err := export.DetectFormat(output)
			if err != nil {
				return "", "", err
			}
			f = detected
		}
		return output, f, nil
	}
	if f == "" {
		f = export.FormatCSV
	}
	return filepath.Join(output, stem(src)+".cleaned."+string(f)), f, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVar(&clnDelimiter, "delimiter", "", "input delimiter: ';' | ',' | 'tab' | '|' (overrides config)")
	cleanCmd.Flags().StringVarP(&clnOutput, "output", "o", "", "write the cleaned dataset here (.csv|.txt|.json|.xlsx); a directory when cleaning several files")
	cleanCmd.Flags().StringVar(&clnFormat, "format", "", "output format: csv|json|xlsx (default: from --output extension)")
	cleanCmd.Flags().StringVar(&clnSheet, "sheet", "cleaned", "XLSX: sheet name for the cleaned dataset")
	cleanCmd.Flags().StringVar(&clnReport, "report", "", "write reports to this file instead of stdout; a directory when cleaning several files")
	cleanCmd.Flags().IntVar(&clnHead, "head", 5, "rows shown in head and tail")
	cleanCmd.Flags().IntVar(&clnMaxRows, "max-rows", 0, "maximum rows to load (0 = unlimited)")
	cleanCmd.Flags().BoolVar(&clnSkipMalformed, "skip-malformed", false, "skip rows with the wrong number of fields instead of failing")
	cleanCmd.Flags().StringVar(&clnOnBadTS, "on-bad-timestamp", "fail", "unparseable Date/Time: fail|missing")
	cleanCmd.Flags().StringVar(&clnOnEmpty, "on-empty-column", "fail", "column with no values to average: fail|skip")
	cleanCmd.Flags().BoolVar(&clnNoManifest, "no-manifest", false, "do not write <output>.manifest.json")
	cleanCmd.Flags().BoolVar(&clnQuiet, "quiet", false, "suppress reports and progress output")
}
