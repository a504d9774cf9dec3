package cmd

import (
	"fmt"

	"github.com/KaramelBytes/powerclean/internal/analysis"
	"github.com/KaramelBytes/powerclean/internal/dataset"
	"github.com/KaramelBytes/powerclean/internal/utils"
	"github.com/spf13/cobra"
)

var (
	insDelimiter  string
	insHead       int
	insMaxRows    int
	insOutputPath string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Load a file and report shape, statistics and missing values without cleaning",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := effectiveConfig()
		if err != nil {
			return err
		}
		loadOpt, err := c.LoadOptions()
		if err != nil {
			return err
		}
		f := cmd.Flags()
		if f.Changed("delimiter") {
			d, err := parseDelimiterFlag(insDelimiter)
			if err != nil {
				return err
			}
			loadOpt.Delimiter = d
		}
		if f.Changed("max-rows") {
			loadOpt.MaxRows = insMaxRows
		}
		opt := analysis.DefaultOptions()
		if c.HeadRows > 0 {
			opt.HeadRows = c.HeadRows
		}
		if f.Changed("head") && insHead > 0 {
			opt.HeadRows = insHead
		}

		ds, err := dataset.Load(args[0], loadOpt)
		if err != nil {
			return err
		}
		md := analysis.Inspect(ds, opt).Markdown()
		if insOutputPath != "" {
			if err := utils.SafeWriteFile(insOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report to %s\n", insOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&insDelimiter, "delimiter", "", "input delimiter: ';' | ',' | 'tab' | '|' (overrides config)")
	inspectCmd.Flags().IntVar(&insHead, "head", 5, "rows shown in head and tail")
	inspectCmd.Flags().IntVar(&insMaxRows, "max-rows", 0, "maximum rows to load (0 = unlimited)")
	inspectCmd.Flags().StringVarP(&insOutputPath, "output", "o", "", "optional path to write the report")
}
