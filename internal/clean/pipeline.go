package clean

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/KaramelBytes/powerclean/internal/analysis"
	"github.com/KaramelBytes/powerclean/internal/dataset"
)

// NumericColumns are the measurement columns stored as text in the raw file.
var NumericColumns = []string{
	"Global_active_power", "Global_reactive_power", "Voltage", "Global_intensity",
	"Sub_metering_1", "Sub_metering_2",
}

// ImputeColumns are the measurement columns filled with their mean.
var ImputeColumns = append(append([]string{}, NumericColumns...), "Sub_metering_3")

// Options configures a Pipeline.
type Options struct {
	Merge   MergeOptions
	Numeric []string
	Impute  []string
	// OnEmptyColumn is PolicyFail or PolicySkip.
	OnEmptyColumn Policy
	Inspect       analysis.Options
}

// DefaultOptions returns the household power consumption cleaning sequence.
func DefaultOptions() Options {
	return Options{
		Merge:         DefaultMergeOptions(),
		Numeric:       append([]string{}, NumericColumns...),
		Impute:        append([]string{}, ImputeColumns...),
		OnEmptyColumn: PolicyFail,
		Inspect:       analysis.DefaultOptions(),
	}
}

// Result carries the cleaned dataset and everything observed on the way.
type Result struct {
	Dataset     *dataset.Dataset
	Before      *analysis.Report
	After       *analysis.Report
	Merge       MergeStats
	Coerce      CoerceStats
	Imputations []Imputation
}

// Pipeline runs merge, coerce and impute in a fixed order, reporting before and after.
type Pipeline struct {
	opt Options
	out io.Writer
	log *slog.Logger
}

// New constructs a Pipeline. Reports are written to out when it is non-nil.
func New(opt Options, out io.Writer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{opt: opt, out: out, log: logger}
}

// Run cleans ds. ds itself is never modified.
func (p *Pipeline) Run(ds *dataset.Dataset) (*Result, error) {
	res := &Result{}
	log := p.log.With(slog.String("dataset", ds.Name))

	res.Before = p.inspect(ds, "loaded")
	log.Info("dataset loaded", slog.Int("rows", ds.Rows()), slog.Int("columns", len(ds.Columns)), slog.Int("skipped", ds.Skipped))

	merged, ms, err := MergeDateTime(ds, p.opt.Merge)
	if err != nil {
		return nil, fmt.Errorf("merge date/time: %w", err)
	}
	res.Merge = ms
	if len(ms.BadRows) > 0 {
		log.Warn("unparseable timestamps marked missing", slog.Int("rows", len(ms.BadRows)))
	}
	log.Debug("merged date/time", slog.String("target", p.opt.Merge.Target))

	coerced, cs, err := CoerceNumeric(merged, p.opt.Numeric)
	if err != nil {
		return nil, fmt.Errorf("coerce numeric: %w", err)
	}
	res.Coerce = cs
	for _, name := range p.opt.Numeric {
		if cs[name] > 0 {
			log.Debug("coerced column", slog.String("column", name), slog.Int("unparsed", cs[name]))
		}
	}

	imputed, imps, err := ImputeMeanFill(coerced, p.opt.Impute, p.opt.OnEmptyColumn)
	if err != nil {
		return nil, fmt.Errorf("impute: %w", err)
	}
	res.Imputations = imps
	for _, im := range imps {
		if im.Empty {
			log.Warn("column has no values; left missing", slog.String("column", im.Column))
			continue
		}
		log.Debug("imputed column", slog.String("column", im.Column), slog.Float64("mean", im.Mean), slog.Int("filled", im.Filled))
	}

	res.Dataset = imputed
	res.After = p.inspect(imputed, "cleaned")
	log.Info("dataset cleaned", slog.Int("rows", imputed.Rows()), slog.Int("missing", res.After.TotalMissing()))
	return res, nil
}

func (p *Pipeline) inspect(ds *dataset.Dataset, stage string) *analysis.Report {
	rep := analysis.Inspect(ds, p.opt.Inspect)
	rep.Title = stage
	if p.out != nil {
		fmt.Fprintln(p.out, rep.Markdown())
	}
	return rep
}
