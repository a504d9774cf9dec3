package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/KaramelBytes/powerclean/internal/dataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Options controls report contents.
type Options struct {
	// HeadRows determines how many leading and trailing rows to include.
	HeadRows int
}

// DefaultOptions returns reasonable defaults for dataset inspection.
func DefaultOptions() Options {
	return Options{HeadRows: 5}
}

// Report is a markdown-friendly description of a dataset at one point in the pipeline.
type Report struct {
	Name     string
	Title    string
	Rows     int
	Columns  []string
	Head     [][]string
	Tail     [][]string
	Cols     []ColumnSummary
	Warnings []string
}

// ColumnSummary captures inferred type and statistics per column.
type ColumnSummary struct {
	Name       string
	Kind       dataset.Kind
	NonNull    int
	Missing    int
	MissingPct float64
	// Numeric stats; NaN when the column has no values.
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
	// Datetime range
	First time.Time
	Last  time.Time
	// Text top value
	Unique int
	Top    string
	Freq   int
}

// Inspect describes ds without modifying it.
func Inspect(ds *dataset.Dataset, opt Options) *Report {
	rep := &Report{}
	if ds == nil {
		return rep
	}
	rep.Name = ds.Name
	rep.Rows = ds.Rows()
	rep.Columns = ds.Names()
	if ds.Skipped > 0 {
		rep.Warnings = append(rep.Warnings, skippedWarning(ds.Skipped))
	}

	n := opt.HeadRows
	if n <= 0 {
		n = 5
	}
	for i := 0; i < rep.Rows && i < n; i++ {
		rep.Head = append(rep.Head, ds.Row(i))
	}
	for i := max(rep.Rows-n, 0); i < rep.Rows; i++ {
		rep.Tail = append(rep.Tail, ds.Row(i))
	}

	rep.Cols = make([]ColumnSummary, 0, len(ds.Columns))
	for _, c := range ds.Columns {
		rep.Cols = append(rep.Cols, summarize(c, rep.Rows))
	}
	return rep
}

// Summary returns the summary for the named column.
func (r *Report) Summary(name string) (ColumnSummary, bool) {
	for _, c := range r.Cols {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSummary{}, false
}

// TotalMissing sums missing markers across all columns.
func (r *Report) TotalMissing() int {
	total := 0
	for _, c := range r.Cols {
		total += c.Missing
	}
	return total
}

func summarize(c *dataset.Column, rows int) ColumnSummary {
	s := ColumnSummary{Name: c.Name, Kind: c.Kind}
	s.Missing = c.Missing()
	s.NonNull = rows - s.Missing
	if rows > 0 {
		s.MissingPct = float64(s.Missing) * 100.0 / float64(rows)
	}
	switch c.Kind {
	case dataset.KindNumeric:
		describeNumeric(&s, c.Num)
	case dataset.KindDatetime:
		for _, t := range c.Time {
			if t.IsZero() {
				continue
			}
			if s.First.IsZero() || t.Before(s.First) {
				s.First = t
			}
			if t.After(s.Last) {
				s.Last = t
			}
		}
	default:
		describeText(&s, c)
	}
	return s
}

func describeNumeric(s *ColumnSummary, nums []float64) {
	vals := make([]float64, 0, len(nums))
	for _, v := range nums {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max = nan, nan, nan, nan, nan, nan, nan
		return
	}
	s.Mean, s.Std = stat.MeanStdDev(vals, nil)
	if len(vals) < 2 {
		s.Std = math.NaN()
	}
	s.Min = floats.Min(vals)
	s.Max = floats.Max(vals)
	sort.Float64s(vals)
	s.Q1 = quantile(vals, 0.25)
	s.Median = quantile(vals, 0.5)
	s.Q3 = quantile(vals, 0.75)
}

func describeText(s *ColumnSummary, c *dataset.Column) {
	counts := make(map[string]int)
	for i, v := range c.Text {
		if c.Null[i] {
			continue
		}
		counts[v]++
	}
	s.Unique = len(counts)
	for v, n := range counts {
		if n > s.Freq || (n == s.Freq && v < s.Top) {
			s.Top, s.Freq = v, n
		}
	}
}

// quantile interpolates linearly between the closest ranks of a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
