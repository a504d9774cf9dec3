package clean

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/powerclean/internal/dataset"
)

// Policy selects how a recoverable failure is handled.
type Policy string

const (
	// PolicyFail aborts the operation on the first failure.
	PolicyFail Policy = "fail"
	// PolicyMissing writes a missing marker for the failing cell.
	PolicyMissing Policy = "missing"
	// PolicySkip leaves the affected column untouched.
	PolicySkip Policy = "skip"
)

// ParsePolicy validates a policy name against the allowed set.
func ParsePolicy(s string, allowed ...Policy) (Policy, error) {
	for _, p := range allowed {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid policy %q (use %v)", s, allowed)
}

// DefaultDateTimeLayout is day/month/year hour:minute:second.
const DefaultDateTimeLayout = "02/01/2006 15:04:05"

// MergeOptions names the columns combined into one timestamp.
type MergeOptions struct {
	DateColumn string
	TimeColumn string
	Target     string
	Layout     string
	// OnError is PolicyFail or PolicyMissing.
	OnError Policy
}

// DefaultMergeOptions returns the household power consumption layout.
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{
		DateColumn: "Date",
		TimeColumn: "Time",
		Target:     "Datetime",
		Layout:     DefaultDateTimeLayout,
		OnError:    PolicyFail,
	}
}

// MergeStats reports rows whose timestamp could not be parsed.
type MergeStats struct {
	BadRows []int
}

// MergeDateTime joins the date and time text columns with a single space, parses the
// result, appends it as the target column and drops the two sources. The input is
// not modified.
func MergeDateTime(ds *dataset.Dataset, opt MergeOptions) (*dataset.Dataset, MergeStats, error) {
	var st MergeStats
	if opt.Layout == "" {
		opt.Layout = DefaultDateTimeLayout
	}
	if opt.Target == "" {
		opt.Target = "Datetime"
	}
	dc, err := ds.Column(opt.DateColumn)
	if err != nil {
		return nil, st, err
	}
	tc, err := ds.Column(opt.TimeColumn)
	if err != nil {
		return nil, st, err
	}
	if dc.Kind == dataset.KindDatetime || tc.Kind == dataset.KindDatetime {
		return nil, st, fmt.Errorf("merge %s/%s: %w", opt.DateColumn, opt.TimeColumn, ErrKind)
	}

	n := ds.Rows()
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		raw := dc.Cell(i) + " " + tc.Cell(i)
		t, perr := time.Parse(opt.Layout, raw)
		if perr != nil {
			if opt.OnError == PolicyMissing {
				st.BadRows = append(st.BadRows, i)
				continue
			}
			return nil, st, &ParseError{Row: i, Value: raw, Err: perr}
		}
		out[i] = t
	}

	res := ds.Clone()
	res.Drop(opt.DateColumn, opt.TimeColumn)
	if res.Index(opt.Target) >= 0 {
		res.Drop(opt.Target)
	}
	res.Columns = append(res.Columns, dataset.NewDatetime(opt.Target, out))
	return res, st, nil
}
