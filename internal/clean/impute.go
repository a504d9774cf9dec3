package clean

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/powerclean/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// Imputation records the fill applied to one column.
type Imputation struct {
	Column string  `json:"column"`
	Mean   float64 `json:"mean"`
	Filled int     `json:"filled"`
	// Empty is set when the column had no values to average; Mean is zero then.
	Empty bool `json:"empty,omitempty"`
}

// ImputeMeanFill replaces NaN cells in each named numeric column with the mean of
// that column's non-missing values. onEmpty is PolicyFail or PolicySkip and decides
// what happens to a column with nothing to average; a dataset without rows is a no-op.
func ImputeMeanFill(ds *dataset.Dataset, columns []string, onEmpty Policy) (*dataset.Dataset, []Imputation, error) {
	for _, name := range columns {
		c, err := ds.Column(name)
		if err != nil {
			return nil, nil, err
		}
		if c.Kind != dataset.KindNumeric {
			return nil, nil, fmt.Errorf("impute %s (%s): %w", name, c.Kind, ErrKind)
		}
	}

	res := ds.Clone()
	out := make([]Imputation, 0, len(columns))
	for _, name := range columns {
		c, _ := res.Column(name)
		present := make([]float64, 0, len(c.Num))
		for _, v := range c.Num {
			if !math.IsNaN(v) {
				present = append(present, v)
			}
		}
		if len(present) == 0 {
			if len(c.Num) > 0 && onEmpty != PolicySkip {
				return nil, nil, &EmptyColumnError{Column: name}
			}
			out = append(out, Imputation{Column: name, Empty: true})
			continue
		}
		m := stat.Mean(present, nil)
		filled := 0
		for i, v := range c.Num {
			if math.IsNaN(v) {
				c.Num[i] = m
				filled++
			}
		}
		out = append(out, Imputation{Column: name, Mean: m, Filled: filled})
	}
	return res, out, nil
}
