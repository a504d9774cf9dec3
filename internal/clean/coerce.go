package clean

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/powerclean/internal/dataset"
)

// CoerceStats counts cells per column that could not be parsed and became NaN.
// Cells that were already missing are not counted.
type CoerceStats map[string]int

// CoerceNumeric converts the named columns to numeric storage. Unparseable cells
// become NaN; that is never an error. Other columns are untouched.
func CoerceNumeric(ds *dataset.Dataset, columns []string) (*dataset.Dataset, CoerceStats, error) {
	for _, name := range columns {
		c, err := ds.Column(name)
		if err != nil {
			return nil, nil, err
		}
		if c.Kind == dataset.KindDatetime {
			return nil, nil, fmt.Errorf("coerce %s: %w", name, ErrKind)
		}
	}

	res := ds.Clone()
	st := make(CoerceStats, len(columns))
	for _, name := range columns {
		c, _ := res.Column(name)
		if c.Kind == dataset.KindNumeric {
			st[name] = 0
			continue
		}
		nums := make([]float64, len(c.Text))
		failed := 0
		for i, v := range c.Text {
			if c.Null[i] {
				nums[i] = math.NaN()
				continue
			}
			x, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				nums[i] = math.NaN()
				failed++
				continue
			}
			nums[i] = x
		}
		st[name] = failed
		if err := res.Replace(dataset.NewNumeric(name, nums)); err != nil {
			return nil, nil, err
		}
	}
	return res, st, nil
}
