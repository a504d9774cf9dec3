package dataset

import (
	"math"
	"strconv"
	"time"
)

// Kind is the storage type of a column.
type Kind int

const (
	KindText Kind = iota
	KindNumeric
	KindDatetime
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindDatetime:
		return "datetime"
	default:
		return "text"
	}
}

// DisplayLayout is used when rendering datetime cells.
const DisplayLayout = "2006-01-02 15:04:05"

// Column holds one named column. Only the slice matching Kind is populated.
// Missing markers: NaN for numeric, the zero time for datetime, Null[i] for text.
type Column struct {
	Name string
	Kind Kind
	Text []string
	Null []bool
	Num  []float64
	Time []time.Time
}

// NewText builds a text column; null marks cells that hold a missing marker.
func NewText(name string, vals []string, null []bool) *Column {
	if null == nil {
		null = make([]bool, len(vals))
	}
	return &Column{Name: name, Kind: KindText, Text: vals, Null: null}
}

// NewNumeric builds a numeric column; NaN entries are missing.
func NewNumeric(name string, vals []float64) *Column {
	return &Column{Name: name, Kind: KindNumeric, Num: vals}
}

// NewDatetime builds a datetime column; zero times are missing.
func NewDatetime(name string, vals []time.Time) *Column {
	return &Column{Name: name, Kind: KindDatetime, Time: vals}
}

// Len returns the number of cells.
func (c *Column) Len() int {
	switch c.Kind {
	case KindNumeric:
		return len(c.Num)
	case KindDatetime:
		return len(c.Time)
	default:
		return len(c.Text)
	}
}

// IsMissing reports whether cell i holds the missing marker.
func (c *Column) IsMissing(i int) bool {
	switch c.Kind {
	case KindNumeric:
		return math.IsNaN(c.Num[i])
	case KindDatetime:
		return c.Time[i].IsZero()
	default:
		return c.Null[i]
	}
}

// Missing counts missing markers in the column.
func (c *Column) Missing() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			n++
		}
	}
	return n
}

// Cell renders cell i as text. Missing cells render as "".
func (c *Column) Cell(i int) string {
	if c.IsMissing(i) {
		return ""
	}
	switch c.Kind {
	case KindNumeric:
		return strconv.FormatFloat(c.Num[i], 'f', -1, 64)
	case KindDatetime:
		return c.Time[i].Format(DisplayLayout)
	default:
		return c.Text[i]
	}
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	if c.Text != nil {
		out.Text = append([]string(nil), c.Text...)
	}
	if c.Null != nil {
		out.Null = append([]bool(nil), c.Null...)
	}
	if c.Num != nil {
		out.Num = append([]float64(nil), c.Num...)
	}
	if c.Time != nil {
		out.Time = append([]time.Time(nil), c.Time...)
	}
	return out
}

// Dataset is an ordered set of equal-length columns loaded from one source.
type Dataset struct {
	Name    string
	Columns []*Column
	// Skipped counts malformed rows dropped during Load.
	Skipped int
}

// Rows returns the number of rows.
func (d *Dataset) Rows() int {
	if d == nil || len(d.Columns) == 0 {
		return 0
	}
	return d.Columns[0].Len()
}

// Names returns the column names in order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Name
	}
	return out
}

// Index returns the position of the named column, or -1.
func (d *Dataset) Index(name string) int {
	for i, c := range d.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Column looks up a column by name.
func (d *Dataset) Column(name string) (*Column, error) {
	if i := d.Index(name); i >= 0 {
		return d.Columns[i], nil
	}
	return nil, &ColumnError{Name: name}
}

// Clone returns a deep copy so transformations never alias their input.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{Name: d.Name, Skipped: d.Skipped, Columns: make([]*Column, len(d.Columns))}
	for i, c := range d.Columns {
		out.Columns[i] = c.Clone()
	}
	return out
}

// Replace swaps the column with the same name in place.
func (d *Dataset) Replace(c *Column) error {
	i := d.Index(c.Name)
	if i < 0 {
		return &ColumnError{Name: c.Name}
	}
	d.Columns[i] = c
	return nil
}

// Drop removes the named columns, keeping the order of the rest.
func (d *Dataset) Drop(names ...string) {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	kept := d.Columns[:0]
	for _, c := range d.Columns {
		if _, ok := drop[c.Name]; !ok {
			kept = append(kept, c)
		}
	}
	d.Columns = kept
}

// Row renders row i as text cells.
func (d *Dataset) Row(i int) []string {
	out := make([]string, len(d.Columns))
	for j, c := range d.Columns {
		out[j] = c.Cell(i)
	}
	return out
}
