package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadOptions controls how a delimited file is read.
type LoadOptions struct {
	// Delimiter between fields. If 0, ';' is used.
	Delimiter rune
	// NullTokens are cell values treated as missing. Nil selects DefaultNullTokens.
	NullTokens []string
	// MaxRows limits rows loaded; 0 means unlimited.
	MaxRows int
	// SkipMalformed drops rows with the wrong field count instead of failing.
	SkipMalformed bool
}

// DefaultNullTokens mirrors the usual reader defaults. "?" is not among them;
// those cells stay text until coerced.
var DefaultNullTokens = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL"}

// DefaultLoadOptions returns options for the household power consumption layout.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{Delimiter: ';'}
}

// Load reads a header-delimited text table from path.
func Load(path string, opt LoadOptions) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer f.Close()
	ds, err := Read(f, opt)
	if err != nil {
		var fe *FormatError
		if !errors.As(err, &fe) {
			return nil, &IOError{Path: path, Err: err}
		}
		return nil, err
	}
	ds.Name = filepath.Base(path)
	return ds, nil
}

// Read parses a header-delimited table from r.
func Read(r io.Reader, opt LoadOptions) (*Dataset, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = ';'
	}
	nulls := opt.NullTokens
	if nulls == nil {
		nulls = DefaultNullTokens
	}
	isNull := make(map[string]struct{}, len(nulls))
	for _, t := range nulls {
		isNull[t] = struct{}{}
	}

	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Dataset{}, nil
		}
		return nil, wrapCSVError(err)
	}
	ncol := len(header)
	names := make([]string, ncol)
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
	}

	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}
	cells := make([][]string, ncol)
	nullMask := make([][]bool, ncol)
	ds := &Dataset{}
	rows := 0
	for rows < maxRows {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, wrapCSVError(err)
		}
		if len(rec) != ncol {
			line, _ := cr.FieldPos(0)
			if opt.SkipMalformed {
				ds.Skipped++
				continue
			}
			return nil, &FormatError{Line: line, Want: ncol, Got: len(rec)}
		}
		for j, v := range rec {
			v = strings.TrimSpace(v)
			_, null := isNull[v]
			cells[j] = append(cells[j], v)
			nullMask[j] = append(nullMask[j], null)
		}
		rows++
	}

	ds.Columns = make([]*Column, ncol)
	for j := range names {
		ds.Columns[j] = inferColumn(names[j], cells[j], nullMask[j])
	}
	return ds, nil
}

// inferColumn picks numeric storage when every non-null cell parses as a float.
func inferColumn(name string, vals []string, null []bool) *Column {
	if vals == nil {
		vals = []string{}
		null = []bool{}
	}
	nums := make([]float64, len(vals))
	for i, v := range vals {
		if null[i] {
			nums[i] = math.NaN()
			continue
		}
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return NewText(name, vals, null)
		}
		nums[i] = x
	}
	return NewNumeric(name, nums)
}

func wrapCSVError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &FormatError{Line: pe.Line, Err: pe.Err}
	}
	return fmt.Errorf("read row: %w", err)
}
