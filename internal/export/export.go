package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/powerclean/internal/dataset"
	"github.com/KaramelBytes/powerclean/internal/utils"
	"github.com/xuri/excelize/v2"
)

// Format is an output file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ErrUnsupported indicates an unknown output format.
var ErrUnsupported = errors.New("unsupported export format")

// Options controls how a dataset is written.
type Options struct {
	// Format overrides detection from the file extension.
	Format Format
	// Delimiter for CSV output. If 0, ';' is used.
	Delimiter rune
	// Sheet name for XLSX output.
	Sheet string
}

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt", ".tsv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupported, filepath.Ext(path))
	}
}

// Write exports ds to path.
func Write(path string, ds *dataset.Dataset, opt Options) error {
	format := opt.Format
	if format == "" {
		f, err := DetectFormat(path)
		if err != nil {
			return err
		}
		format = f
	}
	switch format {
	case FormatCSV:
		b, err := EncodeCSV(ds, opt.Delimiter)
		if err != nil {
			return err
		}
		return utils.SafeWriteFile(path, b)
	case FormatJSON:
		b, err := EncodeJSON(ds)
		if err != nil {
			return err
		}
		return utils.SafeWriteFile(path, b)
	case FormatXLSX:
		return writeXLSX(path, ds, opt.Sheet)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupported, format)
	}
}

// EncodeCSV renders ds as delimited text with a header row. Missing cells are empty.
func EncodeCSV(ds *dataset.Dataset, delim rune) ([]byte, error) {
	if delim == 0 {
		delim = ';'
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = delim
	if err := w.Write(ds.Names()); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < ds.Rows(); i++ {
		if err := w.Write(ds.Row(i)); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJSON renders ds as an array of objects keyed by column name in column order.
// Missing cells are null and timestamps use RFC 3339.
func EncodeJSON(ds *dataset.Dataset) ([]byte, error) {
	keys := make([][]byte, len(ds.Columns))
	for j, c := range ds.Columns {
		k, err := json.Marshal(c.Name)
		if err != nil {
			return nil, fmt.Errorf("marshal column name: %w", err)
		}
		keys[j] = k
	}
	var buf bytes.Buffer
	buf.WriteString("[")
	for i := 0; i < ds.Rows(); i++ {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  {")
		for j, c := range ds.Columns {
			if j > 0 {
				buf.WriteString(", ")
			}
			buf.Write(keys[j])
			buf.WriteString(": ")
			v, err := json.Marshal(jsonValue(c, i))
			if err != nil {
				return nil, fmt.Errorf("marshal row %d column %s: %w", i, c.Name, err)
			}
			buf.Write(v)
		}
		buf.WriteString("}")
	}
	if ds.Rows() > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("]\n")
	return buf.Bytes(), nil
}

func jsonValue(c *dataset.Column, i int) any {
	if c.IsMissing(i) {
		return nil
	}
	switch c.Kind {
	case dataset.KindNumeric:
		return c.Num[i]
	case dataset.KindDatetime:
		return c.Time[i].Format(time.RFC3339)
	default:
		return c.Text[i]
	}
}

func writeXLSX(path string, ds *dataset.Dataset, sheet string) error {
	if sheet == "" {
		sheet = "cleaned"
	}
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("open stream writer: %w", err)
	}
	header := make([]interface{}, len(ds.Columns))
	for j, name := range ds.Names() {
		header[j] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < ds.Rows(); i++ {
		row := make([]interface{}, len(ds.Columns))
		for j, c := range ds.Columns {
			switch {
			case c.IsMissing(i):
				row[j] = nil
			case c.Kind == dataset.KindNumeric:
				row[j] = c.Num[i]
			default:
				row[j] = c.Cell(i)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}
