package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/powerclean/internal/dataset"
)

// Markdown renders the report as sectioned plain text.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[SHAPE]\n")
	if r.Title != "" {
		b.WriteString(fmt.Sprintf("Stage: %s\n", r.Title))
	}
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(r.Columns)))

	if len(r.Head) > 0 {
		b.WriteString("\n[HEAD]\n")
		writeTable(&b, r.Columns, r.Head)
	}
	if len(r.Tail) > 0 {
		b.WriteString("\n[TAIL]\n")
		writeTable(&b, r.Columns, r.Tail)
	}

	var nums, texts []ColumnSummary
	for _, c := range r.Cols {
		switch c.Kind {
		case dataset.KindNumeric:
			nums = append(nums, c)
		case dataset.KindText:
			texts = append(texts, c)
		}
	}
	if len(nums) > 0 {
		b.WriteString("\n[DESCRIBE]\n")
		header := []string{"stat"}
		for _, c := range nums {
			header = append(header, c.Name)
		}
		stats := []struct {
			label string
			pick  func(ColumnSummary) float64
		}{
			{"count", func(c ColumnSummary) float64 { return float64(c.NonNull) }},
			{"mean", func(c ColumnSummary) float64 { return c.Mean }},
			{"std", func(c ColumnSummary) float64 { return c.Std }},
			{"min", func(c ColumnSummary) float64 { return c.Min }},
			{"25%", func(c ColumnSummary) float64 { return c.Q1 }},
			{"50%", func(c ColumnSummary) float64 { return c.Median }},
			{"75%", func(c ColumnSummary) float64 { return c.Q3 }},
			{"max", func(c ColumnSummary) float64 { return c.Max }},
		}
		rows := make([][]string, 0, len(stats))
		for _, st := range stats {
			row := []string{st.label}
			for _, c := range nums {
				row = append(row, fmtNum(st.pick(c)))
			}
			rows = append(rows, row)
		}
		writeTable(&b, header, rows)
	}
	if len(texts) > 0 {
		b.WriteString("\n[DESCRIBE TEXT]\n")
		rows := make([][]string, 0, len(texts))
		for _, c := range texts {
			rows = append(rows, []string{c.Name, strconv.Itoa(c.NonNull), strconv.Itoa(c.Unique), c.Top, strconv.Itoa(c.Freq)})
		}
		writeTable(&b, []string{"column", "count", "unique", "top", "freq"}, rows)
	}

	b.WriteString("\n[INFO]\n")
	for _, c := range r.Cols {
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d)", safeName(c.Name), c.Kind, c.NonNull))
		if c.Kind == dataset.KindDatetime && !c.First.IsZero() {
			b.WriteString(fmt.Sprintf(", range %s .. %s", c.First.Format(dataset.DisplayLayout), c.Last.Format(dataset.DisplayLayout)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n[NULLS]\n")
	for _, c := range r.Cols {
		b.WriteString(fmt.Sprintf("- %s: %t, %d (%.4f%%)\n", safeName(c.Name), c.Missing > 0, c.Missing, c.MissingPct))
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| ")
	for i, h := range header {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeName(h))
	}
	b.WriteString(" |\n| ")
	for i := range header {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString("---")
	}
	b.WriteString(" |\n")
	for _, row := range rows {
		b.WriteString("| ")
		for i := range header {
			if i > 0 {
				b.WriteString(" | ")
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			if len(val) > 80 {
				val = val[:77] + "..."
			}
			b.WriteString(safeVal(val))
		}
		b.WriteString(" |\n")
	}
}

func fmtNum(x float64) string {
	if math.IsNaN(x) {
		return "NaN"
	}
	return strconv.FormatFloat(x, 'f', 6, 64)
}

func skippedWarning(n int) string {
	return fmt.Sprintf("skipped %d malformed rows while loading", n)
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
