package analysis

import (
	"math"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/powerclean/internal/dataset"
)

var csvRows = []string{
	"Date;Time;Global_active_power;Voltage;Sub_metering_3",
	"16/12/2006;17:24:00;4.216;234.840;17.000",
	"16/12/2006;17:25:00;5.360;233.630;16.000",
	"16/12/2006;17:26:00;?;233.290;",
	"16/12/2006;17:27:00;5.388;233.740;17.000",
	"17/12/2006;00:00:00;3.666;235.680;18.000",
	"17/12/2006;00:01:00;?;235.020;16.000",
	"17/12/2006;00:02:00;3.520;235.090;17.000",
}

func loadFixture(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Read(strings.NewReader(strings.Join(csvRows, "\n")), dataset.DefaultLoadOptions())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	ds.Name = "power.txt"
	return ds
}

func TestInspectShapeHeadTail(t *testing.T) {
	ds := loadFixture(t)
	opt := DefaultOptions()
	opt.HeadRows = 3
	rep := Inspect(ds, opt)

	if rep.Rows != len(csvRows)-1 {
		t.Fatalf("rows = %d, want %d", rep.Rows, len(csvRows)-1)
	}
	if len(rep.Columns) != 5 {
		t.Fatalf("columns = %d, want 5", len(rep.Columns))
	}
	if len(rep.Head) != 3 || len(rep.Tail) != 3 {
		t.Fatalf("head/tail = %d/%d, want 3/3", len(rep.Head), len(rep.Tail))
	}
	expectFirst := []string{"16/12/2006", "17:24:00", "4.216", "234.84", "17"}
	if !equalStrings(rep.Head[0], expectFirst) {
		t.Fatalf("first head row = %#v, want %#v", rep.Head[0], expectFirst)
	}
	if rep.Tail[2][1] != "00:02:00" {
		t.Fatalf("last tail row = %#v", rep.Tail[2])
	}
}

func TestInspectNumericDescribe(t *testing.T) {
	rep := Inspect(loadFixture(t), DefaultOptions())

	volt := columnByName(t, rep, "Voltage")
	if volt.Kind != dataset.KindNumeric {
		t.Fatalf("Voltage kind = %s", volt.Kind)
	}
	checkStats(t, volt, []float64{234.84, 233.63, 233.29, 233.74, 235.68, 235.02, 235.09})

	sm3 := columnByName(t, rep, "Sub_metering_3")
	vals := []float64{17, 16, 17, 18, 16, 17}
	checkStats(t, sm3, vals)
	if sm3.Missing != 1 {
		t.Fatalf("missing = %d, want 1", sm3.Missing)
	}
	if !almostEqual(sm3.MissingPct, 100.0/7.0, 1e-9) {
		t.Fatalf("missing pct = %f", sm3.MissingPct)
	}
}

func TestInspectTextDescribe(t *testing.T) {
	rep := Inspect(loadFixture(t), DefaultOptions())

	gap := columnByName(t, rep, "Global_active_power")
	if gap.Kind != dataset.KindText {
		t.Fatalf("Global_active_power kind = %s, want text", gap.Kind)
	}
	if gap.Top != "?" || gap.Freq != 2 || gap.Unique != 6 {
		t.Fatalf("top=%q freq=%d unique=%d", gap.Top, gap.Freq, gap.Unique)
	}

	date := columnByName(t, rep, "Date")
	if date.Top != "16/12/2006" || date.Freq != 4 || date.Unique != 2 {
		t.Fatalf("date top=%q freq=%d unique=%d", date.Top, date.Freq, date.Unique)
	}
}

func TestInspectDatetimeRange(t *testing.T) {
	t0 := time.Date(2006, 12, 16, 17, 24, 0, 0, time.UTC)
	t1 := t0.Add(2 * time.Minute)
	ds := &dataset.Dataset{Columns: []*dataset.Column{
		dataset.NewDatetime("Datetime", []time.Time{t1, {}, t0}),
	}}
	rep := Inspect(ds, DefaultOptions())
	c := columnByName(t, rep, "Datetime")
	if !c.First.Equal(t0) || !c.Last.Equal(t1) {
		t.Fatalf("range = %v .. %v", c.First, c.Last)
	}
	if c.Missing != 1 || c.NonNull != 2 {
		t.Fatalf("missing=%d nonnull=%d", c.Missing, c.NonNull)
	}
}

func TestInspectEmptyDataset(t *testing.T) {
	rep := Inspect(&dataset.Dataset{}, DefaultOptions())
	if rep.Rows != 0 || len(rep.Cols) != 0 || len(rep.Head) != 0 {
		t.Fatalf("expected degenerate report, got %+v", rep)
	}
	md := rep.Markdown()
	if !strings.Contains(md, "Rows: 0") || !strings.Contains(md, "Columns: 0") {
		t.Fatalf("markdown missing zero counts: %s", md)
	}

	ds, err := dataset.Read(strings.NewReader(csvRows[0]), dataset.DefaultLoadOptions())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	rep = Inspect(ds, DefaultOptions())
	volt := columnByName(t, rep, "Voltage")
	if volt.NonNull != 0 || !math.IsNaN(volt.Mean) {
		t.Fatalf("empty numeric column: %+v", volt)
	}
}

func TestInspectDoesNotMutate(t *testing.T) {
	ds := loadFixture(t)
	before := ds.Clone()
	_ = Inspect(ds, DefaultOptions())
	for i := 0; i < ds.Rows(); i++ {
		if !equalStrings(ds.Row(i), before.Row(i)) {
			t.Fatalf("row %d changed: %v vs %v", i, ds.Row(i), before.Row(i))
		}
	}
}

func TestMarkdownSections(t *testing.T) {
	ds := loadFixture(t)
	ds.Skipped = 2
	rep := Inspect(ds, DefaultOptions())
	rep.Title = "loaded"
	md := rep.Markdown()
	for _, want := range []string{
		"[SHAPE]", "Stage: loaded", "File: power.txt", "Rows: 7", "Columns: 5",
		"[HEAD]", "[TAIL]", "[DESCRIBE]", "| stat | Voltage | Sub_metering_3 |",
		"[DESCRIBE TEXT]", "| Global_active_power | 7 | 6 | ? | 2 |",
		"[INFO]", "- Global_active_power: text (non-null 7)",
		"[NULLS]", "- Sub_metering_3: true, 1 (14.2857%)", "- Voltage: false, 0 (0.0000%)",
		"[NOTES]", "skipped 2 malformed rows while loading",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestQuantileMatchesLinearInterpolation(t *testing.T) {
	vals := []float64{1, 2, 3, 4}
	cases := map[float64]float64{0: 1, 0.25: 1.75, 0.5: 2.5, 0.75: 3.25, 1: 4}
	for q, want := range cases {
		if got := quantile(vals, q); !almostEqual(got, want, 1e-12) {
			t.Errorf("quantile(%v) = %v, want %v", q, got, want)
		}
	}
	if !math.IsNaN(quantile(nil, 0.5)) {
		t.Fatalf("quantile of empty slice should be NaN")
	}
}

func columnByName(t *testing.T, rep *Report, name string) ColumnSummary {
	t.Helper()
	c, ok := rep.Summary(name)
	if !ok {
		t.Fatalf("column %q not found", name)
	}
	return c
}

func checkStats(t *testing.T, col ColumnSummary, vals []float64) {
	t.Helper()
	if col.NonNull != len(vals) {
		t.Fatalf("non-null = %d, want %d", col.NonNull, len(vals))
	}
	if !almostEqual(col.Min, minFloat(vals), 1e-6) {
		t.Fatalf("min = %f, want %f", col.Min, minFloat(vals))
	}
	if !almostEqual(col.Max, maxFloat(vals), 1e-6) {
		t.Fatalf("max = %f, want %f", col.Max, maxFloat(vals))
	}
	if !almostEqual(col.Mean, mean(vals), 1e-6) {
		t.Fatalf("mean = %f, want %f", col.Mean, mean(vals))
	}
	if !almostEqual(col.Std, sampleStd(vals), 1e-6) {
		t.Fatalf("std = %f, want %f", col.Std, sampleStd(vals))
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	if !almostEqual(col.Median, quantileValue(sorted, 0.5), 1e-9) {
		t.Fatalf("median = %f, want %f", col.Median, quantileValue(sorted, 0.5))
	}
	if !almostEqual(col.Q1, quantileValue(sorted, 0.25), 1e-9) {
		t.Fatalf("q1 = %f, want %f", col.Q1, quantileValue(sorted, 0.25))
	}
	if !almostEqual(col.Q3, quantileValue(sorted, 0.75), 1e-9) {
		t.Fatalf("q3 = %f, want %f", col.Q3, quantileValue(sorted, 0.75))
	}
}

func quantileValue(sortedVals []float64, q float64) float64 {
	pos := q * float64(len(sortedVals)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	return sortedVals[lo] + (sortedVals[hi]-sortedVals[lo])*(pos-float64(lo))
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func sampleStd(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	m := mean(vals)
	var sum float64
	for _, v := range vals {
		diff := v - m
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(vals)-1))
}

func minFloat(vals []float64) float64 {
	m := math.Inf(1)
	for _, v := range vals {
		m = math.Min(m, v)
	}
	return m
}

func maxFloat(vals []float64) float64 {
	m := math.Inf(-1)
	for _, v := range vals {
		m = math.Max(m, v)
	}
	return m
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
