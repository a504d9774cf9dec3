package config

import (
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/powerclean/internal/clean"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.InputPath != "household_power_consumption.txt" || c.Delimiter != ";" {
		t.Fatalf("defaults: input=%q delim=%q", c.InputPath, c.Delimiter)
	}
	if len(c.NumericColumns) != 6 || len(c.ImputeColumns) != 7 {
		t.Fatalf("columns: numeric=%v impute=%v", c.NumericColumns, c.ImputeColumns)
	}
	if !c.WriteManifest || c.HeadRows != 5 {
		t.Fatalf("manifest=%v head=%d", c.WriteManifest, c.HeadRows)
	}
	lo, err := c.LoadOptions()
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if lo.Delimiter != ';' {
		t.Fatalf("delimiter = %q", lo.Delimiter)
	}
	po, err := c.PipelineOptions()
	if err != nil {
		t.Fatalf("PipelineOptions: %v", err)
	}
	if po.Merge.Layout != clean.DefaultDateTimeLayout || po.Merge.OnError != clean.PolicyFail {
		t.Fatalf("merge options = %+v", po.Merge)
	}
}

func TestSaveLoadRoundTripAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c.Delimiter = "tab"
	c.OnEmptyColumn = "skip"
	c.ImputeColumns = []string{"Voltage"}
	if err := Save(c, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	t.Setenv("POWERCLEAN_HEAD_ROWS", "9")
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load file: %v", err)
	}
	if got.Delimiter != "tab" || got.OnEmptyColumn != "skip" || len(got.ImputeColumns) != 1 {
		t.Fatalf("round trip = %+v", got)
	}
	if got.HeadRows != 9 {
		t.Fatalf("env override head_rows = %d, want 9", got.HeadRows)
	}
	po, err := got.PipelineOptions()
	if err != nil {
		t.Fatalf("PipelineOptions: %v", err)
	}
	if po.OnEmptyColumn != clean.PolicySkip || po.Inspect.HeadRows != 9 {
		t.Fatalf("pipeline options = %+v", po)
	}
}

func TestInvalidValues(t *testing.T) {
	c := &Global{Delimiter: "#", OnBadTimestamp: "fail", OnEmptyColumn: "fail"}
	if _, err := c.LoadOptions(); err == nil {
		t.Fatalf("expected delimiter error")
	}
	c.OnBadTimestamp = "skip"
	if _, err := c.PipelineOptions(); err == nil {
		t.Fatalf("expected policy error")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}
