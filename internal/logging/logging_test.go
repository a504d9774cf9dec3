package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, Config{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("hidden")
	log.Warn("shown", slog.Int("rows", 3))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec["msg"] != "shown" || rec["rows"] != float64(3) {
		t.Fatalf("record = %v", rec)
	}
}

func TestNewRejectsUnknown(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, Config{Format: "xml"}); err == nil {
		t.Fatalf("expected format error")
	}
	if _, err := New(&bytes.Buffer{}, Config{Level: "loud"}); err == nil {
		t.Fatalf("expected level error")
	}
}

func TestTextDefaultIsInfo(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Debug("nope")
	log.Info("yes")
	if strings.Contains(buf.String(), "nope") || !strings.Contains(buf.String(), "msg=yes") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
