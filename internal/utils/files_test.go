package utils_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/powerclean/internal/utils"
)

func TestSafeWriteFileCreatesParent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "out.json")
	if err := utils.SafeWriteFile(p, []byte("{}")); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "{}" {
		t.Fatalf("read back = %q, %v", b, err)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := utils.PrettyJSON(map[string]int{"rows": 3})
	if err != nil {
		t.Fatalf("PrettyJSON: %v", err)
	}
	if !strings.Contains(string(b), "\n  \"rows\": 3") {
		t.Fatalf("unexpected json: %s", b)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := utils.ExpandHome("~/data/x.txt")
	if err != nil {
		t.Fatalf("ExpandHome: %v", err)
	}
	if got != filepath.Join(home, "data", "x.txt") {
		t.Fatalf("got %q", got)
	}
	if got, _ := utils.ExpandHome("~user/x"); got != "~user/x" {
		t.Fatalf("~user should be left alone, got %q", got)
	}
}
