package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/KaramelBytes/powerclean/internal/clean"
	"github.com/KaramelBytes/powerclean/internal/utils"
	"github.com/google/uuid"
)

// Suffix is appended to an export path to name its manifest.
const Suffix = ".manifest.json"

// Manifest records one cleaning run and where its output went.
type Manifest struct {
	ID          string             `json:"id"`
	Source      string             `json:"source"`
	Output      string             `json:"output,omitempty"`
	Format      string             `json:"format,omitempty"`
	Rows        int                `json:"rows"`
	Columns     []string           `json:"columns"`
	Skipped     int                `json:"skipped_rows"`
	BadRows     []int              `json:"bad_timestamp_rows,omitempty"`
	Coerced     map[string]int     `json:"coercion_failures"`
	Imputations []clean.Imputation `json:"imputations"`
	StartedAt   time.Time          `json:"started_at"`
	FinishedAt  time.Time          `json:"finished_at"`
}

// New starts a manifest for source with a fresh run ID.
func New(source string) *Manifest {
	return &Manifest{
		ID:        uuid.NewString(),
		Source:    source,
		Coerced:   map[string]int{},
		StartedAt: time.Now(),
	}
}

// Record copies the outcome of a pipeline run into the manifest.
func (m *Manifest) Record(res *clean.Result) {
	if res == nil || res.Dataset == nil {
		return
	}
	m.Rows = res.Dataset.Rows()
	m.Columns = res.Dataset.Names()
	m.Skipped = res.Dataset.Skipped
	m.BadRows = res.Merge.BadRows
	for k, v := range res.Coerce {
		m.Coerced[k] = v
	}
	m.Imputations = res.Imputations
	m.FinishedAt = time.Now()
}

// PathFor returns the manifest path that sits next to an export.
func PathFor(output string) string { return output + Suffix }

// Save writes the manifest using an atomic write.
func (m *Manifest) Save(path string) error {
	if path == "" {
		return errors.New("manifest path not set")
	}
	if m.FinishedAt.IsZero() {
		m.FinishedAt = time.Now()
	}
	data, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(path, data)
}

// Load reads a manifest written by Save.
func Load(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if _, err := uuid.Parse(m.ID); err != nil {
		return nil, fmt.Errorf("manifest %s: invalid id %q: %w", path, m.ID, err)
	}
	return &m, nil
}

// Summary is a one-line description for progress output.
func (m *Manifest) Summary() string {
	filled := 0
	var empty []string
	for _, im := range m.Imputations {
		filled += im.Filled
		if im.Empty {
			empty = append(empty, im.Column)
		}
	}
	s := fmt.Sprintf("run %s: %d rows, %d cells imputed", m.ID[:8], m.Rows, filled)
	if len(empty) > 0 {
		s += fmt.Sprintf(", empty columns: %s", strings.Join(empty, ", "))
	}
	return s
}
