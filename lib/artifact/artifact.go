package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Writer persists pipeline output under one directory. Every collection is
// written twice: a pretty-printed file for humans and diffs, and a
// minified one for the site to ship. Writes are whole-file, once per run.
type Writer struct {
	Dir string
}

func NewWriter(dir string) (Writer, error) {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return Writer{}, fmt.Errorf("create output dir: %w", err)
	}
	return Writer{Dir: dir}, nil
}

// WriteCollection writes `<name>.json` and `<name>.min.json` holding v.
func (w Writer) WriteCollection(name string, v any) error {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	minified, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	if err := os.WriteFile(w.path(name+".json"), append(pretty, '\n'), 0666); err != nil {
		return err
	}
	return os.WriteFile(w.path(name+".min.json"), minified, 0666)
}

func (w Writer) path(file string) string {
	return filepath.Join(w.Dir, file)
}

// Manifest records what a full pipeline run produced. Informational only,
// nothing downstream consumes it.
type Manifest struct {
	Collections []string  `json:"collections"`
	Version     string    `json:"version"`
	LastUpdated time.Time `json:"lastUpdated"`
}

func (w Writer) WriteManifest(m Manifest) error {
	encoded, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return os.WriteFile(w.path("manifest.json"), append(encoded, '\n'), 0666)
}
