package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ArtifactExtension is the file extension for persisted artifacts.
const ArtifactExtension = ".svg"

// SafeName derives a filesystem-safe file stem from an idea. The idea is
// lowercased and every character outside [a-z0-9] is individually replaced
// with an underscore; runs are deliberately not collapsed so the mapping
// matches the filename-to-description reversal in the packer.
func SafeName(idea string) string {
	lower := strings.ToLower(idea)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Writer persists accepted idea/artifact pairs, one file per pair.
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// EnsureDir creates the output directory if absent. A pre-existing directory
// is reused, never cleared.
func (w *Writer) EnsureDir() error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", w.dir, err)
	}
	return nil
}

// Exists reports whether an artifact for this idea is already on disk.
func (w *Writer) Exists(idea string) bool {
	_, err := os.Stat(w.path(idea))
	return err == nil
}

// WriteArtifact writes the raw artifact text under a name derived from the
// idea, returning the file path. An existing file for the same name is
// overwritten (later write wins).
func (w *Writer) WriteArtifact(idea, artifact string) (string, error) {
	path := w.path(idea)
	if err := os.WriteFile(path, []byte(artifact), 0o644); err != nil {
		return "", fmt.Errorf("writing artifact %s: %w", path, err)
	}
	return path, nil
}

func (w *Writer) path(idea string) string {
	return filepath.Join(w.dir, SafeName(idea)+ArtifactExtension)
}
