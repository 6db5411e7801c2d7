package dataset

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		// Every offending character is replaced individually; runs are not collapsed.
		{"punctuation_and_parens", "A Cat! (v2)", "a_cat___v2_"},
		{"plain_sentence", "A red fox", "a_red_fox"},
		{"trailing_period", "Two stars.", "two_stars_"},
		{"already_safe", "abc123", "abc123"},
		{"empty", "", ""},
		{"unicode", "café", "caf_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeName(tt.in))
		})
	}
}

func TestSafeName_OnlySafeCharacters(t *testing.T) {
	safe := regexp.MustCompile(`^[a-z0-9_]*$`)

	inputs := []string{
		"A Cat! (v2)",
		"Weird\tcontrol\ncharacters",
		"émojis 🎉 and spaces",
	}
	for _, in := range inputs {
		assert.True(t, safe.MatchString(SafeName(in)), "SafeName(%q) = %q", in, SafeName(in))
	}
}

func TestWriterWritesVerbatim(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(filepath.Join(dir, "out"))

	require.NoError(t, w.EnsureDir())

	svg := "<svg width='64' height='64' viewBox='0 0 64 64'><circle cx='32' cy='32' r='10'/></svg>"
	path, err := w.WriteArtifact("A red circle.", svg)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "out", "a_red_circle_.svg"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, svg, string(data))
}

func TestWriterOverwritesOnCollision(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	require.NoError(t, w.EnsureDir())

	// "A cat!" and "A cat?" sanitize to the same name; later write wins.
	_, err := w.WriteArtifact("A cat!", "<svg>first</svg>")
	require.NoError(t, err)
	path, err := w.WriteArtifact("A cat?", "<svg>second</svg>")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<svg>second</svg>", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriterExists(t *testing.T) {
	w := NewWriter(t.TempDir())
	require.NoError(t, w.EnsureDir())

	assert.False(t, w.Exists("A red circle."))
	_, err := w.WriteArtifact("A red circle.", "<svg/>")
	require.NoError(t, err)
	assert.True(t, w.Exists("A red circle."))
}

func TestEnsureDirReusesExisting(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(existing, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(existing, "keep.svg"), []byte("<svg/>"), 0o644))

	w := NewWriter(existing)
	require.NoError(t, w.EnsureDir())

	// Pre-existing contents are not cleared
	_, err := os.Stat(filepath.Join(existing, "keep.svg"))
	assert.NoError(t, err)
}
