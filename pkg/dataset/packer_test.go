package dataset

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRecords(t *testing.T, path string) []TrainingRecord {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []TrainingRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var rec TrainingRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.NoError(t, scanner.Err())
	return records
}

func TestDescriptionFromFileName(t *testing.T) {
	assert.Equal(t, "a red circle ", DescriptionFromFileName("a_red_circle_.svg"))
	assert.Equal(t, "two stars", DescriptionFromFileName("two_stars.svg"))
}

func TestPackerEmitsOneRecordPerArtifact(t *testing.T) {
	inDir := t.TempDir()

	artifacts := map[string]string{
		"a_red_circle_.svg": "<svg viewBox='0 0 10 10'><circle r='4'/></svg>",
		"two_stars_.svg":    "<svg viewBox='0 0 20 20'><path d='M0 0'/></svg>",
	}
	for name, svg := range artifacts {
		require.NoError(t, os.WriteFile(filepath.Join(inDir, name), []byte(svg), 0o644))
	}
	// Non-artifact files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "notes.txt"), []byte("skip me"), 0o644))

	outPath := filepath.Join(t.TempDir(), "train.jsonl")
	count, err := NewPacker(inDir).Pack(outPath)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	records := readRecords(t, outPath)
	require.Len(t, records, 2)

	// Sorted by file name: a_red_circle_ first
	first := records[0]
	require.Len(t, first.Messages, 3)
	assert.Equal(t, "system", first.Messages[0].Role)
	assert.Equal(t, "user", first.Messages[1].Role)
	assert.Contains(t, first.Messages[1].Content, "a red circle")
	assert.Equal(t, "assistant", first.Messages[2].Role)
	assert.Equal(t, artifacts["a_red_circle_.svg"], first.Messages[2].Content)
}

func TestPackerRoundTripsSanitizedIdeas(t *testing.T) {
	inDir := t.TempDir()

	idea := "A snowman wearing a red scarf."
	w := NewWriter(inDir)
	require.NoError(t, w.EnsureDir())
	path, err := w.WriteArtifact(idea, "<svg/>")
	require.NoError(t, err)

	desc := DescriptionFromFileName(filepath.Base(path))
	assert.Equal(t, "a snowman wearing a red scarf ", desc)
}

func TestPackerEmptyDirectory(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "train.jsonl")
	count, err := NewPacker(t.TempDir()).Pack(outPath)
	require.NoError(t, err)
	assert.Zero(t, count)

	info, err := os.Stat(outPath)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestPackerMissingDirectory(t *testing.T) {
	_, err := NewPacker(filepath.Join(t.TempDir(), "missing")).Pack(filepath.Join(t.TempDir(), "out.jsonl"))
	assert.Error(t, err)
}
