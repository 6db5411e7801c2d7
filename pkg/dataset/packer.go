package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/odvcencio/svgfoundry/pkg/model"
)

// Default chat framing for packed training records.
const (
	packSystemPrompt = "You are an expert SVG illustrator. You output only raw SVG markup."
	packUserTemplate = "Create an SVG image of: %s"
)

// TrainingRecord is one line of the packed dataset file.
type TrainingRecord struct {
	Messages []model.Message `json:"messages"`
}

// Packer repackages persisted artifacts into a line-delimited training file.
// It depends only on the stage-1 naming convention: one artifact file per
// idea, filename encodes the idea.
type Packer struct {
	inputDir string
}

// NewPacker creates a packer over the stage-1 output directory.
func NewPacker(inputDir string) *Packer {
	return &Packer{inputDir: inputDir}
}

// DescriptionFromFileName reverses the sanitization: the extension is dropped
// and underscores become spaces.
func DescriptionFromFileName(name string) string {
	stem := strings.TrimSuffix(name, ArtifactExtension)
	return strings.ReplaceAll(stem, "_", " ")
}

// Pack reads every artifact in the input directory and writes one JSON object
// per line to outPath. Returns the number of records written.
func (p *Packer) Pack(outPath string) (int, error) {
	entries, err := os.ReadDir(p.inputDir)
	if err != nil {
		return 0, fmt.Errorf("reading input directory %s: %w", p.inputDir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ArtifactExtension) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("creating output file %s: %w", outPath, err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	enc := json.NewEncoder(w)

	count := 0
	for _, name := range names {
		svg, err := os.ReadFile(filepath.Join(p.inputDir, name))
		if err != nil {
			return count, fmt.Errorf("reading artifact %s: %w", name, err)
		}

		record := TrainingRecord{
			Messages: []model.Message{
				{Role: "system", Content: packSystemPrompt},
				{Role: "user", Content: fmt.Sprintf(packUserTemplate, DescriptionFromFileName(name))},
				{Role: "assistant", Content: string(svg)},
			},
		}

		if err := enc.Encode(record); err != nil {
			return count, fmt.Errorf("encoding record for %s: %w", name, err)
		}
		count++
	}

	if err := w.Flush(); err != nil {
		return count, fmt.Errorf("flushing output: %w", err)
	}
	return count, nil
}
