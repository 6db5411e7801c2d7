package generator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/odvcencio/svgfoundry/pkg/config"
	"github.com/odvcencio/svgfoundry/pkg/dataset"
	"github.com/odvcencio/svgfoundry/pkg/logging"
	"github.com/odvcencio/svgfoundry/pkg/model"
	"github.com/odvcencio/svgfoundry/pkg/prompts"
)

const artifactPreviewLen = 80

// RunStats summarizes one generation run.
type RunStats struct {
	Attempted int // Top-level iterations performed
	Ideas     int // Ideas accepted into the session
	Persisted int // Artifacts written to disk
	Rejected  int // Artifacts discarded by validation
	Skipped   int // Iterations that produced no artifact (call failures)
}

// Generator drives the sequential idea -> artifact production loop.
type Generator struct {
	cfg      *config.Config
	provider model.Provider
	composer *prompts.Composer
	writer   *dataset.Writer
	manifest *dataset.Manifest
	logger   *logging.Logger
	runID    string
	sleep    SleepFunc
}

type Option func(*Generator)

// WithSleep overrides the suspension function used for retry delays and
// inter-iteration pacing.
func WithSleep(sleep SleepFunc) Option {
	return func(g *Generator) {
		g.sleep = sleep
	}
}

// WithManifest attaches a run manifest; persisted artifacts are recorded in it.
func WithManifest(m *dataset.Manifest) Option {
	return func(g *Generator) {
		g.manifest = m
	}
}

// New creates a generator for one run.
func New(cfg *config.Config, provider model.Provider, composer *prompts.Composer, writer *dataset.Writer, logger *logging.Logger, runID string, opts ...Option) *Generator {
	g := &Generator{
		cfg:      cfg,
		provider: provider,
		composer: composer,
		writer:   writer,
		logger:   logger,
		runID:    runID,
		sleep:    SleepContext,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run performs exactly cfg.Generation.Count iterations. Individual call
// failures and validation rejections skip the iteration; only setup failures
// (or context cancellation) abort the run.
func (g *Generator) Run(ctx context.Context) (*RunStats, error) {
	if err := g.writer.EnsureDir(); err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}

	gen := g.cfg.Generation
	session := NewSession()
	stats := &RunStats{}

	g.logger.Info(logging.CategoryGeneration, "run_started", "starting generation run", map[string]any{
		"count":      gen.Count,
		"model":      gen.Model,
		"output_dir": gen.OutputDir,
	})

	for i := 1; i <= gen.Count; i++ {
		stats.Attempted++
		g.runIteration(ctx, i, session, stats)

		// Pace API calls between iterations regardless of outcome
		if i < gen.Count {
			if err := g.sleep(ctx, gen.GenerationDelay); err != nil {
				return stats, err
			}
		}
	}

	g.logger.Info(logging.CategoryGeneration, "run_finished", "generation run complete", map[string]any{
		"attempted": stats.Attempted,
		"persisted": stats.Persisted,
		"rejected":  stats.Rejected,
		"skipped":   stats.Skipped,
	})
	return stats, nil
}

func (g *Generator) runIteration(ctx context.Context, iteration int, session *Session, stats *RunStats) {
	idea, ok := g.requestIdea(ctx, session.Ideas())
	if !ok {
		stats.Skipped++
		g.logEvent(logging.LevelWarn, logging.CategoryGeneration, "iteration_skipped", iteration, "no idea produced", nil)
		return
	}

	session.Add(idea)
	stats.Ideas++
	g.logEvent(logging.LevelInfo, logging.CategoryGeneration, "idea_accepted", iteration, "idea accepted", map[string]any{
		"idea": idea,
	})

	artifact, ok := g.requestArtifact(ctx, idea)
	if !ok {
		stats.Skipped++
		g.logEvent(logging.LevelWarn, logging.CategoryGeneration, "iteration_skipped", iteration, "no artifact produced", map[string]any{
			"idea": idea,
		})
		return
	}

	if !ValidArtifact(artifact) {
		stats.Rejected++
		g.logEvent(logging.LevelWarn, logging.CategoryValidation, "artifact_rejected", iteration, "artifact does not start with <svg", map[string]any{
			"idea":    idea,
			"preview": logging.Truncate(artifact, artifactPreviewLen),
		})
		return
	}

	if g.writer.Exists(idea) {
		g.logEvent(logging.LevelWarn, logging.CategoryDataset, "name_collision", iteration, "overwriting existing artifact", map[string]any{
			"idea": idea,
		})
	}

	path, err := g.writer.WriteArtifact(idea, artifact)
	if err != nil {
		stats.Skipped++
		g.logEvent(logging.LevelError, logging.CategoryDataset, "write_failed", iteration, err.Error(), map[string]any{
			"idea": idea,
		})
		return
	}

	stats.Persisted++
	g.logEvent(logging.LevelInfo, logging.CategoryDataset, "artifact_persisted", iteration, "artifact written", map[string]any{
		"idea":    idea,
		"path":    path,
		"preview": logging.Truncate(artifact, artifactPreviewLen),
	})

	if g.manifest != nil {
		entry := dataset.ManifestEntry{
			RunID:    g.runID,
			Idea:     idea,
			FileName: filepath.Base(path),
			ByteSize: int64(len(artifact)),
		}
		if err := g.manifest.Record(entry); err != nil {
			g.logEvent(logging.LevelWarn, logging.CategoryDataset, "manifest_record_failed", iteration, err.Error(), nil)
		}
	}
}

// requestIdea asks the model for one new idea via a non-streamed call.
func (g *Generator) requestIdea(ctx context.Context, previous []string) (string, bool) {
	gen := g.cfg.Generation

	return CallWithRetry(ctx, g.logger, "idea", gen.MaxAttempts, gen.RetryDelay, g.sleep, func(ctx context.Context) (string, error) {
		resp, err := g.provider.ChatCompletion(ctx, model.ChatRequest{
			Model: gen.Model,
			Messages: []model.Message{
				{Role: "system", Content: g.composer.SystemPrompt()},
				{Role: "user", Content: g.composer.IdeaPrompt(previous)},
			},
			Temperature: gen.Temperature,
			MaxTokens:   gen.MaxTokens,
		})
		if err != nil {
			return "", err
		}

		idea := strings.TrimSpace(resp.Content())
		if idea == "" {
			return "", errors.New("model returned empty idea")
		}
		return idea, nil
	})
}

// requestArtifact asks the model to render one idea as SVG via a streamed
// call. A fresh accumulator is used per attempt; partial content from a
// failed stream never carries across retries.
func (g *Generator) requestArtifact(ctx context.Context, idea string) (string, bool) {
	gen := g.cfg.Generation

	return CallWithRetry(ctx, g.logger, "artifact", gen.MaxAttempts, gen.RetryDelay, g.sleep, func(ctx context.Context) (string, error) {
		chunks, errs := g.provider.ChatCompletionStream(ctx, model.ChatRequest{
			Model: gen.Model,
			Messages: []model.Message{
				{Role: "system", Content: g.composer.ArtifactSystemPrompt()},
				{Role: "user", Content: g.composer.ArtifactPrompt(idea)},
			},
			Temperature: gen.Temperature,
			MaxTokens:   gen.MaxTokens,
		})

		content, err := model.Drain(chunks, errs)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(content), nil
	})
}

func (g *Generator) logEvent(level logging.Level, category logging.Category, eventType string, iteration int, message string, details map[string]any) {
	g.logger.Log(logging.Event{
		Level:     level,
		Category:  category,
		EventType: eventType,
		Iteration: iteration,
		Message:   message,
		Details:   details,
	})
}
