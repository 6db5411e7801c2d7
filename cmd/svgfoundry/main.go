package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/odvcencio/svgfoundry/pkg/config"
	"github.com/odvcencio/svgfoundry/pkg/dataset"
	"github.com/odvcencio/svgfoundry/pkg/generator"
	"github.com/odvcencio/svgfoundry/pkg/logging"
	"github.com/odvcencio/svgfoundry/pkg/model"
	"github.com/odvcencio/svgfoundry/pkg/prompts"
)

// Version information - set via ldflags during build
var (
	version   = "1.0.0-dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	var exitCode int
	switch args[0] {
	case "generate":
		exitCode = runGenerate(args[1:])
	case "pack":
		exitCode = runPack(args[1:])
	case "version", "--version", "-v":
		fmt.Printf("svgfoundry %s (commit %s, built %s)\n", version, commit, buildDate)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printUsage()
		exitCode = 1
	}
	os.Exit(exitCode)
}

func printUsage() {
	fmt.Print(`svgfoundry - synthetic SVG dataset generator

Usage:
  svgfoundry generate [flags]   Generate idea/SVG pairs via a language model
  svgfoundry pack [flags]       Pack generated SVGs into a JSONL training file
  svgfoundry version            Print version information

Generate flags:
  -config path     Config file (default svgfoundry.yaml)
  -count n         Number of generation iterations
  -output dir      Output directory for .svg files
  -model name      Model identifier

Pack flags:
  -input dir       Directory of .svg files (default svg_dataset)
  -out path        Output JSONL path (default training_data.jsonl)

The OPENROUTER_API_KEY environment variable supplies the API key.
`)
}

func runGenerate(args []string) int {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	configPath := fs.String("config", "svgfoundry.yaml", "config file path")
	count := fs.Int("count", 0, "override generation count")
	outputDir := fs.String("output", "", "override output directory")
	modelName := fs.String("model", "", "override model identifier")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if *count > 0 {
		cfg.Generation.Count = *count
	}
	if *outputDir != "" {
		cfg.Generation.OutputDir = *outputDir
	}
	if *modelName != "" {
		cfg.Generation.Model = *modelName
	}

	runID := ulid.Make().String()

	logger, err := logging.NewLogger(cfg.Logging.Dir, runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open run log: %v\n", err)
		return 1
	}
	defer logger.Close()
	logger.SetMinLevel(logging.ParseLevel(cfg.Logging.Level))

	client := model.NewClientWithOptions(cfg.Provider.APIKey, cfg.Provider.BaseURL, model.ClientOptions{
		NetworkLogsEnabled: cfg.Logging.NetworkLogsEnabled,
		NetworkLogDir:      cfg.Logging.Dir,
	})

	composer := prompts.NewComposer(prompts.WithSeedDescriptions(cfg.Generation.SeedDescriptions))
	writer := dataset.NewWriter(cfg.Generation.OutputDir)

	opts := []generator.Option{}
	manifest, err := dataset.OpenManifest(filepath.Join(cfg.Logging.Dir, "manifest.db"))
	if err != nil {
		// Runs still produce files without a manifest; note it and continue
		fmt.Fprintf(os.Stderr, "Warning: run manifest unavailable: %v\n", err)
	} else {
		defer manifest.Close()
		opts = append(opts, generator.WithManifest(manifest))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Run %s: generating %d artifacts with %s into %s\n",
		runID, cfg.Generation.Count, cfg.Generation.Model, cfg.Generation.OutputDir)

	start := time.Now()
	gen := generator.New(cfg, client, composer, writer, logger, runID, opts...)
	stats, err := gen.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Printf("Done in %s: %d/%d persisted (%d rejected, %d skipped)\n",
		time.Since(start).Round(time.Second), stats.Persisted, stats.Attempted, stats.Rejected, stats.Skipped)
	return 0
}

func runPack(args []string) int {
	fs := flag.NewFlagSet("pack", flag.ExitOnError)
	inputDir := fs.String("input", "svg_dataset", "directory of .svg files")
	outPath := fs.String("out", "training_data.jsonl", "output JSONL path")
	fs.Parse(args)

	packer := dataset.NewPacker(*inputDir)
	n, err := packer.Pack(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Printf("Packed %d training records into %s\n", n, *outPath)
	return 0
}
