// Command outbreak generates spatial outbreak animations for a batch
// of localities from population-density rasters.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/geosims/outbreak/config"
	"github.com/geosims/outbreak/generator"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	localitiesPath := flag.String("localities", "assets/data/localities.json", "Localities JSON file")
	only := flag.String("locality", "", "Generate a single locality by name")
	outputDir := flag.String("output", "", "Override the configured output directory")
	workers := flag.Int("workers", 0, "Concurrent runs (0 = config, then GOMAXPROCS)")
	seed := flag.Int64("seed", 0, "Override the configured RNG seed (0 = keep config)")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}

	locs, err := generator.LoadLocalities(*localitiesPath)
	if err != nil {
		slog.Error("failed to load localities", "error", err)
		os.Exit(1)
	}
	if *only != "" {
		filtered := locs[:0]
		for _, l := range locs {
			if l.Locality == *only {
				filtered = append(filtered, l)
			}
		}
		locs = filtered
		if len(locs) == 0 {
			slog.Error("locality not found", "locality", *only)
			os.Exit(1)
		}
	}

	gen, err := generator.New(cfg)
	if err != nil {
		slog.Error("failed to initialize generator", "error", err)
		os.Exit(1)
	}

	slog.Info("starting batch", "localities", len(locs), "workers", *workers)
	results := gen.GenerateAll(locs, *workers)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	slog.Info("batch complete", "total", len(results), "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}
