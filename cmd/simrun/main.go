// Command simrun executes one headless simulation from a density map
// image and writes its telemetry, for experiments and parameter
// tuning without the full locality pipeline.
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/geosims/outbreak/config"
	"github.com/geosims/outbreak/raster"
	"github.com/geosims/outbreak/sim"
	"github.com/geosims/outbreak/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	densityPath := flag.String("density", "", "Density map image (PNG)")
	outputDir := flag.String("output", "", "Output directory for CSV logs (empty = stdout summary only)")
	seed := flag.Int64("seed", 0, "Override the configured RNG seed (0 = keep config)")
	frames := flag.Bool("frames", false, "Also write the zstd snapshot stream")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *densityPath == "" {
		slog.Error("--density is required")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	f, err := raster.LoadDensityMap(*densityPath, cfg.Raster.Width)
	if err != nil {
		slog.Error("failed to load density map", "error", err)
		os.Exit(1)
	}

	params := cfg.SimParams()
	if *seed != 0 {
		params.Seed = *seed
	}

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to open output", "error", err)
		os.Exit(1)
	}
	defer om.Close()

	var frameLog *telemetry.FrameLog
	if *frames && *outputDir != "" {
		frameLog, err = telemetry.CreateFrameLog(filepath.Join(*outputDir, "frames.jsonl.zst"))
		if err != nil {
			slog.Error("failed to open frame log", "error", err)
			os.Exit(1)
		}
		defer frameLog.Close()
	}

	collector := telemetry.NewCollector(params.InitialInfected)

	slog.Info("starting run",
		"agents", params.AgentCount,
		"steps", params.Steps,
		"field", f.Cols()*f.Rows(),
		"seed", params.Seed,
	)

	summary, err := sim.RunStream(f, params, func(s sim.Snapshot) error {
		stats := collector.Observe(s)
		if err := om.WriteStep(stats); err != nil {
			return err
		}
		if frameLog != nil {
			return frameLog.Append(s)
		}
		return nil
	})
	if err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}

	rs := telemetry.Aggregate(collector.Timeline(), params.AgentCount)
	if err := om.WriteRun(telemetry.NewRunRecord("simrun", "", summary, rs)); err != nil {
		slog.Error("failed to write run record", "error", err)
		os.Exit(1)
	}

	slog.Info("run complete",
		"steps", summary.Steps,
		"reason", summary.Reason,
		"susceptible", summary.Susceptible,
		"infected", summary.Infected,
		"removed", summary.Removed,
		"peak_infected", rs.PeakInfected,
		"peak_step", rs.PeakStep,
		"attack_rate", rs.AttackRate,
		"seed", summary.Seed,
		"chosen_seed", summary.ChosenSeed,
	)
}
