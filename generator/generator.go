// Package generator drives end-to-end outbreak generation: density
// raster in, simulation run, telemetry and animation out, one locality
// at a time or batched across a worker pool.
package generator

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/geosims/outbreak/config"
	"github.com/geosims/outbreak/raster"
	"github.com/geosims/outbreak/render"
	"github.com/geosims/outbreak/sim"
	"github.com/geosims/outbreak/telemetry"
)

// Generator produces outbreak animations for localities. Each Generate
// call owns its field, population, and random stream, so a single
// Generator may serve concurrent calls.
type Generator struct {
	cfg     *config.Config
	catalog *raster.Catalog
}

// New creates a generator, loading the raster metadata catalog.
func New(cfg *config.Config) (*Generator, error) {
	catalog, err := raster.LoadCatalog(cfg.Raster.MetadataPath)
	if err != nil {
		return nil, fmt.Errorf("loading raster catalog: %w", err)
	}
	return &Generator{cfg: cfg, catalog: catalog}, nil
}

// densityMapPath maps a catalog entry to its converted density map
// image: the raster's base name with a .png extension under the
// density map directory.
func (g *Generator) densityMapPath(e raster.Entry) string {
	base := filepath.Base(e.File)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(g.cfg.Raster.Dir, stem+".png")
}

// Generate runs one locality's full pipeline and returns its run
// record. Output lands under <output.dir>/<slug>/.
func (g *Generator) Generate(loc Locality) (telemetry.RunRecord, error) {
	log := slog.With("locality", loc.Locality, "country", loc.CountryCode)

	entry, err := g.catalog.Match(loc.Lat, loc.Lon)
	if err != nil {
		return telemetry.RunRecord{}, fmt.Errorf("locality %s: %w", loc.Locality, err)
	}

	f, err := raster.LoadDensityMap(g.densityMapPath(entry), g.cfg.Raster.Width)
	if err != nil {
		return telemetry.RunRecord{}, fmt.Errorf("locality %s: %w", loc.Locality, err)
	}

	params := g.cfg.SimParams()
	if loc.Seed != 0 {
		params.Seed = loc.Seed
	}
	// Seed the outbreak at the locality's coordinates.
	rx, ry := entry.RelativeCoords(loc.Lat, loc.Lon)
	params.OriginX = f.OriginX() + rx*f.Width()
	params.OriginY = f.OriginY() + ry*f.Height()
	params.HasOrigin = true

	outDir := filepath.Join(g.cfg.Output.Dir, loc.Slug())
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return telemetry.RunRecord{}, fmt.Errorf("creating output dir: %w", err)
	}

	var om *telemetry.OutputManager
	if g.cfg.Output.WriteTimeline {
		om, err = telemetry.NewOutputManager(outDir)
		if err != nil {
			return telemetry.RunRecord{}, err
		}
		defer om.Close()
	}

	var frameLog *telemetry.FrameLog
	if g.cfg.Output.WriteFrames {
		frameLog, err = telemetry.CreateFrameLog(filepath.Join(outDir, "frames.jsonl.zst"))
		if err != nil {
			return telemetry.RunRecord{}, err
		}
		defer frameLog.Close()
	}

	var frames []image.Image
	var renderer *render.Renderer
	if g.cfg.Output.WriteGIF {
		renderer = render.NewRenderer(f, g.cfg.Render.Scale)
	}

	collector := telemetry.NewCollector(params.InitialInfected)
	stride := int32(g.cfg.Render.FrameStride)

	log.Info("starting run",
		"agents", params.AgentCount,
		"steps", params.Steps,
		"field", fmt.Sprintf("%dx%d", f.Rows(), f.Cols()),
	)

	summary, err := sim.RunStream(f, params, func(s sim.Snapshot) error {
		stats := collector.Observe(s)
		if err := om.WriteStep(stats); err != nil {
			return err
		}
		if frameLog != nil {
			if err := frameLog.Append(s); err != nil {
				return err
			}
		}
		if renderer != nil && s.Step%stride == 0 {
			frames = append(frames, renderer.Frame(s))
		}
		return nil
	})
	if err != nil {
		return telemetry.RunRecord{}, fmt.Errorf("locality %s: %w", loc.Locality, err)
	}

	rs := telemetry.Aggregate(collector.Timeline(), params.AgentCount)
	rec := telemetry.NewRunRecord(loc.Locality, loc.CountryCode, summary, rs)
	if err := om.WriteRun(rec); err != nil {
		return telemetry.RunRecord{}, err
	}

	if renderer != nil && len(frames) > 0 {
		gifPath := filepath.Join(outDir, loc.Slug()+".gif")
		if err := render.WriteGIF(gifPath, frames, g.cfg.Render.FPS); err != nil {
			return telemetry.RunRecord{}, fmt.Errorf("locality %s: %w", loc.Locality, err)
		}
		log.Info("animation written", "path", gifPath, "frames", len(frames))
	}

	if err := g.cfg.WriteYAML(filepath.Join(outDir, "config.yaml")); err != nil {
		return telemetry.RunRecord{}, err
	}

	log.Info("run complete",
		"steps", summary.Steps,
		"reason", summary.Reason,
		"peak_infected", rs.PeakInfected,
		"attack_rate", fmt.Sprintf("%.3f", rs.AttackRate),
		"seed", summary.Seed,
	)
	return rec, nil
}
