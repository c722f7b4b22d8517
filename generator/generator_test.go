package generator

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/geosims/outbreak/config"
)

// testAssets writes a density map PNG and a matching metadata catalog
// into dir, covering lat in [-10, 10], lon in [-10, 10].
func testAssets(t *testing.T, dir string) (pdmDir, catalogPath string) {
	t.Helper()

	pdmDir = filepath.Join(dir, "pdm")
	if err := os.MkdirAll(pdmDir, 0755); err != nil {
		t.Fatalf("creating pdm dir: %v", err)
	}

	img := image.NewGray(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			img.SetGray(x, y, color.Gray{Y: 128})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding density png: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pdmDir, "testregion.png"), buf.Bytes(), 0644); err != nil {
		t.Fatalf("writing density png: %v", err)
	}

	catalogPath = filepath.Join(dir, "raster-metadata.json")
	catalog := `{
  "testregion": {
    "file": "rasters/testregion.tif",
    "width": 40,
    "height": 40,
    "bands": 1,
    "crs": "EPSG:4326",
    "bbox": {"lat_min": -10, "lat_max": 10, "lon_min": -10, "lon_max": 10},
    "transform": {
      "scale-factor-x": 0.5,
      "shear-y-component-x": 0,
      "x-translation-term": -10,
      "shear-x-component-y": 0,
      "scale-factor-y": -0.5,
      "y-translation-term": 10
    }
  }
}`
	if err := os.WriteFile(catalogPath, []byte(catalog), 0644); err != nil {
		t.Fatalf("writing catalog: %v", err)
	}
	return pdmDir, catalogPath
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	pdmDir, catalogPath := testAssets(t, dir)

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load failed: %v", err)
	}
	cfg.Simulation.AgentCount = 150
	cfg.Simulation.InitialInfected = 3
	cfg.Simulation.Steps = 12
	cfg.Simulation.Seed = 42
	cfg.Infection.Duration = 8
	cfg.Raster.Dir = pdmDir
	cfg.Raster.MetadataPath = catalogPath
	cfg.Raster.Width = 40
	cfg.Render.Scale = 2
	cfg.Render.FrameStride = 2
	cfg.Output.Dir = filepath.Join(dir, "out")
	cfg.Output.WriteFrames = true
	return cfg
}

func TestGenerateProducesOutputs(t *testing.T) {
	cfg := testConfig(t)
	g, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	loc := Locality{Locality: "testville", CountryCode: "au", Lat: 2.0, Lon: 3.0}
	rec, err := g.Generate(loc)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if rec.Locality != "testville" || rec.Seed != 42 {
		t.Errorf("record = %+v, want locality testville with seed 42", rec)
	}
	if rec.Steps <= 0 {
		t.Errorf("record reports %d steps, want > 0", rec.Steps)
	}

	outDir := filepath.Join(cfg.Output.Dir, "outbreak-au-testville")
	for _, name := range []string{
		"timeline.csv",
		"runs.csv",
		"frames.jsonl.zst",
		"config.yaml",
		"outbreak-au-testville.gif",
	} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}
}

func TestGenerateUnknownCoordinateFails(t *testing.T) {
	cfg := testConfig(t)
	g, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_, err = g.Generate(Locality{Locality: "atlantis", CountryCode: "xx", Lat: 60, Lon: 60})
	if err == nil {
		t.Error("expected an error for a coordinate no raster covers")
	}
}

func TestGenerateLocalitySeedOverride(t *testing.T) {
	cfg := testConfig(t)
	g, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	rec, err := g.Generate(Locality{Locality: "seeded", CountryCode: "au", Lat: 1, Lon: 1, Seed: 777})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if rec.Seed != 777 {
		t.Errorf("seed = %d, want locality override 777", rec.Seed)
	}
}

func TestGenerateAll(t *testing.T) {
	cfg := testConfig(t)
	g, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	locs := []Locality{
		{Locality: "alpha", CountryCode: "au", Lat: 1, Lon: 1},
		{Locality: "beta", CountryCode: "au", Lat: -2, Lon: 4},
		{Locality: "nowhere", CountryCode: "xx", Lat: 80, Lon: 80}, // no coverage
	}
	results := g.GenerateAll(locs, 2)
	if len(results) != 3 {
		t.Fatalf("%d results, want 3", len(results))
	}
	if results[0].Err != nil || results[1].Err != nil {
		t.Errorf("covered localities failed: %v, %v", results[0].Err, results[1].Err)
	}
	if results[2].Err == nil {
		t.Error("uncovered locality should fail")
	}
	if results[0].Locality.Locality != "alpha" || results[2].Locality.Locality != "nowhere" {
		t.Error("results not aligned with their localities")
	}
}

func TestGenerateReproducibleRecord(t *testing.T) {
	cfg := testConfig(t)
	g, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	loc := Locality{Locality: "repeat", CountryCode: "au", Lat: 0.5, Lon: -0.5}

	rec1, err := g.Generate(loc)
	if err != nil {
		t.Fatalf("first Generate failed: %v", err)
	}
	rec2, err := g.Generate(loc)
	if err != nil {
		t.Fatalf("second Generate failed: %v", err)
	}
	if rec1 != rec2 {
		t.Errorf("records differ for identical inputs and seed:\n%+v\n%+v", rec1, rec2)
	}
}

func TestLoadLocalities(t *testing.T) {
	path := filepath.Join(t.TempDir(), "localities.json")
	data := `[
  {"locality": "Canberra", "country_code": "AU", "lat": -35.282, "lon": 149.128},
  {"locality": "hamburg", "country_code": "de", "lat": 53.55, "lon": 9.99, "seed": 5}
]`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("writing localities: %v", err)
	}

	locs, err := LoadLocalities(path)
	if err != nil {
		t.Fatalf("LoadLocalities failed: %v", err)
	}
	if len(locs) != 2 {
		t.Fatalf("%d localities, want 2", len(locs))
	}
	if locs[0].Slug() != "outbreak-au-canberra" {
		t.Errorf("slug = %q, want outbreak-au-canberra", locs[0].Slug())
	}
	if locs[1].Seed != 5 {
		t.Errorf("seed = %d, want 5", locs[1].Seed)
	}
}

func TestLoadLocalitiesRejectsIncomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "localities.json")
	if err := os.WriteFile(path, []byte(`[{"lat": 1, "lon": 2}]`), 0644); err != nil {
		t.Fatalf("writing localities: %v", err)
	}
	if _, err := LoadLocalities(path); err == nil {
		t.Error("expected an error for a locality missing its name")
	}
}
