// Package config provides configuration loading and access for the
// outbreak generator.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/geosims/outbreak/sim"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all generator configuration parameters.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Mobility   MobilityConfig   `yaml:"mobility"`
	Infection  InfectionConfig  `yaml:"infection"`
	Raster     RasterConfig     `yaml:"raster"`
	Render     RenderConfig     `yaml:"render"`
	Output     OutputConfig     `yaml:"output"`
	Workers    int              `yaml:"workers"` // 0 = GOMAXPROCS
}

// SimulationConfig holds run-level parameters.
type SimulationConfig struct {
	AgentCount      int   `yaml:"agent_count"`
	InitialInfected int   `yaml:"initial_infected"`
	Steps           int   `yaml:"steps"`
	Seed            int64 `yaml:"seed"` // 0 = process-chosen
}

// MobilityConfig holds the random-walk parameters.
type MobilityConfig struct {
	BaseStep     float64 `yaml:"base_step"`
	MinStep      float64 `yaml:"min_step"`
	Distribution string  `yaml:"distribution"` // exponential | uniform
}

// InfectionConfig holds the transmission parameters.
type InfectionConfig struct {
	Radius      float64 `yaml:"radius"`
	Probability float64 `yaml:"probability"`
	Duration    int     `yaml:"duration"` // steps an agent stays infectious
}

// RasterConfig holds density-map loading parameters.
type RasterConfig struct {
	Dir          string `yaml:"dir"`           // directory of density map images
	MetadataPath string `yaml:"metadata_path"` // raster metadata catalog (JSON)
	Width        int    `yaml:"width"`         // resize target in cells
}

// RenderConfig holds frame rendering parameters.
type RenderConfig struct {
	Scale       int `yaml:"scale"`        // output pixels per field cell
	FrameStride int `yaml:"frame_stride"` // render every Nth snapshot
	FPS         int `yaml:"fps"`
}

// OutputConfig holds output destinations and toggles.
type OutputConfig struct {
	Dir           string `yaml:"dir"`
	WriteTimeline bool   `yaml:"write_timeline"` // per-step compartment CSV
	WriteFrames   bool   `yaml:"write_frames"`   // zstd JSONL snapshot stream
	WriteGIF      bool   `yaml:"write_gif"`
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. An empty path means defaults only.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into the same struct, only fields present in the
		// file are overwritten.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every constraint, surfacing violations before any
// run starts.
func (c *Config) Validate() error {
	if err := c.SimParams().Validate(); err != nil {
		return err
	}
	if c.Raster.Width <= 0 {
		return fmt.Errorf("%w: raster width %d must be > 0", sim.ErrInvalidParams, c.Raster.Width)
	}
	if c.Render.Scale <= 0 {
		return fmt.Errorf("%w: render scale %d must be > 0", sim.ErrInvalidParams, c.Render.Scale)
	}
	if c.Render.FrameStride <= 0 {
		return fmt.Errorf("%w: frame stride %d must be > 0", sim.ErrInvalidParams, c.Render.FrameStride)
	}
	if c.Render.FPS <= 0 {
		return fmt.Errorf("%w: fps %d must be > 0", sim.ErrInvalidParams, c.Render.FPS)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d must be >= 0", sim.ErrInvalidParams, c.Workers)
	}
	return nil
}

// SimParams maps the configuration onto one run's simulation
// parameters. The outbreak origin, when any, is set per locality by
// the caller.
func (c *Config) SimParams() sim.Params {
	return sim.Params{
		AgentCount:           c.Simulation.AgentCount,
		InitialInfected:      c.Simulation.InitialInfected,
		Steps:                c.Simulation.Steps,
		BaseStep:             c.Mobility.BaseStep,
		MinStep:              c.Mobility.MinStep,
		StepLengths:          sim.StepDistribution(c.Mobility.Distribution),
		InfectionRadius:      c.Infection.Radius,
		InfectionProbability: c.Infection.Probability,
		InfectiousDuration:   c.Infection.Duration,
		Seed:                 c.Simulation.Seed,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
