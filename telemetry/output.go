package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/geosims/outbreak/sim"
)

// RunRecord is one locality's completed run in runs.csv.
type RunRecord struct {
	Locality    string `csv:"locality"`
	CountryCode string `csv:"country_code"`

	Steps  int    `csv:"steps"`
	Reason string `csv:"reason"`

	Susceptible int `csv:"susceptible"`
	Infected    int `csv:"infected"`
	Removed     int `csv:"removed"`

	PeakInfected int     `csv:"peak_infected"`
	PeakStep     int32   `csv:"peak_step"`
	AttackRate   float64 `csv:"attack_rate"`

	Seed       int64 `csv:"seed"`
	ChosenSeed bool  `csv:"chosen_seed"`
}

// NewRunRecord combines a run summary with its aggregated timeline.
func NewRunRecord(locality, countryCode string, sum sim.Summary, rs RunStats) RunRecord {
	return RunRecord{
		Locality:     locality,
		CountryCode:  countryCode,
		Steps:        sum.Steps,
		Reason:       string(sum.Reason),
		Susceptible:  sum.Susceptible,
		Infected:     sum.Infected,
		Removed:      sum.Removed,
		PeakInfected: rs.PeakInfected,
		PeakStep:     rs.PeakStep,
		AttackRate:   rs.AttackRate,
		Seed:         sum.Seed,
		ChosenSeed:   sum.ChosenSeed,
	}
}

// OutputManager handles structured run output with CSV logging.
// A nil manager is valid and discards everything (output disabled).
type OutputManager struct {
	dir string

	timelineFile *os.File
	runsFile     *os.File

	timelineHeaderWritten bool
	runsHeaderWritten     bool
}

// NewOutputManager creates the output directory and opens the CSV
// files. Returns nil if dir is empty.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "timeline.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating timeline.csv: %w", err)
	}
	om.timelineFile = f

	f, err = os.Create(filepath.Join(dir, "runs.csv"))
	if err != nil {
		om.timelineFile.Close()
		return nil, fmt.Errorf("creating runs.csv: %w", err)
	}
	om.runsFile = f

	return om, nil
}

// Dir returns the output directory, or "" when output is disabled.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// WriteStep appends one step record to timeline.csv.
func (om *OutputManager) WriteStep(stats StepStats) error {
	if om == nil {
		return nil
	}
	records := []StepStats{stats}

	if !om.timelineHeaderWritten {
		if err := gocsv.Marshal(records, om.timelineFile); err != nil {
			return fmt.Errorf("writing timeline: %w", err)
		}
		om.timelineHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.timelineFile); err != nil {
			return fmt.Errorf("writing timeline: %w", err)
		}
	}
	return nil
}

// WriteRun appends one completed run to runs.csv.
func (om *OutputManager) WriteRun(rec RunRecord) error {
	if om == nil {
		return nil
	}
	records := []RunRecord{rec}

	if !om.runsHeaderWritten {
		if err := gocsv.Marshal(records, om.runsFile); err != nil {
			return fmt.Errorf("writing run record: %w", err)
		}
		om.runsHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.runsFile); err != nil {
			return fmt.Errorf("writing run record: %w", err)
		}
	}
	return nil
}

// Close closes the CSV files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	if err := om.timelineFile.Close(); err != nil {
		firstErr = err
	}
	if err := om.runsFile.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
