// Package telemetry accumulates per-step outbreak statistics and
// writes structured run output.
package telemetry

import (
	"gonum.org/v1/gonum/stat"
)

// StepStats holds the compartment counts and transition events for one
// completed simulation step.
type StepStats struct {
	Step        int32 `csv:"step"`
	Susceptible int   `csv:"susceptible"`
	Infected    int   `csv:"infected"`
	Removed     int   `csv:"removed"`

	NewInfections int `csv:"new_infections"`
	NewRemovals   int `csv:"new_removals"`
}

// RunStats aggregates a full timeline for reporting.
type RunStats struct {
	PeakInfected int
	PeakStep     int32

	MeanInfected   float64
	StdDevInfected float64

	// EverInfected counts agents that were infected at any point;
	// AttackRate is that as a fraction of the population.
	EverInfected int
	AttackRate   float64
}

// Aggregate computes run-level statistics from a step timeline.
func Aggregate(timeline []StepStats, agentCount int) RunStats {
	var rs RunStats
	if len(timeline) == 0 {
		return rs
	}

	infected := make([]float64, len(timeline))
	for i, s := range timeline {
		infected[i] = float64(s.Infected)
		if s.Infected > rs.PeakInfected {
			rs.PeakInfected = s.Infected
			rs.PeakStep = s.Step
		}
	}
	rs.MeanInfected = stat.Mean(infected, nil)
	if len(infected) > 1 {
		rs.StdDevInfected = stat.StdDev(infected, nil)
	}

	last := timeline[len(timeline)-1]
	rs.EverInfected = last.Infected + last.Removed
	if agentCount > 0 {
		rs.AttackRate = float64(rs.EverInfected) / float64(agentCount)
	}
	return rs
}
