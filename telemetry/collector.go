package telemetry

import (
	"github.com/geosims/outbreak/sim"
)

// Collector derives per-step transition events from the snapshot
// stream. An agent only ever moves Susceptible→Infected→Removed, so
// events fall out of consecutive compartment counts.
type Collector struct {
	prevInfected int
	prevRemoved  int
	timeline     []StepStats
}

// NewCollector creates a collector with the pre-step-1 baseline:
// initialInfected agents infected, none removed.
func NewCollector(initialInfected int) *Collector {
	return &Collector{
		prevInfected: initialInfected,
		timeline:     make([]StepStats, 0, 256),
	}
}

// Observe records one snapshot and returns its step stats.
func (c *Collector) Observe(s sim.Snapshot) StepStats {
	newRemovals := s.Removed - c.prevRemoved
	newInfections := (s.Infected + s.Removed) - (c.prevInfected + c.prevRemoved)

	stats := StepStats{
		Step:          s.Step,
		Susceptible:   s.Susceptible,
		Infected:      s.Infected,
		Removed:       s.Removed,
		NewInfections: newInfections,
		NewRemovals:   newRemovals,
	}
	c.timeline = append(c.timeline, stats)
	c.prevInfected = s.Infected
	c.prevRemoved = s.Removed
	return stats
}

// Timeline returns every observed step in order.
func (c *Collector) Timeline() []StepStats { return c.timeline }
