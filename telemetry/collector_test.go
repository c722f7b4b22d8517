package telemetry

import (
	"testing"

	"github.com/geosims/outbreak/sim"
)

func TestCollectorDerivesTransitions(t *testing.T) {
	c := NewCollector(3)

	// Step 1: two new infections.
	s1 := c.Observe(sim.Snapshot{Step: 1, Susceptible: 95, Infected: 5, Removed: 0})
	if s1.NewInfections != 2 || s1.NewRemovals != 0 {
		t.Errorf("step 1 = %d new infections, %d removals; want 2, 0", s1.NewInfections, s1.NewRemovals)
	}

	// Step 2: three new infections, one removal.
	s2 := c.Observe(sim.Snapshot{Step: 2, Susceptible: 92, Infected: 7, Removed: 1})
	if s2.NewInfections != 3 || s2.NewRemovals != 1 {
		t.Errorf("step 2 = %d new infections, %d removals; want 3, 1", s2.NewInfections, s2.NewRemovals)
	}

	// Step 3: no transitions at all.
	s3 := c.Observe(sim.Snapshot{Step: 3, Susceptible: 92, Infected: 7, Removed: 1})
	if s3.NewInfections != 0 || s3.NewRemovals != 0 {
		t.Errorf("step 3 = %d new infections, %d removals; want 0, 0", s3.NewInfections, s3.NewRemovals)
	}

	if n := len(c.Timeline()); n != 3 {
		t.Errorf("timeline length = %d, want 3", n)
	}
}

func TestCollectorNoInitialInfected(t *testing.T) {
	c := NewCollector(0)
	s := c.Observe(sim.Snapshot{Step: 1, Susceptible: 100, Infected: 0, Removed: 0})
	if s.NewInfections != 0 || s.NewRemovals != 0 {
		t.Errorf("got %d new infections, %d removals; want none", s.NewInfections, s.NewRemovals)
	}
}
