package sim

import (
	"testing"
)

// placedPopulation builds a population at fixed positions with given
// states, infected agents timestamped at step 0.
func placedPopulation(coords [][2]float64, states []State) *population {
	pop := newPopulation(len(coords))
	for i, c := range coords {
		pop.xs[i] = c[0]
		pop.ys[i] = c[1]
		pop.states[i] = states[i]
		if states[i] == Infected {
			pop.infectedAt[i] = 0
		}
	}
	return pop
}

func TestNoSameStepCascade(t *testing.T) {
	// Chain: A infected at (1,1); B susceptible within radius of A;
	// C susceptible within radius of B but not of A. With certain
	// transmission, one step infects B but never C.
	f := uniformField(t, 10, 10)
	pop := placedPopulation(
		[][2]float64{{1, 1}, {1.8, 1}, {2.6, 1}},
		[]State{Infected, Susceptible, Susceptible},
	)

	grid := newBucketGrid(f, 1.0)
	grid.rebuild(pop.xs, pop.ys)

	r := newResolver(Params{InfectionRadius: 1.0, InfectionProbability: 1.0, InfectiousDuration: 100}, testRNG(51))
	r.apply(pop, grid, 1)

	if pop.states[1] != Infected {
		t.Errorf("agent B = %v, want infected", pop.states[1])
	}
	if pop.states[2] != Susceptible {
		t.Errorf("agent C = %v, want susceptible (no intra-step cascade)", pop.states[2])
	}
	if pop.infectedAt[1] != 1 {
		t.Errorf("agent B infection timestamp = %d, want 1", pop.infectedAt[1])
	}
}

func TestCascadeIndependentOfAgentOrder(t *testing.T) {
	// Same chain with the infected agent last: iteration order must
	// not change the outcome.
	f := uniformField(t, 10, 10)
	pop := placedPopulation(
		[][2]float64{{2.6, 1}, {1.8, 1}, {1, 1}},
		[]State{Susceptible, Susceptible, Infected},
	)

	grid := newBucketGrid(f, 1.0)
	grid.rebuild(pop.xs, pop.ys)

	r := newResolver(Params{InfectionRadius: 1.0, InfectionProbability: 1.0, InfectiousDuration: 100}, testRNG(51))
	r.apply(pop, grid, 1)

	if pop.states[1] != Infected {
		t.Errorf("middle agent = %v, want infected", pop.states[1])
	}
	if pop.states[0] != Susceptible {
		t.Errorf("far agent = %v, want susceptible", pop.states[0])
	}
}

func TestZeroProbabilityNeverInfects(t *testing.T) {
	f := uniformField(t, 10, 10)
	pop := placedPopulation(
		[][2]float64{{1, 1}, {1.2, 1}},
		[]State{Infected, Susceptible},
	)
	grid := newBucketGrid(f, 1.0)
	grid.rebuild(pop.xs, pop.ys)

	r := newResolver(Params{InfectionRadius: 1.0, InfectionProbability: 0, InfectiousDuration: 100}, testRNG(53))
	for step := int32(1); step <= 50; step++ {
		r.apply(pop, grid, step)
	}
	if pop.states[1] != Susceptible {
		t.Errorf("neighbor = %v, want susceptible with p=0", pop.states[1])
	}
}

func TestRemovalAfterInfectiousDuration(t *testing.T) {
	f := uniformField(t, 10, 10)
	pop := placedPopulation([][2]float64{{5, 5}}, []State{Infected})
	grid := newBucketGrid(f, 1.0)
	grid.rebuild(pop.xs, pop.ys)

	const duration = 4
	r := newResolver(Params{InfectionRadius: 1.0, InfectionProbability: 1.0, InfectiousDuration: duration}, testRNG(55))

	for step := int32(1); step < duration; step++ {
		r.apply(pop, grid, step)
		if pop.states[0] != Infected {
			t.Fatalf("step %d: state = %v, want still infected", step, pop.states[0])
		}
	}
	r.apply(pop, grid, duration)
	if pop.states[0] != Removed {
		t.Errorf("after %d steps: state = %v, want removed", duration, pop.states[0])
	}

	// Removed agents never re-transition.
	for step := int32(duration + 1); step <= duration+10; step++ {
		r.apply(pop, grid, step)
		if pop.states[0] != Removed {
			t.Fatalf("step %d: state = %v, want removed to stay removed", step, pop.states[0])
		}
	}
}

func TestAgentRemovedThisStepStillTransmits(t *testing.T) {
	// At the step an agent crosses its infectious duration it was
	// Infected at step start, so its contacts this step still count.
	f := uniformField(t, 10, 10)
	pop := placedPopulation(
		[][2]float64{{1, 1}, {1.5, 1}},
		[]State{Infected, Susceptible},
	)
	grid := newBucketGrid(f, 1.0)
	grid.rebuild(pop.xs, pop.ys)

	r := newResolver(Params{InfectionRadius: 1.0, InfectionProbability: 1.0, InfectiousDuration: 1}, testRNG(57))
	r.apply(pop, grid, 1)

	if pop.states[0] != Removed {
		t.Errorf("infector = %v, want removed", pop.states[0])
	}
	if pop.states[1] != Infected {
		t.Errorf("neighbor = %v, want infected by the removed agent's last infectious step", pop.states[1])
	}
}
