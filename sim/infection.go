package sim

import (
	"math/rand/v2"
)

// resolver decides one step's compartment transitions. All transitions
// are computed against the compartments as they stood at the start of
// the step: an agent infected this step cannot itself infect others
// within the same step, regardless of iteration order.
type resolver struct {
	radius   float64
	prob     float64
	duration int32
	rng      *rand.Rand

	prior     []State // compartments at step start
	neighbors []int32 // reusable query buffer
}

func newResolver(p Params, rng *rand.Rand) *resolver {
	return &resolver{
		radius:    p.InfectionRadius,
		prob:      p.InfectionProbability,
		duration:  int32(p.InfectiousDuration),
		rng:       rng,
		neighbors: make([]int32, 0, 64),
	}
}

// apply resolves transitions for one step using the rebuilt index.
// Every Infected agent exposes each Susceptible neighbor within the
// infection radius to an independent Bernoulli(prob) trial, and moves
// to Removed once duration steps have passed since its infection.
// Removed agents never re-transition.
func (r *resolver) apply(pop *population, grid *bucketGrid, step int32) {
	r.prior = append(r.prior[:0], pop.states...)

	for i := int32(0); i < int32(pop.len()); i++ {
		if r.prior[i] != Infected {
			continue
		}

		r.neighbors = grid.neighborsInto(r.neighbors[:0], pop.xs, pop.ys, i, r.radius)
		for _, j := range r.neighbors {
			if r.prior[j] != Susceptible {
				continue
			}
			// One independent trial per infectious contact pair, so a
			// susceptible agent near several infected agents gets
			// several chances to catch it.
			if r.rng.Float64() < r.prob && pop.states[j] == Susceptible {
				pop.states[j] = Infected
				pop.infectedAt[j] = step
			}
		}

		if step-pop.infectedAt[i] >= r.duration {
			pop.states[i] = Removed
		}
	}
}
