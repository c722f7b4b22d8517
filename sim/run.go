package sim

import (
	"math/rand/v2"
	"time"

	"github.com/geosims/outbreak/field"
)

// A run is a pure function of (field, params, seed): all randomness
// comes from one seeded stream shared by the sampler, the mobility
// model, and the infection resolver, and a single run is strictly
// sequential. Independent runs share no mutable state and may execute
// concurrently.

// Run executes one simulation and returns the buffered snapshot
// sequence. Memory is O(agentCount × steps); use RunStream for large
// runs.
func Run(f *field.Field, p Params) ([]Snapshot, Summary, error) {
	snapshots := make([]Snapshot, 0, p.Steps)
	summary, err := RunStream(f, p, func(s Snapshot) error {
		snapshots = append(snapshots, s)
		return nil
	})
	if err != nil {
		return nil, Summary{}, err
	}
	return snapshots, summary, nil
}

// RunStream executes one simulation, handing each step's Snapshot to
// emit as soon as it is complete so frames can render incrementally.
// A non-nil error from emit aborts the run.
//
// Within a step, movement happens first so an agent's exposure
// reflects its new position; the index is rebuilt from the moved
// positions and the resolver runs against it. The run stops early,
// without error, once no Infected agents remain.
func RunStream(f *field.Field, p Params, emit func(Snapshot) error) (Summary, error) {
	if err := p.Validate(); err != nil {
		return Summary{}, err
	}

	seed := p.Seed
	chosen := false
	if seed == 0 {
		seed = time.Now().UnixNano()
		chosen = true
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))

	pop, err := samplePopulation(f, p, rng, 0)
	if err != nil {
		return Summary{}, err
	}

	grid := newBucketGrid(f, p.InfectionRadius)
	move := newMover(p, rng)
	infect := newResolver(p, rng)

	summary := Summary{Seed: seed, ChosenSeed: chosen}
	for step := int32(1); step <= int32(p.Steps); step++ {
		for i := 0; i < pop.len(); i++ {
			if pop.states[i] == Removed {
				continue // removed agents stay frozen in place
			}
			pop.xs[i], pop.ys[i] = move.next(f, pop.xs[i], pop.ys[i])
		}

		grid.rebuild(pop.xs, pop.ys)
		infect.apply(pop, grid, step)

		snap := capture(pop, step)
		if err := emit(snap); err != nil {
			return Summary{}, err
		}

		summary.Steps = int(step)
		summary.Susceptible = snap.Susceptible
		summary.Infected = snap.Infected
		summary.Removed = snap.Removed
		if snap.Infected == 0 {
			summary.Reason = Extinguished
			return summary, nil
		}
	}

	summary.Reason = StepBudgetExhausted
	return summary, nil
}
