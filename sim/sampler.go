package sim

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"

	"github.com/geosims/outbreak/field"
)

// samplePopulation draws n agent positions whose spatial density
// matches the field and marks the initial infected.
//
// Placement builds a cumulative weight table over cells in row-major
// order, locates one uniform draw per agent by binary search, and
// jitters the agent uniformly within the located cell's footprint.
// The expected agent count in a cell is n * weight / totalWeight.
//
// Which agents start Infected is drawn from the run's random stream
// (not the first k sampled), unless an outbreak origin is set, in
// which case the k agents nearest the origin are chosen.
func samplePopulation(f *field.Field, p Params, rng *rand.Rand, step0 int32) (*population, error) {
	n := p.AgentCount
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d agents requested", ErrInvalidCount, n)
	}
	if p.InitialInfected > n {
		return nil, fmt.Errorf("%w: %d initial infected for %d agents", ErrInvalidCount, p.InitialInfected, n)
	}
	if f.TotalWeight() <= 0 {
		return nil, fmt.Errorf("%w: total weight is zero", field.ErrInvalidField)
	}

	if populated := f.PopulatedCells(); populated < n {
		// Non-fatal degeneracy: agents share cells, duplicate
		// positions are still a valid spatial sample.
		slog.Warn("density field has fewer populated cells than agents",
			"populated_cells", populated,
			"agent_count", n,
		)
	}

	rows, cols := f.Rows(), f.Cols()
	cum := make([]float64, rows*cols)
	total := 0.0
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			total += f.At(row, col)
			cum[row*cols+col] = total
		}
	}

	pop := newPopulation(n)
	cell := f.CellSize()
	for i := 0; i < n; i++ {
		u := rng.Float64() * total
		idx := sort.SearchFloat64s(cum, u)
		if idx >= len(cum) {
			idx = len(cum) - 1
		}
		row, col := idx/cols, idx%cols
		ox, oy := f.CellOrigin(row, col)
		pop.xs[i] = ox + rng.Float64()*cell
		pop.ys[i] = oy + rng.Float64()*cell
	}

	for _, i := range initialInfected(pop, p, rng) {
		pop.states[i] = Infected
		pop.infectedAt[i] = step0
	}
	return pop, nil
}

// initialInfected picks which agents start Infected.
func initialInfected(pop *population, p Params, rng *rand.Rand) []int {
	k := p.InitialInfected
	if k <= 0 {
		return nil
	}
	if !p.HasOrigin {
		return rng.Perm(pop.len())[:k]
	}

	// Outbreak seeded at a geographic point: infect the k agents
	// nearest the origin.
	order := make([]int, pop.len())
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return distSq(pop, order[a], p.OriginX, p.OriginY) < distSq(pop, order[b], p.OriginX, p.OriginY)
	})
	return order[:k]
}

func distSq(pop *population, i int, x, y float64) float64 {
	dx := pop.xs[i] - x
	dy := pop.ys[i] - y
	return dx*dx + dy*dy
}
