// Package sim implements the agent-based spatial outbreak simulator:
// density-matched population sampling, a bucket-grid spatial index,
// a density-aware random walk, and proximity-driven infection, driven
// by a deterministic per-run random stream.
package sim

// State is an agent's compartment in the minimal contagion model.
type State uint8

const (
	Susceptible State = iota
	Infected
	Removed
)

// String returns the lower-case compartment name.
func (s State) String() string {
	switch s {
	case Susceptible:
		return "susceptible"
	case Infected:
		return "infected"
	case Removed:
		return "removed"
	}
	return "unknown"
}

// neverInfected marks agents with no infection timestamp.
const neverInfected int32 = -1

// population is the flat struct-of-arrays agent store. An agent's id is
// its index; the count is fixed for the run and Removed agents keep
// their slot so ids stay addressable across the whole snapshot sequence.
type population struct {
	xs, ys     []float64
	states     []State
	infectedAt []int32 // step index of infection, neverInfected if none
}

func newPopulation(n int) *population {
	p := &population{
		xs:         make([]float64, n),
		ys:         make([]float64, n),
		states:     make([]State, n),
		infectedAt: make([]int32, n),
	}
	for i := range p.infectedAt {
		p.infectedAt[i] = neverInfected
	}
	return p
}

func (p *population) len() int { return len(p.states) }

// counts returns the compartment totals.
func (p *population) counts() (susceptible, infected, removed int) {
	for _, s := range p.states {
		switch s {
		case Susceptible:
			susceptible++
		case Infected:
			infected++
		case Removed:
			removed++
		}
	}
	return susceptible, infected, removed
}
