package sim

// Snapshot is an immutable, step-tagged copy of every agent's position
// and compartment, emitted once per completed step. An agent's id is
// its index into the parallel slices; the slices have the initial agent
// count in every snapshot of a run.
type Snapshot struct {
	Step int32 `json:"step"`

	X      []float64 `json:"x"`
	Y      []float64 `json:"y"`
	States []State   `json:"states"`

	Susceptible int `json:"susceptible"`
	Infected    int `json:"infected"`
	Removed     int `json:"removed"`
}

// capture copies the population into a fresh Snapshot.
func capture(pop *population, step int32) Snapshot {
	n := pop.len()
	snap := Snapshot{
		Step:   step,
		X:      make([]float64, n),
		Y:      make([]float64, n),
		States: make([]State, n),
	}
	copy(snap.X, pop.xs)
	copy(snap.Y, pop.ys)
	copy(snap.States, pop.states)
	snap.Susceptible, snap.Infected, snap.Removed = pop.counts()
	return snap
}

// TerminationReason says why a run stopped.
type TerminationReason string

const (
	// Extinguished means no Infected agents remained before the step
	// budget ran out.
	Extinguished TerminationReason = "extinguished"
	// StepBudgetExhausted means the configured number of steps ran
	// with infections still active.
	StepBudgetExhausted TerminationReason = "step-budget-exhausted"
)

// Summary reports a completed run for downstream metadata generation.
type Summary struct {
	Steps  int               `json:"steps" csv:"steps"`
	Reason TerminationReason `json:"reason" csv:"reason"`

	Susceptible int `json:"susceptible" csv:"susceptible"`
	Infected    int `json:"infected" csv:"infected"`
	Removed     int `json:"removed" csv:"removed"`

	// Seed actually used. ChosenSeed is true when the caller omitted a
	// seed and the process picked one, which forfeits reproducibility.
	Seed       int64 `json:"seed" csv:"seed"`
	ChosenSeed bool  `json:"chosen_seed" csv:"chosen_seed"`
}
