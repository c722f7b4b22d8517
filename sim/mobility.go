package sim

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/geosims/outbreak/field"
)

// mover implements the density-aware random walk. Direction is uniform
// in [0, 2π); step length comes from the configured distribution family
// with scale baseStep / (1 + localDensity), clamped below by minStep so
// agents in zero-density cells still move. Denser cells mean shorter
// steps.
type mover struct {
	baseStep float64
	minStep  float64
	family   StepDistribution
	rng      *rand.Rand
}

func newMover(p Params, rng *rand.Rand) *mover {
	family := p.StepLengths
	if family == "" {
		family = StepExponential
	}
	return &mover{
		baseStep: p.BaseStep,
		minStep:  p.MinStep,
		family:   family,
		rng:      rng,
	}
}

// next returns the agent's position for the next step. Positions that
// land outside the extent are mirrored back across the violated edge,
// never wrapped and never clamped, so there is no pile-up at borders.
func (m *mover) next(f *field.Field, x, y float64) (float64, float64) {
	scale := m.baseStep / (1 + f.DensityAt(x, y))
	length := m.stepLength(scale)
	if length < m.minStep {
		length = m.minStep
	}

	theta := m.rng.Float64() * 2 * math.Pi
	nx := x + length*math.Cos(theta)
	ny := y + length*math.Sin(theta)

	nx = reflect(nx, f.OriginX(), f.MaxX())
	ny = reflect(ny, f.OriginY(), f.MaxY())
	return nx, ny
}

// stepLength draws from the configured family. Both families have mean
// equal to scale, so swapping them shifts tails, not drift.
func (m *mover) stepLength(scale float64) float64 {
	switch m.family {
	case StepUniform:
		return distuv.Uniform{Min: 0, Max: 2 * scale, Src: m.rng}.Rand()
	default:
		return distuv.Exponential{Rate: 1 / scale, Src: m.rng}.Rand()
	}
}

// reflect mirrors v across whichever interval edge it violates until it
// lies within [min, max]. Each double reflection moves v a full span
// closer, so this terminates for any finite v.
func reflect(v, min, max float64) float64 {
	for v < min || v > max {
		if v < min {
			v = 2*min - v
		} else {
			v = 2*max - v
		}
	}
	return v
}
