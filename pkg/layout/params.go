// Package layout positions the states of a diagram with a force-directed
// relaxation. One call to Engine.Step performs one relaxation step and
// reports whether the configuration has settled.
package layout

import (
	"math"

	"github.com/ha1tch/turing-graph/pkg/geometry"
)

// Params are the constants of the force model.
type Params struct {
	CRep               float64 // repulsion between non-adjacent states closer than IdealLength
	CSpring            float64 // spring strength between adjacent states
	IdealLength        float64 // rest length of a spring
	MaxForce           float64 // clamp applied to every pair force
	StabilityThreshold float64 // a step whose largest force is below this is stable
	SeedSpread         float64 // side of the square fresh states are scattered over
}

// DefaultParams returns the standard force constants.
func DefaultParams() Params {
	return Params{
		CRep:               10000,
		CSpring:            100,
		IdealLength:        200,
		MaxForce:           100000,
		StabilityThreshold: 0.5,
		SeedSpread:         400,
	}
}

// Magnitude returns the signed scalar force between two states d apart.
// Positive values pull the states together, negative values push them apart.
func (p Params) Magnitude(d float64, adjacent bool) float64 {
	switch {
	case adjacent:
		return p.clamp(p.CSpring * math.Log10(d/p.IdealLength))
	case d < p.IdealLength:
		return -p.clamp(p.CRep / (d * d))
	default:
		return 0
	}
}

// PairForce returns the force exerted on state i at pi by state j at pj.
// Swapping the arguments yields the same force in the opposite direction.
func (p Params) PairForce(i, j int, pi, pj geometry.Vec, adjacent bool) geometry.Vec {
	d := geometry.Distance(pi, pj)
	dir := geometry.Direction(pi, pj)
	if dir.IsZero() {
		// coincident states separate along X, ordered by id
		dir = geometry.V(1, 0)
		if i > j {
			dir = dir.Neg()
		}
	}
	return dir.Scale(p.Magnitude(d, adjacent))
}

func (p Params) clamp(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	if f > p.MaxForce {
		return p.MaxForce
	}
	if f < -p.MaxForce {
		return -p.MaxForce
	}
	return f
}
