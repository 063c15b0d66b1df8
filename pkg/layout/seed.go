package layout

import (
	"math"
	"math/rand"

	"github.com/ha1tch/turing-graph/pkg/geometry"
)

// SeedMode selects how fresh states are placed before relaxation.
type SeedMode int

const (
	SeedRandom SeedMode = iota
	SeedCircular
)

// ParseSeedMode maps "random" and "circular" to a SeedMode. Anything else is
// random.
func ParseSeedMode(s string) SeedMode {
	if s == "circular" {
		return SeedCircular
	}
	return SeedRandom
}

func (m SeedMode) String() string {
	if m == SeedCircular {
		return "circular"
	}
	return "random"
}

// Seeder hands out provisional positions for states that have none yet.
type Seeder struct {
	Mode   SeedMode
	Spread float64
	rng    *rand.Rand
}

// NewSeeder returns a seeder drawing from a source seeded with seed.
func NewSeeder(mode SeedMode, spread float64, seed int64) *Seeder {
	return &Seeder{
		Mode:   mode,
		Spread: spread,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Random returns a point scattered uniformly over a Spread-sided square
// centred on the origin.
func (s *Seeder) Random() geometry.Vec {
	return geometry.V(
		(s.rng.Float64()-0.5)*s.Spread,
		(s.rng.Float64()-0.5)*s.Spread,
	)
}

// Positions returns starting positions for n states. In circular mode
// states are placed on a circle in breadth-first order from state 0, so
// neighbours start close together.
func (s *Seeder) Positions(n int, adj Adjacency) []geometry.Vec {
	pos := make([]geometry.Vec, n)
	if n == 0 {
		return pos
	}
	if s.Mode != SeedCircular {
		for i := range pos {
			pos[i] = s.Random()
		}
		return pos
	}

	radius := s.Spread / 2
	for i, id := range OrderByConnectivity(n, adj) {
		// start from the top and go clockwise
		angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		pos[id] = geometry.V(radius*math.Cos(angle), radius*math.Sin(angle))
	}
	return pos
}

// OrderByConnectivity lists state ids breadth-first from state 0 along
// outgoing transitions, followed by unreachable states in id order.
func OrderByConnectivity(n int, adj Adjacency) []int {
	if n == 0 {
		return nil
	}
	result := make([]int, 0, n)
	visited := make([]bool, n)

	queue := []int{0}
	visited[0] = true
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)

		for next := 0; next < n; next++ {
			if !visited[next] && adj.HasTransition(current, next) {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	for id := 0; id < n; id++ {
		if !visited[id] {
			result = append(result, id)
		}
	}
	return result
}
