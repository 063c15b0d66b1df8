package layout

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/turing-graph/pkg/geometry"
)

// edges is a simple adjacency over explicit directed pairs.
type edges map[[2]int]bool

func (e edges) HasTransition(from, to int) bool { return e[[2]int{from, to}] }

func TestMagnitude(t *testing.T) {
	p := DefaultParams()

	assert.InDelta(t, 0, p.Magnitude(200, true), 1e-9, "spring at rest length")
	assert.InDelta(t, 100, p.Magnitude(2000, true), 1e-9, "spring one decade long")
	assert.Less(t, p.Magnitude(100, true), 0.0, "compressed spring pushes")

	assert.InDelta(t, -1, p.Magnitude(100, false), 1e-9, "repulsion 10000/100²")
	assert.Equal(t, 0.0, p.Magnitude(200, false), "no repulsion at rest length")
	assert.Equal(t, 0.0, p.Magnitude(500, false), "no repulsion far away")
}

func TestMagnitudeClamped(t *testing.T) {
	p := DefaultParams()

	assert.Equal(t, -p.MaxForce, p.Magnitude(0, false))
	assert.Equal(t, -p.MaxForce, p.Magnitude(0, true))
	assert.Equal(t, -p.MaxForce, p.Magnitude(1e-6, false))
}

func TestPairForceSymmetry(t *testing.T) {
	p := DefaultParams()
	rng := rand.New(rand.NewSource(11))

	for trial := 0; trial < 200; trial++ {
		a := geometry.V(rng.Float64()*600-300, rng.Float64()*600-300)
		b := geometry.V(rng.Float64()*600-300, rng.Float64()*600-300)
		adjacent := trial%2 == 0

		fij := p.PairForce(0, 1, a, b, adjacent)
		fji := p.PairForce(1, 0, b, a, adjacent)

		assert.InDelta(t, fij.Len(), fji.Len(), 1e-9)
		sum := fij.Add(fji)
		assert.InDelta(t, 0, sum.X, 1e-9)
		assert.InDelta(t, 0, sum.Y, 1e-9)
	}
}

func TestPairForceCoincident(t *testing.T) {
	p := DefaultParams()
	at := geometry.V(5, 5)

	fij := p.PairForce(0, 1, at, at, false)
	fji := p.PairForce(1, 0, at, at, false)

	assert.False(t, math.IsNaN(fij.X) || math.IsNaN(fij.Y))
	assert.Equal(t, fij.Neg(), fji)
	assert.InDelta(t, p.MaxForce, fij.Len(), 1e-9)
}

func TestStepAdjacentPairConverges(t *testing.T) {
	e := New(DefaultParams())
	pos := []geometry.Vec{{X: 0, Y: 0}, {X: 800, Y: 0}}
	adj := edges{{0, 1}: true}

	res, n := e.Run(pos, adj, 500)
	require.True(t, res.Stable, "not stable after %d steps", n)
	assert.InDelta(t, 200, geometry.Distance(pos[0], pos[1]), 5)
}

func TestStepReadsPreviousPositions(t *testing.T) {
	e := New(DefaultParams())
	pos := []geometry.Vec{{X: 0, Y: 0}, {X: 100, Y: 0}}
	adj := edges{}

	e.Step(pos, adj)

	// both states moved by the same amount in opposite directions
	assert.InDelta(t, -pos[0].X, pos[1].X-100, 1e-9)
}

func TestStepStableStaysStable(t *testing.T) {
	e := New(DefaultParams())
	// a triangle of springs at rest length plus a far unconnected state
	h := 200 * math.Sqrt(3) / 2
	pos := []geometry.Vec{{X: 0, Y: 0}, {X: 200, Y: 0}, {X: 100, Y: h}, {X: 5000, Y: 5000}}
	adj := edges{{0, 1}: true, {1, 2}: true, {2, 0}: true}

	for i := 0; i < 50; i++ {
		res := e.Step(pos, adj)
		require.True(t, res.Stable, "step %d: max force %.4f", i, res.MaxForce)
	}
	assert.True(t, e.Last().Stable)
}

func TestStepSettledConfigurationDoesNotOscillate(t *testing.T) {
	e := New(DefaultParams())
	pos := []geometry.Vec{{X: 0, Y: 0}, {X: 900, Y: 40}, {X: 1800, Y: -30}}
	adj := edges{{0, 1}: true, {1, 2}: true}

	res, _ := e.Run(pos, adj, 2000)
	require.True(t, res.Stable)

	for i := 0; i < 100; i++ {
		res = e.Step(pos, adj)
		require.True(t, res.Stable, "oscillation at step %d: %.4f", i, res.MaxForce)
	}
}

func TestStepPinnedStateDoesNotMove(t *testing.T) {
	e := New(DefaultParams())
	pos := []geometry.Vec{{X: 0, Y: 0}, {X: 50, Y: 0}}
	adj := edges{}

	e.Step(pos, adj, 1)

	assert.Equal(t, geometry.V(50, 0), pos[1])
	assert.Less(t, pos[0].X, 0.0, "unpinned state is pushed away")
}

func TestOrderByConnectivity(t *testing.T) {
	adj := edges{{0, 2}: true, {2, 1}: true}
	assert.Equal(t, []int{0, 2, 1, 3}, OrderByConnectivity(4, adj))
	assert.Nil(t, OrderByConnectivity(0, adj))
}

func TestSeederCircular(t *testing.T) {
	s := NewSeeder(SeedCircular, 400, 1)
	pos := s.Positions(4, edges{})

	require.Len(t, pos, 4)
	for _, p := range pos {
		assert.InDelta(t, 200, p.Len(), 1e-9)
	}
	assert.InDelta(t, -200, pos[0].Y, 1e-9, "first state at the top")
}

func TestSeederRandomDeterministic(t *testing.T) {
	a := NewSeeder(SeedRandom, 400, 42).Positions(5, edges{})
	b := NewSeeder(SeedRandom, 400, 42).Positions(5, edges{})
	assert.Equal(t, a, b)
	for _, p := range a {
		assert.LessOrEqual(t, math.Abs(p.X), 200.0)
		assert.LessOrEqual(t, math.Abs(p.Y), 200.0)
	}
}

func TestParseSeedMode(t *testing.T) {
	assert.Equal(t, SeedCircular, ParseSeedMode("circular"))
	assert.Equal(t, SeedRandom, ParseSeedMode("random"))
	assert.Equal(t, SeedRandom, ParseSeedMode(""))
	assert.Equal(t, "circular", SeedCircular.String())
}
