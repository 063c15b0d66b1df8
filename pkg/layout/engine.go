package layout

import (
	"log/slog"

	"github.com/ha1tch/turing-graph/internal/logging"
	"github.com/ha1tch/turing-graph/pkg/geometry"
)

// Adjacency answers whether a transition runs from one state to another.
type Adjacency interface {
	HasTransition(from, to int) bool
}

// AdjacencyFunc adapts a function to Adjacency.
type AdjacencyFunc func(from, to int) bool

func (f AdjacencyFunc) HasTransition(from, to int) bool { return f(from, to) }

// Result summarises one relaxation step.
type Result struct {
	MaxForce float64 // largest net force applied to any state
	Stable   bool
}

// Engine runs relaxation steps and remembers whether the last one settled.
type Engine struct {
	Params Params

	logger *slog.Logger
	last   Result
	steps  int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used to report convergence.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logging.OrNop(l)
	}
}

// New returns an engine using params.
func New(params Params, opts ...Option) *Engine {
	e := &Engine{
		Params: params,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Forces computes the net force on every state from the current positions
// without moving anything.
func (e *Engine) Forces(pos []geometry.Vec, adj Adjacency) []geometry.Vec {
	forces := make([]geometry.Vec, len(pos))
	for i := range pos {
		for j := range pos {
			if i == j {
				continue
			}
			adjacent := adj.HasTransition(i, j) || adj.HasTransition(j, i)
			forces[i] = forces[i].Add(e.Params.PairForce(i, j, pos[i], pos[j], adjacent))
		}
	}
	return forces
}

// Step performs one relaxation step in place. All forces are computed from
// the positions as they were on entry and then applied together. States
// listed in pinned contribute forces to others but are not moved.
func (e *Engine) Step(pos []geometry.Vec, adj Adjacency, pinned ...int) Result {
	forces := e.Forces(pos, adj)

	held := make(map[int]bool, len(pinned))
	for _, id := range pinned {
		held[id] = true
	}

	res := Result{}
	for i, f := range forces {
		if held[i] {
			continue
		}
		if m := f.Len(); m > res.MaxForce {
			res.MaxForce = m
		}
		pos[i] = pos[i].Add(f)
	}
	res.Stable = res.MaxForce < e.Params.StabilityThreshold

	if res.Stable && !e.last.Stable && e.steps > 0 {
		e.logger.Debug("layout settled", "steps", e.steps, "states", len(pos))
	}
	e.last = res
	e.steps++
	return res
}

// Run steps until the layout is stable or limit steps have been taken and
// returns the last result along with the number of steps run.
func (e *Engine) Run(pos []geometry.Vec, adj Adjacency, limit int) (Result, int) {
	var res Result
	n := 0
	for n < limit {
		res = e.Step(pos, adj)
		n++
		if res.Stable {
			break
		}
	}
	return res, n
}

// Last returns the result of the most recent step.
func (e *Engine) Last() Result {
	return e.last
}

// Reset forgets the previous result so the next frame is treated as
// unsettled.
func (e *Engine) Reset() {
	e.last = Result{}
	e.steps = 0
}
