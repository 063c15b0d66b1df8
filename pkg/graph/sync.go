package graph

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/ha1tch/turing-graph/pkg/geometry"
	"github.com/ha1tch/turing-graph/pkg/layout"
	"github.com/ha1tch/turing-graph/pkg/machine"
)

// ErrNoMachine is wrapped by a DesyncError when there is no machine to sync
// against.
var ErrNoMachine = errors.New("no machine")

// DefaultColor is the fill of a newly created state.
var DefaultColor = color.RGBA{255, 255, 255, 255}

// Source is the machine the graph is a view of.
type Source interface {
	Len() int
	State(id int) (machine.State, bool)
}

// DesyncError reports that the graph and the machine no longer correspond:
// a state, rule or destination the graph refers to does not exist.
type DesyncError struct {
	State      int
	Transition int // -1 when the state itself is missing
	Target     int // -1 when the destination is not involved
	Err        error
}

func (e *DesyncError) Error() string {
	var sb strings.Builder
	sb.WriteString("graph out of sync with machine")
	if e.State >= 0 {
		fmt.Fprintf(&sb, ": state %d", e.State)
	}
	if e.Transition >= 0 {
		fmt.Fprintf(&sb, " rule %d", e.Transition)
	}
	if e.Target >= 0 {
		fmt.Fprintf(&sb, " -> %d", e.Target)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

func (e *DesyncError) Unwrap() error {
	return e.Err
}

type options struct {
	previous *Graph
	seeder   *layout.Seeder
	color    color.RGBA
}

// Option configures RulesToGraph.
type Option func(*options)

// WithPrevious keeps the position and colour of every state of prev whose
// name still exists in the rebuilt graph.
func WithPrevious(prev *Graph) Option {
	return func(o *options) {
		o.previous = prev
	}
}

// WithSeeder sets where fresh states are placed.
func WithSeeder(s *layout.Seeder) Option {
	return func(o *options) {
		if s != nil {
			o.seeder = s
		}
	}
}

// WithColor sets the fill of fresh states.
func WithColor(c color.RGBA) Option {
	return func(o *options) {
		o.color = c
	}
}

func isNil(src Source) bool {
	if src == nil {
		return true
	}
	m, ok := src.(*machine.Machine)
	return ok && m == nil
}

// RulesToGraph builds a new graph from the machine: one state per machine
// state in id order, one transition per rule with the rule's index as id and
// its destination as target. Nothing is built unless every destination
// resolves.
func RulesToGraph(src Source, opts ...Option) (*Graph, error) {
	o := options{color: DefaultColor}
	for _, opt := range opts {
		opt(&o)
	}
	if isNil(src) {
		return nil, &DesyncError{State: -1, Transition: -1, Target: -1, Err: ErrNoMachine}
	}

	n := src.Len()
	states := make([]machine.State, n)
	for id := 0; id < n; id++ {
		s, ok := src.State(id)
		if !ok {
			return nil, &DesyncError{State: id, Transition: -1, Target: -1, Err: machine.ErrUnknownState}
		}
		for i, t := range s.Transitions {
			if t.To < 0 || t.To >= n {
				return nil, &DesyncError{State: id, Transition: i, Target: t.To, Err: machine.ErrUnknownState}
			}
		}
		states[id] = s
	}

	g := &Graph{States: make([]State, n)}
	for id, s := range states {
		st := State{
			ID:          id,
			Name:        s.Name,
			Color:       o.color,
			Transitions: make([]Transition, len(s.Transitions)),
		}
		for i, t := range s.Transitions {
			st.Transitions[i] = Transition{
				ID:       i,
				ParentID: id,
				TargetID: t.To,
				Text:     t.String(),
			}
		}
		g.States[id] = st
	}

	placeStates(g, o)
	return g, nil
}

// placeStates gives kept states their previous position and colour and
// seeds the rest. Fresh states are centred on the kept ones.
func placeStates(g *Graph, o options) {
	seeder := o.seeder
	if seeder == nil {
		params := layout.DefaultParams()
		seeder = layout.NewSeeder(layout.SeedRandom, params.SeedSpread, 1)
	}
	fresh := seeder.Positions(g.Len(), g)

	var kept []geometry.Vec
	known := make([]bool, g.Len())
	if o.previous != nil {
		for i := range g.States {
			s := &g.States[i]
			if prev := o.previous.State(o.previous.StateByName(s.Name)); prev != nil {
				s.Position = prev.Position
				s.Color = prev.Color
				known[i] = true
				kept = append(kept, prev.Position)
			}
		}
	}

	offset := geometry.Centroid(kept)
	for i := range g.States {
		if !known[i] {
			g.States[i].Position = fresh[i].Add(offset)
		}
	}
}

type group struct {
	from, to int
	rules    []string
}

// GraphToRules renders the graph as rule text. Transitions are grouped by
// source and destination; each group becomes one statement and statements
// are separated by a blank line. Groups are ordered by source id, then by
// the first rule of each destination within the source. Names and
// destinations are resolved through the machine, so renamed states are
// written under their current name. A state no statement mentions is
// declared with an empty self statement, q_<name> {} q_<name>;, in its id
// position.
func GraphToRules(g *Graph, src Source) (string, error) {
	if isNil(src) {
		return "", &DesyncError{State: -1, Transition: -1, Target: -1, Err: ErrNoMachine}
	}

	perState := make([][]*group, len(g.States))
	mentioned := make(map[int]bool)
	for i, s := range g.States {
		ms, ok := src.State(s.ID)
		if !ok {
			return "", &DesyncError{State: s.ID, Transition: -1, Target: -1, Err: machine.ErrUnknownState}
		}

		byTarget := make(map[int]*group)
		for _, t := range s.Transitions {
			if t.ID < 0 || t.ID >= len(ms.Transitions) {
				return "", &DesyncError{State: s.ID, Transition: t.ID, Target: -1, Err: machine.ErrUnknownState}
			}
			to := ms.Transitions[t.ID].To
			if _, ok := src.State(to); !ok {
				return "", &DesyncError{State: s.ID, Transition: t.ID, Target: to, Err: machine.ErrUnknownState}
			}

			grp, ok := byTarget[to]
			if !ok {
				grp = &group{from: s.ID, to: to}
				byTarget[to] = grp
				perState[i] = append(perState[i], grp)
				mentioned[s.ID] = true
				mentioned[to] = true
			}
			grp.rules = append(grp.rules, t.Text)
		}
	}

	var statements []string
	for i, s := range g.States {
		if !mentioned[s.ID] {
			ms, _ := src.State(s.ID)
			statements = append(statements, machine.Format(ms.Name, nil, ms.Name))
			continue
		}
		for _, grp := range perState[i] {
			from, _ := src.State(grp.from)
			to, _ := src.State(grp.to)
			statements = append(statements, machine.Format(from.Name, grp.rules, to.Name))
		}
	}
	return strings.Join(statements, "\n\n"), nil
}
