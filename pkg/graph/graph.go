// Package graph holds the diagram view of a machine: states with positions
// and colours, the transitions leaving each state, and the current
// selection. The machine stays the source of truth for everything except
// position and colour; RulesToGraph and GraphToRules translate between the
// two.
package graph

import (
	"image/color"

	"github.com/ha1tch/turing-graph/pkg/geometry"
)

// State is a diagram node. ID is the index of the state in the machine and
// never changes, even when the state is renamed.
type State struct {
	ID          int
	Name        string
	Position    geometry.Vec
	Color       color.RGBA
	Transitions []Transition
}

// Transition is a diagram edge. ID is the index of the rule within its
// parent state's rule list and is only unique together with ParentID.
type Transition struct {
	ID       int
	ParentID int
	TargetID int
	Text     string
}

// Key addresses a transition within a graph.
type Key struct {
	Parent int
	ID     int
}

// Graph is an arena of states indexed by id.
type Graph struct {
	States    []State
	Selection Selection
}

// Len returns the number of states.
func (g *Graph) Len() int {
	return len(g.States)
}

// State returns a pointer to the state with the given id, or nil.
func (g *Graph) State(id int) *State {
	if id < 0 || id >= len(g.States) {
		return nil
	}
	return &g.States[id]
}

// Transition returns a pointer to the addressed transition, or nil.
func (g *Graph) Transition(k Key) *Transition {
	s := g.State(k.Parent)
	if s == nil || k.ID < 0 || k.ID >= len(s.Transitions) {
		return nil
	}
	return &s.Transitions[k.ID]
}

// StateByName returns the id of the named state, or -1.
func (g *Graph) StateByName(name string) int {
	for i := range g.States {
		if g.States[i].Name == name {
			return i
		}
	}
	return -1
}

// HasTransition reports whether any transition runs from one state to
// another. It lets a Graph act as the layout adjacency.
func (g *Graph) HasTransition(from, to int) bool {
	s := g.State(from)
	if s == nil {
		return false
	}
	for _, t := range s.Transitions {
		if t.TargetID == to {
			return true
		}
	}
	return false
}

// Positions returns the state positions in id order.
func (g *Graph) Positions() []geometry.Vec {
	pos := make([]geometry.Vec, len(g.States))
	for i := range g.States {
		pos[i] = g.States[i].Position
	}
	return pos
}

// SetPositions writes positions back in id order.
func (g *Graph) SetPositions(pos []geometry.Vec) {
	for i := range g.States {
		if i < len(pos) {
			g.States[i].Position = pos[i]
		}
	}
}

// Centroid returns the mean state position.
func (g *Graph) Centroid() geometry.Vec {
	return geometry.Centroid(g.Positions())
}

// AppendTransition records a new transition on state from. id must be the
// index the machine assigned to the rule.
func (g *Graph) AppendTransition(from, id, to int, text string) *Transition {
	s := g.State(from)
	if s == nil {
		return nil
	}
	s.Transitions = append(s.Transitions, Transition{
		ID:       id,
		ParentID: from,
		TargetID: to,
		Text:     text,
	})
	return &s.Transitions[len(s.Transitions)-1]
}
