// Package machine provides the Turing machine description the graph editor
// works against: ordered states, per-state rule lists and the rule text
// grammar. It does not execute machines.
package machine

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownState is returned when a state id does not exist.
	ErrUnknownState = errors.New("unknown state")

	// ErrDuplicateName is returned when a rename would make two states share a name.
	ErrDuplicateName = errors.New("state name already in use")

	// ErrTrackMismatch is returned when a rule addresses a different number of
	// tracks than the machine.
	ErrTrackMismatch = errors.New("rule track count does not match machine")
)

// Transition is a rule together with its destination state index.
type Transition struct {
	Rule Rule
	To   int
}

// String returns the rule text of the transition.
func (t Transition) String() string {
	return t.Rule.String()
}

// State is a named state and the rules that leave it, in order.
type State struct {
	Name        string
	Transitions []Transition
}

// Machine is an ordered list of states. A state's id is its index.
type Machine struct {
	states []State
	tracks int
	word   string
}

// New creates an empty machine with the given number of write tracks.
func New(tracks int) *Machine {
	if tracks < 0 {
		tracks = 0
	}
	return &Machine{tracks: tracks}
}

// AddState adds a state and returns its id. Adding an existing name returns
// the id of that state.
func (m *Machine) AddState(name string) int {
	if id := m.StateIndex(name); id >= 0 {
		return id
	}
	m.states = append(m.states, State{Name: name})
	return len(m.states) - 1
}

// StateIndex returns the id of the named state, or -1 if not found.
func (m *Machine) StateIndex(name string) int {
	for i, s := range m.states {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// States returns the states in id order. The slice must not be modified.
func (m *Machine) States() []State {
	return m.states
}

// State returns the state with the given id.
func (m *Machine) State(id int) (State, bool) {
	if id < 0 || id >= len(m.states) {
		return State{}, false
	}
	return m.states[id], true
}

// Len returns the number of states.
func (m *Machine) Len() int {
	return len(m.states)
}

// Tracks returns the number of write tracks.
func (m *Machine) Tracks() int {
	return m.tracks
}

// Word returns the input word.
func (m *Machine) Word() string {
	return m.word
}

// SetWord sets the input word.
func (m *Machine) SetWord(word string) {
	m.word = word
}

// DefaultRule returns a blank rule sized to the machine's track count.
func (m *Machine) DefaultRule() Rule {
	return NewRule(m.tracks)
}

// TransitionIndex returns the index of the first rule of state from that
// leads to state to.
func (m *Machine) TransitionIndex(from, to int) (int, bool) {
	if from < 0 || from >= len(m.states) {
		return 0, false
	}
	for i, t := range m.states[from].Transitions {
		if t.To == to {
			return i, true
		}
	}
	return 0, false
}

// HasTransition reports whether a rule leads from one state to another.
func (m *Machine) HasTransition(from, to int) bool {
	_, ok := m.TransitionIndex(from, to)
	return ok
}

// AppendRule appends a rule to state from leading to state to and returns
// the rule's index in from's rule list.
func (m *Machine) AppendRule(from int, r Rule, to int) (int, error) {
	if from < 0 || from >= len(m.states) {
		return 0, fmt.Errorf("append rule: source %d: %w", from, ErrUnknownState)
	}
	if to < 0 || to >= len(m.states) {
		return 0, fmt.Errorf("append rule: target %d: %w", to, ErrUnknownState)
	}
	if r.Tracks() != m.tracks {
		return 0, fmt.Errorf("append rule: %d tracks, machine has %d: %w", r.Tracks(), m.tracks, ErrTrackMismatch)
	}
	s := &m.states[from]
	s.Transitions = append(s.Transitions, Transition{Rule: r, To: to})
	return len(s.Transitions) - 1, nil
}

// SetRuleText replaces the rule at index id of state from with the parsed text.
func (m *Machine) SetRuleText(from, id int, text string) error {
	if from < 0 || from >= len(m.states) {
		return fmt.Errorf("set rule: state %d: %w", from, ErrUnknownState)
	}
	ts := m.states[from].Transitions
	if id < 0 || id >= len(ts) {
		return fmt.Errorf("set rule: state %d has no rule %d", from, id)
	}
	r, err := ParseRule(text)
	if err != nil {
		return err
	}
	if r.Tracks() != m.tracks {
		return fmt.Errorf("set rule: %d tracks, machine has %d: %w", r.Tracks(), m.tracks, ErrTrackMismatch)
	}
	ts[id].Rule = r
	return nil
}

// RenameState changes the name of a state. Its id is unchanged.
func (m *Machine) RenameState(id int, name string) error {
	if id < 0 || id >= len(m.states) {
		return fmt.Errorf("rename: state %d: %w", id, ErrUnknownState)
	}
	if other := m.StateIndex(name); other >= 0 && other != id {
		return fmt.Errorf("rename %q: %w", name, ErrDuplicateName)
	}
	m.states[id].Name = name
	return nil
}

// Clone returns a deep copy of the machine.
func (m *Machine) Clone() *Machine {
	c := &Machine{
		states: make([]State, len(m.states)),
		tracks: m.tracks,
		word:   m.word,
	}
	for i, s := range m.states {
		ts := make([]Transition, len(s.Transitions))
		for j, t := range s.Transitions {
			ts[j] = Transition{
				Rule: Rule{
					Read:  append([]rune(nil), t.Rule.Read...),
					Write: append([]rune(nil), t.Rule.Write...),
					Move:  append([]Direction(nil), t.Rule.Move...),
				},
				To: t.To,
			}
		}
		c.states[i] = State{Name: s.Name, Transitions: ts}
	}
	return c
}
