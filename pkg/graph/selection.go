package graph

import "fmt"

// SelectionKind tells which variant a Selection holds.
type SelectionKind int

const (
	SelectNone SelectionKind = iota
	SelectState
	SelectTransition
)

// Selection is nothing, one state, or one transition. Only the fields
// belonging to Kind are meaningful.
type Selection struct {
	Kind       SelectionKind
	State      int
	Transition Key
}

// NoSelection returns the empty selection.
func NoSelection() Selection {
	return Selection{}
}

// StateSelection selects state id.
func StateSelection(id int) Selection {
	return Selection{Kind: SelectState, State: id}
}

// TransitionSelection selects a transition.
func TransitionSelection(k Key) Selection {
	return Selection{Kind: SelectTransition, Transition: k}
}

// SelectedState returns the selected state id, if a state is selected.
func (s Selection) SelectedState() (int, bool) {
	return s.State, s.Kind == SelectState
}

// SelectedTransition returns the selected transition, if one is selected.
func (s Selection) SelectedTransition() (Key, bool) {
	return s.Transition, s.Kind == SelectTransition
}

// IsNone reports whether nothing is selected.
func (s Selection) IsNone() bool {
	return s.Kind == SelectNone
}

func (s Selection) String() string {
	switch s.Kind {
	case SelectState:
		return fmt.Sprintf("state %d", s.State)
	case SelectTransition:
		return fmt.Sprintf("transition %d/%d", s.Transition.Parent, s.Transition.ID)
	default:
		return "none"
	}
}
