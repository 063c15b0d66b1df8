// Package selection turns pointer and keyboard input into graph edits.
//
// The controller is a small state machine. In Idle, clicking a state selects
// it and opens its name for editing. With a state selected, clicking a state
// creates a transition from the selected state to the clicked one (a
// self-loop when they are the same) and returns to Idle, while Enter commits
// the rename. Clicking a transition label selects the transition and opens
// its rule text for editing. Clicking empty canvas clears any selection.
package selection

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ha1tch/turing-graph/internal/logging"
	"github.com/ha1tch/turing-graph/pkg/geometry"
	"github.com/ha1tch/turing-graph/pkg/graph"
	"github.com/ha1tch/turing-graph/pkg/machine"
)

// MaxRenameAttempts bounds the candidates tried when a new name collides.
const MaxRenameAttempts = 64

var (
	// ErrRenameExhausted is returned when no unique variant of a name was
	// found within MaxRenameAttempts. The previous name is kept.
	ErrRenameExhausted = errors.New("no unique state name found")

	// ErrInvalidName is returned for names the rule grammar cannot express.
	ErrInvalidName = errors.New("invalid state name")

	// ErrNothingSelected is returned by Enter when no edit is open.
	ErrNothingSelected = errors.New("nothing selected")
)

// Backend is the machine the controller keeps in step with the graph.
type Backend interface {
	State(id int) (machine.State, bool)
	StateIndex(name string) int
	DefaultRule() machine.Rule
	AppendRule(from int, r machine.Rule, to int) (int, error)
	RenameState(id int, name string) error
	SetRuleText(from, id int, text string) error
}

// Mode is the state of the interaction state machine.
type Mode int

const (
	Idle Mode = iota
	StateSelected
)

func (m Mode) String() string {
	if m == StateSelected {
		return "state-selected"
	}
	return "idle"
}

// EditKind tells what an open edit changes.
type EditKind int

const (
	EditName EditKind = iota
	EditRule
)

// Edit is an in-place text edit. The text is written through to the graph
// as it is typed and restored to Original if the edit is abandoned.
type Edit struct {
	Kind       EditKind
	State      int
	Transition graph.Key
	Text       string
	Original   string
}

type drag struct {
	id   int
	grab geometry.Vec // state position minus pointer position
}

// Controller applies input to a graph and its machine.
type Controller struct {
	g      *graph.Graph
	m      Backend
	edit   *Edit
	drag   *drag
	logger *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logging.OrNop(l)
	}
}

// New returns a controller editing g and m.
func New(g *graph.Graph, m Backend, opts ...Option) *Controller {
	c := &Controller{g: g, m: m, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reset points the controller at a rebuilt graph and machine. Open edits
// and drags are dropped.
func (c *Controller) Reset(g *graph.Graph, m Backend) {
	c.g = g
	c.m = m
	c.edit = nil
	c.drag = nil
}

// Mode returns StateSelected while a state is selected.
func (c *Controller) Mode() Mode {
	if c.g == nil {
		return Idle
	}
	if _, ok := c.g.Selection.SelectedState(); ok {
		return StateSelected
	}
	return Idle
}

// Selection returns the graph's current selection.
func (c *Controller) Selection() graph.Selection {
	if c.g == nil {
		return graph.NoSelection()
	}
	return c.g.Selection
}

// Edit returns the open edit, or nil.
func (c *Controller) Edit() *Edit {
	return c.edit
}

// ClickState handles a click on state id.
func (c *Controller) ClickState(id int) error {
	if c.g == nil || c.g.State(id) == nil {
		return fmt.Errorf("click state %d: %w", id, machine.ErrUnknownState)
	}

	from, ok := c.g.Selection.SelectedState()
	if !ok {
		c.abandon()
		c.g.Selection = graph.StateSelection(id)
		c.open(&Edit{Kind: EditName, State: id, Text: c.g.States[id].Name, Original: c.g.States[id].Name})
		return nil
	}

	c.abandon()
	c.g.Selection = graph.NoSelection()
	_, err := c.CreateTransition(from, id)
	return err
}

// CreateTransition appends a default rule from one state to another in both
// the machine and the graph and returns the new transition's key.
func (c *Controller) CreateTransition(from, to int) (graph.Key, error) {
	rule := c.m.DefaultRule()
	idx, err := c.m.AppendRule(from, rule, to)
	if err != nil {
		return graph.Key{}, fmt.Errorf("create transition: %w", err)
	}
	if c.g.AppendTransition(from, idx, to, rule.String()) == nil {
		return graph.Key{}, &graph.DesyncError{State: from, Transition: idx, Target: to, Err: machine.ErrUnknownState}
	}
	c.logger.Debug("transition created", "from", from, "to", to, "rule", idx)
	return graph.Key{Parent: from, ID: idx}, nil
}

// ClickTransition selects a transition and opens its rule text.
func (c *Controller) ClickTransition(k graph.Key) error {
	if c.g == nil {
		return fmt.Errorf("click transition: %w", machine.ErrUnknownState)
	}
	t := c.g.Transition(k)
	if t == nil {
		return fmt.Errorf("click transition %d/%d: %w", k.Parent, k.ID, machine.ErrUnknownState)
	}
	c.abandon()
	c.g.Selection = graph.TransitionSelection(k)
	c.open(&Edit{Kind: EditRule, State: k.Parent, Transition: k, Text: t.Text, Original: t.Text})
	return nil
}

// ClickCanvas clears the selection.
func (c *Controller) ClickCanvas() {
	c.abandon()
	if c.g != nil {
		c.g.Selection = graph.NoSelection()
	}
}

// Escape abandons the open edit and clears the selection.
func (c *Controller) Escape() {
	c.ClickCanvas()
}

func (c *Controller) open(e *Edit) {
	c.edit = e
}

// abandon closes the open edit, restoring the original text.
func (c *Controller) abandon() {
	if c.edit == nil {
		return
	}
	c.write(c.edit.Original)
	c.edit = nil
}

// write shows text in the graph field the edit targets.
func (c *Controller) write(text string) {
	e := c.edit
	switch e.Kind {
	case EditName:
		if s := c.g.State(e.State); s != nil {
			s.Name = text
		}
	case EditRule:
		if t := c.g.Transition(e.Transition); t != nil {
			t.Text = text
		}
	}
}

// SetText replaces the text of the open edit.
func (c *Controller) SetText(text string) {
	if c.edit == nil {
		return
	}
	c.edit.Text = text
	c.write(text)
}

// Type appends r to the open edit.
func (c *Controller) Type(r rune) {
	if c.edit == nil {
		return
	}
	c.SetText(c.edit.Text + string(r))
}

// Backspace removes the last character of the open edit.
func (c *Controller) Backspace() {
	if c.edit == nil {
		return
	}
	rs := []rune(c.edit.Text)
	if len(rs) == 0 {
		return
	}
	c.SetText(string(rs[:len(rs)-1]))
}

// Enter commits the open edit and clears the selection. A failed commit
// restores the previous text and returns the reason.
func (c *Controller) Enter() error {
	e := c.edit
	if e == nil {
		return ErrNothingSelected
	}
	c.edit = nil
	c.g.Selection = graph.NoSelection()

	var err error
	switch e.Kind {
	case EditName:
		err = c.commitName(e)
	case EditRule:
		err = c.commitRule(e)
	}
	return err
}

func (c *Controller) commitName(e *Edit) error {
	s := c.g.State(e.State)
	if s == nil {
		return fmt.Errorf("rename state %d: %w", e.State, machine.ErrUnknownState)
	}
	if e.Text == e.Original {
		s.Name = e.Original
		return nil
	}
	if e.Text == "" || !machine.IsValidName(e.Text) {
		s.Name = e.Original
		return fmt.Errorf("rename %q: %w", e.Text, ErrInvalidName)
	}

	name, err := UniqueName(e.Text, func(n string) bool {
		other := c.m.StateIndex(n)
		return other >= 0 && other != e.State
	})
	if err != nil {
		s.Name = e.Original
		return err
	}
	if err := c.m.RenameState(e.State, name); err != nil {
		s.Name = e.Original
		return err
	}
	s.Name = name
	c.logger.Debug("state renamed", "id", e.State, "from", e.Original, "to", name)
	return nil
}

func (c *Controller) commitRule(e *Edit) error {
	t := c.g.Transition(e.Transition)
	if t == nil {
		return fmt.Errorf("edit rule %d/%d: %w", e.Transition.Parent, e.Transition.ID, machine.ErrUnknownState)
	}
	if err := c.m.SetRuleText(e.Transition.Parent, e.Transition.ID, e.Text); err != nil {
		t.Text = e.Original
		return err
	}

	// show the canonical rendering
	if s, ok := c.m.State(e.Transition.Parent); ok && e.Transition.ID < len(s.Transitions) {
		t.Text = s.Transitions[e.Transition.ID].String()
	} else {
		t.Text = e.Text
	}
	return nil
}

// UniqueName returns the first of name, name2, name3, ... for which taken
// is false, trying at most MaxRenameAttempts candidates.
func UniqueName(name string, taken func(string) bool) (string, error) {
	for i := 1; i <= MaxRenameAttempts; i++ {
		candidate := name
		if i > 1 {
			candidate = name + strconv.Itoa(i)
		}
		if !taken(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("rename %q: %w", name, ErrRenameExhausted)
}

// BeginDrag starts moving state id with the pointer at p.
func (c *Controller) BeginDrag(id int, p geometry.Vec) error {
	s := c.g.State(id)
	if s == nil {
		return fmt.Errorf("drag state %d: %w", id, machine.ErrUnknownState)
	}
	c.drag = &drag{id: id, grab: s.Position.Sub(p)}
	return nil
}

// DragTo moves the dragged state with the pointer.
func (c *Controller) DragTo(p geometry.Vec) {
	if c.drag == nil {
		return
	}
	if s := c.g.State(c.drag.id); s != nil {
		s.Position = p.Add(c.drag.grab)
	}
}

// EndDrag releases the dragged state back to the layout.
func (c *Controller) EndDrag() {
	c.drag = nil
}

// Dragging returns the id of the state being dragged.
func (c *Controller) Dragging() (int, bool) {
	if c.drag == nil {
		return 0, false
	}
	return c.drag.id, true
}

// Pinned lists the states the layout must not move this frame.
func (c *Controller) Pinned() []int {
	if id, ok := c.Dragging(); ok {
		return []int{id}
	}
	return nil
}
