package editor

import (
	"errors"

	"github.com/ha1tch/turing-graph/pkg/geometry"
	"github.com/ha1tch/turing-graph/pkg/render"
	"github.com/ha1tch/turing-graph/pkg/selection"
)

// gesture tracks a pointer press until its release.
type gesture struct {
	hit   render.Hit
	moved bool
}

// PointerDown starts a gesture at world point p. Pressing a state starts a
// drag; the click itself is decided on release.
func (s *Session) PointerDown(p geometry.Vec) {
	hit := s.LastFrame().HitTest(p)
	s.press = &gesture{hit: hit}
	if hit.Kind == render.HitState {
		if err := s.ctrl.BeginDrag(hit.State, p); err != nil {
			s.logger.Debug("drag refused", "state", hit.State, "error", err)
		}
	}
}

// PointerMove moves the dragged state, if any.
func (s *Session) PointerMove(p geometry.Vec) {
	if _, ok := s.ctrl.Dragging(); !ok {
		return
	}
	s.ctrl.DragTo(p)
	if s.press != nil {
		s.press.moved = true
	}
}

// PointerUp ends the gesture. A press and release without movement is a
// click on whatever was under the pointer when it went down.
func (s *Session) PointerUp(p geometry.Vec) error {
	g := s.press
	s.press = nil
	if _, ok := s.ctrl.Dragging(); ok {
		s.ctrl.EndDrag()
	}
	if g == nil {
		g = &gesture{hit: s.LastFrame().HitTest(p)}
	}
	if g.moved {
		return nil
	}
	return s.click(g.hit)
}

// Click applies a single click at world point p.
func (s *Session) Click(p geometry.Vec) error {
	return s.click(s.LastFrame().HitTest(p))
}

func (s *Session) click(hit render.Hit) error {
	var err error
	switch hit.Kind {
	case render.HitState:
		err = s.ctrl.ClickState(hit.State)
	case render.HitLabel:
		err = s.ctrl.ClickTransition(hit.Key)
	default:
		s.ctrl.ClickCanvas()
	}
	if err != nil {
		s.setStatus("%v", err)
	}
	return err
}

// Type appends r to the open edit.
func (s *Session) Type(r rune) {
	s.ctrl.Type(r)
}

// Backspace deletes the last character of the open edit.
func (s *Session) Backspace() {
	s.ctrl.Backspace()
}

// Escape abandons the open edit.
func (s *Session) Escape() {
	s.ctrl.Escape()
}

// Enter commits the open edit. Rejected edits are reported in the status
// line and returned.
func (s *Session) Enter() error {
	err := s.ctrl.Enter()
	switch {
	case err == nil:
		s.setStatus("")
	case errors.Is(err, selection.ErrNothingSelected):
		return nil
	default:
		s.logger.Info("edit rejected", "error", err)
		s.setStatus("%v", err)
	}
	return err
}
