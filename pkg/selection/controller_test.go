package selection

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/turing-graph/pkg/geometry"
	"github.com/ha1tch/turing-graph/pkg/graph"
	"github.com/ha1tch/turing-graph/pkg/machine"
)

func setup(t *testing.T, src string) (*Controller, *graph.Graph, *machine.Machine) {
	t.Helper()
	m, err := machine.Parse(src)
	require.NoError(t, err)
	g, err := graph.RulesToGraph(m)
	require.NoError(t, err)
	return New(g, m), g, m
}

const twoStates = "q_i {ç,ç→ç,R,R} q_a;"

func TestClickStateSelects(t *testing.T) {
	c, g, _ := setup(t, twoStates)

	require.NoError(t, c.ClickState(0))
	assert.Equal(t, StateSelected, c.Mode())
	id, ok := g.Selection.SelectedState()
	assert.True(t, ok)
	assert.Equal(t, 0, id)

	require.NotNil(t, c.Edit())
	assert.Equal(t, EditName, c.Edit().Kind)
	assert.Equal(t, "i", c.Edit().Text)
}

func TestClickSecondStateCreatesTransition(t *testing.T) {
	c, g, m := setup(t, twoStates+"\nq_a {ç,ç→ç,L,L} q_b;")
	before := len(g.States[0].Transitions)

	require.NoError(t, c.ClickState(0))
	require.NoError(t, c.ClickState(2))

	assert.Equal(t, Idle, c.Mode())
	assert.True(t, g.Selection.IsNone())
	assert.Nil(t, c.Edit())

	ts := g.States[0].Transitions
	require.Len(t, ts, before+1)
	added := ts[len(ts)-1]
	assert.Equal(t, 0, added.ParentID)
	assert.Equal(t, 2, added.TargetID)
	assert.Equal(t, before, added.ID)
	assert.NotEmpty(t, added.Text)

	rule, err := machine.ParseRule(added.Text)
	require.NoError(t, err)
	assert.Equal(t, m.Tracks(), rule.Tracks())

	// machine agrees
	ms, _ := m.State(0)
	require.Len(t, ms.Transitions, before+1)
	assert.Equal(t, 2, ms.Transitions[added.ID].To)

	// other states are untouched
	assert.Empty(t, g.States[2].Transitions)
}

func TestClickSameStateCreatesLoop(t *testing.T) {
	c, g, m := setup(t, twoStates)

	require.NoError(t, c.ClickState(1))
	require.NoError(t, c.ClickState(1))

	require.Len(t, g.States[1].Transitions, 1)
	assert.Equal(t, 1, g.States[1].Transitions[0].TargetID)
	assert.True(t, m.HasTransition(1, 1))
}

func TestCreatedTransitionRoundTrips(t *testing.T) {
	c, g, m := setup(t, twoStates)

	require.NoError(t, c.ClickState(1))
	require.NoError(t, c.ClickState(0))

	text, err := graph.GraphToRules(g, m)
	require.NoError(t, err)
	assert.Equal(t, "q_i {ç,ç→ç,R,R} q_a;\n\nq_a {ç,ç→ç,R,R} q_i;", text)
}

func TestClickCanvasClears(t *testing.T) {
	c, g, _ := setup(t, twoStates)

	require.NoError(t, c.ClickState(0))
	c.Type('x')
	assert.Equal(t, "ix", g.States[0].Name, "typing is shown live")

	c.ClickCanvas()
	assert.True(t, g.Selection.IsNone())
	assert.Nil(t, c.Edit())
	assert.Equal(t, "i", g.States[0].Name, "abandoned edit is restored")

	require.NoError(t, c.ClickTransition(graph.Key{Parent: 0, ID: 0}))
	c.ClickCanvas()
	assert.True(t, g.Selection.IsNone())
}

func TestClickTransitionSelects(t *testing.T) {
	c, g, _ := setup(t, twoStates)

	require.NoError(t, c.ClickState(0))
	require.NoError(t, c.ClickTransition(graph.Key{Parent: 0, ID: 0}))

	_, isState := g.Selection.SelectedState()
	assert.False(t, isState)
	k, ok := g.Selection.SelectedTransition()
	assert.True(t, ok)
	assert.Equal(t, graph.Key{Parent: 0, ID: 0}, k)
	assert.Equal(t, Idle, c.Mode())

	require.NotNil(t, c.Edit())
	assert.Equal(t, EditRule, c.Edit().Kind)
	assert.Equal(t, "ç,ç→ç,R,R", c.Edit().Text)

	assert.Error(t, c.ClickTransition(graph.Key{Parent: 0, ID: 9}))
}

func TestEnterRenames(t *testing.T) {
	c, g, m := setup(t, twoStates)

	require.NoError(t, c.ClickState(1))
	c.SetText("accept")
	require.NoError(t, c.Enter())

	assert.Equal(t, Idle, c.Mode())
	assert.Equal(t, "accept", g.States[1].Name)
	s, _ := m.State(1)
	assert.Equal(t, "accept", s.Name)
}

func TestRenameCollisionGetsSuffix(t *testing.T) {
	c, g, m := setup(t, twoStates+"\nq_a {ç,ç→ç,R,R} q_i2;")

	require.NoError(t, c.ClickState(1))
	c.SetText("i")
	require.NoError(t, c.Enter())

	got := g.States[1].Name
	assert.Equal(t, "i3", got)
	for id, s := range g.States {
		if id != 1 {
			assert.NotEqual(t, got, s.Name)
		}
	}
	ms, _ := m.State(1)
	assert.Equal(t, got, ms.Name)
}

func TestRenameToOwnNameIsNoop(t *testing.T) {
	c, g, _ := setup(t, twoStates)

	require.NoError(t, c.ClickState(0))
	require.NoError(t, c.Enter())
	assert.Equal(t, "i", g.States[0].Name)
}

func TestRenameEmptyReverts(t *testing.T) {
	c, g, m := setup(t, twoStates)

	require.NoError(t, c.ClickState(0))
	c.Backspace()
	assert.Equal(t, "", g.States[0].Name)
	err := c.Enter()
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.Equal(t, "i", g.States[0].Name)
	s, _ := m.State(0)
	assert.Equal(t, "i", s.Name)
}

func TestRenameInvalidCharacters(t *testing.T) {
	c, g, _ := setup(t, twoStates)

	require.NoError(t, c.ClickState(0))
	c.SetText("a;b")
	assert.ErrorIs(t, c.Enter(), ErrInvalidName)
	assert.Equal(t, "i", g.States[0].Name)
}

func TestRenameRejectsCommentMarker(t *testing.T) {
	c, g, m := setup(t, twoStates)

	require.NoError(t, c.ClickState(1))
	c.SetText("x//y")
	assert.ErrorIs(t, c.Enter(), ErrInvalidName)
	assert.Equal(t, "a", g.States[1].Name)
	s, _ := m.State(1)
	assert.Equal(t, "a", s.Name)

	text, err := graph.GraphToRules(g, m)
	require.NoError(t, err)
	back, err := machine.Parse(text)
	require.NoError(t, err, text)
	assert.Equal(t, 2, back.Len())
}

func TestRenameWithSlashRoundTrips(t *testing.T) {
	c, g, m := setup(t, twoStates)

	require.NoError(t, c.ClickState(1))
	c.SetText("x/y")
	require.NoError(t, c.Enter())

	text, err := graph.GraphToRules(g, m)
	require.NoError(t, err)
	back, err := machine.Parse(text)
	require.NoError(t, err, text)
	assert.Equal(t, 1, back.StateIndex("x/y"))
}

func TestRenameExhausted(t *testing.T) {
	var src string
	src = "q_x {ç,ç→ç,R,R} q_n;\n"
	for i := 2; i <= MaxRenameAttempts; i++ {
		src += fmt.Sprintf("q_x {ç,ç→ç,R,R} q_n%d;\n", i)
	}
	c, g, m := setup(t, src)

	require.NoError(t, c.ClickState(0))
	c.SetText("n")
	err := c.Enter()
	assert.ErrorIs(t, err, ErrRenameExhausted)
	assert.Equal(t, "x", g.States[0].Name)
	s, _ := m.State(0)
	assert.Equal(t, "x", s.Name)
}

func TestUniqueName(t *testing.T) {
	taken := map[string]bool{"a": true, "a2": true}
	name, err := UniqueName("a", func(n string) bool { return taken[n] })
	require.NoError(t, err)
	assert.Equal(t, "a3", name)

	calls := 0
	_, err = UniqueName("z", func(string) bool { calls++; return true })
	assert.ErrorIs(t, err, ErrRenameExhausted)
	assert.Equal(t, MaxRenameAttempts, calls)
}

func TestEnterCommitsRuleText(t *testing.T) {
	c, g, m := setup(t, twoStates)

	require.NoError(t, c.ClickTransition(graph.Key{Parent: 0, ID: 0}))
	c.SetText("a , b -> c , L , N")
	require.NoError(t, c.Enter())

	assert.Equal(t, "a,b→c,L,N", g.States[0].Transitions[0].Text)
	s, _ := m.State(0)
	assert.Equal(t, "a,b→c,L,N", s.Transitions[0].String())
	assert.True(t, g.Selection.IsNone())
}

func TestEnterRejectsBadRuleText(t *testing.T) {
	c, g, m := setup(t, twoStates)

	require.NoError(t, c.ClickTransition(graph.Key{Parent: 0, ID: 0}))
	c.SetText("a,b,c→d,R")
	assert.Error(t, c.Enter())

	assert.Equal(t, "ç,ç→ç,R,R", g.States[0].Transitions[0].Text)
	s, _ := m.State(0)
	assert.Equal(t, "ç,ç→ç,R,R", s.Transitions[0].String())
}

func TestEnterWithoutEdit(t *testing.T) {
	c, _, _ := setup(t, twoStates)
	assert.ErrorIs(t, c.Enter(), ErrNothingSelected)
}

func TestDrag(t *testing.T) {
	c, g, _ := setup(t, twoStates)
	g.States[0].Position = geometry.V(100, 100)

	require.NoError(t, c.BeginDrag(0, geometry.V(110, 95)))
	assert.Equal(t, []int{0}, c.Pinned())

	c.DragTo(geometry.V(210, 195))
	assert.Equal(t, geometry.V(200, 200), g.States[0].Position)

	c.EndDrag()
	_, dragging := c.Dragging()
	assert.False(t, dragging)
	assert.Nil(t, c.Pinned())

	assert.Error(t, c.BeginDrag(7, geometry.Vec{}))
}

func TestResetDropsEdit(t *testing.T) {
	c, _, m := setup(t, twoStates)
	require.NoError(t, c.ClickState(0))

	g2, err := graph.RulesToGraph(m)
	require.NoError(t, err)
	c.Reset(g2, m)
	assert.Nil(t, c.Edit())
	assert.Equal(t, Idle, c.Mode())
}
