package editor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/turing-graph/internal/config"
	"github.com/ha1tch/turing-graph/pkg/geometry"
	"github.com/ha1tch/turing-graph/pkg/graph"
	"github.com/ha1tch/turing-graph/pkg/machine"
	"github.com/ha1tch/turing-graph/pkg/render"
	"github.com/ha1tch/turing-graph/pkg/selection"
	"github.com/ha1tch/turing-graph/pkg/tmfile"
)

const twoStates = "q_i {0,ç→0,R,R} q_a;"

func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithMetrics(render.CellMetrics{CellWidth: 10, CellHeight: 20})}, opts...)
	s, err := New(config.Default(), opts...)
	require.NoError(t, err)
	return s
}

func compiled(t *testing.T, code string) *Session {
	t.Helper()
	s := newSession(t)
	s.Code = code
	require.NoError(t, s.Compile())
	return s
}

func center(t *testing.T, f *render.Frame, id int) geometry.Vec {
	t.Helper()
	for _, st := range f.States {
		if st.ID == id {
			return st.Center
		}
	}
	t.Fatalf("state %d not in frame", id)
	return geometry.Vec{}
}

func TestEmptySessionIsIdle(t *testing.T) {
	s := newSession(t)
	assert.True(t, s.NeedsRedraw())

	f := s.Frame()
	assert.Empty(t, f.States)
	assert.True(t, f.Stable)
	assert.False(t, s.NeedsRedraw())
	assert.Nil(t, s.Machine())
}

func TestCompileBuildsGraph(t *testing.T) {
	s := compiled(t, twoStates)
	require.NotNil(t, s.Machine())
	assert.Equal(t, 2, s.Graph().Len())
	assert.Equal(t, "i", s.Graph().States[0].Name)
	assert.True(t, s.Graph().HasTransition(0, 1))
	assert.Contains(t, s.Status(), "2 states")
}

func TestCompileFailureKeepsPreviousState(t *testing.T) {
	s := compiled(t, twoStates)
	g, m := s.Graph(), s.Machine()

	s.Code = "q_i {nonsense} q_a;"
	err := s.Compile()
	require.Error(t, err)

	var ce *machine.CompileError
	assert.True(t, errors.As(err, &ce))
	assert.Same(t, g, s.Graph())
	assert.Same(t, m, s.Machine())
	assert.Contains(t, s.Status(), "compile error")
}

func TestRecompileKeepsPositions(t *testing.T) {
	s := compiled(t, twoStates)
	s.Frame()
	before := s.Graph().States[0].Position

	s.Code = twoStates + "\nq_a {1,ç→1,L,L} q_h;"
	require.NoError(t, s.Compile())
	require.Equal(t, 3, s.Graph().Len())
	assert.Equal(t, before, s.Graph().States[0].Position)
}

func TestFrameSettlesLayout(t *testing.T) {
	s := compiled(t, twoStates)
	for i := 0; i < 5000 && s.NeedsRedraw(); i++ {
		s.Frame()
	}
	assert.False(t, s.NeedsRedraw())
	assert.True(t, s.Engine().Last().Stable)
}

func TestClickTwoStatesCreatesTransition(t *testing.T) {
	s := compiled(t, twoStates)
	f := s.Frame()

	a := center(t, f, 1)
	s.PointerDown(a)
	require.NoError(t, s.PointerUp(a))
	assert.Equal(t, graph.StateSelection(1), s.Controller().Selection())

	i := center(t, f, 0)
	require.NoError(t, s.Click(i))
	assert.True(t, s.Graph().Selection.IsNone())
	assert.True(t, s.Graph().HasTransition(1, 0))
	assert.True(t, s.Machine().HasTransition(1, 0))
}

func TestClickCanvasClearsSelection(t *testing.T) {
	s := compiled(t, twoStates)
	f := s.Frame()
	require.NoError(t, s.Click(center(t, f, 0)))
	require.False(t, s.Graph().Selection.IsNone())

	require.NoError(t, s.Click(geometry.Vec{X: 1e6, Y: 1e6}))
	assert.True(t, s.Graph().Selection.IsNone())
}

func TestDragMovesAndPinsState(t *testing.T) {
	s := compiled(t, twoStates)
	f := s.Frame()
	c := center(t, f, 0)
	target := c.Add(geometry.Vec{X: 50})

	s.PointerDown(c)
	s.PointerMove(target)
	assert.True(t, s.NeedsRedraw())

	s.Frame()
	assert.Equal(t, target, s.Graph().States[0].Position)

	require.NoError(t, s.PointerUp(target))
	_, dragging := s.Controller().Dragging()
	assert.False(t, dragging)
	assert.True(t, s.Graph().Selection.IsNone(), "a drag is not a click")
}

func TestRenameThenLoadGraph(t *testing.T) {
	s := compiled(t, twoStates)
	f := s.Frame()
	require.NoError(t, s.Click(center(t, f, 0)))

	s.Backspace()
	s.Type('s')
	require.NoError(t, s.Enter())
	require.NoError(t, s.LoadGraph())

	assert.True(t, strings.HasPrefix(s.Code, "q_s {0,ç→0,R,R} q_a;"), s.Code)
}

func TestLoadGraphAbandonsOpenEdit(t *testing.T) {
	s := compiled(t, twoStates)
	f := s.Frame()
	require.NoError(t, s.Click(center(t, f, 0)))

	s.Backspace()
	s.Type('z')
	require.Equal(t, "z", s.Graph().States[0].Name)
	require.NoError(t, s.LoadGraph())

	assert.Nil(t, s.Controller().Edit())
	assert.Equal(t, "i", s.Graph().States[0].Name)
	assert.True(t, strings.HasPrefix(s.Code, "q_i {0,ç→0,R,R} q_a;"), s.Code)
	assert.NoError(t, s.Compile())
}

func TestLoadGraphDropsUncommittedRuleText(t *testing.T) {
	s := compiled(t, twoStates)
	require.NoError(t, s.Controller().ClickTransition(graph.Key{Parent: 0, ID: 0}))
	s.Controller().SetText("garbage")
	require.NoError(t, s.LoadGraph())

	assert.Nil(t, s.Controller().Edit())
	assert.Contains(t, s.Code, "0,ç→0,R,R")
	assert.NotContains(t, s.Code, "garbage")
	assert.NoError(t, s.Compile())
}

func TestRejectedEditReportsStatus(t *testing.T) {
	s := compiled(t, twoStates)
	f := s.Frame()
	require.NoError(t, s.Click(center(t, f, 0)))

	s.Backspace()
	err := s.Enter()
	assert.ErrorIs(t, err, selection.ErrInvalidName)
	assert.NotEmpty(t, s.Status())
	assert.Equal(t, "i", s.Graph().States[0].Name)
}

func TestEnterWithoutEditIsQuiet(t *testing.T) {
	s := compiled(t, twoStates)
	assert.NoError(t, s.Enter())
}

func TestLoadGraphNeedsMachine(t *testing.T) {
	s := newSession(t)
	assert.ErrorIs(t, s.LoadGraph(), ErrNoMachine)
}

func TestOpenReplacesCodeOnFrame(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "copy.tm")
	require.NoError(t, tmfile.WriteFile(path, twoStates))

	done := make(chan struct{}, 1)
	s := newSession(t, WithNotify(func() { done <- struct{}{} }))

	require.NoError(t, s.Open(context.Background(), tmfile.StaticPicker(path)))
	assert.True(t, s.Loading())
	assert.ErrorIs(t, s.Open(context.Background(), tmfile.StaticPicker(path)), tmfile.ErrLoadPending)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("load did not finish")
	}
	s.Frame()
	assert.False(t, s.Loading())
	assert.Equal(t, twoStates+"\n", s.Code)
	assert.Equal(t, path, s.Path)
}

func TestOpenCancelled(t *testing.T) {
	done := make(chan struct{}, 1)
	s := newSession(t, WithNotify(func() { done <- struct{}{} }))
	s.Code = "keep"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, s.Open(ctx, tmfile.StaticPicker("x.tm")))
	<-done
	s.Frame()
	assert.Equal(t, "keep", s.Code)
}

func TestSaveAddsExtension(t *testing.T) {
	s := compiled(t, twoStates)
	dir := t.TempDir()

	require.NoError(t, s.Save(filepath.Join(dir, "copy")))
	assert.Equal(t, filepath.Join(dir, "copy.tm"), s.Path)

	data, err := os.ReadFile(s.Path)
	require.NoError(t, err)
	assert.Equal(t, twoStates+"\n", string(data))

	s.Code = "q_x {} q_y;"
	require.NoError(t, s.Save(""))
	data, err = os.ReadFile(s.Path)
	require.NoError(t, err)
	assert.Equal(t, "q_x {} q_y;\n", string(data))
}

func TestSaveWithoutPath(t *testing.T) {
	s := newSession(t)
	assert.Error(t, s.Save(""))
}

func TestExport(t *testing.T) {
	s := compiled(t, twoStates)
	s.Settle(2000)

	var buf bytes.Buffer
	require.NoError(t, s.Export(&buf, "svg", "copy"))
	assert.Contains(t, buf.String(), "<svg")

	buf.Reset()
	require.NoError(t, s.Export(&buf, "DOT", "copy"))
	assert.Contains(t, buf.String(), "digraph")

	buf.Reset()
	require.NoError(t, s.Export(&buf, "png", "copy"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	assert.Error(t, s.Export(&buf, "bmp", ""))
}
