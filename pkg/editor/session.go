// Package editor ties the pieces of the diagram editor together. A Session
// owns the rule text, the compiled machine and its graph, and runs one
// frame at a time: poll the file loader, relax the layout, plan the
// drawing. Input is applied between frames on the same goroutine.
package editor

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"strings"

	"github.com/ha1tch/turing-graph/internal/config"
	"github.com/ha1tch/turing-graph/internal/logging"
	"github.com/ha1tch/turing-graph/pkg/graph"
	"github.com/ha1tch/turing-graph/pkg/layout"
	"github.com/ha1tch/turing-graph/pkg/machine"
	"github.com/ha1tch/turing-graph/pkg/render"
	"github.com/ha1tch/turing-graph/pkg/selection"
	"github.com/ha1tch/turing-graph/pkg/tmfile"
)

// ErrNoMachine is returned by operations that need a compiled machine.
var ErrNoMachine = errors.New("nothing compiled yet")

// Session is one editing session.
type Session struct {
	// Code is the rule text buffer.
	Code string
	// Word is the input word handed to the machine on compile.
	Word string
	// Path is the file the code was loaded from or saved to.
	Path string

	machine    *machine.Machine
	graph      *graph.Graph
	engine     *layout.Engine
	seeder     *layout.Seeder
	ctrl       *selection.Controller
	loader     *tmfile.Loader
	planner    *render.Planner
	stateColor color.RGBA
	highlight  int

	frame  *render.Frame
	press  *gesture
	status string
	logger *slog.Logger
}

// Option configures a Session.
type Option func(*sessionOptions)

type sessionOptions struct {
	logger  *slog.Logger
	metrics render.Metrics
	notify  func()
}

// WithLogger sets the session's logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *sessionOptions) {
		o.logger = l
	}
}

// WithMetrics sets how label text is measured.
func WithMetrics(m render.Metrics) Option {
	return func(o *sessionOptions) {
		o.metrics = m
	}
}

// WithNotify sets a function called from a background goroutine when a
// file load finishes.
func WithNotify(fn func()) Option {
	return func(o *sessionOptions) {
		o.notify = fn
	}
}

// New returns an empty session configured by cfg.
func New(cfg config.Config, opts ...Option) (*Session, error) {
	o := sessionOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	logger := logging.OrNop(o.logger)

	style := cfg.RenderStyle()
	metrics := o.metrics
	if metrics == nil {
		fm, err := render.NewFaceMetrics(style.FontSize)
		if err != nil {
			return nil, err
		}
		metrics = fm
	}

	s := &Session{
		Word:       cfg.Editor.Word,
		graph:      &graph.Graph{},
		engine:     layout.New(cfg.LayoutParams(), layout.WithLogger(logger)),
		seeder:     cfg.Seeder(),
		loader:     tmfile.NewLoader(tmfile.WithNotify(o.notify), tmfile.WithLogger(logger)),
		planner:    render.NewPlanner(style, metrics),
		stateColor: cfg.StateColor(),
		highlight:  -1,
		logger:     logger,
	}
	s.ctrl = selection.New(s.graph, machine.New(1), selection.WithLogger(logger))
	return s, nil
}

// Machine returns the compiled machine, or nil.
func (s *Session) Machine() *machine.Machine {
	return s.machine
}

// Graph returns the current graph.
func (s *Session) Graph() *graph.Graph {
	return s.graph
}

// Controller returns the input controller.
func (s *Session) Controller() *selection.Controller {
	return s.ctrl
}

// Engine returns the layout engine.
func (s *Session) Engine() *layout.Engine {
	return s.engine
}

// Style returns the drawing style frames are planned with.
func (s *Session) Style() render.Style {
	return s.planner.Style
}

// Status returns the last user-facing message.
func (s *Session) Status() string {
	return s.status
}

func (s *Session) setStatus(format string, args ...any) {
	s.status = fmt.Sprintf(format, args...)
}

// SetHighlight marks a state as the machine's current state, or clears the
// mark with -1.
func (s *Session) SetHighlight(id int) {
	s.highlight = id
}

// Compile parses the code and rebuilds the graph. States that keep their
// name keep their position. On failure the previous machine and graph are
// left untouched and the error is returned.
func (s *Session) Compile() error {
	m, err := machine.Compile(s.Code, s.Word)
	if err != nil {
		s.logger.Warn("compile failed", "error", err)
		s.setStatus("compile error: %v", err)
		return err
	}
	g, err := graph.RulesToGraph(m,
		graph.WithPrevious(s.graph),
		graph.WithSeeder(s.seeder),
		graph.WithColor(s.stateColor),
	)
	if err != nil {
		s.logger.Error("graph rebuild failed", "error", err)
		s.setStatus("desync: %v", err)
		return err
	}

	s.machine = m
	s.graph = g
	s.ctrl.Reset(g, m)
	s.engine.Reset()
	s.logger.Info("compiled", "states", m.Len(), "tracks", m.Tracks())
	s.setStatus("compiled %d states", m.Len())
	return nil
}

// LoadGraph replaces the code with the rule text of the graph.
func (s *Session) LoadGraph() error {
	if s.machine == nil {
		s.setStatus("%v", ErrNoMachine)
		return ErrNoMachine
	}
	if s.ctrl.Edit() != nil {
		s.ctrl.Escape()
	}
	text, err := graph.GraphToRules(s.graph, s.machine)
	if err != nil {
		s.logger.Error("graph to rules failed", "error", err)
		s.setStatus("desync: %v", err)
		return err
	}
	s.Code = text
	s.setStatus("code updated from graph")
	return nil
}

// Open starts loading a file chosen by picker. The code is replaced when a
// later Frame picks up the result.
func (s *Session) Open(ctx context.Context, picker tmfile.Picker) error {
	if err := s.loader.Request(ctx, picker); err != nil {
		s.setStatus("%v", err)
		return err
	}
	s.setStatus("loading...")
	return nil
}

// Loading reports whether a file load is pending.
func (s *Session) Loading() bool {
	return s.loader.Pending()
}

// Save writes the code to path, or to the current path when path is empty.
func (s *Session) Save(path string) error {
	if path == "" {
		path = s.Path
	}
	if path == "" {
		return errors.New("save: no file name")
	}
	path = tmfile.WithExt(path)
	if err := tmfile.WriteFile(path, s.Code); err != nil {
		s.logger.Warn("save failed", "path", path, "error", err)
		s.setStatus("save failed: %v", err)
		return err
	}
	s.Path = path
	s.logger.Info("saved", "path", path)
	s.setStatus("saved %s", path)
	return nil
}

func (s *Session) pollLoader() {
	res, ok := s.loader.Poll()
	if !ok {
		return
	}
	if res.Err != nil {
		if errors.Is(res.Err, tmfile.ErrCancelled) {
			s.setStatus("open cancelled")
		} else {
			s.setStatus("open failed: %v", res.Err)
		}
		return
	}
	s.Code = res.Text
	s.Path = res.Path
	s.setStatus("opened %s", res.Path)
}

// Frame runs one frame: apply a finished file load, take one layout step
// and plan the drawing.
func (s *Session) Frame() *render.Frame {
	s.pollLoader()

	res := layout.Result{Stable: true}
	if s.graph.Len() > 0 {
		pos := s.graph.Positions()
		res = s.engine.Step(pos, s.graph, s.ctrl.Pinned()...)
		s.graph.SetPositions(pos)
	}

	_, dragging := s.ctrl.Dragging()
	s.frame = s.planner.Plan(s.graph, render.Options{
		Highlight: s.highlight,
		Stable:    res.Stable,
		Busy:      dragging || s.loader.Pending(),
	})
	return s.frame
}

// LastFrame returns the most recently planned frame, planning one if none
// exists yet.
func (s *Session) LastFrame() *render.Frame {
	if s.frame == nil {
		return s.Frame()
	}
	return s.frame
}

// NeedsRedraw reports whether another frame should follow without waiting
// for input: the layout has not settled, a drag is in progress or a file is
// loading.
func (s *Session) NeedsRedraw() bool {
	if s.frame == nil {
		return true
	}
	_, dragging := s.ctrl.Dragging()
	return s.frame.NeedsRedraw || dragging || s.loader.Pending()
}

// Settle steps the layout until it is stable or limit steps have run.
func (s *Session) Settle(limit int) (layout.Result, int) {
	pos := s.graph.Positions()
	res, n := s.engine.Run(pos, s.graph, limit)
	s.graph.SetPositions(pos)
	return res, n
}

// Export writes the current layout as svg, png or dot.
func (s *Session) Export(w io.Writer, format, title string) error {
	f := s.planner.Plan(s.graph, render.Options{Highlight: s.highlight, Stable: true})
	switch strings.ToLower(format) {
	case "svg":
		opts := render.DefaultSVGOptions()
		opts.Title = title
		opts.Style = s.planner.Style
		return render.WriteSVG(w, f, opts)
	case "png":
		opts := render.DefaultPNGOptions()
		opts.Title = title
		opts.Style = s.planner.Style
		return render.WritePNG(w, f, opts)
	case "dot":
		_, err := io.WriteString(w, render.GenerateDOT(s.graph, title))
		return err
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}
