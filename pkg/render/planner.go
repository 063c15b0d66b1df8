package render

import (
	"image/color"
	"math"
	"sort"

	"github.com/ha1tch/turing-graph/pkg/geometry"
	"github.com/ha1tch/turing-graph/pkg/graph"
)

// StateShape is a state as drawn.
type StateShape struct {
	ID          int
	Name        string
	Center      geometry.Vec
	Radius      float64
	Fill        color.RGBA
	Text        color.RGBA
	Selected    bool
	Highlighted bool
	Hit         geometry.Rect
}

// Label is one rule text of an edge.
type Label struct {
	Key      graph.Key
	Text     string
	Center   geometry.Vec
	Color    color.RGBA
	Selected bool
	Hit      geometry.Rect
}

// EdgeShape is the curve, arrowhead and labels of all transitions sharing a
// source and a target.
type EdgeShape struct {
	From, To int
	Geometry geometry.Edge
	Labels   []Label
}

// Frame is everything one frame draws, in drawing order: edges, then
// labels, then states on top.
type Frame struct {
	States      []StateShape
	Edges       []EdgeShape
	Centroid    geometry.Vec
	Bounds      geometry.Rect
	Stable      bool
	NeedsRedraw bool
}

// HitKind tells what a point hit.
type HitKind int

const (
	HitNone HitKind = iota
	HitState
	HitLabel
)

// Hit is the result of a hit test.
type Hit struct {
	Kind  HitKind
	State int
	Key   graph.Key
}

// HitTest returns the topmost shape under p. States are above labels.
func (f *Frame) HitTest(p geometry.Vec) Hit {
	for i := len(f.States) - 1; i >= 0; i-- {
		s := f.States[i]
		if geometry.Distance(p, s.Center) <= s.Radius {
			return Hit{Kind: HitState, State: s.ID}
		}
	}
	for i := len(f.Edges) - 1; i >= 0; i-- {
		for _, l := range f.Edges[i].Labels {
			if l.Hit.Contains(p) {
				return Hit{Kind: HitLabel, Key: l.Key}
			}
		}
	}
	return Hit{}
}

// Options carry per-frame state that is not part of the graph.
type Options struct {
	Highlight int  // state drawn as the machine's current state, -1 for none
	Stable    bool // the last layout step settled
	Busy      bool // a drag or file load is in progress
}

// Planner lays out frames.
type Planner struct {
	Style   Style
	Metrics Metrics
}

// NewPlanner returns a planner using style and metrics.
func NewPlanner(style Style, m Metrics) *Planner {
	return &Planner{Style: style, Metrics: m}
}

type pair struct{ from, to int }

// Plan computes the frame for g. Transitions are grouped by (source,
// target) and groups are emitted in ascending (source, target) order.
func (p *Planner) Plan(g *graph.Graph, o Options) *Frame {
	f := &Frame{
		Stable:      o.Stable,
		NeedsRedraw: !o.Stable || o.Busy,
	}
	if g == nil || g.Len() == 0 {
		return f
	}
	f.Centroid = g.Centroid()

	groups := make(map[pair][]graph.Transition)
	for _, s := range g.States {
		for _, t := range s.Transitions {
			k := pair{t.ParentID, t.TargetID}
			groups[k] = append(groups[k], t)
		}
	}
	keys := make([]pair, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].from != keys[j].from {
			return keys[i].from < keys[j].from
		}
		return keys[i].to < keys[j].to
	})

	selected, hasSelected := g.Selection.SelectedTransition()
	for _, k := range keys {
		from, to := g.State(k.from), g.State(k.to)
		if from == nil || to == nil {
			continue
		}
		ts := groups[k]
		var e geometry.Edge
		if k.from == k.to {
			e = geometry.LoopEdge(from.Position, f.Centroid, p.Style.Edge)
		} else {
			reverse := g.HasTransition(k.to, k.from) && k.to > k.from
			e = geometry.NormalEdge(from.Position, to.Position, f.Centroid, reverse, p.Style.Edge)
		}
		shape := EdgeShape{From: k.from, To: k.to, Geometry: e}
		shape.Labels = p.labels(e, ts, selected, hasSelected)
		f.Edges = append(f.Edges, shape)
	}

	selState, hasState := g.Selection.SelectedState()
	r := p.Style.Edge.StateRadius
	for _, s := range g.States {
		shape := StateShape{
			ID:          s.ID,
			Name:        s.Name,
			Center:      s.Position,
			Radius:      r,
			Fill:        s.Color,
			Selected:    hasState && selState == s.ID,
			Highlighted: o.Highlight == s.ID,
			Hit:         geometry.RectAround(s.Position, 2*r, 2*r),
		}
		switch {
		case shape.Selected:
			shape.Fill = p.Style.Selected
		case shape.Highlighted:
			shape.Fill = p.Style.Highlight
		}
		shape.Text = geometry.ContrastColor(shape.Fill)
		f.States = append(f.States, shape)
	}

	f.Bounds = f.bounds()
	return f
}

// labels stacks the rule texts of one edge around an anchor pushed out from
// the edge along its bow direction.
func (p *Planner) labels(e geometry.Edge, ts []graph.Transition, selected graph.Key, hasSelected bool) []Label {
	h := p.Metrics.LineHeight()
	width := 0.0
	for _, t := range ts {
		width = math.Max(width, p.Metrics.TextWidth(t.Text))
	}

	var anchor geometry.Vec
	if e.Loop {
		half := p.Style.Edge.LoopSize / 2
		anchor = geometry.LabelAnchor(e, geometry.V(half, half))
	} else {
		c := p.Style.Edge.Curvature
		anchor = geometry.LabelAnchor(e, geometry.V(c+width/2, c+float64(len(ts))*h/2))
	}

	offsets := geometry.LabelOffsets(len(ts), h)
	labels := make([]Label, len(ts))
	for i, t := range ts {
		key := graph.Key{Parent: t.ParentID, ID: t.ID}
		isSel := hasSelected && key == selected
		center := anchor.Add(geometry.V(0, offsets[i]))
		col := p.Style.LabelColor
		if isSel {
			col = p.Style.Selected
		}
		labels[i] = Label{
			Key:      key,
			Text:     t.Text,
			Center:   center,
			Color:    col,
			Selected: isSel,
			Hit:      geometry.RectAround(center, p.Metrics.TextWidth(t.Text)+p.Style.LabelPadding, h),
		}
	}
	return labels
}

// bounds covers every state, curve and label of the frame.
func (f *Frame) bounds() geometry.Rect {
	first := true
	var lo, hi geometry.Vec
	grow := func(a, b geometry.Vec) {
		if first {
			lo, hi = a, b
			first = false
			return
		}
		lo = geometry.V(math.Min(lo.X, a.X), math.Min(lo.Y, a.Y))
		hi = geometry.V(math.Max(hi.X, b.X), math.Max(hi.Y, b.Y))
	}

	for _, s := range f.States {
		grow(s.Hit.Min(), s.Hit.Max())
	}
	for _, e := range f.Edges {
		for _, pt := range geometry.Sample(e.Geometry.Curve, 32) {
			grow(pt, pt)
		}
		for _, pt := range e.Geometry.Arrow {
			grow(pt, pt)
		}
		for _, l := range e.Labels {
			grow(l.Hit.Min(), l.Hit.Max())
		}
	}
	if first {
		return geometry.Rect{}
	}
	return geometry.Rect{
		X: (lo.X + hi.X) / 2,
		Y: (lo.Y + hi.Y) / 2,
		W: hi.X - lo.X,
		H: hi.Y - lo.Y,
	}
}
