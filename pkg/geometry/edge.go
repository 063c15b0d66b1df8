package geometry

// EdgeStyle holds the constants that shape edges and arrowheads.
type EdgeStyle struct {
	StateRadius float64 // node circle radius; arrowheads stop this far from the target
	ArrowSize   float64 // arrowhead length
	Curvature   float64 // bow of edges between distinct states
	LoopSize    float64 // reach of self-loops
}

// DefaultEdgeStyle returns the standard edge constants.
func DefaultEdgeStyle() EdgeStyle {
	return EdgeStyle{
		StateRadius: 30,
		ArrowSize:   12,
		Curvature:   30,
		LoopSize:    150,
	}
}

// Edge is the drawable geometry of one edge between two states.
type Edge struct {
	Curve  Curve
	Arrow  [3]Vec
	Center Vec // reference point labels are pushed out from
	Normal Vec // unit direction the edge bows towards
	Loop   bool
}

// BowDirection returns the unit perpendicular to the source→target axis that
// points away from the graph centroid. reverse flips the result, which is how
// the two directions of a bidirectional edge are kept apart.
func BowDirection(source, target, centroid Vec, reverse bool) Vec {
	delta := source.Sub(target).Rot90().Normalized()
	center := Midpoint(source, target)

	toward, away := Distance(center.Add(delta), centroid), Distance(center.Sub(delta), centroid)
	switch {
	case toward < away:
		delta = delta.Neg()
	case toward == away && (delta.Y < 0 || (delta.Y == 0 && delta.X < 0)):
		// centroid on the axis: pick the same side for both directions
		delta = delta.Neg()
	}
	if reverse {
		delta = delta.Neg()
	}
	return delta
}

// NormalEdge builds the quadratic curve between two distinct states.
func NormalEdge(source, target, centroid Vec, reverse bool, style EdgeStyle) Edge {
	delta := BowDirection(source, target, centroid, reverse)
	center := Midpoint(source, target)

	curve := QuadBez{
		source,
		center.Add(delta.Scale(style.Curvature * 2)),
		target,
	}
	return Edge{
		Curve:  curve,
		Arrow:  Arrowhead(curve, target, style.StateRadius, style.ArrowSize),
		Center: center,
		Normal: delta,
	}
}

// LoopDirection returns the unit vector from the centroid through source.
// A state sitting on the centroid loops upwards.
func LoopDirection(source, centroid Vec) Vec {
	delta := source.Sub(centroid).Normalized()
	if delta.IsZero() {
		return Vec{0, -1}
	}
	return delta
}

// LoopEdge builds the cubic self-loop of a state, extending away from the
// graph centroid.
func LoopEdge(source, centroid Vec, style EdgeStyle) Edge {
	delta := LoopDirection(source, centroid)
	size := style.LoopSize
	side := delta.Rot90().Scale(size / 2)
	reach := source.Add(delta.Scale(size))

	curve := CubicBez{
		source,
		reach.Add(side),
		reach.Sub(side),
		source,
	}
	return Edge{
		Curve:  curve,
		Arrow:  Arrowhead(curve, source, style.StateRadius, style.ArrowSize),
		Center: source,
		Normal: delta,
		Loop:   true,
	}
}

// Arrowhead places a triangle on c at arc-length distance inset before its
// end. The tip sits on the curve and the base opens back towards the curve's
// start; endpoint is the point the arrow points at.
func Arrowhead(c Curve, endpoint Vec, inset, size float64) [3]Vec {
	table := NewArcLength(c, DefaultSamples)
	total := table.Total()

	fraction := 0.0
	if total > 0 {
		fraction = 1 - inset/total
	}
	tip := c.Eval(table.Param(fraction))

	dir := tip.Sub(endpoint).Normalized()
	if dir.IsZero() {
		dir = c.Tangent(1).Neg().Normalized()
	}
	side := dir.Rot90().Scale(size / 2)
	base := tip.Add(dir.Scale(size))

	return [3]Vec{
		tip,
		base.Add(side),
		base.Sub(side),
	}
}

// LabelOffsets returns the vertical offset of each of n stacked labels of
// the given line height, relative to the stack's anchor. The stack is centred
// on the anchor.
func LabelOffsets(n int, lineHeight float64) []float64 {
	offsets := make([]float64, n)
	total := float64(n) * lineHeight
	for i := range offsets {
		offsets[i] = (float64(i)+0.5)*lineHeight - total/2
	}
	return offsets
}

// LabelAnchor pushes the edge's centre outwards along its bow direction,
// component-wise by push.
func LabelAnchor(e Edge, push Vec) Vec {
	return e.Center.Add(e.Normal.Mul(push))
}
