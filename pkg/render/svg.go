package render

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/ha1tch/turing-graph/pkg/geometry"
)

// SVGOptions controls SVG output.
type SVGOptions struct {
	Title   string
	Padding float64
	Style   Style
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Padding: 40,
		Style:   DefaultStyle(),
	}
}

// canvas maps frame coordinates onto an output image with its origin at
// the top-left corner of the padded frame bounds.
type canvas struct {
	origin        geometry.Vec
	width, height float64
	titleSpace    float64
}

func newCanvas(f *Frame, padding, titleSpace float64) canvas {
	b := f.Bounds
	c := canvas{
		origin:     b.Min().Sub(geometry.V(padding, padding+titleSpace)),
		width:      b.W + 2*padding,
		height:     b.H + 2*padding + titleSpace,
		titleSpace: titleSpace,
	}
	if c.width < 1 {
		c.width = 1
	}
	if c.height < 1 {
		c.height = 1
	}
	return c
}

func (c canvas) pt(v geometry.Vec) geometry.Vec {
	return v.Sub(c.origin)
}

// GenerateSVG renders a planned frame as an SVG document.
func GenerateSVG(f *Frame, opts SVGOptions) string {
	style := opts.Style
	titleSpace := 0.0
	if opts.Title != "" {
		titleSpace = style.FontSize + 16
	}
	c := newCanvas(f, opts.Padding, titleSpace)

	var sb strings.Builder

	// SVG header
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<style>
  .edge { fill: none; stroke: %s; stroke-width: %.1f; }
  .arrow { fill: %s; stroke: none; }
  .state-label { font-family: sans-serif; font-size: %.0fpx; text-anchor: middle; dominant-baseline: middle; }
  .rule { font-family: sans-serif; font-size: %.0fpx; text-anchor: middle; dominant-baseline: middle; }
  .title { font-family: sans-serif; font-size: %.0fpx; font-weight: bold; text-anchor: middle; fill: %s; }
</style>
`, c.width, c.height, c.width, c.height,
		geometry.Hex(style.EdgeColor), style.TransitionThickness,
		geometry.Hex(style.EdgeColor),
		style.FontSize, style.FontSize, style.FontSize+4,
		geometry.Hex(style.LabelColor)))

	// Background
	sb.WriteString(fmt.Sprintf(`<rect width="%.0f" height="%.0f" fill="%s"/>
`, c.width, c.height, geometry.Hex(style.Background)))

	// Title
	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="title">%s</text>
`, c.width/2, opts.Padding/2+style.FontSize, html.EscapeString(opts.Title)))
	}

	// Edges under states
	for _, e := range f.Edges {
		writeCurve(&sb, c, e.Geometry.Curve)
		a := e.Geometry.Arrow
		p0, p1, p2 := c.pt(a[0]), c.pt(a[1]), c.pt(a[2])
		sb.WriteString(fmt.Sprintf(`<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" class="arrow"/>
`, p0.X, p0.Y, p1.X, p1.Y, p2.X, p2.Y))
	}
	for _, e := range f.Edges {
		for _, l := range e.Labels {
			p := c.pt(l.Center)
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="rule" fill="%s">%s</text>
`, p.X, p.Y, geometry.Hex(l.Color), html.EscapeString(l.Text)))
		}
	}

	// States
	for _, s := range f.States {
		p := c.pt(s.Center)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s" stroke-width="3"/>
`, p.X, p.Y, s.Radius, geometry.Hex(s.Fill), geometry.Hex(s.Text)))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="state-label" fill="%s">%s</text>
`, p.X, p.Y, geometry.Hex(s.Text), html.EscapeString(s.Name)))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func writeCurve(sb *strings.Builder, c canvas, curve geometry.Curve) {
	switch b := curve.(type) {
	case geometry.QuadBez:
		p0, p1, p2 := c.pt(b[0]), c.pt(b[1]), c.pt(b[2])
		sb.WriteString(fmt.Sprintf(`<path d="M%.1f,%.1f Q%.1f,%.1f %.1f,%.1f" class="edge"/>
`, p0.X, p0.Y, p1.X, p1.Y, p2.X, p2.Y))
	case geometry.CubicBez:
		p0, p1, p2, p3 := c.pt(b[0]), c.pt(b[1]), c.pt(b[2]), c.pt(b[3])
		sb.WriteString(fmt.Sprintf(`<path d="M%.1f,%.1f C%.1f,%.1f %.1f,%.1f %.1f,%.1f" class="edge"/>
`, p0.X, p0.Y, p1.X, p1.Y, p2.X, p2.Y, p3.X, p3.Y))
	default:
		pts := geometry.Sample(curve, 32)
		parts := make([]string, len(pts))
		for i, p := range pts {
			p = c.pt(p)
			parts[i] = fmt.Sprintf("%.1f,%.1f", p.X, p.Y)
		}
		sb.WriteString(fmt.Sprintf(`<polyline points="%s" class="edge"/>
`, strings.Join(parts, " ")))
	}
}

// WriteSVG writes GenerateSVG's output to w.
func WriteSVG(w io.Writer, f *Frame, opts SVGOptions) error {
	_, err := io.WriteString(w, GenerateSVG(f, opts))
	return err
}
