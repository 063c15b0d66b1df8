// Package render plans what a frame of the state diagram draws: state
// circles, edge curves with arrowheads, stacked rule labels and the
// rectangles that respond to clicks. The plan is independent of any output
// device; SVG, PNG and Graphviz DOT writers are provided.
package render

import (
	"image/color"

	"github.com/ha1tch/turing-graph/pkg/geometry"
)

// Style holds sizes and colours used when planning and drawing.
type Style struct {
	Edge                geometry.EdgeStyle
	TransitionThickness float64
	FontSize            float64
	LabelPadding        float64 // extra width around a label's hit rectangle

	Background color.RGBA
	EdgeColor  color.RGBA
	LabelColor color.RGBA
	Selected   color.RGBA // selected state fill and selected rule text
	Highlight  color.RGBA // fill of the machine's current state
}

// DefaultStyle returns the standard dark theme.
func DefaultStyle() Style {
	return Style{
		Edge:                geometry.DefaultEdgeStyle(),
		TransitionThickness: 2,
		FontSize:            16,
		LabelPadding:        10,

		Background: color.RGBA{62, 62, 62, 255},
		EdgeColor:  color.RGBA{255, 255, 255, 255},
		LabelColor: color.RGBA{255, 255, 255, 255},
		Selected:   color.RGBA{255, 196, 0, 255},
		Highlight:  color.RGBA{0, 200, 83, 255},
	}
}
