package main

import (
	"math"

	"github.com/ha1tch/turing-graph/pkg/geometry"
)

// Each terminal cell covers this many world units.
const (
	cellWidth  = 10.0
	cellHeight = 20.0
)

// view maps world coordinates onto a rectangle of screen cells whose middle
// shows center.
type view struct {
	x, y, w, h int
	center     geometry.Vec
	pan        geometry.Vec
}

func (v view) origin() geometry.Vec {
	return v.center.Add(v.pan)
}

// toWorld returns the world point at the middle of a screen cell.
func (v view) toWorld(cx, cy int) geometry.Vec {
	o := v.origin()
	return geometry.Vec{
		X: o.X + (float64(cx-v.x)+0.5-float64(v.w)/2)*cellWidth,
		Y: o.Y + (float64(cy-v.y)+0.5-float64(v.h)/2)*cellHeight,
	}
}

// toCell returns the screen cell showing p and whether it lies in the view.
func (v view) toCell(p geometry.Vec) (int, int, bool) {
	o := v.origin()
	cx := v.x + int(math.Floor((p.X-o.X)/cellWidth+float64(v.w)/2))
	cy := v.y + int(math.Floor((p.Y-o.Y)/cellHeight+float64(v.h)/2))
	return cx, cy, v.contains(cx, cy)
}

func (v view) contains(cx, cy int) bool {
	return cx >= v.x && cx < v.x+v.w && cy >= v.y && cy < v.y+v.h
}

// arrowRune picks the arrow character closest to direction d.
func arrowRune(d geometry.Vec) rune {
	if math.Abs(d.X) >= math.Abs(d.Y) {
		if d.X >= 0 {
			return '▶'
		}
		return '◀'
	}
	if d.Y >= 0 {
		return '▼'
	}
	return '▲'
}
