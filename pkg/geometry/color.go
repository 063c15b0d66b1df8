package geometry

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	Black = color.RGBA{0, 0, 0, 255}
	White = color.RGBA{255, 255, 255, 255}
)

// Luminance returns the perceived brightness of c in [0, 1] using the
// 0.299R + 0.587G + 0.114B weighting. Fully transparent colours are 0.
func Luminance(c color.Color) float64 {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return 0
	}
	return 0.299*cf.R + 0.587*cf.G + 0.114*cf.B
}

// ContrastColor returns black for light colours and white for dark ones, so
// that text drawn in the result stays legible on c.
func ContrastColor(c color.Color) color.RGBA {
	if Luminance(c) > 0.5 {
		return Black
	}
	return White
}

// ParseHex parses "#rrggbb" (or "#rgb") into an opaque colour.
func ParseHex(s string) (color.RGBA, error) {
	cf, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := cf.RGB255()
	return color.RGBA{r, g, b, 255}, nil
}

// Hex formats c as "#rrggbb".
func Hex(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "#000000"
	}
	return cf.Clamped().Hex()
}
