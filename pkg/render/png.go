// Native PNG rendering of a planned frame.

package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/ha1tch/turing-graph/pkg/geometry"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Title       string
	Padding     float64
	Supersample int // render at this multiple and scale down
	MaxSide     int // cap on the final width and height in pixels
	Style       Style
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Padding:     40,
		Supersample: 4,
		MaxSide:     4096,
		Style:       DefaultStyle(),
	}
}

// RenderImage draws the frame into an image. The frame is drawn at
// Supersample times its size and downsampled for smoother edges.
func RenderImage(f *Frame, opts PNGOptions) (image.Image, error) {
	style := opts.Style
	ss := opts.Supersample
	if ss < 1 {
		ss = 1
	}
	titleSpace := 0.0
	if opts.Title != "" {
		titleSpace = style.FontSize + 16
	}
	c := newCanvas(f, opts.Padding, titleSpace)

	width, height := int(math.Ceil(c.width)), int(math.Ceil(c.height))
	if opts.MaxSide > 0 && (width > opts.MaxSide || height > opts.MaxSide) {
		return nil, fmt.Errorf("render png: %dx%d exceeds %d pixels", width, height, opts.MaxSide)
	}

	scale := float64(ss)
	face, err := NewGoRegularFace(style.FontSize * scale)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(width*ss, height*ss)
	dc.SetFontFace(face)
	dc.SetColor(style.Background)
	dc.Clear()

	px := func(v geometry.Vec) (float64, float64) {
		p := c.pt(v)
		return p.X * scale, p.Y * scale
	}

	if opts.Title != "" {
		dc.SetColor(style.LabelColor)
		dc.DrawStringAnchored(opts.Title, c.width/2*scale, (opts.Padding/2+style.FontSize)*scale, 0.5, 0.5)
	}

	// Edges under labels, labels under states
	dc.SetLineWidth(style.TransitionThickness * scale)
	for _, e := range f.Edges {
		dc.SetColor(style.EdgeColor)
		switch b := e.Geometry.Curve.(type) {
		case geometry.QuadBez:
			dc.MoveTo(px(b[0]))
			x1, y1 := px(b[1])
			x2, y2 := px(b[2])
			dc.QuadraticTo(x1, y1, x2, y2)
		case geometry.CubicBez:
			dc.MoveTo(px(b[0]))
			x1, y1 := px(b[1])
			x2, y2 := px(b[2])
			x3, y3 := px(b[3])
			dc.CubicTo(x1, y1, x2, y2, x3, y3)
		default:
			for i, p := range geometry.Sample(e.Geometry.Curve, 32) {
				x, y := px(p)
				if i == 0 {
					dc.MoveTo(x, y)
				} else {
					dc.LineTo(x, y)
				}
			}
		}
		dc.Stroke()

		for i, p := range e.Geometry.Arrow {
			x, y := px(p)
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
		dc.Fill()
	}

	for _, e := range f.Edges {
		for _, l := range e.Labels {
			x, y := px(l.Center)
			dc.SetColor(l.Color)
			dc.DrawStringAnchored(l.Text, x, y, 0.5, 0.35)
		}
	}

	for _, s := range f.States {
		x, y := px(s.Center)
		dc.DrawCircle(x, y, s.Radius*scale)
		dc.SetColor(s.Fill)
		dc.FillPreserve()
		dc.SetColor(s.Text)
		dc.SetLineWidth(3 * scale)
		dc.Stroke()
		dc.DrawStringAnchored(s.Name, x, y, 0.5, 0.35)
	}

	if ss == 1 {
		return dc.Image(), nil
	}
	final := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(final, final.Bounds(), dc.Image(), dc.Image().Bounds(), draw.Over, nil)
	return final, nil
}

// WritePNG renders the frame and encodes it as PNG.
func WritePNG(w io.Writer, f *Frame, opts PNGOptions) error {
	img, err := RenderImage(f, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
