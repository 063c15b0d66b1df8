package render

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Metrics measures label text in world units.
type Metrics interface {
	TextWidth(s string) float64
	LineHeight() float64
}

// FaceMetrics measures text with a font face.
type FaceMetrics struct {
	Face font.Face
}

// NewGoRegularFace returns the Go Regular face at size points.
func NewGoRegularFace(size float64) (font.Face, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	return face, nil
}

// NewFaceMetrics measures with Go Regular at size points.
func NewFaceMetrics(size float64) (*FaceMetrics, error) {
	face, err := NewGoRegularFace(size)
	if err != nil {
		return nil, err
	}
	return &FaceMetrics{Face: face}, nil
}

func (m *FaceMetrics) TextWidth(s string) float64 {
	return fixedToFloat(font.MeasureString(m.Face, s))
}

func (m *FaceMetrics) LineHeight() float64 {
	return fixedToFloat(m.Face.Metrics().Height)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// CellMetrics measures text drawn on a character grid where each cell
// covers CellWidth by CellHeight world units. Wide runes take two cells.
type CellMetrics struct {
	CellWidth  float64
	CellHeight float64
}

func (m CellMetrics) TextWidth(s string) float64 {
	return float64(runewidth.StringWidth(s)) * m.CellWidth
}

func (m CellMetrics) LineHeight() float64 {
	return m.CellHeight
}
