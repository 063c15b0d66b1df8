// Package config loads and saves the editor configuration.
package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ha1tch/turing-graph/pkg/geometry"
	"github.com/ha1tch/turing-graph/pkg/layout"
	"github.com/ha1tch/turing-graph/pkg/render"
)

// FileName is the configuration file kept in the user's home directory.
const FileName = ".tmedit.yaml"

// Config is the whole configuration file.
type Config struct {
	Layout LayoutConfig `yaml:"layout"`
	Style  StyleConfig  `yaml:"style"`
	Editor EditorConfig `yaml:"editor"`
}

// LayoutConfig holds the force model constants.
type LayoutConfig struct {
	CRep               float64 `yaml:"c_rep"`
	CSpring            float64 `yaml:"c_spring"`
	IdealLength        float64 `yaml:"ideal_length"`
	MaxForce           float64 `yaml:"max_force"`
	StabilityThreshold float64 `yaml:"stability_threshold"`
	SeedSpread         float64 `yaml:"seed_spread"`
	SeedMode           string  `yaml:"seed_mode"`
	Seed               int64   `yaml:"seed"`
}

// StyleConfig holds drawing sizes and colours. Colours are "#rrggbb".
type StyleConfig struct {
	StateRadius         float64 `yaml:"state_radius"`
	ArrowSize           float64 `yaml:"arrow_size"`
	TransitionCurvature float64 `yaml:"transition_curvature"`
	TransitionThickness float64 `yaml:"transition_thickness"`
	LoopSize            float64 `yaml:"loop_size"`
	FontSize            float64 `yaml:"font_size"`

	Background string `yaml:"background"`
	StateColor string `yaml:"state_color"`
	EdgeColor  string `yaml:"edge_color"`
	LabelColor string `yaml:"label_color"`
	Selected   string `yaml:"selected"`
	Highlight  string `yaml:"highlight"`
}

// EditorConfig holds session preferences.
type EditorConfig struct {
	LastDir      string `yaml:"last_dir,omitempty"`
	ExportFormat string `yaml:"export_format"`
	Word         string `yaml:"word,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	p := layout.DefaultParams()
	s := render.DefaultStyle()
	return Config{
		Layout: LayoutConfig{
			CRep:               p.CRep,
			CSpring:            p.CSpring,
			IdealLength:        p.IdealLength,
			MaxForce:           p.MaxForce,
			StabilityThreshold: p.StabilityThreshold,
			SeedSpread:         p.SeedSpread,
			SeedMode:           layout.SeedRandom.String(),
			Seed:               1,
		},
		Style: StyleConfig{
			StateRadius:         s.Edge.StateRadius,
			ArrowSize:           s.Edge.ArrowSize,
			TransitionCurvature: s.Edge.Curvature,
			TransitionThickness: s.TransitionThickness,
			LoopSize:            s.Edge.LoopSize,
			FontSize:            s.FontSize,
			Background:          geometry.Hex(s.Background),
			StateColor:          "#ffffff",
			EdgeColor:           geometry.Hex(s.EdgeColor),
			LabelColor:          geometry.Hex(s.LabelColor),
			Selected:            geometry.Hex(s.Selected),
			Highlight:           geometry.Hex(s.Highlight),
		},
		Editor: EditorConfig{
			ExportFormat: "svg",
		},
	}
}

// Path returns the default configuration path, ~/.tmedit.yaml.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks that sizes are positive and colours parse.
func (c Config) Validate() error {
	positive := map[string]float64{
		"layout.ideal_length":        c.Layout.IdealLength,
		"layout.max_force":           c.Layout.MaxForce,
		"layout.stability_threshold": c.Layout.StabilityThreshold,
		"style.state_radius":         c.Style.StateRadius,
		"style.font_size":            c.Style.FontSize,
	}
	for name, v := range positive {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %g", name, v)
		}
	}
	for name, hex := range c.colors() {
		if _, err := geometry.ParseHex(hex); err != nil {
			return fmt.Errorf("%s: invalid colour %q", name, hex)
		}
	}
	return nil
}

func (c Config) colors() map[string]string {
	return map[string]string{
		"style.background":  c.Style.Background,
		"style.state_color": c.Style.StateColor,
		"style.edge_color":  c.Style.EdgeColor,
		"style.label_color": c.Style.LabelColor,
		"style.selected":    c.Style.Selected,
		"style.highlight":   c.Style.Highlight,
	}
}

// LayoutParams converts the layout section.
func (c Config) LayoutParams() layout.Params {
	l := c.Layout
	return layout.Params{
		CRep:               l.CRep,
		CSpring:            l.CSpring,
		IdealLength:        l.IdealLength,
		MaxForce:           l.MaxForce,
		StabilityThreshold: l.StabilityThreshold,
		SeedSpread:         l.SeedSpread,
	}
}

// Seeder builds the seeder for fresh states.
func (c Config) Seeder() *layout.Seeder {
	return layout.NewSeeder(layout.ParseSeedMode(c.Layout.SeedMode), c.Layout.SeedSpread, c.Layout.Seed)
}

// RenderStyle converts the style section. Unparseable colours fall back to
// the defaults; Validate reports them.
func (c Config) RenderStyle() render.Style {
	s := render.DefaultStyle()
	st := c.Style
	s.Edge = geometry.EdgeStyle{
		StateRadius: st.StateRadius,
		ArrowSize:   st.ArrowSize,
		Curvature:   st.TransitionCurvature,
		LoopSize:    st.LoopSize,
	}
	s.TransitionThickness = st.TransitionThickness
	s.FontSize = st.FontSize

	set := func(dst *color.RGBA, hex string) {
		if col, err := geometry.ParseHex(hex); err == nil {
			*dst = col
		}
	}
	set(&s.Background, st.Background)
	set(&s.EdgeColor, st.EdgeColor)
	set(&s.LabelColor, st.LabelColor)
	set(&s.Selected, st.Selected)
	set(&s.Highlight, st.Highlight)
	return s
}

// StateColor returns the fill of new states.
func (c Config) StateColor() color.RGBA {
	col, err := geometry.ParseHex(c.Style.StateColor)
	if err != nil {
		return color.RGBA{255, 255, 255, 255}
	}
	return col
}
