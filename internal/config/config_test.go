package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/turing-graph/pkg/layout"
)

func TestDefaultMatchesPackages(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, layout.DefaultParams(), cfg.LayoutParams())
	assert.Equal(t, 30.0, cfg.RenderStyle().Edge.StateRadius)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, cfg.StateColor())
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	data := `
layout:
  ideal_length: 120
  seed_mode: circular
style:
  state_color: "#ff0000"
editor:
  export_format: png
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 120.0, cfg.Layout.IdealLength)
	assert.Equal(t, 10000.0, cfg.Layout.CRep, "unset keys keep defaults")
	assert.Equal(t, layout.SeedCircular, cfg.Seeder().Mode)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, cfg.StateColor())
	assert.Equal(t, "png", cfg.Editor.ExportFormat)
}

func TestLoadRejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("layout: [1, 2"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("style:\n  background: nope\n"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "style.background")

	require.NoError(t, os.WriteFile(path, []byte("layout:\n  ideal_length: 0\n"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "ideal_length")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := Default()
	cfg.Editor.LastDir = "/tmp/machines"
	cfg.Style.Highlight = "#123456"

	require.NoError(t, Save(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
	assert.Equal(t, color.RGBA{0x12, 0x34, 0x56, 255}, got.RenderStyle().Highlight)
}
