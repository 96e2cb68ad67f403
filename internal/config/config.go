// Package config provides YAML-based terrain configuration loading:
// grid size, brush parameters, deformation pattern slots and render materials.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/tui-terrain/internal/core"
	_ "github.com/vovakirdan/tui-terrain/internal/patterns"
	"github.com/vovakirdan/tui-terrain/internal/registry"
	"github.com/vovakirdan/tui-terrain/internal/terrain"
)

// TerrainConfig contains all configuration for a sculpting session.
type TerrainConfig struct {
	Dimension        float64          `yaml:"dimension"`  // Side length of one chunk in world units
	Resolution       float64          `yaml:"resolution"` // Cells per chunk side
	Brush            BrushConfig      `yaml:"brush"`
	Patterns         []PatternConfig  `yaml:"patterns"`
	Materials        []MaterialConfig `yaml:"materials"`
	HighlightSeconds float64          `yaml:"highlight_seconds"`
}

// BrushConfig defines the initial deformation parameters and the amount
// each key press changes them.
type BrushConfig struct {
	Radius        float64 `yaml:"radius"`
	Intensity     float64 `yaml:"intensity"`
	RadiusStep    float64 `yaml:"radius_step"`
	IntensityStep float64 `yaml:"intensity_step"`
}

// PatternConfig is one deformation pattern slot. Either Shape names a
// registered shape or Keys lists the curve explicitly; Keys wins.
type PatternConfig struct {
	Name  string             `yaml:"name"`
	Shape string             `yaml:"shape,omitempty"`
	Keys  []terrain.Keyframe `yaml:"keys,omitempty"`
}

// MaterialConfig is a named set of height bands used by the top-down renderer.
type MaterialConfig struct {
	Name  string       `yaml:"name"`
	Bands []BandConfig `yaml:"bands"`
}

// BandConfig colors every cell whose height is at most Max.
// The last band of a material catches everything above.
type BandConfig struct {
	Max   float64 `yaml:"max"`
	Glyph string  `yaml:"glyph"`
	Color string  `yaml:"color"`
}

// Band is a resolved BandConfig.
type Band struct {
	Max   float64
	Glyph rune
	Color core.Color
}

// Material is a resolved MaterialConfig ready for rendering.
type Material struct {
	Name  string
	Bands []Band
}

// Pick returns the band covering height h.
func (m Material) Pick(h float64) Band {
	for _, b := range m.Bands {
		if h <= b.Max {
			return b
		}
	}
	if len(m.Bands) == 0 {
		return Band{Max: math.Inf(1), Glyph: '#', Color: core.ColorWhite}
	}
	return m.Bands[len(m.Bands)-1]
}

// PatternSlots is the number of deformation pattern slots a session cycles through.
const PatternSlots = 4

// Validation errors.
var (
	ErrPatternCount = errors.New("config: exactly 4 patterns are required")
	ErrNoMaterials  = errors.New("config: at least one material is required")
)

// Validate checks values that would make a session unusable.
// A non-finite grid step is deliberately not rejected here: the terrain
// layer reports it per chunk.
func (c TerrainConfig) Validate() error {
	for i, p := range c.Patterns {
		if len(p.Keys) == 0 && !registry.Exists(p.Shape) {
			return fmt.Errorf("config: pattern %d (%q): unknown shape %q", i, p.Name, p.Shape)
		}
	}
	if len(c.Patterns) != PatternSlots {
		return fmt.Errorf("%w, got %d", ErrPatternCount, len(c.Patterns))
	}
	if len(c.Materials) == 0 {
		return ErrNoMaterials
	}
	for _, m := range c.Materials {
		if len(m.Bands) == 0 {
			return fmt.Errorf("config: material %q has no bands", m.Name)
		}
		for _, b := range m.Bands {
			if _, ok := core.ParseColor(b.Color); !ok {
				return fmt.Errorf("config: material %q: unknown color %q", m.Name, b.Color)
			}
		}
	}
	if c.HighlightSeconds < 0 {
		return fmt.Errorf("config: highlight_seconds must not be negative, got %v", c.HighlightSeconds)
	}
	return nil
}

// Curve builds the response curve for a pattern slot.
func (p PatternConfig) Curve() (*terrain.Curve, error) {
	if len(p.Keys) > 0 {
		return terrain.NewCurve(p.Keys...), nil
	}
	c, err := registry.Curve(p.Shape)
	if err != nil {
		return nil, fmt.Errorf("config: pattern %q: %w", p.Name, err)
	}
	return c, nil
}

// Resolve converts a material definition into render bands.
// Unknown colors fall back to white; an empty glyph renders as a space.
func (m MaterialConfig) Resolve() Material {
	out := Material{Name: m.Name, Bands: make([]Band, 0, len(m.Bands))}
	for _, b := range m.Bands {
		glyph := ' '
		for _, r := range b.Glyph {
			glyph = r
			break
		}
		color, ok := core.ParseColor(b.Color)
		if !ok {
			color = core.ColorWhite
		}
		out.Bands = append(out.Bands, Band{Max: b.Max, Glyph: glyph, Color: color})
	}
	return out
}
