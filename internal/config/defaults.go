package config

import (
	_ "embed"
)

//go:embed defaults/terrain.yaml
var defaultTerrainYAML []byte

// DefaultTerrainConfig returns the hardcoded configuration used when no
// YAML source can be read.
func DefaultTerrainConfig() TerrainConfig {
	return TerrainConfig{
		Dimension:  10,
		Resolution: 20,
		Brush: BrushConfig{
			Radius:        1,
			Intensity:     1,
			RadiusStep:    5,
			IntensityStep: 0.5,
		},
		HighlightSeconds: 3,
		Patterns: []PatternConfig{
			{Name: "Default", Shape: "smooth"},
			{Name: "Pattern 1", Shape: "linear"},
			{Name: "Pattern 2", Shape: "plateau"},
			{Name: "Pattern 3", Shape: "spike"},
		},
		Materials: []MaterialConfig{
			{
				Name: "Landscape",
				Bands: []BandConfig{
					{Max: -1.5, Glyph: "~", Color: "navy"},
					{Max: -0.2, Glyph: "~", Color: "blue"},
					{Max: 0.2, Glyph: ".", Color: "green"},
					{Max: 1.5, Glyph: ":", Color: "dark_green"},
					{Max: 3, Glyph: "^", Color: "brown"},
					{Max: 1e9, Glyph: "A", Color: "bright_white"},
				},
			},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultTerrainYAML
}
