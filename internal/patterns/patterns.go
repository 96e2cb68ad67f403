// Package patterns registers the built-in deformation shapes.
// Import it for side effects:
//
//	import _ "github.com/vovakirdan/tui-terrain/internal/patterns"
package patterns

import (
	"github.com/vovakirdan/tui-terrain/internal/registry"
	"github.com/vovakirdan/tui-terrain/internal/terrain"
)

// Built-in shape IDs.
const (
	Smooth   = "smooth"
	Linear   = "linear"
	Plateau  = "plateau"
	Spike    = "spike"
	Constant = "constant"
)

type shape struct {
	id    string
	title string
	keys  []terrain.Keyframe
}

func (s shape) ID() string    { return s.id }
func (s shape) Title() string { return s.title }

func (s shape) Curve() *terrain.Curve {
	return terrain.NewCurve(s.keys...)
}

var builtins = []shape{
	{
		id:    Smooth,
		title: "Smooth falloff (ease in/out)",
		keys: []terrain.Keyframe{
			{Time: 0, Value: 1},
			{Time: 1, Value: 0},
		},
	},
	{
		id:    Linear,
		title: "Linear cone",
		keys: []terrain.Keyframe{
			{Time: 0, Value: 1, In: -1, Out: -1},
			{Time: 1, Value: 0, In: -1, Out: -1},
		},
	},
	{
		id:    Plateau,
		title: "Flat top with a steep rim",
		keys: []terrain.Keyframe{
			{Time: 0, Value: 1},
			{Time: 0.6, Value: 1},
			{Time: 1, Value: 0},
		},
	},
	{
		id:    Spike,
		title: "Sharp peak",
		keys: []terrain.Keyframe{
			{Time: 0, Value: 1, In: -3, Out: -3},
			{Time: 1, Value: 0},
		},
	},
	{
		id:    Constant,
		title: "Uniform displacement inside the radius",
		keys: []terrain.Keyframe{
			{Time: 0, Value: 1},
			{Time: 1, Value: 1},
		},
	},
}

func init() {
	for _, s := range builtins {
		registry.Register(s.id, func() registry.Shape { return s })
	}
}
