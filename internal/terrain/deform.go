package terrain

import (
	"math"

	"github.com/vovakirdan/tui-terrain/internal/core"
)

// Sign selects the direction a deformation moves vertices.
type Sign int

const (
	Raise Sign = 1
	Lower Sign = -1
)

func (s Sign) String() string {
	if s == Lower {
		return "down"
	}
	return "up"
}

// Brush carries the deformation parameters shared by every chunk a
// deformation touches.
type Brush struct {
	Radius    float64
	Intensity float64
	Pattern   *Curve
}

// neighborOrder is the order in which propagation visits neighbors.
var neighborOrder = [4]core.Vec3{core.Left, core.Right, core.Forward, core.Back}

// Deform displaces the vertices of c within brush radius of hit, then, if
// propagate is set, applies the same hit and sign to the four cardinal
// neighbors without further propagation. Returns the number of chunks whose
// surface changed.
func (r *Registry) Deform(c *Chunk, hit core.Vec3, b Brush, sign Sign, propagate bool) int {
	if c == nil {
		return 0
	}
	changed := 0
	if deformChunk(c, hit, b, sign) {
		changed++
		r.notifyChanged(c)
	}

	if propagate {
		for _, dir := range neighborOrder {
			if n := r.Neighbor(c, dir); n != nil {
				changed += r.Deform(n, hit, b, sign, false)
			}
		}
	}
	return changed
}

// deformChunk applies the brush to one chunk. It never divides by a
// non-positive radius: no vertex can satisfy d < radius in that case.
func deformChunk(c *Chunk, hit core.Vec3, b Brush, sign Sign) bool {
	if c.mesh == nil || b.Pattern == nil || !(b.Radius > 0) {
		return false
	}

	touched := false
	for i := range c.mesh.Vertices {
		d := core.Distance(hit, c.WorldVertex(i))
		if d < b.Radius {
			delta := b.Pattern.Evaluate(d/b.Radius) * b.Intensity
			if math.IsNaN(delta) {
				continue
			}
			c.mesh.Vertices[i].Y += float64(sign) * delta
			touched = true
		}
	}

	if touched {
		c.surfaceChanged()
	}
	return touched
}
