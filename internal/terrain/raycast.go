package terrain

import (
	"math"

	"github.com/vovakirdan/tui-terrain/internal/core"
)

const rayEpsilon = 1e-9

// raycastChunk tests the ray against every triangle of c in world space and
// returns the nearest hit distance.
func raycastChunk(c *Chunk, ray core.Ray) (float64, bool) {
	m := c.mesh
	best := math.Inf(1)
	found := false

	for t := 0; t+2 < len(m.Triangles); t += 3 {
		a := c.WorldVertex(m.Triangles[t])
		b := c.WorldVertex(m.Triangles[t+1])
		d := c.WorldVertex(m.Triangles[t+2])
		if dist, ok := intersectTriangle(ray, a, b, d); ok && dist < best {
			best = dist
			found = true
		}
	}
	return best, found
}

// intersectTriangle is the Möller–Trumbore ray/triangle test. Both faces
// count as hits so lowered terrain stays clickable from any side.
func intersectTriangle(ray core.Ray, a, b, c core.Vec3) (float64, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := ray.Dir.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < rayEpsilon {
		return 0, false
	}
	inv := 1 / det

	s := ray.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < -rayEpsilon || u > 1+rayEpsilon {
		return 0, false
	}

	q := s.Cross(e1)
	v := ray.Dir.Dot(q) * inv
	if v < -rayEpsilon || u+v > 1+rayEpsilon {
		return 0, false
	}

	t := e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}
