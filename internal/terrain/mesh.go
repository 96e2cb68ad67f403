package terrain

import (
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/tui-terrain/internal/core"
)

// ErrInvalidStep is returned when dimension/resolution is not a finite number.
var ErrInvalidStep = errors.New("terrain: grid step is not finite")

// Mesh holds the vertex and triangle buffers of one chunk in local space.
// Vertex (i, j) lives at index i*Size+j; i runs along X, j along Z.
type Mesh struct {
	Vertices  []core.Vec3
	Triangles []int
	Normals   []core.Vec3
	Bounds    core.AABB

	Size   int     // Vertices per side
	Step   float64 // Spacing between neighboring vertices
	Origin float64 // Local X/Z coordinate of vertex (0, 0)
}

// BuildGrid generates a flat, regularly spaced grid centered at the local origin.
func BuildGrid(dimension, resolution float64) (*Mesh, error) {
	step := dimension / resolution
	if math.IsNaN(step) || math.IsInf(step, 0) {
		return nil, fmt.Errorf("%w: dimension=%v resolution=%v", ErrInvalidStep, dimension, resolution)
	}

	n := int(math.RoundToEven(resolution)) + 1
	if n < 0 {
		n = 0
	}
	cells := max(n-1, 0)
	offset := -dimension / 2

	m := &Mesh{
		Vertices:  make([]core.Vec3, 0, n*n),
		Triangles: make([]int, 0, 6*cells*cells),
		Size:      n,
		Step:      step,
		Origin:    offset,
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.Vertices = append(m.Vertices, core.Vec3{
				X: float64(i)*step + offset,
				Y: 0,
				Z: float64(j)*step + offset,
			})

			if i < n-1 && j < n-1 {
				topLeft := i*n + j
				topRight := topLeft + 1
				bottomLeft := (i+1)*n + j
				bottomRight := bottomLeft + 1

				m.Triangles = append(m.Triangles,
					topLeft, topRight, bottomLeft,
					topRight, bottomRight, bottomLeft,
				)
			}
		}
	}

	m.RecalculateNormals()
	m.RecalculateBounds()
	return m, nil
}

// TriangleCount returns the number of triangles in the index buffer.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles) / 3
}

// RecalculateNormals derives per-vertex normals from the triangles,
// weighting each face by its area.
func (m *Mesh) RecalculateNormals() {
	if len(m.Normals) != len(m.Vertices) {
		m.Normals = make([]core.Vec3, len(m.Vertices))
	} else {
		for i := range m.Normals {
			m.Normals[i] = core.Vec3{}
		}
	}

	for t := 0; t+2 < len(m.Triangles); t += 3 {
		a, b, c := m.Triangles[t], m.Triangles[t+1], m.Triangles[t+2]
		face := m.Vertices[b].Sub(m.Vertices[a]).Cross(m.Vertices[c].Sub(m.Vertices[a]))
		m.Normals[a] = m.Normals[a].Add(face)
		m.Normals[b] = m.Normals[b].Add(face)
		m.Normals[c] = m.Normals[c].Add(face)
	}

	for i := range m.Normals {
		m.Normals[i] = m.Normals[i].Normalize()
	}
}

// RecalculateBounds recomputes the local-space bounding box.
func (m *Mesh) RecalculateBounds() {
	if len(m.Vertices) == 0 {
		m.Bounds = core.AABB{}
		return
	}
	lo, hi := m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		lo = core.Vec3{X: math.Min(lo.X, v.X), Y: math.Min(lo.Y, v.Y), Z: math.Min(lo.Z, v.Z)}
		hi = core.Vec3{X: math.Max(hi.X, v.X), Y: math.Max(hi.Y, v.Y), Z: math.Max(hi.Z, v.Z)}
	}
	m.Bounds = core.AABB{Min: lo, Max: hi}
}

// HeightAt samples the surface at local (x, z) with bilinear interpolation.
// Returns false outside the grid.
func (m *Mesh) HeightAt(x, z float64) (float64, bool) {
	if m.Size < 1 || m.Step == 0 || math.IsNaN(x) || math.IsNaN(z) {
		return 0, false
	}
	fi := (x - m.Origin) / m.Step
	fj := (z - m.Origin) / m.Step
	last := float64(m.Size - 1)
	if fi < 0 || fj < 0 || fi > last || fj > last {
		return 0, false
	}
	if m.Size == 1 {
		return m.Vertices[0].Y, true
	}

	i0 := min(int(fi), m.Size-2)
	j0 := min(int(fj), m.Size-2)
	u := fi - float64(i0)
	v := fj - float64(j0)

	h00 := m.Vertices[i0*m.Size+j0].Y
	h01 := m.Vertices[i0*m.Size+j0+1].Y
	h10 := m.Vertices[(i0+1)*m.Size+j0].Y
	h11 := m.Vertices[(i0+1)*m.Size+j0+1].Y

	return (1-u)*(1-v)*h00 + (1-u)*v*h01 + u*(1-v)*h10 + u*v*h11, true
}
