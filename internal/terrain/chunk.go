// Package terrain implements the deformable grid terrain: mesh generation,
// response curves, the chunk registry with neighbor resolution, raycasts,
// tile extension and vertex deformation.
package terrain

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-terrain/internal/core"
)

// Chunk is one square terrain tile with its own deformable mesh.
type Chunk struct {
	ID        int
	Name      string
	Position  core.Vec3
	Dimension float64

	mesh    *Mesh
	version uint64
}

// NewChunk creates a chunk at pos and builds its grid.
// If the grid step is not finite the error is logged and the chunk is
// returned without a mesh; callers must tolerate that.
func NewChunk(name string, pos core.Vec3, dimension, resolution float64, logger *log.Logger) *Chunk {
	c := &Chunk{
		ID:        -1,
		Name:      name,
		Position:  pos,
		Dimension: dimension,
	}

	mesh, err := BuildGrid(dimension, resolution)
	if err != nil {
		if logger != nil {
			logger.Error("grid build failed, chunk has no mesh",
				"chunk", name,
				"dimension", dimension,
				"resolution", resolution,
				"error", err,
			)
		}
		return c
	}
	c.mesh = mesh
	return c
}

// Mesh returns the chunk's mesh, or nil if the grid could not be built.
func (c *Chunk) Mesh() *Mesh {
	return c.mesh
}

// HasMesh reports whether the chunk has geometry (and therefore a collider).
func (c *Chunk) HasMesh() bool {
	return c.mesh != nil
}

// NumVertices returns the per-side vertex count, 0 without a mesh.
func (c *Chunk) NumVertices() int {
	if c.mesh == nil {
		return 0
	}
	return c.mesh.Size
}

// VertexCount returns the number of vertices in the buffer.
func (c *Chunk) VertexCount() int {
	if c.mesh == nil {
		return 0
	}
	return len(c.mesh.Vertices)
}

// TriangleCount returns the number of triangles in the buffer.
func (c *Chunk) TriangleCount() int {
	if c.mesh == nil {
		return 0
	}
	return c.mesh.TriangleCount()
}

// Version increases every time the surface changes. Consumers that cache
// derived data (colliders, renders, network clients) compare it.
func (c *Chunk) Version() uint64 {
	return c.version
}

// WorldVertex returns vertex i transformed to world space.
func (c *Chunk) WorldVertex(i int) core.Vec3 {
	return c.mesh.Vertices[i].Add(c.Position)
}

// WorldBounds returns the collider box in world space.
// The second result is false for chunks without a mesh.
func (c *Chunk) WorldBounds() (core.AABB, bool) {
	if c.mesh == nil {
		return core.AABB{}, false
	}
	return c.mesh.Bounds.Translate(c.Position), true
}

// HeightAt samples the surface height at world (x, z).
func (c *Chunk) HeightAt(x, z float64) (float64, bool) {
	if c.mesh == nil {
		return 0, false
	}
	h, ok := c.mesh.HeightAt(x-c.Position.X, z-c.Position.Z)
	if !ok {
		return 0, false
	}
	return h + c.Position.Y, true
}

// Heights returns a copy of the vertex Y coordinates in buffer order.
func (c *Chunk) Heights() []float64 {
	if c.mesh == nil {
		return nil
	}
	out := make([]float64, len(c.mesh.Vertices))
	for i, v := range c.mesh.Vertices {
		out[i] = v.Y
	}
	return out
}

// SetHeights overwrites vertex Y coordinates, e.g. when restoring a snapshot.
// Extra or missing values are ignored. Returns false without a mesh.
func (c *Chunk) SetHeights(heights []float64) bool {
	if c.mesh == nil {
		return false
	}
	n := min(len(heights), len(c.mesh.Vertices))
	for i := 0; i < n; i++ {
		c.mesh.Vertices[i].Y = heights[i]
	}
	c.surfaceChanged()
	return true
}

// surfaceChanged recomputes derived data after the vertex buffer was edited.
func (c *Chunk) surfaceChanged() {
	c.mesh.RecalculateNormals()
	c.mesh.RecalculateBounds()
	c.version++
}
