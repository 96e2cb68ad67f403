package terrain

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-terrain/internal/core"
)

// NeighborTolerance is the relative tolerance used when matching neighbor
// distance and direction. Two chunks √2·dimension apart never match.
const NeighborTolerance = 1e-4

// Listener is notified about registry changes. All calls happen on the
// goroutine that mutates the registry.
type Listener interface {
	ChunkAdded(c *Chunk)
	ChunkChanged(c *Chunk)
}

// Spawner creates a chunk for tile extension.
type Spawner func(name string, pos core.Vec3) *Chunk

// Registry is the insertion-ordered, append-only collection of chunks.
// It is not safe for concurrent use; a session owns exactly one.
type Registry struct {
	chunks    []*Chunk
	listeners []Listener
	logger    *log.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *log.Logger) *Registry {
	return &Registry{logger: logger}
}

// Subscribe registers a listener for chunk additions and surface changes.
func (r *Registry) Subscribe(l Listener) {
	r.listeners = append(r.listeners, l)
}

// Add appends a chunk and assigns its ID (the insertion index).
func (r *Registry) Add(c *Chunk) {
	c.ID = len(r.chunks)
	r.chunks = append(r.chunks, c)
	for _, l := range r.listeners {
		l.ChunkAdded(c)
	}
}

// Len returns the number of registered chunks.
func (r *Registry) Len() int {
	return len(r.chunks)
}

// Chunks returns a snapshot of the chunk list in registration order.
func (r *Registry) Chunks() []*Chunk {
	out := make([]*Chunk, len(r.chunks))
	copy(out, r.chunks)
	return out
}

// Get returns the chunk with the given ID, or nil.
func (r *Registry) Get(id int) *Chunk {
	if id < 0 || id >= len(r.chunks) {
		return nil
	}
	return r.chunks[id]
}

// Neighbor returns the first chunk in registry order that sits exactly one
// dimension away from c in direction dir, or nil.
func (r *Registry) Neighbor(c *Chunk, dir core.Vec3) *Chunk {
	want := dir.Normalize()
	for _, cand := range r.chunks {
		if cand == c {
			continue
		}
		diff := cand.Position.Sub(c.Position)
		if !core.ApproxEqual(diff.Length(), c.Dimension, NeighborTolerance) {
			continue
		}
		if core.ApproxEqual(diff.Normalize().Dot(want), 1, NeighborTolerance) {
			return cand
		}
	}
	return nil
}

// Neighbors returns the left, right, forward and back neighbors of c.
// Missing neighbors are nil.
func (r *Registry) Neighbors(c *Chunk) [4]*Chunk {
	var out [4]*Chunk
	for i, dir := range neighborOrder {
		out[i] = r.Neighbor(c, dir)
	}
	return out
}

// OverlapSphere returns every chunk whose collider touches the sphere.
// Chunks without a mesh have no collider and are never returned.
func (r *Registry) OverlapSphere(center core.Vec3, radius float64) []*Chunk {
	var hits []*Chunk
	for _, c := range r.chunks {
		bounds, ok := c.WorldBounds()
		if !ok {
			continue
		}
		if bounds.IntersectsSphere(center, radius) {
			hits = append(hits, c)
		}
	}
	return hits
}

// Extend places a new chunk next to c in direction dir unless existing
// geometry already occupies that spot. The overlap check uses a sphere of
// radius dimension/4 at the candidate position. Returns the new chunk and
// true on success; an occupied spot logs a warning and returns false.
func (r *Registry) Extend(c *Chunk, dir core.Vec3, spawn Spawner) (*Chunk, bool) {
	pos := c.Position.Add(dir.Scale(c.Dimension))

	if len(r.OverlapSphere(pos, c.Dimension/4)) > 0 {
		if r.logger != nil {
			r.logger.Warn("terrain already exists", "position", pos.String())
		}
		return nil, false
	}

	nc := spawn("Terrain "+dir.String(), pos)
	if nc == nil {
		return nil, false
	}
	r.Add(nc)
	return nc, true
}

// Hit describes a successful raycast against the terrain.
type Hit struct {
	Chunk    *Chunk
	Point    core.Vec3
	Distance float64
}

// Raycast returns the nearest intersection of the ray with any chunk surface.
func (r *Registry) Raycast(ray core.Ray) (Hit, bool) {
	ray.Dir = ray.Dir.Normalize()
	best := Hit{Distance: math.Inf(1)}
	found := false

	for _, c := range r.chunks {
		bounds, ok := c.WorldBounds()
		if !ok || !bounds.IntersectsRay(ray) {
			continue
		}
		if t, ok := raycastChunk(c, ray); ok && t < best.Distance {
			best = Hit{Chunk: c, Point: ray.At(t), Distance: t}
			found = true
		}
	}
	return best, found
}

// ChunkAtXZ returns the first chunk whose footprint covers world (x, z).
func (r *Registry) ChunkAtXZ(x, z float64) *Chunk {
	for _, c := range r.chunks {
		bounds, ok := c.WorldBounds()
		if ok && bounds.ContainsXZ(x, z) {
			return c
		}
	}
	return nil
}

// Totals aggregates chunk, vertex and triangle counts.
func (r *Registry) Totals() (meshes, vertices, triangles int) {
	for _, c := range r.chunks {
		meshes++
		vertices += c.VertexCount()
		triangles += c.TriangleCount()
	}
	return meshes, vertices, triangles
}

func (r *Registry) notifyChanged(c *Chunk) {
	for _, l := range r.listeners {
		l.ChunkChanged(c)
	}
}
