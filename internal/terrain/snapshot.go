package terrain

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-terrain/internal/core"
)

// ErrEmptySnapshot is returned when restoring a snapshot without chunks.
var ErrEmptySnapshot = errors.New("terrain: snapshot has no chunks")

// Snapshot is a serializable copy of every chunk's position and heights.
// Meshes are rebuilt from Dimension and Resolution on restore.
type Snapshot struct {
	Dimension  float64
	Resolution float64
	Chunks     []ChunkState
}

// ChunkState is the persisted part of one chunk. Heights is empty for chunks
// whose grid could not be built.
type ChunkState struct {
	Name     string
	Position core.Vec3
	Heights  []float64
}

// Capture copies the registry contents into a snapshot.
func (r *Registry) Capture(dimension, resolution float64) Snapshot {
	snap := Snapshot{
		Dimension:  dimension,
		Resolution: resolution,
		Chunks:     make([]ChunkState, 0, len(r.chunks)),
	}
	for _, c := range r.chunks {
		snap.Chunks = append(snap.Chunks, ChunkState{
			Name:     c.Name,
			Position: c.Position,
			Heights:  c.Heights(),
		})
	}
	return snap
}

// Rebuild creates the chunks described by the snapshot and adds them to r
// in snapshot order.
func (r *Registry) Rebuild(snap Snapshot) error {
	if len(snap.Chunks) == 0 {
		return ErrEmptySnapshot
	}
	for i, st := range snap.Chunks {
		c := NewChunk(st.Name, st.Position, snap.Dimension, snap.Resolution, r.logger)
		if c.HasMesh() && len(st.Heights) > 0 {
			if len(st.Heights) != c.VertexCount() {
				return fmt.Errorf("terrain: snapshot chunk %d: %d heights for %d vertices", i, len(st.Heights), c.VertexCount())
			}
			c.SetHeights(st.Heights)
		}
		r.Add(c)
	}
	return nil
}
