package terrain

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-terrain/internal/core"
)

func spawnAt(dimension, resolution float64) Spawner {
	return func(name string, pos core.Vec3) *Chunk {
		return NewChunk(name, pos, dimension, resolution, nil)
	}
}

func TestNewChunkInvalidStepLogsAndHasNoMesh(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	c := NewChunk("Terrain", core.V3(0, 0, 0), 10, 0, logger)
	if c.HasMesh() {
		t.Fatal("expected no mesh for resolution 0")
	}
	if c.VertexCount() != 0 || c.TriangleCount() != 0 || c.Heights() != nil {
		t.Error("meshless chunk should report empty geometry")
	}
	if _, ok := c.WorldBounds(); ok {
		t.Error("meshless chunk should have no collider")
	}
	if !strings.Contains(buf.String(), "grid build failed") {
		t.Errorf("expected error log, got %q", buf.String())
	}
}

func TestRegistryAddAssignsIDs(t *testing.T) {
	r := NewRegistry(nil)
	l := &recordingListener{}
	r.Subscribe(l)

	for i := 0; i < 3; i++ {
		r.Add(NewChunk("Terrain", core.V3(float64(i)*10, 0, 0), 10, 2, nil))
	}

	if r.Len() != 3 {
		t.Fatalf("Len() = %d, expected 3", r.Len())
	}
	for i, c := range r.Chunks() {
		if c.ID != i || r.Get(i) != c {
			t.Errorf("chunk %d has ID %d", i, c.ID)
		}
	}
	if r.Get(-1) != nil || r.Get(3) != nil {
		t.Error("Get out of range should return nil")
	}
	if len(l.added) != 3 {
		t.Errorf("ChunkAdded called %d times, expected 3", len(l.added))
	}

	// Chunks returns a copy
	list := r.Chunks()
	list[0] = nil
	if r.Get(0) == nil {
		t.Error("Chunks() must not expose internal storage")
	}
}

func TestNeighborAlone(t *testing.T) {
	r := NewRegistry(nil)
	c := newTestChunk(t, core.V3(0, 0, 0))
	r.Add(c)

	for _, dir := range []core.Vec3{core.Left, core.Right, core.Forward, core.Back} {
		if n := r.Neighbor(c, dir); n != nil {
			t.Errorf("Neighbor(%v) = %v, expected nil", dir, n.Name)
		}
	}
}

func TestNeighborCardinal(t *testing.T) {
	r := NewRegistry(nil)
	a := newTestChunk(t, core.V3(0, 0, 0))
	b := newTestChunk(t, core.V3(10, 0, 0))
	r.Add(a)
	r.Add(b)

	tests := []struct {
		name     string
		from     *Chunk
		dir      core.Vec3
		expected *Chunk
	}{
		{"a right", a, core.Right, b},
		{"a left", a, core.Left, nil},
		{"a forward", a, core.Forward, nil},
		{"a back", a, core.Back, nil},
		{"b left", b, core.Left, a},
		{"b right", b, core.Right, nil},
		{"unnormalized direction", a, core.V3(7, 0, 0), b},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Neighbor(tc.from, tc.dir); got != tc.expected {
				t.Errorf("Neighbor(%v) = %v, expected %v", tc.dir, got, tc.expected)
			}
		})
	}

	n := r.Neighbors(a)
	if n[0] != nil || n[1] != b || n[2] != nil || n[3] != nil {
		t.Errorf("Neighbors(a) = %v", n)
	}
}

func TestNeighborDiagonalNeverMatches(t *testing.T) {
	r := NewRegistry(nil)
	a := newTestChunk(t, core.V3(0, 0, 0))
	d := newTestChunk(t, core.V3(10, 0, 10))
	r.Add(a)
	r.Add(d)

	dirs := []core.Vec3{core.Left, core.Right, core.Forward, core.Back, core.V3(1, 0, 1)}
	for _, dir := range dirs {
		if n := r.Neighbor(a, dir); n != nil {
			t.Errorf("Neighbor(%v) matched diagonal chunk", dir)
		}
	}
}

func TestNeighborTolerance(t *testing.T) {
	r := NewRegistry(nil)
	a := newTestChunk(t, core.V3(0, 0, 0))
	near := newTestChunk(t, core.V3(10.00001, 0, 0))
	far := newTestChunk(t, core.V3(0, 0, 10.5))
	r.Add(a)
	r.Add(near)
	r.Add(far)

	if r.Neighbor(a, core.Right) != near {
		t.Error("expected float noise within tolerance to match")
	}
	if r.Neighbor(a, core.Forward) != nil {
		t.Error("chunk half a unit off should not match")
	}
}

func TestNeighborFirstInRegistryOrder(t *testing.T) {
	r := NewRegistry(nil)
	a := newTestChunk(t, core.V3(0, 0, 0))
	first := newTestChunk(t, core.V3(0, 0, 10))
	second := newTestChunk(t, core.V3(0, 0, 10))
	r.Add(a)
	r.Add(first)
	r.Add(second)

	if r.Neighbor(a, core.Forward) != first {
		t.Error("expected first registered duplicate to win")
	}
}

func TestExtend(t *testing.T) {
	var buf bytes.Buffer
	r := NewRegistry(log.New(&buf))
	a := newTestChunk(t, core.V3(0, 0, 0))
	r.Add(a)

	nc, ok := r.Extend(a, core.Forward, spawnAt(10, 10))
	if !ok || nc == nil {
		t.Fatal("expected Extend to create a chunk")
	}
	if nc.Position != core.V3(0, 0, 10) {
		t.Errorf("new chunk at %v, expected (0, 0, 10)", nc.Position)
	}
	if nc.Name != "Terrain (0, 0, 1)" {
		t.Errorf("new chunk name = %q", nc.Name)
	}
	if r.Len() != 2 || nc.ID != 1 {
		t.Errorf("registry len = %d, new ID = %d", r.Len(), nc.ID)
	}
	if r.Neighbor(a, core.Forward) != nc {
		t.Error("new chunk should be a's forward neighbor")
	}

	// Second attempt hits existing geometry
	again, ok := r.Extend(a, core.Forward, spawnAt(10, 10))
	if ok || again != nil {
		t.Error("expected Extend into occupied spot to be a no-op")
	}
	if r.Len() != 2 {
		t.Errorf("registry len = %d after blocked Extend, expected 2", r.Len())
	}
	if !strings.Contains(buf.String(), "terrain already exists") {
		t.Errorf("expected warning log, got %q", buf.String())
	}
}

func TestExtendIgnoresMeshlessChunks(t *testing.T) {
	r := NewRegistry(nil)
	a := newTestChunk(t, core.V3(0, 0, 0))
	r.Add(a)
	r.Add(NewChunk("Terrain", core.V3(10, 0, 0), 10, 0, nil))

	if _, ok := r.Extend(a, core.Right, spawnAt(10, 10)); !ok {
		t.Error("a chunk without a mesh has no collider and must not block extension")
	}
}

func TestExtendNilSpawn(t *testing.T) {
	r := NewRegistry(nil)
	a := newTestChunk(t, core.V3(0, 0, 0))
	r.Add(a)

	if _, ok := r.Extend(a, core.Back, func(string, core.Vec3) *Chunk { return nil }); ok {
		t.Error("expected failure when spawn returns nil")
	}
	if r.Len() != 1 {
		t.Errorf("registry len = %d, expected 1", r.Len())
	}
}

func TestOverlapSphere(t *testing.T) {
	r := NewRegistry(nil)
	a := newTestChunk(t, core.V3(0, 0, 0))
	r.Add(a)

	tests := []struct {
		name   string
		center core.Vec3
		radius float64
		hit    bool
	}{
		{"inside", core.V3(1, 0, 1), 0.1, true},
		{"touching edge", core.V3(7.5, 0, 0), 2.5, true},
		{"just outside", core.V3(7.6, 0, 0), 2.5, false},
		{"next tile", core.V3(10, 0, 0), 2.5, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hits := r.OverlapSphere(tc.center, tc.radius)
			if (len(hits) > 0) != tc.hit {
				t.Errorf("OverlapSphere(%v, %v) = %d hits, expected hit=%v", tc.center, tc.radius, len(hits), tc.hit)
			}
		})
	}
}

func TestRaycast(t *testing.T) {
	r := NewRegistry(nil)
	a := newTestChunk(t, core.V3(0, 0, 0))
	b := newTestChunk(t, core.V3(10, 0, 0))
	r.Add(a)
	r.Add(b)

	down := core.Ray{Origin: core.V3(12.3, 50, -1.7), Dir: core.Down}
	hit, ok := r.Raycast(down)
	if !ok {
		t.Fatal("expected hit")
	}
	if hit.Chunk != b {
		t.Errorf("hit chunk %v, expected b", hit.Chunk.Name)
	}
	if math.Abs(hit.Distance-50) > 1e-9 || math.Abs(hit.Point.Y) > 1e-9 {
		t.Errorf("hit = %+v, expected distance 50 at Y=0", hit)
	}

	if _, ok := r.Raycast(core.Ray{Origin: core.V3(100, 50, 0), Dir: core.Down}); ok {
		t.Error("expected miss outside the terrain")
	}
	if _, ok := r.Raycast(core.Ray{Origin: core.V3(0, 50, 0), Dir: core.Up}); ok {
		t.Error("expected miss for a ray pointing away")
	}
}

func TestRaycastFollowsSurface(t *testing.T) {
	r := NewRegistry(nil)
	a := newTestChunk(t, core.V3(0, 0, 0))
	r.Add(a)
	r.Deform(a, core.V3(0, 0, 0), Brush{Radius: 3, Intensity: 2, Pattern: linearPattern()}, Raise, false)

	hit, ok := r.Raycast(core.Ray{Origin: core.V3(0, 20, 0), Dir: core.V3(0, -5, 0)})
	if !ok {
		t.Fatal("expected hit")
	}
	if math.Abs(hit.Point.Y-2) > 1e-9 {
		t.Errorf("hit Y = %v, expected raised surface at 2", hit.Point.Y)
	}

	// Lowered terrain is still hit from above
	r.Deform(a, hit.Point, Brush{Radius: 3, Intensity: 6, Pattern: linearPattern()}, Lower, false)
	hit, ok = r.Raycast(core.Ray{Origin: core.V3(0, 20, 0), Dir: core.Down})
	if !ok || math.Abs(hit.Point.Y+4) > 1e-9 {
		t.Errorf("hit = %+v ok=%v, expected Y=-4", hit, ok)
	}
}

func TestChunkAtXZAndTotals(t *testing.T) {
	r := NewRegistry(nil)
	a := NewChunk("Terrain", core.V3(0, 0, 0), 10, 2, nil)
	b := NewChunk("Terrain", core.V3(10, 0, 0), 10, 2, nil)
	r.Add(a)
	r.Add(b)

	if r.ChunkAtXZ(-4, 4) != a || r.ChunkAtXZ(14, 0) != b {
		t.Error("ChunkAtXZ returned wrong chunk")
	}
	if r.ChunkAtXZ(0, 40) != nil {
		t.Error("ChunkAtXZ outside terrain should be nil")
	}

	meshes, vertices, triangles := r.Totals()
	if meshes != 2 || vertices != 18 || triangles != 16 {
		t.Errorf("Totals() = %d, %d, %d; expected 2, 18, 16", meshes, vertices, triangles)
	}
}

func TestChunkSetHeights(t *testing.T) {
	c := NewChunk("Terrain", core.V3(5, 1, 5), 10, 2, nil)
	heights := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8}
	if !c.SetHeights(heights) {
		t.Fatal("SetHeights failed")
	}
	got := c.Heights()
	for i := range heights {
		if got[i] != heights[i] {
			t.Fatalf("Heights() = %v, expected %v", got, heights)
		}
	}
	if c.Version() != 1 {
		t.Errorf("Version() = %d, expected 1", c.Version())
	}
	// World height includes chunk position
	if h, ok := c.HeightAt(5, 5); !ok || h != 5 {
		t.Errorf("HeightAt(5, 5) = %v, %v; expected 5 (vertex 4 + position Y)", h, ok)
	}
}
