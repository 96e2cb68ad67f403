package terrain

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-terrain/internal/core"
)

func linearPattern() *Curve {
	return NewCurve(
		Keyframe{Time: 0, Value: 1, In: -1, Out: -1},
		Keyframe{Time: 1, Value: 0, In: -1, Out: -1},
	)
}

func newTestChunk(t *testing.T, pos core.Vec3) *Chunk {
	t.Helper()
	c := NewChunk("Terrain", pos, 10, 10, nil)
	if !c.HasMesh() {
		t.Fatal("expected chunk with mesh")
	}
	return c
}

type recordingListener struct {
	added   []int
	changed []int
}

func (l *recordingListener) ChunkAdded(c *Chunk)   { l.added = append(l.added, c.ID) }
func (l *recordingListener) ChunkChanged(c *Chunk) { l.changed = append(l.changed, c.ID) }

func TestDeformRaisesWithinRadius(t *testing.T) {
	r := NewRegistry(nil)
	c := newTestChunk(t, core.V3(0, 0, 0))
	r.Add(c)

	b := Brush{Radius: 2, Intensity: 3, Pattern: linearPattern()}
	if n := r.Deform(c, core.V3(0, 0, 0), b, Raise, true); n != 1 {
		t.Fatalf("Deform touched %d chunks, expected 1", n)
	}

	m := c.Mesh()
	for i, v := range m.Vertices {
		d := core.Distance(core.V3(0, 0, 0), core.V3(v.X, 0, v.Z))
		expected := 0.0
		if d < 2 {
			expected = (1 - d/2) * 3
		}
		if math.Abs(v.Y-expected) > 1e-9 {
			t.Errorf("vertex %d at d=%v: Y=%v, expected %v", i, d, v.Y, expected)
		}
	}
	// Center vertex gets the full intensity
	if h, _ := c.HeightAt(0, 0); math.Abs(h-3) > 1e-9 {
		t.Errorf("center height = %v, expected 3", h)
	}
	if c.Version() != 1 {
		t.Errorf("Version() = %d, expected 1", c.Version())
	}
	if m.Bounds.Max.Y != 3 {
		t.Errorf("bounds not recomputed: %+v", m.Bounds)
	}
}

func TestDeformLowerMovesDown(t *testing.T) {
	r := NewRegistry(nil)
	c := newTestChunk(t, core.V3(0, 0, 0))
	r.Add(c)

	r.Deform(c, core.V3(1, 0, 1), Brush{Radius: 3, Intensity: 2, Pattern: linearPattern()}, Lower, false)

	if h, _ := c.HeightAt(1, 1); math.Abs(h+2) > 1e-9 {
		t.Errorf("height at hit = %v, expected -2", h)
	}
	if c.Mesh().Bounds.Min.Y >= 0 {
		t.Errorf("bounds min should drop below 0: %+v", c.Mesh().Bounds)
	}
}

func TestDeformUpThenDownRestores(t *testing.T) {
	r := NewRegistry(nil)
	a := newTestChunk(t, core.V3(0, 0, 0))
	b := newTestChunk(t, core.V3(10, 0, 0))
	r.Add(a)
	r.Add(b)

	// A flat curve whose radius covers both chunks even after raising: every
	// vertex moves by the same delta in both directions.
	before := append(a.Heights(), b.Heights()...)
	brush := Brush{Radius: 30, Intensity: 1.7, Pattern: NewCurve(
		Keyframe{Time: 0, Value: 1},
		Keyframe{Time: 1, Value: 1},
	)}
	hit := core.V3(4, 0.3, 1)

	r.Deform(a, hit, brush, Raise, true)
	r.Deform(a, hit, brush, Raise, true)
	r.Deform(a, hit, brush, Lower, true)
	r.Deform(a, hit, brush, Lower, true)

	after := append(a.Heights(), b.Heights()...)
	for i := range before {
		if math.Abs(before[i]-after[i]) > 1e-9 {
			t.Fatalf("height %d = %v after up/down, expected %v", i, after[i], before[i])
		}
	}
}

func TestDeformUpThenDownDriftsWithFalloff(t *testing.T) {
	r := NewRegistry(nil)
	c := NewChunk("Terrain", core.V3(0, 0, 0), 10, 2, nil)
	r.Add(c)

	// Distance is measured to the displaced vertex, so the lowering pass
	// sees a larger d and removes less than the raise added.
	brush := Brush{Radius: 20, Intensity: 2, Pattern: linearPattern()}
	r.Deform(c, core.V3(0, 0, 0), brush, Raise, false)
	r.Deform(c, core.V3(0, 0, 0), brush, Lower, false)

	heights := c.Heights()
	// Center: raised to I, then lowered by (1 - I/R)*I, leaving I²/R.
	if math.Abs(heights[4]-0.2) > 1e-9 {
		t.Errorf("center height = %v, expected 0.2", heights[4])
	}
	for i, h := range heights {
		if h <= 0 {
			t.Errorf("height %d = %v, expected positive drift", i, h)
		}
	}
}

func TestDeformNoOps(t *testing.T) {
	tests := []struct {
		name  string
		brush Brush
	}{
		{"zero radius", Brush{Radius: 0, Intensity: 1, Pattern: linearPattern()}},
		{"negative radius", Brush{Radius: -5, Intensity: 1, Pattern: linearPattern()}},
		{"nan radius", Brush{Radius: math.NaN(), Intensity: 1, Pattern: linearPattern()}},
		{"nil pattern", Brush{Radius: 5, Intensity: 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRegistry(nil)
			c := newTestChunk(t, core.V3(0, 0, 0))
			r.Add(c)
			l := &recordingListener{}
			r.Subscribe(l)

			if n := r.Deform(c, core.V3(0, 0, 0), tc.brush, Raise, true); n != 0 {
				t.Errorf("Deform touched %d chunks, expected 0", n)
			}
			for i, h := range c.Heights() {
				if h != 0 {
					t.Fatalf("height %d changed to %v", i, h)
				}
			}
			if len(l.changed) != 0 {
				t.Errorf("listener notified %d times, expected 0", len(l.changed))
			}
			if c.Version() != 0 {
				t.Errorf("Version() = %d, expected 0", c.Version())
			}
		})
	}
}

func TestDeformChunkWithoutMesh(t *testing.T) {
	r := NewRegistry(nil)
	broken := NewChunk("Terrain", core.V3(0, 0, 0), 10, 0, nil)
	r.Add(broken)

	if n := r.Deform(broken, core.V3(0, 0, 0), Brush{Radius: 5, Intensity: 1, Pattern: linearPattern()}, Raise, true); n != 0 {
		t.Errorf("Deform on meshless chunk touched %d chunks", n)
	}
	if r.Deform(nil, core.V3(0, 0, 0), Brush{Radius: 5, Intensity: 1, Pattern: linearPattern()}, Raise, true) != 0 {
		t.Error("Deform(nil) should be a no-op")
	}
}

func TestDeformPropagatesOneHop(t *testing.T) {
	r := NewRegistry(nil)
	a := newTestChunk(t, core.V3(0, 0, 0))
	b := newTestChunk(t, core.V3(10, 0, 0))
	c := newTestChunk(t, core.V3(20, 0, 0))
	r.Add(a)
	r.Add(b)
	r.Add(c)
	l := &recordingListener{}
	r.Subscribe(l)

	// The radius covers all three chunks; only a and its direct neighbor move.
	brush := Brush{Radius: 100, Intensity: 1, Pattern: NewCurve(Keyframe{Time: 0, Value: 1})}
	if n := r.Deform(a, core.V3(0, 0, 0), brush, Raise, true); n != 2 {
		t.Fatalf("Deform touched %d chunks, expected 2", n)
	}

	for _, h := range b.Heights() {
		if h != 1 {
			t.Fatalf("neighbor height = %v, expected 1", h)
		}
	}
	for _, h := range c.Heights() {
		if h != 0 {
			t.Fatalf("two-hop chunk height = %v, expected 0", h)
		}
	}
	if len(l.changed) != 2 || l.changed[0] != a.ID || l.changed[1] != b.ID {
		t.Errorf("changed notifications = %v, expected [%d %d]", l.changed, a.ID, b.ID)
	}
}

func TestDeformWithoutPropagation(t *testing.T) {
	r := NewRegistry(nil)
	a := newTestChunk(t, core.V3(0, 0, 0))
	b := newTestChunk(t, core.V3(0, 0, 10))
	r.Add(a)
	r.Add(b)

	brush := Brush{Radius: 100, Intensity: 1, Pattern: NewCurve(Keyframe{Time: 0, Value: 1})}
	if n := r.Deform(a, core.V3(0, 0, 4), brush, Raise, false); n != 1 {
		t.Fatalf("Deform touched %d chunks, expected 1", n)
	}
	if b.Version() != 0 {
		t.Error("neighbor changed without propagation")
	}
}

func TestSignString(t *testing.T) {
	if Raise.String() != "up" || Lower.String() != "down" {
		t.Errorf("Sign strings = %q, %q", Raise.String(), Lower.String())
	}
}
