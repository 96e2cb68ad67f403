package meshcodec

import (
	"bytes"
	"compress/gzip"
	"errors"
	"testing"

	"github.com/vovakirdan/tui-terrain/internal/core"
	"github.com/vovakirdan/tui-terrain/internal/terrain"
)

func sampleSnapshot() terrain.Snapshot {
	r := terrain.NewRegistry(nil)
	a := terrain.NewChunk("Terrain", core.V3(0, 0, 0), 10, 8, nil)
	r.Add(a)
	r.Extend(a, core.Forward, func(name string, pos core.Vec3) *terrain.Chunk {
		return terrain.NewChunk(name, pos, 10, 8, nil)
	})
	curve := terrain.NewCurve(terrain.Keyframe{Time: 0, Value: 1}, terrain.Keyframe{Time: 1, Value: 0})
	r.Deform(a, core.V3(1, 0, 4), terrain.Brush{Radius: 5, Intensity: 2.25, Pattern: curve}, terrain.Raise, true)
	return r.Capture(10, 8)
}

func TestEncodeDecode(t *testing.T) {
	snap := sampleSnapshot()

	data, err := Encode(snap)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if got.Dimension != 10 || got.Resolution != 8 {
		t.Errorf("grid = %v/%v, expected 10/8", got.Dimension, got.Resolution)
	}
	if len(got.Chunks) != len(snap.Chunks) {
		t.Fatalf("decoded %d chunks, expected %d", len(got.Chunks), len(snap.Chunks))
	}
	for i, c := range got.Chunks {
		want := snap.Chunks[i]
		if c.Name != want.Name || c.Position != want.Position {
			t.Errorf("chunk %d = %q at %v, expected %q at %v", i, c.Name, c.Position, want.Name, want.Position)
		}
		if len(c.Heights) != len(want.Heights) {
			t.Fatalf("chunk %d has %d heights, expected %d", i, len(c.Heights), len(want.Heights))
		}
		for j := range c.Heights {
			if c.Heights[j] != want.Heights[j] {
				t.Fatalf("chunk %d height %d = %v, expected %v", i, j, c.Heights[j], want.Heights[j])
			}
		}
	}
}

func TestEncodeMeshlessChunk(t *testing.T) {
	snap := terrain.Snapshot{
		Dimension:  10,
		Resolution: 0,
		Chunks:     []terrain.ChunkState{{Name: "Terrain"}},
	}
	data, err := Encode(snap)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(got.Chunks) != 1 || got.Chunks[0].Heights != nil {
		t.Errorf("decoded = %+v", got)
	}
}

func TestCompressionShrinksFlatTerrain(t *testing.T) {
	r := terrain.NewRegistry(nil)
	r.Add(terrain.NewChunk("Terrain", core.V3(0, 0, 0), 10, 64, nil))
	data, err := Encode(r.Capture(10, 64))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	// 65*65 float64 heights uncompressed
	if len(data) >= 65*65*8/4 {
		t.Errorf("flat terrain compressed to %d bytes, expected much smaller", len(data))
	}
}

func gzipped(t *testing.T, raw []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(raw); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeErrors(t *testing.T) {
	valid, err := Encode(sampleSnapshot())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	raw, err := gzipDecompress(valid)
	if err != nil {
		t.Fatalf("gzipDecompress failed: %v", err)
	}

	badMagic := append([]byte("XXXX"), raw[4:]...)
	badVersion := append([]byte{}, raw...)
	badVersion[4] = 99

	tests := []struct {
		name   string
		data   []byte
		target error
	}{
		{"not gzip", []byte("hello"), nil},
		{"bad magic", gzipped(t, badMagic), ErrBadMagic},
		{"bad version", gzipped(t, badVersion), ErrUnsupportedVersion},
		{"truncated", gzipped(t, raw[:len(raw)-5]), nil},
		{"empty payload", gzipped(t, nil), nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.data)
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.target != nil && !errors.Is(err, tc.target) {
				t.Errorf("expected %v, got %v", tc.target, err)
			}
		})
	}
}

func TestDecodeRejectsOversizedPayload(t *testing.T) {
	data, err := Encode(sampleSnapshot())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	old := maxDecodedSize
	maxDecodedSize = 256
	t.Cleanup(func() { maxDecodedSize = old })

	if _, err := Decode(data); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}

	maxDecodedSize = old
	if _, err := Decode(data); err != nil {
		t.Errorf("Decode failed under the default limit: %v", err)
	}
}
