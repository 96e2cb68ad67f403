// Package meshcodec encodes terrain snapshots into a compact binary format
// compressed with gzip, suitable for storing in a database BLOB.
package meshcodec

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/vovakirdan/tui-terrain/internal/core"
	"github.com/vovakirdan/tui-terrain/internal/terrain"
)

const (
	// Magic identifies a terrain snapshot payload.
	Magic = "TRRN"
	// Version is the current format version.
	Version = 1
	// DefaultGzipLevel balances size and speed.
	DefaultGzipLevel = 6
)

// Decoding errors.
var (
	ErrBadMagic           = errors.New("meshcodec: not a terrain snapshot")
	ErrUnsupportedVersion = errors.New("meshcodec: unsupported format version")
	ErrTooLarge           = errors.New("meshcodec: decompressed snapshot too large")
)

// maxDecodedSize caps the decompressed payload (64 MiB).
var maxDecodedSize int64 = 64 << 20

// header is the fixed-size start of the uncompressed payload.
type header struct {
	Magic      [4]byte
	Version    uint8
	Flags      uint8 // Reserved
	ChunkCount uint32
	Dimension  float64
	Resolution float64
}

// chunkHeader precedes every chunk record. It is followed by NameLen bytes
// of name and HeightCount little-endian float64 heights.
type chunkHeader struct {
	NameLen     uint16
	X, Y, Z     float64
	HeightCount uint32
}

// Encode serializes and compresses a snapshot.
func Encode(snap terrain.Snapshot) ([]byte, error) {
	var buf bytes.Buffer

	h := header{
		Version:    Version,
		ChunkCount: uint32(len(snap.Chunks)),
		Dimension:  snap.Dimension,
		Resolution: snap.Resolution,
	}
	copy(h.Magic[:], Magic)
	if err := binary.Write(&buf, binary.LittleEndian, h); err != nil {
		return nil, fmt.Errorf("meshcodec: write header: %w", err)
	}

	for i, c := range snap.Chunks {
		if len(c.Name) > math.MaxUint16 {
			return nil, fmt.Errorf("meshcodec: chunk %d: name too long", i)
		}
		ch := chunkHeader{
			NameLen:     uint16(len(c.Name)),
			X:           c.Position.X,
			Y:           c.Position.Y,
			Z:           c.Position.Z,
			HeightCount: uint32(len(c.Heights)),
		}
		if err := binary.Write(&buf, binary.LittleEndian, ch); err != nil {
			return nil, fmt.Errorf("meshcodec: chunk %d: write header: %w", i, err)
		}
		buf.WriteString(c.Name)
		if len(c.Heights) == 0 {
			continue
		}
		if err := binary.Write(&buf, binary.LittleEndian, c.Heights); err != nil {
			return nil, fmt.Errorf("meshcodec: chunk %d: write heights: %w", i, err)
		}
	}

	compressed, err := gzipCompress(buf.Bytes(), DefaultGzipLevel)
	if err != nil {
		return nil, fmt.Errorf("meshcodec: compress: %w", err)
	}
	return compressed, nil
}

// Decode decompresses and parses a payload produced by Encode.
func Decode(data []byte) (terrain.Snapshot, error) {
	raw, err := gzipDecompress(data)
	if err != nil {
		return terrain.Snapshot{}, fmt.Errorf("meshcodec: decompress: %w", err)
	}
	r := bytes.NewReader(raw)

	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return terrain.Snapshot{}, fmt.Errorf("meshcodec: read header: %w", err)
	}
	if string(h.Magic[:]) != Magic {
		return terrain.Snapshot{}, ErrBadMagic
	}
	if h.Version != Version {
		return terrain.Snapshot{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}

	snap := terrain.Snapshot{
		Dimension:  h.Dimension,
		Resolution: h.Resolution,
	}
	// Every record needs at least its header; reject counts the payload cannot hold
	if int64(h.ChunkCount)*int64(binary.Size(chunkHeader{})) > int64(r.Len()) {
		return terrain.Snapshot{}, fmt.Errorf("meshcodec: chunk count %d exceeds payload", h.ChunkCount)
	}
	snap.Chunks = make([]terrain.ChunkState, 0, h.ChunkCount)

	for i := uint32(0); i < h.ChunkCount; i++ {
		var ch chunkHeader
		if err := binary.Read(r, binary.LittleEndian, &ch); err != nil {
			return terrain.Snapshot{}, fmt.Errorf("meshcodec: chunk %d: read header: %w", i, err)
		}
		name := make([]byte, ch.NameLen)
		if _, err := io.ReadFull(r, name); err != nil {
			return terrain.Snapshot{}, fmt.Errorf("meshcodec: chunk %d: read name: %w", i, err)
		}
		if int64(ch.HeightCount)*8 > int64(r.Len()) {
			return terrain.Snapshot{}, fmt.Errorf("meshcodec: chunk %d: height count %d exceeds payload", i, ch.HeightCount)
		}
		var heights []float64
		if ch.HeightCount > 0 {
			heights = make([]float64, ch.HeightCount)
			if err := binary.Read(r, binary.LittleEndian, heights); err != nil {
				return terrain.Snapshot{}, fmt.Errorf("meshcodec: chunk %d: read heights: %w", i, err)
			}
		}
		snap.Chunks = append(snap.Chunks, terrain.ChunkState{
			Name:     string(name),
			Position: core.V3(ch.X, ch.Y, ch.Z),
			Heights:  heights,
		})
	}
	return snap, nil
}

func gzipCompress(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer

	writer, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gzipDecompress(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	out, err := io.ReadAll(io.LimitReader(reader, maxDecodedSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(out)) > maxDecodedSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxDecodedSize)
	}
	return out, nil
}
