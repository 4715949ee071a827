// Package glb implements the binary glTF container: a 12 byte header followed
// by a JSON chunk and an optional BIN chunk, each length prefixed and padded
// to four bytes.
package glb

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/skyline93/glbpack/internal/errors"
)

// Version is the only container version written and accepted.
const Version = 2

const (
	// HeaderSize is the length of magic, version and total length.
	HeaderSize = 12
	// ChunkHeaderSize is the length of a chunk's length and type fields.
	ChunkHeaderSize = 8
	// Alignment is the boundary every chunk payload is padded to.
	Alignment = 4
)

// Fill bytes used to pad chunk payloads.
const (
	JSONPad byte = 0x20
	BINPad  byte = 0x00
)

// Magic is the first four bytes of every container.
var Magic = [4]byte{'g', 'l', 'T', 'F'}

// ChunkType identifies the content of a chunk.
type ChunkType [4]byte

// The two chunk types of a glTF 2.0 container.
var (
	ChunkJSON = ChunkType{'J', 'S', 'O', 'N'}
	ChunkBIN  = ChunkType{'B', 'I', 'N', 0}
)

func (t ChunkType) String() string {
	return string(bytes.TrimRight(t[:], "\x00"))
}

// PadLength returns how many fill bytes are needed to align n.
func PadLength(n int) int {
	return (Alignment - n%Alignment) % Alignment
}

// Pad returns buf followed by fill until its length is a multiple of
// Alignment. buf is returned unchanged when already aligned.
func Pad(buf []byte, fill byte) []byte {
	n := PadLength(len(buf))
	if n == 0 {
		return buf
	}
	out := make([]byte, len(buf), len(buf)+n)
	copy(out, buf)
	for i := 0; i < n; i++ {
		out = append(out, fill)
	}
	return out
}

// Length returns the total container length for the padded chunk payloads.
func Length(jsonChunk, binChunk []byte) int {
	return HeaderSize + ChunkHeaderSize + len(jsonChunk) + ChunkHeaderSize + len(binChunk)
}

// Build assembles the container from an already padded JSON chunk and an
// already padded BIN chunk.
func Build(jsonChunk, binChunk []byte) ([]byte, error) {
	if len(jsonChunk)%Alignment != 0 || len(binChunk)%Alignment != 0 {
		return nil, errors.Errorf("chunk payloads not aligned to %d bytes (json %d, bin %d)",
			Alignment, len(jsonChunk), len(binChunk))
	}

	total := Length(jsonChunk, binChunk)
	if uint64(total) > math.MaxUint32 {
		return nil, errors.Errorf("container length %d exceeds the 32 bit limit", total)
	}

	buf := make([]byte, 0, total)
	buf = append(buf, Magic[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, Version)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(total))

	buf = appendChunk(buf, ChunkJSON, jsonChunk)
	buf = appendChunk(buf, ChunkBIN, binChunk)

	return buf, nil
}

func appendChunk(buf []byte, t ChunkType, data []byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(data)))
	buf = append(buf, t[:]...)
	return append(buf, data...)
}
