package glb

import (
	"encoding/binary"

	"github.com/skyline93/glbpack/internal/errors"
)

// Chunk is one chunk of a decoded container. Data still contains the padding.
type Chunk struct {
	Type ChunkType
	Data []byte
}

// Container is a decoded binary glTF.
type Container struct {
	Version uint32
	Length  uint32

	JSON Chunk
	// BIN is nil when the container has no binary chunk.
	BIN *Chunk
}

// Decode splits buf into its chunks. Chunk data slices refer to buf.
// Malformed input yields a *errors.FormatError.
func Decode(buf []byte) (*Container, error) {
	if len(buf) < HeaderSize {
		return nil, errors.NewFormatError("container shorter than its header")
	}

	if [4]byte(buf[0:4]) != Magic {
		return nil, errors.NewFormatErrorf("invalid magic %q", buf[0:4])
	}

	c := &Container{
		Version: binary.LittleEndian.Uint32(buf[4:8]),
		Length:  binary.LittleEndian.Uint32(buf[8:12]),
	}

	if c.Version != Version {
		return nil, errors.NewFormatErrorf("unsupported container version %d", c.Version)
	}

	if uint64(c.Length) != uint64(len(buf)) {
		return nil, errors.NewFormatErrorf("header declares %d bytes, container has %d", c.Length, len(buf))
	}

	rest := buf[HeaderSize:]

	chunk, rest, err := nextChunk(rest)
	if err != nil {
		return nil, err
	}
	if chunk.Type != ChunkJSON {
		return nil, errors.NewFormatErrorf("first chunk has type %q, want JSON", chunk.Type.String())
	}
	c.JSON = chunk

	if len(rest) == 0 {
		return c, nil
	}

	chunk, rest, err = nextChunk(rest)
	if err != nil {
		return nil, err
	}
	if chunk.Type != ChunkBIN {
		return nil, errors.NewFormatErrorf("second chunk has type %q, want BIN", chunk.Type.String())
	}
	c.BIN = &chunk

	if len(rest) != 0 {
		return nil, errors.NewFormatErrorf("%d trailing bytes after BIN chunk", len(rest))
	}

	return c, nil
}

func nextChunk(buf []byte) (Chunk, []byte, error) {
	if len(buf) < ChunkHeaderSize {
		return Chunk{}, nil, errors.NewFormatError("truncated chunk header")
	}

	n := uint64(binary.LittleEndian.Uint32(buf[0:4]))
	var t ChunkType
	copy(t[:], buf[4:8])
	buf = buf[ChunkHeaderSize:]

	if n > uint64(len(buf)) {
		return Chunk{}, nil, errors.NewFormatErrorf("%v chunk declares %d bytes, only %d left", t, n, len(buf))
	}

	return Chunk{Type: t, Data: buf[:n]}, buf[n:], nil
}
