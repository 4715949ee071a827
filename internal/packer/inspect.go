package packer

import (
	"bytes"

	"github.com/qmuntal/gltf"
	log "github.com/sirupsen/logrus"

	"github.com/skyline93/glbpack/internal/errors"
	"github.com/skyline93/glbpack/internal/fs"
	"github.com/skyline93/glbpack/internal/glb"
)

// ChunkInfo describes one chunk of a container.
type ChunkInfo struct {
	Type   string
	Offset int
	Length int
	SHA256 string
}

// Asset summarizes the glTF document stored in a container.
type Asset struct {
	Version   string
	Generator string

	Buffers int
	Meshes  int
	Nodes   int
}

// Info describes the layout of a container.
type Info struct {
	Path    string
	Version uint32
	Length  uint32
	Chunks  []ChunkInfo

	// Asset is nil when the JSON chunk is not a glTF 2.0 document, e.g. for
	// object-shaped buffers.
	Asset *Asset
}

// Inspect decodes the container at input and reports its header and chunks.
func Inspect(input string) (Info, error) {
	buf, err := fs.ReadFile(input)
	if err != nil {
		return Info{}, errors.Wrap(err, "load container")
	}

	c, err := glb.Decode(buf)
	if err != nil {
		return Info{}, errors.Wrap(err, "decode container")
	}

	info := Info{
		Path:    input,
		Version: c.Version,
		Length:  c.Length,
	}

	offset := glb.HeaderSize
	add := func(chunk glb.Chunk) {
		info.Chunks = append(info.Chunks, ChunkInfo{
			Type:   chunk.Type.String(),
			Offset: offset,
			Length: len(chunk.Data),
			SHA256: digest(chunk.Data),
		})
		offset += glb.ChunkHeaderSize + len(chunk.Data)
	}

	add(c.JSON)
	if c.BIN != nil {
		add(*c.BIN)
	}

	info.Asset = decodeAsset(buf)
	return info, nil
}

func decodeAsset(buf []byte) *Asset {
	var doc gltf.Document
	if err := gltf.NewDecoder(bytes.NewReader(buf)).Decode(&doc); err != nil {
		log.WithError(err).Debug("container document is not a glTF 2.0 document")
		return nil
	}

	return &Asset{
		Version:   doc.Asset.Version,
		Generator: doc.Asset.Generator,
		Buffers:   len(doc.Buffers),
		Meshes:    len(doc.Meshes),
		Nodes:     len(doc.Nodes),
	}
}
