// Package packer merges a glTF document and its external buffer into a binary
// glTF container and splits such containers again.
package packer

import (
	"encoding/hex"

	"github.com/minio/sha256-simd"
	log "github.com/sirupsen/logrus"

	"github.com/skyline93/glbpack/internal/errors"
	"github.com/skyline93/glbpack/internal/fs"
	"github.com/skyline93/glbpack/internal/glb"
	"github.com/skyline93/glbpack/internal/gltf"
)

// OutputMode is the permission of files written by the packer.
const OutputMode = 0644

// Result summarizes one pack or unpack run.
type Result struct {
	Input  string
	Output string
	// Size is the number of bytes written to Output.
	Size int

	// JSONLength and BinLength are the chunk payload lengths, including
	// padding.
	JSONLength int
	BinLength  int
	// ByteLength is the unpadded length of the binary payload.
	ByteLength int
}

// Run packs the document at input and the binary file its first buffer
// refers to into a container at output. Nothing is written unless the whole
// container could be assembled.
func Run(input, output string) (Result, error) {
	doc, err := gltf.Load(input)
	if err != nil {
		return Result{}, errors.Wrap(err, "load document")
	}

	ref, binPath, err := doc.ExternalBuffer()
	if err != nil {
		return Result{}, errors.Wrap(err, "resolve buffer")
	}

	bin, err := fs.ReadFile(binPath)
	if err != nil {
		return Result{}, errors.Wrap(err, "load binary")
	}
	log.WithFields(log.Fields{"path": binPath, "bytes": len(bin)}).Debug("loaded binary")

	if err = doc.Patch(ref, len(bin)); err != nil {
		return Result{}, errors.Wrap(err, "patch document")
	}

	text, err := doc.Compact()
	if err != nil {
		return Result{}, errors.Wrap(err, "serialize document")
	}

	jsonChunk := glb.Pad(text, glb.JSONPad)
	binChunk := glb.Pad(bin, glb.BINPad)

	buf, err := glb.Build(jsonChunk, binChunk)
	if err != nil {
		return Result{}, errors.Wrap(err, "build container")
	}

	if err = fs.WriteFileAtomic(output, buf, OutputMode); err != nil {
		return Result{}, errors.Wrap(err, "write output")
	}

	log.WithFields(log.Fields{
		"path":   output,
		"bytes":  len(buf),
		"sha256": digest(buf),
	}).Info("wrote container")

	return Result{
		Input:      input,
		Output:     output,
		Size:       len(buf),
		JSONLength: len(jsonChunk),
		BinLength:  len(binChunk),
		ByteLength: len(bin),
	}, nil
}

func digest(buf []byte) string {
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])
}
