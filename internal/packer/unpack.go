package packer

import (
	"bytes"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/skyline93/glbpack/internal/errors"
	"github.com/skyline93/glbpack/internal/fs"
	"github.com/skyline93/glbpack/internal/glb"
	"github.com/skyline93/glbpack/internal/gltf"
)

// BinaryPath returns the path of the external buffer Unpack writes next to
// the document at output.
func BinaryPath(output string) string {
	base := filepath.Base(output)
	return filepath.Join(filepath.Dir(output), strings.TrimSuffix(base, filepath.Ext(base))+".bin")
}

// Unpack splits the container at input into the document output and an
// external buffer at BinaryPath(output). The first buffer of the document is
// pointed at that file.
func Unpack(input, output string) (Result, error) {
	binPath := BinaryPath(output)
	if filepath.Clean(binPath) == filepath.Clean(output) {
		return Result{}, errors.Errorf("output %v collides with its binary buffer file", output)
	}

	buf, err := fs.ReadFile(input)
	if err != nil {
		return Result{}, errors.Wrap(err, "load container")
	}

	c, err := glb.Decode(buf)
	if err != nil {
		return Result{}, errors.Wrap(err, "decode container")
	}

	if c.BIN == nil {
		return Result{}, errors.Wrap(errors.NewFormatError("container has no BIN chunk"), "decode container")
	}

	doc, err := gltf.Parse(bytes.TrimRight(c.JSON.Data, " \x00"))
	if err != nil {
		return Result{}, errors.Wrap(err, "load document")
	}
	doc.Path = output

	ref, err := doc.FirstBuffer()
	if err != nil {
		return Result{}, errors.Wrap(err, "resolve buffer")
	}

	n, ok := doc.ByteLength(ref)
	if !ok {
		n = int64(len(c.BIN.Data))
	}
	if n < 0 || n > int64(len(c.BIN.Data)) {
		return Result{}, errors.Wrap(errors.NewFormatErrorf("byteLength %d exceeds BIN chunk of %d bytes", n, len(c.BIN.Data)), "resolve buffer")
	}
	bin := c.BIN.Data[:n]

	if err = doc.SetURI(ref, filepath.Base(binPath)); err != nil {
		return Result{}, errors.Wrap(err, "patch document")
	}
	if !ok {
		if err = doc.SetByteLength(ref, len(bin)); err != nil {
			return Result{}, errors.Wrap(err, "patch document")
		}
	}

	text, err := doc.Compact()
	if err != nil {
		return Result{}, errors.Wrap(err, "serialize document")
	}

	if err = fs.WriteFileAtomic(binPath, bin, OutputMode); err != nil {
		return Result{}, errors.Wrap(err, "write binary")
	}
	log.WithFields(log.Fields{"path": binPath, "bytes": len(bin)}).Debug("wrote binary")

	if err = fs.WriteFileAtomic(output, text, OutputMode); err != nil {
		return Result{}, errors.Wrap(err, "write output")
	}
	log.WithFields(log.Fields{"path": output, "bytes": len(text)}).Info("wrote document")

	return Result{
		Input:      input,
		Output:     output,
		Size:       len(text),
		JSONLength: len(c.JSON.Data),
		BinLength:  len(c.BIN.Data),
		ByteLength: len(bin),
	}, nil
}
