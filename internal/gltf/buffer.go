package gltf

import (
	"path/filepath"

	"github.com/buger/jsonparser"
	log "github.com/sirupsen/logrus"

	"github.com/skyline93/glbpack/internal/errors"
)

// Shape is the JSON type of the buffers member.
type Shape uint8

const (
	// Sequence is the glTF 2.0 array of buffers.
	Sequence Shape = 1 + iota
	// Mapping is the glTF 1.0 object of named buffers, still written by some
	// exporters.
	Mapping
)

func (s Shape) String() string {
	switch s {
	case Sequence:
		return "sequence"
	case Mapping:
		return "mapping"
	}
	return "invalid"
}

// Messages of the format errors returned by FirstBuffer.
const (
	MsgUnsupportedBuffers = "Unsupported buffers structure"
	MsgNoBufferURI        = "No external buffer uri found on the first buffer"
)

// BufferRef locates the first buffer of a document independent of the shape
// of the buffers member.
type BufferRef struct {
	Shape Shape
	// Key is the member name of the buffer for Mapping.
	Key string
	// URI is the unescaped uri of the buffer, empty if it has none.
	URI string
}

func (r BufferRef) keys(member string) []string {
	if r.Shape == Mapping {
		return []string{"buffers", r.Key, member}
	}
	return []string{"buffers", "[0]", member}
}

var errStop = errors.New("stop iteration")

// FirstBuffer resolves the first entry of buffers, element 0 of an array or
// the first member of an object, without checking its uri.
func (d *Document) FirstBuffer() (BufferRef, error) {
	n, err := d.countMembers("buffers")
	if err != nil {
		return BufferRef{}, errors.FormatErrorf(err, MsgUnsupportedBuffers)
	}
	if n > 1 {
		return BufferRef{}, errors.NewFormatError(MsgUnsupportedBuffers)
	}

	value, typ, _, err := jsonparser.Get(d.raw, "buffers")
	if err != nil && err != jsonparser.KeyPathNotFoundError {
		return BufferRef{}, errors.FormatErrorf(err, MsgUnsupportedBuffers)
	}

	var (
		ref     BufferRef
		desc    []byte
		descTyp jsonparser.ValueType
	)

	switch typ {
	case jsonparser.Array:
		ref.Shape = Sequence
		desc, descTyp, _, err = jsonparser.Get(value, "[0]")
		if err != nil {
			return BufferRef{}, errors.NewFormatError(MsgUnsupportedBuffers)
		}
	case jsonparser.Object:
		ref.Shape = Mapping
		found := false
		err = jsonparser.ObjectEach(value, func(key, val []byte, dt jsonparser.ValueType, _ int) error {
			ref.Key = string(key)
			desc, descTyp = val, dt
			found = true
			return errStop
		})
		if err != nil && err != errStop {
			return BufferRef{}, errors.FormatErrorf(err, MsgUnsupportedBuffers)
		}
		if !found {
			return BufferRef{}, errors.NewFormatError(MsgUnsupportedBuffers)
		}
	default:
		return BufferRef{}, errors.NewFormatError(MsgUnsupportedBuffers)
	}

	if descTyp != jsonparser.Object {
		return BufferRef{}, errors.NewFormatError(MsgUnsupportedBuffers)
	}

	uri, uriTyp, _, err := jsonparser.Get(desc, "uri")
	if err == nil && uriTyp == jsonparser.String {
		s, err := jsonparser.ParseString(uri)
		if err != nil {
			return BufferRef{}, errors.FormatErrorf(err, MsgNoBufferURI)
		}
		ref.URI = s
	}

	log.WithFields(log.Fields{"shape": ref.Shape, "key": ref.Key, "uri": ref.URI}).Debug("resolved first buffer")
	return ref, nil
}

// ExternalBuffer resolves the first buffer and returns it together with the
// path of its binary payload. The buffer must have a non-empty uri.
func (d *Document) ExternalBuffer() (BufferRef, string, error) {
	ref, err := d.FirstBuffer()
	if err != nil {
		return BufferRef{}, "", err
	}

	if ref.URI == "" {
		return BufferRef{}, "", errors.NewFormatError(MsgNoBufferURI)
	}

	return ref, d.resolve(ref.URI), nil
}

// resolve returns the path of uri relative to the document. Absolute paths
// are used as they are.
func (d *Document) resolve(uri string) string {
	p := filepath.FromSlash(uri)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(d.Dir(), p)
}

// countMembers returns how often the top-level object has a member name.
// Buffer refs address the first one, so repeated members are rejected.
func (d *Document) countMembers(name string) (int, error) {
	n := 0
	err := jsonparser.ObjectEach(d.raw, func(key, _ []byte, _ jsonparser.ValueType, _ int) error {
		if string(key) == name {
			n++
		}
		return nil
	})
	return n, err
}

// ByteLength returns the byteLength of the buffer ref. ok is false if the
// buffer has no integer byteLength.
func (d *Document) ByteLength(ref BufferRef) (n int64, ok bool) {
	n, err := jsonparser.GetInt(d.raw, ref.keys("byteLength")...)
	if err != nil {
		return 0, false
	}
	return n, true
}
