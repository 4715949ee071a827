// Package gltf reads and patches the JSON part of a glTF asset. A Document
// keeps the source text, all edits are applied to that text so the member
// order of every object stays the order of the input file.
package gltf

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strconv"
	"unicode/utf8"

	"github.com/buger/jsonparser"
	log "github.com/sirupsen/logrus"

	"github.com/skyline93/glbpack/internal/errors"
	"github.com/skyline93/glbpack/internal/fs"
)

// Document is a parsed glTF JSON document.
type Document struct {
	// Path is the file the document was loaded from, empty for Parse.
	Path string

	raw []byte
}

// Load reads and parses the document at path. All failures, including a
// missing or unreadable file, are reported as *errors.FormatError.
func Load(path string) (*Document, error) {
	buf, err := fs.ReadFile(path)
	if err != nil {
		return nil, errors.FormatErrorf(err, "cannot load document")
	}

	doc, err := Parse(buf)
	if err != nil {
		return nil, err
	}
	doc.Path = path

	log.WithFields(log.Fields{"path": path, "bytes": len(buf)}).Debug("loaded document")
	return doc, nil
}

// Parse checks that buf holds a UTF-8 encoded JSON object and returns it as a Document.
func Parse(buf []byte) (*Document, error) {
	if !utf8.Valid(buf) {
		return nil, errors.NewFormatError("document is not valid UTF-8")
	}

	var probe json.RawMessage
	if err := json.Unmarshal(buf, &probe); err != nil {
		return nil, errors.FormatErrorf(err, "document is not valid JSON")
	}

	if probe[0] != '{' {
		return nil, errors.NewFormatError("document is not a JSON object")
	}

	return &Document{raw: probe}, nil
}

// Dir returns the directory relative buffer URIs are resolved against.
func (d *Document) Dir() string {
	return filepath.Dir(d.Path)
}

// Bytes returns the current document text.
func (d *Document) Bytes() []byte {
	return d.raw
}

// Compact returns the document without insignificant whitespace.
func (d *Document) Compact() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(d.raw))
	if err := json.Compact(&buf, d.raw); err != nil {
		return nil, errors.Wrap(err, "json.Compact")
	}
	return buf.Bytes(), nil
}

// Patch marks the buffer ref as embedded: its uri becomes null and its
// byteLength is set to n. A byteLength that did not exist yet is added as the
// last member of the buffer object.
func (d *Document) Patch(ref BufferRef, n int) error {
	err := d.set([]byte("null"), ref.keys("uri")...)
	if err != nil {
		return err
	}
	return d.SetByteLength(ref, n)
}

// SetByteLength sets the byteLength of the buffer ref to n.
func (d *Document) SetByteLength(ref BufferRef, n int) error {
	return d.set([]byte(strconv.Itoa(n)), ref.keys("byteLength")...)
}

// SetURI points the buffer ref to the external file uri.
func (d *Document) SetURI(ref BufferRef, uri string) error {
	value, err := json.Marshal(uri)
	if err != nil {
		return errors.Wrap(err, "json.Marshal")
	}
	return d.set(value, ref.keys("uri")...)
}

func (d *Document) set(value []byte, keys ...string) error {
	buf, err := jsonparser.Set(d.raw, value, keys...)
	if err != nil {
		return errors.Wrapf(err, "set %v", keys)
	}
	d.raw = buf
	return nil
}
