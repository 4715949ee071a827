package errors

import (
	"fmt"
	"os"
)

// FormatError is returned when an input document or container does not have
// the shape the packer needs.
type FormatError struct {
	Msg string
	Err error
}

// NewFormatError returns a FormatError carrying msg.
func NewFormatError(msg string) *FormatError {
	return &FormatError{Msg: msg}
}

// NewFormatErrorf returns a FormatError with a formatted message.
func NewFormatErrorf(format string, args ...interface{}) *FormatError {
	return &FormatError{Msg: fmt.Sprintf(format, args...)}
}

// FormatErrorf returns a FormatError that wraps err.
func FormatErrorf(err error, format string, args ...interface{}) *FormatError {
	return &FormatError{Msg: fmt.Sprintf(format, args...), Err: err}
}

func (e *FormatError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *FormatError) Unwrap() error { return e.Err }

// IOError is returned when a file cannot be read or written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

// NewIOError wraps err, which was returned by op on path.
func NewIOError(op, path string, err error) *IOError {
	return &IOError{Op: op, Path: path, Err: err}
}

func (e *IOError) Error() string {
	err := Cause(e.Err)
	var perr *os.PathError
	if As(err, &perr) {
		err = perr.Err
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, err)
}

func (e *IOError) Unwrap() error { return e.Err }

// IsFormatError returns true if err is or wraps a *FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return As(err, &fe)
}

// IsIOError returns true if err is or wraps an *IOError.
func IsIOError(err error) bool {
	var ie *IOError
	return As(err, &ie)
}
