package fs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/skyline93/glbpack/internal/errors"
)

// Open opens a file for reading.
func Open(name string) (File, error) {
	return os.Open(fixpath(name))
}

// RemoveIfExists removes a file, returning no error if it does not exist.
func RemoveIfExists(filename string) error {
	err := os.Remove(fixpath(filename))
	if err != nil && os.IsNotExist(err) {
		err = nil
	}
	return err
}

// ReadFile reads the whole file. The file is closed before ReadFile returns,
// also when reading fails. Errors are of type *errors.IOError.
func ReadFile(name string) ([]byte, error) {
	f, err := Open(name)
	if err != nil {
		return nil, errors.NewIOError("read", name, err)
	}

	buf, err := io.ReadAll(f)
	if err != nil {
		_ = f.Close() // ignore secondary errors closing the file
		return nil, errors.NewIOError("read", name, err)
	}

	if err = f.Close(); err != nil {
		return nil, errors.NewIOError("read", name, err)
	}
	return buf, nil
}

// WriteFileAtomic writes buf to a temporary file next to name, syncs it and
// renames it to name. Either name holds all of buf afterwards or it is left
// untouched. Errors are of type *errors.IOError.
func WriteFileAtomic(name string, buf []byte, mode os.FileMode) error {
	dir := filepath.Dir(name)

	f, err := os.CreateTemp(fixpath(dir), "."+filepath.Base(name)+".tmp-*")
	if err != nil {
		return errors.NewIOError("write", name, err)
	}
	tmp := f.Name()

	fail := func(err error) error {
		_ = f.Close()
		_ = RemoveIfExists(tmp)
		return errors.NewIOError("write", name, err)
	}

	if _, err = f.Write(buf); err != nil {
		return fail(err)
	}

	if err = f.Sync(); err != nil && !isNotSupported(err) {
		return fail(err)
	}

	if err = f.Chmod(mode); err != nil && !isNotSupported(err) {
		return fail(err)
	}

	if err = f.Close(); err != nil {
		_ = RemoveIfExists(tmp)
		return errors.NewIOError("write", name, err)
	}

	if err = os.Rename(tmp, fixpath(name)); err != nil {
		_ = RemoveIfExists(tmp)
		return errors.NewIOError("write", name, err)
	}

	if err = fsyncDir(dir); err != nil {
		return errors.NewIOError("write", name, err)
	}
	return nil
}
