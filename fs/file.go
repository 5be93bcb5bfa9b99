// Package fs provides atomic file output for catalog exports.
package fs

import (
	"io"
	"os"
	"path/filepath"
)

// Ensure File implements io.Writer at compile time.
var _ io.Writer = (*File)(nil)

// File writes to a temporary file next to its destination and moves it into
// place on Commit, so readers never observe a partially written export.
type File struct {
	tmp  *os.File
	path string
	done bool
}

// Create opens a staging file for path. The parent directory is created if
// missing. Either Commit or Abort must be called.
func Create(path string) (*File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return nil, err
	}
	return &File{tmp: tmp, path: path}, nil
}

// Write writes to the staging file.
func (f *File) Write(p []byte) (int, error) {
	return f.tmp.Write(p)
}

// Path returns the destination path.
func (f *File) Path() string {
	return f.path
}

// Commit flushes the staging file and renames it over the destination.
func (f *File) Commit() error {
	if f.done {
		return nil
	}
	f.done = true

	if err := f.tmp.Sync(); err != nil {
		f.discard()
		return err
	}
	if err := f.tmp.Close(); err != nil {
		_ = os.Remove(f.tmp.Name())
		return err
	}
	if err := os.Chmod(f.tmp.Name(), 0644); err != nil {
		_ = os.Remove(f.tmp.Name())
		return err
	}
	if err := os.Rename(f.tmp.Name(), f.path); err != nil {
		_ = os.Remove(f.tmp.Name())
		return err
	}
	return nil
}

// Abort removes the staging file and leaves the destination untouched.
// Abort after Commit is a no-op.
func (f *File) Abort() error {
	if f.done {
		return nil
	}
	f.done = true
	return f.discard()
}

func (f *File) discard() error {
	_ = f.tmp.Close()
	return os.Remove(f.tmp.Name())
}
