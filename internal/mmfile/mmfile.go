// Package mmfile exposes a read-only view of a file's bytes, memory-mapped
// where the platform supports it.
package mmfile

import "errors"

// ErrClosed is returned by Bytes after Close.
var ErrClosed = errors.New("mmfile: file closed")

// File is a read-only view of a file's contents. The slice returned by Bytes
// is valid until Close; callers that keep data past Close must copy it.
type File struct {
	data   []byte
	closed bool
	unmap  func([]byte) error
}

// Bytes returns the file contents.
func (f *File) Bytes() ([]byte, error) {
	if f.closed {
		return nil, ErrClosed
	}
	return f.data, nil
}

// Len returns the file size in bytes.
func (f *File) Len() int { return len(f.data) }

// Mapped reports whether the contents are backed by a memory mapping rather
// than a heap copy.
func (f *File) Mapped() bool { return f.unmap != nil }

// Close releases the mapping. Closing twice is a no-op.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	data := f.data
	f.data = nil
	if f.unmap == nil || len(data) == 0 {
		return nil
	}
	return f.unmap(data)
}
