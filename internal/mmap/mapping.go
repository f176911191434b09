package mmap

import (
	"bytes"
	"strings"
	"sync/atomic"
	"unsafe"
)

// Mapping represents a shared read-write memory mapping of a file.
// It owns the underlying byte slice and is responsible for unmapping it.
type Mapping struct {
	data   []byte
	size   int
	closed atomic.Bool
	// unmap is the platform-specific function to unmap the memory.
	unmap func([]byte) error
}

// MapFile maps size bytes of the file behind fd, starting at offset 0,
// with read-write protection and shared-update semantics.
//
// The descriptor may be closed as soon as MapFile returns; the mapping
// keeps the underlying storage alive until Close.
func MapFile(fd uintptr, size int) (*Mapping, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	data, unmapFunc, err := osMapShared(fd, size)
	if err != nil {
		return nil, err
	}

	return &Mapping{
		data:  data,
		size:  size,
		unmap: unmapFunc,
	}, nil
}

// Close unmaps the memory. It is idempotent.
// The region handed to munmap always has the length recorded by MapFile.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil // Already closed
	}
	if m.unmap != nil && m.data != nil {
		return m.unmap(m.data[:m.size:m.size])
	}
	return nil
}

// Bytes returns the underlying byte slice.
// Warning: The slice is valid only until Close() is called.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int {
	return m.size
}

// Addr returns the base address of the mapping. The value is informational
// only and is zero once the mapping is closed.
func (m *Mapping) Addr() uintptr {
	if m.closed.Load() || len(m.data) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&m.data[0]))
}

// WriteString copies s into the start of the mapping.
//
// Copying stops at the first NUL in s, like strncpy, and never goes past
// Size() bytes; n is the number of bytes stored. Every byte after the copied
// prefix is set to zero, so the region always holds the message followed by
// NUL padding up to the mapped length and ReadString returns s[:n].
func (m *Mapping) WriteString(s string) (n int, err error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	n = copy(m.data, s)
	clear(m.data[n:])
	return n, nil
}

// ReadString returns the bytes at the start of the mapping up to the first
// NUL byte, or the whole region if it contains none.
func (m *Mapping) ReadString() (string, error) {
	if m.closed.Load() {
		return "", ErrClosed
	}
	end := bytes.IndexByte(m.data, 0)
	if end < 0 {
		end = len(m.data)
	}
	return string(m.data[:end]), nil
}
