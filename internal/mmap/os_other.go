//go:build !unix

package mmap

func osMapShared(fd uintptr, size int) ([]byte, func([]byte) error, error) {
	return nil, nil, ErrUnsupported
}
