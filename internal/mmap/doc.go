// Package mmap provides shared read-write memory mappings of files.
//
// # Usage
//
//	m, err := mmap.MapFile(f.Fd(), 4096)
//	if err != nil { ... }
//	defer m.Close()
//
//	f.Close() // the mapping stays valid
//
//	m.WriteString("Hello, mmap!")
//	msg, _ := m.ReadString()
//
// # Lengths
//
// The length given to MapFile is stored and reused verbatim by Close, so
// munmap(2) always receives exactly the length that mmap(2) did.
//
// # Platform Support
//
// Unix targets use mmap(2) with PROT_READ|PROT_WRITE and MAP_SHARED.
// Other targets return ErrUnsupported from MapFile.
package mmap
