package fs

import (
	"errors"
	"os"
	"strings"
	"sync"
)

// ErrInjected is the error returned by FaultyFS when a Fault carries no Err.
var ErrInjected = errors.New("injected fault error")

// Fault defines specific failure behavior.
type Fault struct {
	FailOnOpen     bool
	FailOnTruncate bool
	FailOnRemove   bool
	FailOnClose    bool // the underlying file is still closed
	Err            error
}

func (f Fault) err() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrInjected
}

// FaultyFS is a FileSystem wrapper that can inject errors.
// It also counts Close calls per file name so tests can check that
// a handle was released exactly once.
type FaultyFS struct {
	FS      FileSystem
	mu      sync.Mutex
	rules   map[string]Fault // Filename pattern -> Fault
	Default Fault            // Fallback

	opens  map[string]int
	closes map[string]int
}

// NewFaultyFS creates a new FaultyFS wrapping the provided FS (or Default if nil).
func NewFaultyFS(fs FileSystem) *FaultyFS {
	if fs == nil {
		fs = Default
	}
	return &FaultyFS{
		FS:     fs,
		rules:  make(map[string]Fault),
		opens:  make(map[string]int),
		closes: make(map[string]int),
	}
}

// AddRule adds a fault injection rule for a specific file pattern.
// A file name matches a pattern that it contains; when several patterns
// match, the longest one applies.
func (f *FaultyFS) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[pattern] = fault
}

// Opens returns how many times name was opened successfully.
func (f *FaultyFS) Opens(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens[name]
}

// Closes returns how many times a handle for name was closed.
func (f *FaultyFS) Closes(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes[name]
}

func (f *FaultyFS) faultFor(name string) Fault {
	f.mu.Lock()
	defer f.mu.Unlock()
	fault := f.Default
	// Longest matching pattern wins; equal lengths go to the smaller pattern.
	best := ""
	matched := false
	for pattern, rule := range f.rules {
		if !strings.Contains(name, pattern) {
			continue
		}
		if !matched || len(pattern) > len(best) || (len(pattern) == len(best) && pattern < best) {
			best, fault, matched = pattern, rule, true
		}
	}
	return fault
}

func (f *FaultyFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	fault := f.faultFor(name)
	if fault.FailOnOpen {
		return nil, &os.PathError{Op: "open", Path: name, Err: fault.err()}
	}

	file, err := f.FS.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.opens[name]++
	f.mu.Unlock()

	return &faultyFile{File: file, fs: f, name: name, fault: fault}, nil
}

func (f *FaultyFS) Remove(name string) error {
	if fault := f.faultFor(name); fault.FailOnRemove {
		return &os.PathError{Op: "remove", Path: name, Err: fault.err()}
	}
	return f.FS.Remove(name)
}

func (f *FaultyFS) Stat(name string) (os.FileInfo, error) {
	return f.FS.Stat(name)
}

type faultyFile struct {
	File
	fs    *FaultyFS
	name  string
	fault Fault
}

func (ff *faultyFile) Truncate(size int64) error {
	if ff.fault.FailOnTruncate {
		return &os.PathError{Op: "truncate", Path: ff.name, Err: ff.fault.err()}
	}
	return ff.File.Truncate(size)
}

func (ff *faultyFile) Close() error {
	ff.fs.mu.Lock()
	ff.fs.closes[ff.name]++
	ff.fs.mu.Unlock()

	if ff.fault.FailOnClose {
		ff.File.Close()
		return &os.PathError{Op: "close", Path: ff.name, Err: ff.fault.err()}
	}
	return ff.File.Close()
}
