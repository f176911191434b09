package scratchmap

import (
	"github.com/hupe1980/scratchmap/internal/fs"
	"github.com/hupe1980/scratchmap/internal/mmap"
)

const (
	// DefaultPath is the backing file used when no path is configured.
	DefaultPath = "/tmp/test"
	// DefaultSize is the fixed length of the backing file and of the mapping.
	DefaultSize = 4096
	// DefaultMessage is the message written into the mapping.
	DefaultMessage = "Hello, mmap!"
)

type options struct {
	path    string
	message string
	size    int
	unlink  bool
	fs      fs.FileSystem
	logger  *Logger

	// Hooks replaced by tests to inject mapping failures and observe transitions.
	mapFile func(fd uintptr, size int) (*mmap.Mapping, error)
	unmap   func(m *mmap.Mapping) error
	observe func(step Step)
}

func defaultOptions() options {
	return options{
		path:    DefaultPath,
		message: DefaultMessage,
		size:    DefaultSize,
		unlink:  true,
		fs:      fs.Default,
		logger:  NoopLogger(),
		mapFile: mmap.MapFile,
		unmap:   (*mmap.Mapping).Close,
	}
}

// Option configures Run.
type Option func(*options)

// WithPath sets the backing file path.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithMessage sets the message written into the mapping.
// Messages longer than the region are truncated to the region length.
func WithMessage(msg string) Option {
	return func(o *options) {
		o.message = msg
	}
}

// WithFileSystem sets the file system used for the backing file.
//
// If nil is passed, fs.Default is used.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys == nil {
			fsys = fs.Default
		}
		o.fs = fsys
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithoutUnlink keeps the backing file's directory entry in place.
func WithoutUnlink() Option {
	return func(o *options) {
		o.unlink = false
	}
}
