package scratchmap

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
)

// Logger wraps slog.Logger with scratchmap-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs to w
// (os.Stderr if nil). level sets the minimum log level (e.g., slog.LevelDebug,
// slog.LevelInfo).
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs to w
// (os.Stderr if nil).
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithPath adds the backing file path to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// WithSize adds the region size, in human-readable form, to the logger.
func (l *Logger) WithSize(size int) *Logger {
	return &Logger{
		Logger: l.Logger.With("size", humanize.IBytes(uint64(size))),
	}
}

// LogStep logs the outcome of a lifecycle transition into step.
func (l *Logger) LogStep(ctx context.Context, step Step, err error) {
	if err != nil {
		l.ErrorContext(ctx, "step failed",
			"step", step.String(),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "step completed",
			"step", step.String(),
		)
	}
}

// LogCleanup logs a release performed while unwinding after a failure.
func (l *Logger) LogCleanup(ctx context.Context, op string, err error) {
	if err != nil {
		l.WarnContext(ctx, "cleanup failed",
			"op", op,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "cleanup completed",
			"op", op,
		)
	}
}
