//go:build unix

package scratchmap

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/hupe1980/scratchmap/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func TestLogger_StepFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONLogger(&buf, slog.LevelDebug)
	path := scratchPath(t)

	_, err := Run(context.Background(), WithPath(path), WithLogger(l))
	require.NoError(t, err)

	recs := decodeLines(t, &buf)
	require.Len(t, recs, 8)
	for _, rec := range recs {
		assert.Equal(t, "step completed", rec["msg"])
		assert.Equal(t, path, rec["path"])
		assert.Equal(t, "4.0 KiB", rec["size"])
	}
	assert.Equal(t, "opened", recs[0]["step"])
	assert.Equal(t, "unmapped", recs[7]["step"])
}

func TestLogger_FailureAndCleanup(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONLogger(&buf, slog.LevelDebug)
	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule("scratch", fs.Fault{FailOnRemove: true, Err: unix.EROFS})

	_, err := Run(context.Background(), WithPath(scratchPath(t)), WithFileSystem(ffs), WithLogger(l))
	require.Error(t, err)

	recs := decodeLines(t, &buf)
	require.Len(t, recs, 6)

	assert.Equal(t, "ERROR", recs[3]["level"])
	assert.Equal(t, "step failed", recs[3]["msg"])
	assert.Equal(t, "unlinked", recs[3]["step"])

	assert.Equal(t, "cleanup completed", recs[4]["msg"])
	assert.Equal(t, "munmap", recs[4]["op"])
	assert.Equal(t, "close", recs[5]["op"])
}

func TestTextLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf, slog.LevelWarn).WithPath("/tmp/x").WithSize(4096)

	l.LogStep(context.Background(), StepSized, nil)
	assert.Empty(t, buf.String())

	l.LogCleanup(context.Background(), "close", unix.EIO)
	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="cleanup failed"`)
	assert.Contains(t, out, "op=close")
	assert.Contains(t, out, `size="4.0 KiB"`)
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}

func TestStep_String(t *testing.T) {
	assert.Equal(t, "descriptor-closed", StepDescriptorClosed.String())
	assert.Equal(t, "failed", StepFailed.String())
	assert.Equal(t, "Unknown(42)", Step(42).String())
}
