package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/MKhiriev/go-cookie-sync/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewLogger_RoleField verifies that every log entry contains the role
// field and a timestamp.
func TestNewLogger_RoleField(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "test-role", zerolog.DebugLevel)

	l.Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test-role", entry["role"])
	_, hasTime := entry["time"]
	assert.True(t, hasTime, "expected 'time' field in log entry")
}

// TestNewLogger_CallerFieldName verifies that the caller field is named "func".
func TestNewLogger_CallerFieldName(t *testing.T) {
	newLogger(&bytes.Buffer{}, "caller-role", zerolog.DebugLevel)
	assert.Equal(t, "func", zerolog.CallerFieldName)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestNewClientLogger_Stderr(t *testing.T) {
	l, closer := NewClientLogger(config.ClientLog{Path: StderrPath, Level: "warn"}, "client")
	require.NotNil(t, l)
	require.NotNil(t, closer)
	assert.NoError(t, closer.Close())
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

func TestNewClientLogger_BadLevelFallsBackToInfo(t *testing.T) {
	NewClientLogger(config.ClientLog{Path: StderrPath, Level: "loud"}, "client")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

// TestNewClientLogger_File verifies entries land in the rotated file.
func TestNewClientLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cookiesync.log")

	l, closer := NewClientLogger(config.ClientLog{Path: path, Level: "debug", MaxSizeMB: 1, MaxBackups: 1}, "daemon")
	l.Info().Msg("to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "daemon", entry["role"])
	assert.Equal(t, "to file", entry["message"])
}

// TestNop_DiscardsOutput verifies that a Nop logger produces no output.
func TestNop_DiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	l := Nop()
	l.Logger = l.Output(&buf)

	l.Info().Msg("should be discarded")

	assert.Empty(t, buf.String(), "Nop logger should produce no output")
}

// TestComponent_InheritsFields verifies that the child logger inherits
// context fields (e.g. "role") from the parent and adds its component.
func TestComponent_InheritsFields(t *testing.T) {
	var buf bytes.Buffer
	parent := newLogger(&buf, "inherited-role", zerolog.DebugLevel)

	child := parent.Component("jar")
	assert.NotSame(t, parent, child)
	child.Info().Msg("child message")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "inherited-role", entry["role"])
	assert.Equal(t, "jar", entry["component"])
}

func TestWithRunID_TagsEntriesAndContext(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{zerolog.New(&buf)}

	ctx, child := l.WithRunID(context.Background(), "run-1")
	child.Info().Msg("direct")
	FromContext(ctx).Info().Msg("via ctx")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	for _, line := range lines {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		assert.Equal(t, "run-1", entry["run_id"])
	}
}

// TestFromContext_NotNil verifies that FromContext never returns nil, even
// when no logger has been explicitly attached to the context.
func TestFromContext_NotNil(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
}
