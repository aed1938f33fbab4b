package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset() {
	SetVerbose(false)
	SetTimestamps(false)
	SetOutput(os.Stderr)
	now = time.Now
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("test message %s", "arg")
	Info("indexed %d files", 3)
	Warn("slow")
	Error("boom")

	assert.Equal(t,
		"[DEBUG] test message arg\n[INFO] indexed 3 files\n[WARN] slow\n[ERROR] boom\n",
		buf.String())
}

func TestLevels_WhenNotVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")
	Section("hidden")
	Error("shown %d", 1)

	assert.Equal(t, "[ERROR] shown 1\n", buf.String())
}

func TestSection(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Index Build")
	assert.Equal(t, "\n=== Index Build ===\n", buf.String())
}

func TestTimestamps(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetTimestamps(true)
	now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 6e6, time.Local) }

	Error("x")
	assert.Equal(t, "2024-01-02T03:04:05.006 [ERROR] x\n", buf.String())
}

func TestDiscard(t *testing.T) {
	defer reset()

	SetOutput(nil)
	Error("nowhere")

	Discard()
	Error("nowhere")
}

func TestOpenFile(t *testing.T) {
	defer reset()

	path := filepath.Join(t.TempDir(), "logs", "mdf.log")
	c, err := OpenFile(path)
	require.NoError(t, err)

	SetVerbose(true)
	Info("written to file")
	require.NoError(t, c.Close())
	SetOutput(os.Stderr)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] written to file")
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
}
