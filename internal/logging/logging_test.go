package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesRotatedFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(Name("test-logger"), Dir(dir), Level("debug"))
	require.NoError(t, err)

	logger.Infow("recording started", "session", "abc")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "test-logger.log"))
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.Contains(out, "recording started"), out)
	assert.True(t, strings.Contains(out, `"session":"abc"`), out)
}

func TestNewRespectsLevel(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(Name("lvl"), Dir(dir), Level("warn"))
	require.NoError(t, err)

	logger.Infof("hidden %d", 1)
	logger.Warnf("shown %d", 2)
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "lvl.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden 1")
	assert.Contains(t, string(data), "shown 2")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Level("loud"))
	assert.Error(t, err)
}

func TestNewWithoutSinksIsNop(t *testing.T) {
	logger, err := New()
	require.NoError(t, err)
	logger.Infof("nothing")
	var _ Logger = logger
}
