package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Practice.Topic)
	assert.Nil(t, cfg.Evaluation.URL)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[practice]
topic = "travel"
topics = ["travel", "business"]
sample-files = { business = "/tmp/business.txt" }

[capture]
command = ["parecord", "--raw"]
sample-rate = 48000

[evaluation]
url = "http://localhost:9000"
timeout = "5s"

[log]
level = "warn"

[samples]
travel = ["Where is the train station?"]
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Practice.Topic)
	assert.Equal(t, "travel", *cfg.Practice.Topic)
	assert.Equal(t, []string{"travel", "business"}, cfg.Practice.Topics)
	assert.Equal(t, map[string]string{"business": "/tmp/business.txt"}, cfg.Practice.SampleFiles)
	assert.Equal(t, []string{"parecord", "--raw"}, cfg.Capture.Command)
	require.NotNil(t, cfg.Capture.SampleRate)
	assert.Equal(t, 48000, *cfg.Capture.SampleRate)
	require.NotNil(t, cfg.Evaluation.Timeout)
	assert.Equal(t, "5s", *cfg.Evaluation.Timeout)
	require.NotNil(t, cfg.Log.Level)
	assert.Equal(t, "warn", *cfg.Log.Level)
	assert.Equal(t, []string{"Where is the train station?"}, cfg.Samples["travel"])
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "cfg"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))

	assert.Equal(t, filepath.Join(dir, "cfg", "tuispeak", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join(dir, "data", "tuispeak", "tuispeak.db"), DefaultDBPath())
	assert.Equal(t, filepath.Join(dir, "state", "tuispeak", "logs"), DefaultLogDir())
}
