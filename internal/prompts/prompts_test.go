package prompts

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickFromTopic(t *testing.T) {
	bank := NewWithSource(rand.NewSource(1), nil)
	for _, topic := range DefaultTopics {
		s, ok := bank.Pick(topic)
		require.True(t, ok, "topic %s", topic)
		assert.Contains(t, bank.Sentences(topic), s)
	}
	_, ok := bank.Pick("unknown")
	assert.False(t, ok)
}

func TestOverrides(t *testing.T) {
	bank := NewWithSource(rand.NewSource(1), map[string][]string{
		"travel":  {"  Where is   the gate?  ", ""},
		"medical": {"I have a headache."},
		"empty":   {"   ", "# comment"},
	})
	assert.Equal(t, []string{"Where is the gate?"}, bank.Sentences("travel"))
	s, ok := bank.Pick("medical")
	require.True(t, ok)
	assert.Equal(t, "I have a headache.", s)
	assert.Equal(t, append(append([]string{}, DefaultTopics...), "medical"), bank.Topics())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "travel.txt")
	require.NoError(t, os.WriteFile(path, []byte("# travel\nOne ticket, please.\n\nWhere is platform two?\n"), 0o644))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"One ticket, please.", "Where is platform two?"}, got)

	emptyPath := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(emptyPath, []byte("\n# nothing\n"), 0o644))
	_, err = LoadFile(emptyPath)
	assert.Error(t, err)
}
