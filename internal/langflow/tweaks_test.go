package langflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTweaks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tweaks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"ChatInput-C9Ir0: {}\nAgent-OFaEi:\n  model: gpt-4\n"), 0o644))

	tw, err := LoadTweaks(path)
	require.NoError(t, err)
	require.Contains(t, tw, "ChatInput-C9Ir0")
	require.Contains(t, tw, "Agent-OFaEi")
	assert.Equal(t, "gpt-4", tw["Agent-OFaEi"]["model"])
}

func TestLoadTweaksMissingFile(t *testing.T) {
	tw, err := LoadTweaks(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.NotNil(t, tw)
	assert.Empty(t, tw)
}

func TestLoadTweaksInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid\n"), 0o644))
	_, err := LoadTweaks(path)
	assert.Error(t, err)
}
