package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverridesDefaults(t *testing.T) {
	c, err := Parse(strings.NewReader(`
log_level = "debug"
[runtime]
max_depth = 50
[stdlib]
disabled = ["basename", "define"]
`))
	require.NoError(t, err)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 50, c.Runtime.MaxDepth)
	assert.Equal(t, []string{"basename", "define"}, c.Stdlib.Disabled)
	// Untouched sections keep their defaults.
	assert.True(t, c.Cache.Enabled)
	assert.Equal(t, 64, c.Cache.MemoryEntries)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(strings.NewReader(`log_level = `))
	require.Error(t, err)

	_, err = Parse(strings.NewReader("[runtime]\nmax_depth = -1\n"))
	require.Error(t, err)

	_, err = Parse(strings.NewReader("[cache]\nenabled = \"yes\"\n"))
	require.Error(t, err)
}

func TestLoadResolvesCacheDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("[cache]\ndir = \"cache\"\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, c.Path)
	assert.Equal(t, filepath.Join(dir, "cache"), c.Cache.Dir)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "main.php")

	c, err := Find(script)
	require.NoError(t, err)
	assert.Empty(t, c.Path)
	assert.Equal(t, filepath.Join(dir, ".phpvm-cache"), c.Cache.Dir)
	assert.Equal(t, 10000, c.Runtime.MaxDepth)

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("[cache]\nenabled = false\n"), 0o644))
	c, err = Find(script)
	require.NoError(t, err)
	assert.False(t, c.Cache.Enabled)
	assert.Equal(t, filepath.Join(dir, FileName), c.Path)
}
