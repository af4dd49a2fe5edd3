package interp

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/timewinder-dev/phpvm/stdlib"
	"github.com/timewinder-dev/phpvm/vm"
)

// TestTestdataPrograms runs every testdata program and compares its output
// with the .out file beside it.
func TestTestdataPrograms(t *testing.T) {
	err := filepath.WalkDir("../testdata/programs", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".php") {
			return nil
		}
		t.Run(filepath.Base(path), fileTest(path))
		return nil
	})
	require.NoError(t, err)
}

func fileTest(path string) func(t *testing.T) {
	return func(t *testing.T) {
		want, err := os.ReadFile(strings.TrimSuffix(path, ".php") + ".out")
		require.NoError(t, err)
		g := stdlib.NewGlobals()
		prog, err := vm.CompilePath(path, g)
		require.NoError(t, err)
		var out bytes.Buffer
		require.NoError(t, RunProgram(prog, g, &out))
		require.Equal(t, string(want), out.String())
	}
}
