package vm

import (
	"io"
)

// LoadFile compiles the source read from r, reporting errors against name.
func LoadFile(name string, r io.Reader, g *Globals) (*Program, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return CompileSource(name, string(b), g)
}
