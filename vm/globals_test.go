package vm

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalsFunctions(t *testing.T) {
	g := NewGlobals()
	_, ok := g.Lookup("f")
	assert.False(t, ok)

	g.DeclareUser("f")
	assert.True(t, g.IsUserFunction("f"))

	body := &Function{Name: "f", Bytecode: []Op{{Code: NULL}, {Code: RETURN}}}
	g.DefineUser(body)
	e, ok := g.Lookup("f")
	require.True(t, ok)
	assert.Same(t, body, e.User)

	g.DefineInternal("f", func(Host, []Value) (Value, error) { return Null, nil })
	assert.False(t, g.IsUserFunction("f"))
	e, ok = g.Lookup("f")
	require.True(t, ok)
	require.NotNil(t, e.Internal)
	assert.Equal(t, "f", e.Internal.Name)

	g.DefineUser(&Function{Name: "b"})
	g.DefineUser(&Function{Name: "a"})
	assert.Equal(t, []string{"a", "b"}, g.UserFunctions())
}

func TestGlobalsConstants(t *testing.T) {
	g := NewGlobals()
	_, ok := g.Constant("X")
	assert.False(t, ok)
	g.DefineConstant("X", IntValue(1))
	g.DefineConstant("X", IntValue(2))
	g.DefineConstant("A", Null)
	v, ok := g.Constant("X")
	require.True(t, ok)
	assert.Equal(t, IntValue(2), v)
	assert.Equal(t, []string{"A", "X"}, g.ConstantNames())
}

func TestGlobalsConcurrentAccess(t *testing.T) {
	g := NewGlobals()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				g.DefineConstant("C", IntValue(j))
				g.Constant("C")
				g.IsUserFunction("f")
			}
		}()
	}
	wg.Wait()
	_, ok := g.Constant("C")
	assert.True(t, ok)
}
