package stdlib

import (
	"bytes"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timewinder-dev/phpvm/vm"
)

type testHost struct {
	g   *vm.Globals
	out bytes.Buffer
}

func (h *testHost) Globals() *vm.Globals { return h.g }
func (h *testHost) Output() io.Writer    { return &h.out }

func newHost() *testHost {
	return &testHost{g: NewGlobals()}
}

func call(t *testing.T, h *testHost, name string, args ...vm.Value) (vm.Value, error) {
	t.Helper()
	entry, ok := h.g.Lookup(name)
	require.True(t, ok, "function %s not registered", name)
	require.False(t, entry.IsUser())
	return entry.Internal.Callback(h, args)
}

func TestRegister(t *testing.T) {
	g := NewGlobals()
	for name := range Functions {
		assert.False(t, g.IsUserFunction(name))
		_, ok := g.Lookup(name)
		assert.True(t, ok, name)
	}
	v, ok := g.Constant("PHP_EOL")
	require.True(t, ok)
	assert.Equal(t, vm.StrValue("\n"), v)
	v, ok = g.Constant("PHP_INT_MAX")
	require.True(t, ok)
	assert.Equal(t, vm.IntValue(math.MaxInt64), v)
}

func TestRegisterDisabled(t *testing.T) {
	g := NewGlobals("basename", "PHP_EOL")
	_, ok := g.Lookup("basename")
	assert.False(t, ok)
	_, ok = g.Constant("PHP_EOL")
	assert.False(t, ok)
	_, ok = g.Lookup("count")
	assert.True(t, ok)
}

func TestTypeCheckers(t *testing.T) {
	h := newHost()
	tests := []struct {
		fn   string
		arg  vm.Value
		want vm.Value
	}{
		{"is_string", vm.StrValue("x"), vm.True},
		{"is_string", vm.IntValue(1), vm.False},
		{"is_string", vm.Null, vm.False},
		{"is_array", vm.NewArray(), vm.True},
		{"is_array", vm.StrValue("Array"), vm.False},
	}
	for _, tt := range tests {
		got, err := call(t, h, tt.fn, tt.arg)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s(%s)", tt.fn, tt.arg.TypeName())
	}
}

func TestStrval(t *testing.T) {
	h := newHost()
	tests := []struct {
		arg  vm.Value
		want string
	}{
		{vm.IntValue(42), "42"},
		{vm.FloatValue(1.5), "1.5"},
		{vm.FloatValue(3), "3"},
		{vm.True, "1"},
		{vm.False, ""},
		{vm.Null, ""},
		{vm.StrValue("abc"), "abc"},
	}
	for _, tt := range tests {
		got, err := call(t, h, "strval", tt.arg)
		require.NoError(t, err)
		assert.Equal(t, vm.StrValue(tt.want), got)
	}
}

func TestIntval(t *testing.T) {
	h := newHost()
	tests := []struct {
		arg  vm.Value
		want int64
	}{
		{vm.IntValue(7), 7},
		{vm.FloatValue(3.9), 3},
		{vm.FloatValue(-3.9), -3},
		{vm.True, 1},
		{vm.Null, 0},
		{vm.StrValue("12abc"), 12},
		{vm.StrValue("  -5"), -5},
		{vm.StrValue("abc"), 0},
		{vm.StrValue("99999999999999999999"), math.MaxInt64},
	}
	for _, tt := range tests {
		got, err := call(t, h, "intval", tt.arg)
		require.NoError(t, err)
		assert.Equal(t, vm.IntValue(tt.want), got, "intval(%s)", formatArg(tt.arg))
	}
}

func formatArg(v vm.Value) string {
	if s, ok := v.(vm.StrValue); ok {
		return `"` + string(s) + `"`
	}
	return v.String()
}

func TestBasename(t *testing.T) {
	h := newHost()
	tests := map[string]string{
		"/usr/local/bin/php": "php",
		"dir/file.txt":       "file.txt",
		"/etc/":              "etc",
		"file":               "file",
		"/":                  "",
		"":                   "",
	}
	for in, want := range tests {
		got, err := call(t, h, "basename", vm.StrValue(in))
		require.NoError(t, err)
		assert.Equal(t, vm.StrValue(want), got, "basename(%q)", in)
	}
}

func TestStrlen(t *testing.T) {
	h := newHost()
	got, err := call(t, h, "strlen", vm.StrValue("hello"))
	require.NoError(t, err)
	assert.Equal(t, vm.IntValue(5), got)
}

func TestDefine(t *testing.T) {
	h := newHost()
	got, err := call(t, h, "define", vm.StrValue("GREETING"), vm.StrValue("hi"))
	require.NoError(t, err)
	assert.Equal(t, vm.True, got)
	v, ok := h.g.Constant("GREETING")
	require.True(t, ok)
	assert.Equal(t, vm.StrValue("hi"), v)
}

func TestVarDump(t *testing.T) {
	h := newHost()
	arr := vm.NewArray()
	arr.Append(vm.IntValue(1))
	arr.Append(vm.StrValue("a"))
	got, err := call(t, h, "var_dump", vm.IntValue(3), arr)
	require.NoError(t, err)
	assert.Equal(t, vm.Null, got)
	want := "int(3)\n" +
		"array(2) {\n" +
		"  [0]=>\n" +
		"  int(1)\n" +
		"  [1]=>\n" +
		"  string(1) \"a\"\n" +
		"}\n"
	assert.Equal(t, want, h.out.String())
}

func TestCountAndPush(t *testing.T) {
	h := newHost()
	arr := vm.NewArray()
	got, err := call(t, h, "count", arr)
	require.NoError(t, err)
	assert.Equal(t, vm.IntValue(0), got)

	got, err = call(t, h, "array_push", arr, vm.IntValue(1), vm.IntValue(2))
	require.NoError(t, err)
	assert.Equal(t, vm.IntValue(2), got)
	assert.Equal(t, 2, arr.Len())

	got, err = call(t, h, "count", arr)
	require.NoError(t, err)
	assert.Equal(t, vm.IntValue(2), got)
}

func TestArgumentErrors(t *testing.T) {
	h := newHost()
	tests := []struct {
		fn   string
		args []vm.Value
		kind error
	}{
		{"is_string", nil, vm.ErrArity},
		{"strval", []vm.Value{vm.Null, vm.Null}, vm.ErrArity},
		{"define", []vm.Value{vm.StrValue("X")}, vm.ErrArity},
		{"define", []vm.Value{vm.IntValue(1), vm.IntValue(2)}, vm.ErrType},
		{"basename", []vm.Value{vm.IntValue(1)}, vm.ErrType},
		{"count", []vm.Value{vm.StrValue("abc")}, vm.ErrType},
		{"array_push", nil, vm.ErrArity},
		{"var_dump", nil, vm.ErrArity},
		{"strlen", []vm.Value{vm.NewArray()}, vm.ErrType},
	}
	for _, tt := range tests {
		_, err := call(t, h, tt.fn, tt.args...)
		require.Error(t, err, tt.fn)
		assert.ErrorIs(t, err, tt.kind, tt.fn)
		var rerr *vm.RuntimeError
		assert.ErrorAs(t, err, &rerr)
	}
}
