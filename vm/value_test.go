package vm

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplay(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{StrValue("abc"), "abc"},
		{IntValue(-12), "-12"},
		{FloatValue(3), "3"},
		{FloatValue(1.5), "1.5"},
		{FloatValue(0.1), "0.1"},
		{FloatValue(1e20), "100000000000000000000"},
		{FloatValue(math.NaN()), "NAN"},
		{FloatValue(math.Inf(1)), "INF"},
		{FloatValue(math.Inf(-1)), "-INF"},
		{True, "1"},
		{False, ""},
		{Null, ""},
		{NewArray(), "Array"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.v.String(), "%s", tt.v.TypeName())
	}
}

func TestTruthiness(t *testing.T) {
	full := NewArray()
	full.Append(Null)
	tests := []struct {
		v    Value
		want bool
	}{
		{True, true},
		{False, false},
		{Null, false},
		{IntValue(1), true},
		{IntValue(0), false},
		{IntValue(-1), false},
		{FloatValue(0.5), true},
		{FloatValue(-0.5), false},
		{StrValue("0"), true},
		{StrValue(""), false},
		{NewArray(), false},
		{full, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.v.AsBool(), "%s %q", tt.v.TypeName(), tt.v.String())
	}
}

func TestArrayValue(t *testing.T) {
	a := NewArray()
	a.Append(StrValue("x"))
	a.Append(StrValue("y"))
	a.Set("name", IntValue(1))
	a.Set("0", StrValue("z"))

	assert.Equal(t, 3, a.Len())
	assert.Equal(t, []string{"0", "1", "name"}, a.Keys())
	v, ok := a.Get("0")
	require.True(t, ok)
	assert.Equal(t, StrValue("z"), v)
	_, ok = a.Get("missing")
	assert.False(t, ok)

	a.Append(Null)
	assert.Equal(t, []string{"0", "1", "name", "3"}, a.Keys())

	// Holders of the same pointer see the mutation.
	alias := a
	alias.Append(True)
	assert.Equal(t, 5, a.Len())

	var keys []string
	a.Each(func(k string, _ Value) { keys = append(keys, k) })
	assert.Equal(t, a.Keys(), keys)
}

func TestKeyOf(t *testing.T) {
	assert.Equal(t, "1", KeyOf(IntValue(1)))
	assert.Equal(t, "1", KeyOf(True))
	assert.Equal(t, "", KeyOf(Null))
	assert.Equal(t, "k", KeyOf(StrValue("k")))
}

func TestDump(t *testing.T) {
	inner := NewArray()
	inner.Append(FloatValue(1.5))
	outer := NewArray()
	outer.Append(IntValue(1))
	outer.Set("name", StrValue("abc"))
	outer.Append(inner)
	outer.Set("flag", False)
	outer.Set("nothing", Null)

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, outer))
	want := `array(5) {
  [0]=>
  int(1)
  ["name"]=>
  string(3) "abc"
  [2]=>
  array(1) {
    [0]=>
    float(1.5)
  }
  ["flag"]=>
  bool(false)
  ["nothing"]=>
  NULL
}
`
	assert.Equal(t, want, buf.String())
}

func TestDumpScalars(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{StrValue(""), "string(0) \"\"\n"},
		{StrValue("héllo"), "string(6) \"héllo\"\n"},
		{IntValue(-1), "int(-1)\n"},
		{FloatValue(2), "float(2)\n"},
		{True, "bool(true)\n"},
		{Null, "NULL\n"},
		{NewArray(), "array(0) {\n}\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		require.NoError(t, Dump(&buf, tt.v))
		assert.Equal(t, tt.want, buf.String())
	}
}
