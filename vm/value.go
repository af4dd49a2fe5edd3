package vm

import (
	"math"
	"strconv"
)

type Value interface {
	isValue()
	AsBool() bool
	// String is the display form used by echo and concatenation.
	String() string
	TypeName() string
}

type BoolValue bool

func (BoolValue) isValue() {}

var (
	True  = BoolValue(true)
	False = BoolValue(false)
	Null  = NullValue{}
)

func FromBool(b bool) BoolValue {
	return BoolValue(b)
}

func (b BoolValue) AsBool() bool {
	return bool(b)
}

func (b BoolValue) String() string {
	if b {
		return "1"
	}
	return ""
}

func (BoolValue) TypeName() string { return "bool" }

type NullValue struct{}

func (NullValue) isValue()         {}
func (NullValue) AsBool() bool     { return false }
func (NullValue) String() string   { return "" }
func (NullValue) TypeName() string { return "null" }

type StrValue string

func (StrValue) isValue() {}
func (s StrValue) AsBool() bool {
	return s != ""
}
func (s StrValue) String() string  { return string(s) }
func (StrValue) TypeName() string { return "string" }

type IntValue int64

func (IntValue) isValue() {}

// AsBool follows the reference interpreter: only positive numbers are truthy.
func (i IntValue) AsBool() bool {
	return i > 0
}
func (i IntValue) String() string  { return strconv.FormatInt(int64(i), 10) }
func (IntValue) TypeName() string { return "int" }

type FloatValue float64

func (FloatValue) isValue() {}
func (f FloatValue) AsBool() bool {
	return f > 0
}

func (f FloatValue) String() string {
	switch {
	case math.IsNaN(float64(f)):
		return "NAN"
	case math.IsInf(float64(f), 1):
		return "INF"
	case math.IsInf(float64(f), -1):
		return "-INF"
	}
	return strconv.FormatFloat(float64(f), 'f', -1, 64)
}
func (FloatValue) TypeName() string { return "float" }

// ArrayValue is an insertion-ordered map from string keys to values. It is the
// only value shared by reference: every holder of the pointer sees mutations.
type ArrayValue struct {
	keys    []string
	entries map[string]Value
}

func NewArray() *ArrayValue {
	return &ArrayValue{entries: make(map[string]Value)}
}

func (*ArrayValue) isValue() {}
func (a *ArrayValue) AsBool() bool {
	return a.Len() != 0
}
func (*ArrayValue) String() string   { return "Array" }
func (*ArrayValue) TypeName() string { return "array" }

func (a *ArrayValue) Len() int {
	return len(a.keys)
}

// Append stores v under the array's current length as a decimal string key.
func (a *ArrayValue) Append(v Value) {
	a.Set(strconv.Itoa(a.Len()), v)
}

func (a *ArrayValue) Set(key string, v Value) {
	if _, ok := a.entries[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.entries[key] = v
}

func (a *ArrayValue) Get(key string) (Value, bool) {
	v, ok := a.entries[key]
	return v, ok
}

func (a *ArrayValue) Keys() []string {
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Each visits entries in insertion order.
func (a *ArrayValue) Each(fn func(key string, v Value)) {
	for _, k := range a.keys {
		fn(k, a.entries[k])
	}
}

// KeyOf converts an index value to an array key using the display rule.
func KeyOf(v Value) string {
	return v.String()
}
