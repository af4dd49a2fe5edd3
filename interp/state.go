package interp

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/timewinder-dev/phpvm/vm"
)

func (f *StackFrame) Pop() (vm.Value, error) {
	if len(f.Stack) == 0 {
		return nil, vm.Errorf(vm.ErrStackUnderflow, "empty operand stack in %s", f.label())
	}
	v := f.Stack[len(f.Stack)-1]
	f.Stack = f.Stack[:len(f.Stack)-1]
	return v, nil
}

// pop2 pops the right operand, then the left one.
func (f *StackFrame) pop2() (vm.Value, vm.Value, error) {
	b, err := f.Pop()
	if err != nil {
		return nil, nil, err
	}
	a, err := f.Pop()
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func (f *StackFrame) Push(v vm.Value) {
	f.Stack = append(f.Stack, v)
}

func (f *StackFrame) StoreVar(key string, value vm.Value) {
	if f.Variables == nil {
		f.Variables = make(map[string]vm.Value)
	}
	f.Variables[key] = value
}

func (f *StackFrame) Has(key string) bool {
	if f.Variables == nil {
		return false
	}
	_, ok := f.Variables[key]
	return ok
}

func (f *StackFrame) LoadVar(key string) (vm.Value, error) {
	v, ok := f.Variables[key]
	if !ok {
		return nil, vm.Errorf(vm.ErrUndefinedVariable, "$%s", key)
	}
	return v, nil
}

// FormatValue formats a value for debugging output: strings quoted, arrays
// expanded inline.
func FormatValue(v vm.Value) string {
	switch val := v.(type) {
	case vm.StrValue:
		return fmt.Sprintf("%q", string(val))
	case vm.BoolValue:
		if val {
			return "true"
		}
		return "false"
	case vm.NullValue:
		return "null"
	case *vm.ArrayValue:
		var parts []string
		val.Each(func(k string, item vm.Value) {
			parts = append(parts, fmt.Sprintf("%s => %s", k, FormatValue(item)))
		})
		return "[" + strings.Join(parts, ", ") + "]"
	case nil:
		return "<nil>"
	}
	return v.String()
}

func FormatStack(stack []vm.Value) string {
	parts := make([]string, len(stack))
	for i, v := range stack {
		parts[i] = FormatValue(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func FormatVariables(vars map[string]vm.Value) string {
	keys := slices.Sorted(maps.Keys(vars))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("$%s = %s", k, FormatValue(vars[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
