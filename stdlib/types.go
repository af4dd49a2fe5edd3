package stdlib

import (
	"math"
	"strconv"
	"strings"

	"github.com/timewinder-dev/phpvm/vm"
)

func isString(_ vm.Host, args []vm.Value) (vm.Value, error) {
	if err := arity("is_string", args, 1); err != nil {
		return nil, err
	}
	_, ok := args[0].(vm.StrValue)
	return vm.FromBool(ok), nil
}

func isArray(_ vm.Host, args []vm.Value) (vm.Value, error) {
	if err := arity("is_array", args, 1); err != nil {
		return nil, err
	}
	_, ok := args[0].(*vm.ArrayValue)
	return vm.FromBool(ok), nil
}

func strval(_ vm.Host, args []vm.Value) (vm.Value, error) {
	if err := arity("strval", args, 1); err != nil {
		return nil, err
	}
	return vm.StrValue(args[0].String()), nil
}

func intval(_ vm.Host, args []vm.Value) (vm.Value, error) {
	if err := arity("intval", args, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case vm.IntValue:
		return v, nil
	case vm.FloatValue:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return vm.IntValue(0), nil
		}
		return vm.IntValue(int64(f)), nil
	case vm.BoolValue:
		if v {
			return vm.IntValue(1), nil
		}
		return vm.IntValue(0), nil
	case vm.NullValue:
		return vm.IntValue(0), nil
	case vm.StrValue:
		return vm.IntValue(leadingInt(string(v))), nil
	case *vm.ArrayValue:
		if v.Len() == 0 {
			return vm.IntValue(0), nil
		}
		return vm.IntValue(1), nil
	}
	return nil, vm.Errorf(vm.ErrType, "intval(): unsupported %s", args[0].TypeName())
}

// leadingInt parses the optional sign and digits at the start of s, ignoring
// leading whitespace and anything after the digits. Out-of-range values
// saturate.
func leadingInt(s string) int64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		if s[0] == '-' {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	return n
}
