package interp

import (
	"github.com/timewinder-dev/phpvm/vm"
)

func binaryOp(op vm.Opcode, a, b vm.Value) (vm.Value, error) {
	switch op {
	case vm.CONCAT:
		return vm.StrValue(a.String() + b.String()), nil
	case vm.LESS_THAN, vm.GREATER_THAN:
		return compare(op, a, b)
	}
	return numericOp(op, a, b)
}

func numericOp(op vm.Opcode, a, b vm.Value) (vm.Value, error) {
	switch av := a.(type) {
	case vm.IntValue:
		switch bv := b.(type) {
		case vm.IntValue:
			return intOp(op, int64(av), int64(bv))
		case vm.FloatValue:
			return floatOp(op, float64(av), float64(bv))
		}
	case vm.FloatValue:
		switch bv := b.(type) {
		case vm.IntValue:
			return floatOp(op, float64(av), float64(bv))
		case vm.FloatValue:
			return floatOp(op, float64(av), float64(bv))
		}
	}
	return nil, vm.Errorf(vm.ErrType, "unsupported operand types for %s: %s and %s", op, a.TypeName(), b.TypeName())
}

func floatOp(op vm.Opcode, a, b float64) (vm.Value, error) {
	switch op {
	case vm.ADD:
		return vm.FloatValue(a + b), nil
	case vm.SUBTRACT:
		return vm.FloatValue(a - b), nil
	case vm.MULTIPLY:
		return vm.FloatValue(a * b), nil
	case vm.DIVIDE:
		if b == 0 {
			return nil, vm.Errorf(vm.ErrDivisionByZero, "%s / 0", vm.FloatValue(a))
		}
		return vm.FloatValue(a / b), nil
	}
	panic("Unhandled floatOp code")
}

// intOp keeps integer results except for division, which always yields a float.
func intOp(op vm.Opcode, a, b int64) (vm.Value, error) {
	switch op {
	case vm.ADD:
		return vm.IntValue(a + b), nil
	case vm.SUBTRACT:
		return vm.IntValue(a - b), nil
	case vm.MULTIPLY:
		return vm.IntValue(a * b), nil
	case vm.DIVIDE:
		return floatOp(op, float64(a), float64(b))
	}
	panic("Unhandled intOp code")
}

func compare(op vm.Opcode, a, b vm.Value) (vm.Value, error) {
	if as, ok := a.(vm.StrValue); ok {
		if bs, ok := b.(vm.StrValue); ok {
			if op == vm.LESS_THAN {
				return vm.FromBool(as < bs), nil
			}
			return vm.FromBool(as > bs), nil
		}
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return nil, vm.Errorf(vm.ErrType, "cannot compare %s and %s", a.TypeName(), b.TypeName())
	}
	// Large int64 values lose precision as floats; compare them directly.
	if ai, ok := a.(vm.IntValue); ok {
		if bi, ok := b.(vm.IntValue); ok {
			if op == vm.LESS_THAN {
				return vm.FromBool(ai < bi), nil
			}
			return vm.FromBool(ai > bi), nil
		}
	}
	if op == vm.LESS_THAN {
		return vm.FromBool(af < bf), nil
	}
	return vm.FromBool(af > bf), nil
}

func toFloat(v vm.Value) (float64, bool) {
	switch n := v.(type) {
	case vm.IntValue:
		return float64(n), true
	case vm.FloatValue:
		return float64(n), true
	}
	return 0, false
}
