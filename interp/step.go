package interp

import (
	"errors"
	"fmt"
	"io"

	"github.com/timewinder-dev/phpvm/vm"
)

// Step executes exactly one instruction and reports whether the program has
// finished.
func (m *Machine) Step() (bool, error) {
	frame := m.frames.CurrentStack()
	if frame == nil {
		return true, nil
	}
	if frame.PC >= len(frame.Code) {
		if len(m.frames) == 1 {
			m.log.Trace().Str("pc", frame.String()).Msg("Step: end of code")
			return true, nil
		}
		// Bodies normally end in RETURN; running off the end returns null.
		m.log.Trace().Str("pc", frame.String()).Msg("Step: end of function")
		res := m.leave(vm.Null)
		return res == EndStep, nil
	}
	inst := frame.Code[frame.PC]

	m.log.Trace().
		Str("opcode", inst.Code.String()).
		Str("pc", frame.String()).
		Int("arg", inst.Arg).
		Str("name", inst.Name).
		Int("stack_depth", len(frame.Stack)).
		Int("frames", len(m.frames)).
		Int("staging", len(m.staging)).
		Msg("Step: executing instruction")

	res, err := m.exec(frame, inst)
	if err != nil {
		return false, annotate(err, frame, inst)
	}
	switch res {
	case ContinueStep:
		frame.PC++
	case EndStep:
		return true, nil
	}
	return false, nil
}

// annotate attaches the failing instruction to a runtime error, converting
// foreign errors from internal functions into *vm.RuntimeError.
func annotate(err error, frame *StackFrame, inst vm.Op) error {
	var rerr *vm.RuntimeError
	if !errors.As(err, &rerr) {
		rerr = &vm.RuntimeError{Kind: err}
	}
	if rerr.Op == "" {
		rerr.Op = fmt.Sprintf("%s at %s", inst, frame)
	}
	return rerr
}

func (m *Machine) exec(frame *StackFrame, inst vm.Op) (StepResult, error) {
	switch inst.Code {
	case vm.NOP:
	case vm.CONSTANT:
		if inst.Arg < 0 || inst.Arg >= len(m.program.Pool) {
			return ContinueStep, vm.Errorf(vm.ErrType, "constant index %d out of range", inst.Arg)
		}
		frame.Push(m.program.Pool[inst.Arg])
	case vm.TRUE:
		frame.Push(vm.True)
	case vm.FALSE:
		frame.Push(vm.False)
	case vm.NULL:
		frame.Push(vm.Null)
	case vm.ECHO:
		v, err := frame.Pop()
		if err != nil {
			return ContinueStep, err
		}
		if _, err := io.WriteString(m.Output(), v.String()); err != nil {
			return ContinueStep, fmt.Errorf("writing output: %w", err)
		}
		m.log.Trace().Str("value", FormatValue(v)).Msg("  ECHO")
	case vm.POP:
		if _, err := frame.Pop(); err != nil {
			return ContinueStep, err
		}
	case vm.ADD, vm.SUBTRACT, vm.MULTIPLY, vm.DIVIDE, vm.LESS_THAN, vm.GREATER_THAN, vm.CONCAT:
		a, b, err := frame.pop2()
		if err != nil {
			return ContinueStep, err
		}
		v, err := binaryOp(inst.Code, a, b)
		if err != nil {
			return ContinueStep, err
		}
		frame.Push(v)
		m.log.Trace().Str("a", FormatValue(a)).Str("b", FormatValue(b)).Str("result", FormatValue(v)).Msg("  BINARY_OP")
	case vm.JUMP:
		m.log.Trace().Str("from", frame.String()).Int("to", inst.Arg).Msg("  JUMP")
		frame.PC = inst.Arg
		return JumpStep, nil
	case vm.JUMP_IF_FALSE, vm.JUMP_IF_TRUE:
		cond, err := frame.Pop()
		if err != nil {
			return ContinueStep, err
		}
		if cond.AsBool() == (inst.Code == vm.JUMP_IF_TRUE) {
			m.log.Trace().Str("condition", FormatValue(cond)).Str("from", frame.String()).Int("to", inst.Arg).Msg("  conditional jump: jumping")
			frame.PC = inst.Arg
			return JumpStep, nil
		}
		m.log.Trace().Str("condition", FormatValue(cond)).Msg("  conditional jump: not jumping")
	case vm.ASSIGN:
		v, err := frame.Pop()
		if err != nil {
			return ContinueStep, err
		}
		frame.StoreVar(inst.Name, v)
		frame.Push(v)
		m.log.Trace().Str("variable", inst.Name).Str("value", FormatValue(v)).Msg("  ASSIGN")
	case vm.GET:
		v, err := frame.LoadVar(inst.Name)
		if err != nil {
			return ContinueStep, err
		}
		frame.Push(v)
	case vm.GET_CONSTANT:
		v, ok := m.globals.Constant(inst.Name)
		if !ok {
			return ContinueStep, vm.Errorf(vm.ErrUndefinedConstant, "%s", inst.Name)
		}
		frame.Push(v)
	case vm.INIT_CALL:
		return ContinueStep, m.initCall(inst.Name)
	case vm.SEND_ARG:
		return ContinueStep, m.sendArg(frame)
	case vm.DO_CALL:
		return m.doCall(frame)
	case vm.DO_INTERNAL_CALL:
		return ContinueStep, m.doInternalCall(frame)
	case vm.RETURN:
		return m.leave(vm.Null), nil
	case vm.RETURN_VALUE:
		v, err := frame.Pop()
		if err != nil {
			return ContinueStep, err
		}
		return m.leave(v), nil
	case vm.NEW_ARRAY:
		frame.Push(vm.NewArray())
	case vm.APPEND:
		arrVal, v, err := frame.pop2()
		if err != nil {
			return ContinueStep, err
		}
		arr, ok := arrVal.(*vm.ArrayValue)
		if !ok {
			return ContinueStep, vm.Errorf(vm.ErrType, "cannot append to %s", arrVal.TypeName())
		}
		arr.Append(v)
		frame.Push(arr)
	case vm.INDEX:
		arrVal, key, err := frame.pop2()
		if err != nil {
			return ContinueStep, err
		}
		arr, ok := arrVal.(*vm.ArrayValue)
		if !ok {
			return ContinueStep, vm.Errorf(vm.ErrType, "cannot index %s", arrVal.TypeName())
		}
		k := vm.KeyOf(key)
		v, ok := arr.Get(k)
		if !ok {
			return ContinueStep, vm.Errorf(vm.ErrUndefinedKey, "%q", k)
		}
		frame.Push(v)
	default:
		return ContinueStep, vm.Errorf(vm.ErrType, "unhandled instruction %s", inst.Code)
	}
	return ContinueStep, nil
}
