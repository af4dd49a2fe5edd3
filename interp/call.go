package interp

import (
	"github.com/timewinder-dev/phpvm/vm"
)

// Calls are built on a staging stack separate from the call stack. INIT_CALL
// pushes a frame for the callee, SEND_ARG moves argument values from the
// caller onto it, and DO_CALL / DO_INTERNAL_CALL commit it. Arguments are
// sent last to first, so a user function's first parameter is on top of its
// stack when its prologue runs.

func (m *Machine) initCall(name string) error {
	entry, ok := m.globals.Lookup(name)
	if !ok {
		return vm.Errorf(vm.ErrUndefinedFunction, "%s()", name)
	}
	if entry.IsUser() {
		m.staging.Append(&StackFrame{Name: name, Code: entry.User.Bytecode})
	} else {
		m.staging.Append(&StackFrame{Name: name, Internal: entry.Internal})
	}
	m.log.Trace().Str("function", name).Bool("internal", !entry.IsUser()).Int("staging", len(m.staging)).Msg("  INIT_CALL")
	return nil
}

func (m *Machine) sendArg(frame *StackFrame) error {
	target := m.staging.CurrentStack()
	if target == nil {
		return vm.Errorf(vm.ErrStackUnderflow, "no call is being staged")
	}
	v, err := frame.Pop()
	if err != nil {
		return err
	}
	target.Push(v)
	return nil
}

func (m *Machine) popStaged() (*StackFrame, error) {
	if len(m.staging) == 0 {
		return nil, vm.Errorf(vm.ErrStackUnderflow, "no call is being staged")
	}
	return m.staging.PopStack(), nil
}

func (m *Machine) doCall(frame *StackFrame) (StepResult, error) {
	callee, err := m.popStaged()
	if err != nil {
		return ContinueStep, err
	}
	if callee.Internal != nil {
		// The name was rebound to an internal function after compilation.
		return ContinueStep, m.invokeInternal(frame, callee)
	}
	if m.MaxDepth > 0 && len(m.frames) >= m.MaxDepth {
		return ContinueStep, vm.Errorf(vm.ErrCallDepth, "%d frames calling %s()", len(m.frames), callee.Name)
	}
	// The caller resumes after the call once the callee returns.
	frame.PC++
	m.frames.Append(callee)
	m.log.Trace().Str("function", callee.Name).Int("args", len(callee.Stack)).Int("frames", len(m.frames)).Msg("  DO_CALL")
	return CallStep, nil
}

func (m *Machine) doInternalCall(frame *StackFrame) error {
	callee, err := m.popStaged()
	if err != nil {
		return err
	}
	if callee.Internal == nil {
		return vm.Errorf(vm.ErrUndefinedFunction, "%s() is a user function declared after this call", callee.Name)
	}
	return m.invokeInternal(frame, callee)
}

func (m *Machine) invokeInternal(frame *StackFrame, callee *StackFrame) error {
	n := len(callee.Stack)
	args := make([]vm.Value, n)
	for i, v := range callee.Stack {
		args[n-1-i] = v
	}
	result, err := callee.Internal.Callback(m, args)
	if err != nil {
		return err
	}
	if result == nil {
		result = vm.Null
	}
	frame.Push(result)
	m.log.Trace().Str("function", callee.Name).Int("args", n).Str("result", FormatValue(result)).Msg("  internal call")
	return nil
}

// leave pops the current frame and hands v to the caller. Returning from the
// outermost frame ends the program.
func (m *Machine) leave(v vm.Value) StepResult {
	if len(m.frames) == 1 {
		m.log.Trace().Str("value", FormatValue(v)).Msg("  return from main")
		return EndStep
	}
	f := m.frames.PopStack()
	m.frames.CurrentStack().Push(v)
	m.log.Trace().Str("function", f.Name).Str("value", FormatValue(v)).Int("frames", len(m.frames)).Msg("  RETURN")
	return ReturnStep
}
