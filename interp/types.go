package interp

import (
	"fmt"

	"github.com/timewinder-dev/phpvm/vm"
)

// StackFrame is one activation: the code it runs, its instruction pointer,
// flat function-scoped variables and a private operand stack. A frame staged
// for an internal function carries Internal and no code.
type StackFrame struct {
	Name      string
	Code      []vm.Op
	PC        int
	Variables map[string]vm.Value
	Stack     []vm.Value
	Internal  *vm.InternalFunction
}

func (f *StackFrame) label() string {
	if f.Name == "" {
		return "main"
	}
	return f.Name
}

func (f *StackFrame) String() string {
	return fmt.Sprintf("%s:%03d", f.label(), f.PC)
}

type StackFrames []*StackFrame

func (s *StackFrames) PopStack() *StackFrame {
	f := s.CurrentStack()
	*s = (*s)[:len(*s)-1]
	return f
}

func (s *StackFrames) Append(f *StackFrame) {
	*s = append(*s, f)
}

func (s StackFrames) CurrentStack() *StackFrame {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

type StepResult int

const (
	ContinueStep StepResult = iota // advance the instruction pointer
	JumpStep                       // the instruction set the pointer itself
	CallStep                       // a new frame became current
	ReturnStep                     // the current frame returned to its caller
	EndStep                        // the outermost frame finished
)

func (r StepResult) String() string {
	switch r {
	case ContinueStep:
		return "Continue"
	case JumpStep:
		return "Jump"
	case CallStep:
		return "Call"
	case ReturnStep:
		return "Return"
	case EndStep:
		return "End"
	default:
		return fmt.Sprintf("Unknown(%d)", int(r))
	}
}
