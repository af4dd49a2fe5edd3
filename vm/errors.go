package vm

import (
	"errors"
	"fmt"
)

// Compile-time error kinds.
var (
	ErrInvalidBreak        = errors.New("invalid break scope")
	ErrInvalidAssignTarget = errors.New("invalid assignment target")
	ErrUnsupported         = errors.New("unsupported syntax")
)

// Runtime error kinds. Every runtime failure aborts the whole run.
var (
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrUndefinedFunction = errors.New("undefined function")
	ErrUndefinedConstant = errors.New("undefined constant")
	ErrUndefinedKey      = errors.New("undefined array key")
	ErrStackUnderflow    = errors.New("stack underflow")
	ErrType              = errors.New("type error")
	ErrArity             = errors.New("wrong number of arguments")
	ErrDivisionByZero    = errors.New("division by zero")
	ErrCallDepth         = errors.New("maximum call depth exceeded")
)

// CompileError is returned for programs the compiler cannot lower.
// errors.Is matches it against its Kind.
type CompileError struct {
	Kind   error
	Detail string
}

func (e *CompileError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("compile error: %s", e.Kind)
	}
	return fmt.Sprintf("compile error: %s: %s", e.Kind, e.Detail)
}

func (e *CompileError) Unwrap() error {
	return e.Kind
}

func compileErrorf(kind error, format string, args ...any) *CompileError {
	return &CompileError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// RuntimeError is the single fatal error type raised by the machine and by
// internal functions. Op names the instruction or function that failed.
type RuntimeError struct {
	Kind   error
	Op     string
	Detail string
}

func (e *RuntimeError) Error() string {
	msg := e.Kind.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Op != "" {
		msg += " (in " + e.Op + ")"
	}
	return msg
}

func (e *RuntimeError) Unwrap() error {
	return e.Kind
}

func Errorf(kind error, format string, args ...any) *RuntimeError {
	return &RuntimeError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
