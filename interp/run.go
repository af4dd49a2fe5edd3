package interp

import (
	"errors"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/phpvm/vm"
)

// Machine executes a compiled program. It is single-threaded: internal
// functions run inline and nothing suspends the dispatch loop.
type Machine struct {
	// Stdout receives echo output; nil means os.Stdout.
	Stdout io.Writer
	// MaxDepth bounds the call stack; 0 means unlimited.
	MaxDepth int

	program *vm.Program
	globals *vm.Globals
	frames  StackFrames
	staging StackFrames
	log     zerolog.Logger
}

func New(prog *vm.Program, g *vm.Globals) *Machine {
	m := &Machine{
		program: prog,
		globals: g,
		log:     log.With().Str("run", uuid.NewString()).Logger(),
	}
	m.frames.Append(&StackFrame{Code: prog.Main.Bytecode})
	return m
}

func (m *Machine) Globals() *vm.Globals {
	return m.globals
}

func (m *Machine) Output() io.Writer {
	if m.Stdout == nil {
		return os.Stdout
	}
	return m.Stdout
}

// Frames returns the call stack, outermost first.
func (m *Machine) Frames() []*StackFrame {
	return m.frames
}

// Staging returns the frames of calls still being built, outermost first.
func (m *Machine) Staging() []*StackFrame {
	return m.staging
}

// Next returns the instruction the current frame will execute next.
func (m *Machine) Next() (vm.Op, bool) {
	f := m.frames.CurrentStack()
	if f == nil || f.PC >= len(f.Code) {
		return vm.Op{}, false
	}
	return f.Code[f.PC], true
}

// Run executes until the outermost frame finishes or an error aborts the run.
func (m *Machine) Run() error {
	m.log.Debug().Int("ops", len(m.program.Main.Bytecode)).Msg("Run: starting")
	steps := 0
	for {
		done, err := m.Step()
		if err != nil {
			var rerr *vm.RuntimeError
			if errors.As(err, &rerr) {
				m.log.Debug().Str("kind", rerr.Kind.Error()).Str("op", rerr.Op).Int("steps", steps).Msg("Run: fatal error")
			}
			return err
		}
		steps++
		if done {
			m.log.Debug().Int("steps", steps).Msg("Run: finished")
			return nil
		}
	}
}

// RunProgram executes prog against g, writing echo output to out.
func RunProgram(prog *vm.Program, g *vm.Globals, out io.Writer) error {
	m := New(prog, g)
	m.Stdout = out
	return m.Run()
}
