package vm

import (
	"io"
	"slices"
	"sync"
)

// Host is the handle internal functions receive from the running machine.
type Host interface {
	Globals() *Globals
	Output() io.Writer
}

// InternalFunc is a host-provided callback. Arguments arrive in declaration
// order. Failures should be *RuntimeError values; they abort the run.
type InternalFunc func(h Host, args []Value) (Value, error)

type InternalFunction struct {
	Name     string
	Callback InternalFunc
}

// FunctionEntry is exactly one of a user function or an internal function.
type FunctionEntry struct {
	User     *Function
	Internal *InternalFunction
}

func (e *FunctionEntry) IsUser() bool {
	return e.User != nil
}

// Globals is the registry of functions and named constants shared by the
// compiler and the machine. A name maps to one entry; the last write wins.
type Globals struct {
	mu        sync.RWMutex
	functions map[string]*FunctionEntry
	constants map[string]Value
}

func NewGlobals() *Globals {
	return &Globals{
		functions: make(map[string]*FunctionEntry),
		constants: make(map[string]Value),
	}
}

// DeclareUser registers name as a user function with an empty body, so calls
// compiled before the body is finished dispatch as user calls.
func (g *Globals) DeclareUser(name string) {
	g.DefineUser(&Function{Name: name})
}

func (g *Globals) DefineUser(fn *Function) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.functions[fn.Name] = &FunctionEntry{User: fn}
}

func (g *Globals) DefineInternal(name string, cb InternalFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.functions[name] = &FunctionEntry{Internal: &InternalFunction{Name: name, Callback: cb}}
}

func (g *Globals) Lookup(name string) (*FunctionEntry, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.functions[name]
	return e, ok
}

func (g *Globals) IsUserFunction(name string) bool {
	e, ok := g.Lookup(name)
	return ok && e.IsUser()
}

func (g *Globals) DefineConstant(name string, v Value) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.constants[name] = v
}

func (g *Globals) Constant(name string) (Value, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.constants[name]
	return v, ok
}

// UserFunctions returns the sorted names of all user functions.
func (g *Globals) UserFunctions() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []string
	for name, e := range g.functions {
		if e.IsUser() {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

func (g *Globals) ConstantNames() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(g.constants))
	for name := range g.constants {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
