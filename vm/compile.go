package vm

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/phpvm/ast"
	"github.com/timewinder-dev/phpvm/syntax"
)

// compileUnit is the state shared by every scope of one compilation: the
// constant pool, the registry and the program being assembled.
type compileUnit struct {
	globals   *Globals
	program   *Program
	poolIndex map[Value]int
}

// compileContext is one function scope with its own instruction sequence.
type compileContext struct {
	unit *compileUnit
	name string
	ops  []Op

	breakable bool
	breaks    []int
}

func newCompileContext(unit *compileUnit, name string) *compileContext {
	return &compileContext{unit: unit, name: name}
}

func (cc *compileContext) emit(op Opcode) int {
	return cc.emitOp(Op{Code: op})
}

func (cc *compileContext) emitArg(op Opcode, arg int) int {
	return cc.emitOp(Op{Code: op, Arg: arg})
}

func (cc *compileContext) emitName(op Opcode, name string) int {
	return cc.emitOp(Op{Code: op, Name: name})
}

func (cc *compileContext) emitOp(op Op) int {
	cc.ops = append(cc.ops, op)
	return len(cc.ops) - 1
}

// emitJump emits a jump with a placeholder target and returns its position.
func (cc *compileContext) emitJump(op Opcode) int {
	return cc.emitArg(op, -1)
}

// patch points the jump at position to target.
func (cc *compileContext) patch(position, target int) {
	cc.ops[position].Arg = target
}

func (cc *compileContext) here() int {
	return len(cc.ops)
}

func (cc *compileContext) constant(v Value) {
	u := cc.unit
	idx, ok := u.poolIndex[v]
	if !ok {
		idx = len(u.program.Pool)
		u.program.Pool = append(u.program.Pool, v)
		u.poolIndex[v] = idx
	}
	cc.emitArg(CONSTANT, idx)
}

func (cc *compileContext) intoFunction(params []string) (*Function, error) {
	f := &Function{Name: cc.name, Params: params, Bytecode: cc.ops}
	if err := f.Validate(len(cc.unit.program.Pool)); err != nil {
		return nil, err
	}
	log.Debug().Str("function", f.label()).Int("ops", len(f.Bytecode)).Msg("compiled function")
	return f, nil
}

// Compile lowers a parsed program. Function and constant declarations are
// written into g as they are compiled; a nil g gets a fresh registry.
func Compile(stmts []ast.Statement, g *Globals) (*Program, error) {
	if g == nil {
		g = NewGlobals()
	}
	unit := &compileUnit{
		globals: g,
		program: &Program{
			Functions: make(map[string]*Function),
			Constants: make(map[string]Value),
		},
		poolIndex: make(map[Value]int),
	}
	cc := newCompileContext(unit, "")
	if err := cc.buildFromStatements(stmts); err != nil {
		return nil, err
	}
	main, err := cc.intoFunction(nil)
	if err != nil {
		return nil, err
	}
	unit.program.Main = main
	return unit.program, nil
}

func CompileSource(name string, src string, g *Globals) (*Program, error) {
	stmts, err := syntax.Parse(name, src)
	if err != nil {
		return nil, err
	}
	return Compile(stmts, g)
}

func CompilePath(path string, g *Globals) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadFile(path, f, g)
}
