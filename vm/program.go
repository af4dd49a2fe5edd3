package vm

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/shamaton/msgpack/v2"
)

// FormatVersion is bumped whenever the serialized program layout or the
// meaning of an opcode changes, so stale caches are never executed.
const FormatVersion = 1

type Op struct {
	Code Opcode
	Arg  int
	Name string
}

func (o Op) String() string {
	switch {
	case o.Code.HasName():
		return fmt.Sprintf("%s %s", o.Code, o.Name)
	case o.Code.IsJump(), o.Code == CONSTANT:
		return fmt.Sprintf("%s %d", o.Code, o.Arg)
	}
	return o.Code.String()
}

type Function struct {
	Name     string
	Params   []string
	Bytecode []Op
}

// Validate checks that every jump lands inside the function (the end offset
// included) and every constant index is in the pool.
func (f *Function) Validate(poolSize int) error {
	for i, op := range f.Bytecode {
		if op.Code.IsJump() && (op.Arg < 0 || op.Arg > len(f.Bytecode)) {
			return fmt.Errorf("%s: %03d: jump target %d out of range", f.label(), i, op.Arg)
		}
		if op.Code == CONSTANT && (op.Arg < 0 || op.Arg >= poolSize) {
			return fmt.Errorf("%s: %03d: constant %d out of range", f.label(), i, op.Arg)
		}
	}
	return nil
}

func (f *Function) label() string {
	if f.Name == "" {
		return "main"
	}
	return f.Name
}

type Program struct {
	Pool      []Value
	Main      *Function
	Functions map[string]*Function
	Constants map[string]Value
}

func (p *Program) DebugPrint(w io.Writer) {
	names := p.functionNames()
	fmt.Fprintln(w, "*** main")
	p.printFunction(w, p.Main)
	for _, name := range names {
		f := p.Functions[name]
		fmt.Fprintf(w, "*** function %s(%s)\n", name, formatParams(f.Params))
		p.printFunction(w, f)
	}
	if len(p.Constants) != 0 {
		fmt.Fprintln(w, "*** constants")
		keys := make([]string, 0, len(p.Constants))
		for k := range p.Constants {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s = %s\n", k, debugValue(p.Constants[k]))
		}
	}
}

func (p *Program) printFunction(w io.Writer, f *Function) {
	for i, op := range f.Bytecode {
		if op.Code == CONSTANT && op.Arg < len(p.Pool) {
			fmt.Fprintf(w, "  %03d: %s ; %s\n", i, op, debugValue(p.Pool[op.Arg]))
			continue
		}
		fmt.Fprintf(w, "  %03d: %s\n", i, op)
	}
}

func (p *Program) functionNames() []string {
	names := make([]string, 0, len(p.Functions))
	for name := range p.Functions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func formatParams(params []string) string {
	out := ""
	for i, p := range params {
		if i > 0 {
			out += ", "
		}
		out += "$" + p
	}
	return out
}

func debugValue(v Value) string {
	switch x := v.(type) {
	case StrValue:
		return strconv.Quote(string(x))
	case BoolValue:
		return strconv.FormatBool(bool(x))
	case NullValue:
		return "null"
	}
	return v.String()
}

// Install registers the program's user functions and compile-time constants.
func (p *Program) Install(g *Globals) {
	for _, name := range p.functionNames() {
		g.DefineUser(p.Functions[name])
	}
	for k, v := range p.Constants {
		g.DefineConstant(k, v)
	}
}

const (
	wireNull uint8 = iota
	wireTrue
	wireFalse
	wireString
	wireInt
	wireFloat
)

type wireValue struct {
	Kind  uint8
	Str   string
	Int   int64
	Float float64
}

type wireProgram struct {
	Version   int
	Pool      []wireValue
	Main      *Function
	Functions []*Function
	Constants map[string]wireValue
}

func toWire(v Value) (wireValue, error) {
	switch x := v.(type) {
	case NullValue:
		return wireValue{Kind: wireNull}, nil
	case BoolValue:
		if x {
			return wireValue{Kind: wireTrue}, nil
		}
		return wireValue{Kind: wireFalse}, nil
	case StrValue:
		return wireValue{Kind: wireString, Str: string(x)}, nil
	case IntValue:
		return wireValue{Kind: wireInt, Int: int64(x)}, nil
	case FloatValue:
		return wireValue{Kind: wireFloat, Float: float64(x)}, nil
	}
	return wireValue{}, fmt.Errorf("cannot serialize %s constant", v.TypeName())
}

func fromWire(w wireValue) (Value, error) {
	switch w.Kind {
	case wireNull:
		return Null, nil
	case wireTrue:
		return True, nil
	case wireFalse:
		return False, nil
	case wireString:
		return StrValue(w.Str), nil
	case wireInt:
		return IntValue(w.Int), nil
	case wireFloat:
		return FloatValue(w.Float), nil
	}
	return nil, fmt.Errorf("unknown serialized value kind %d", w.Kind)
}

func (p *Program) Serialize(w io.Writer) error {
	out := wireProgram{
		Version:   FormatVersion,
		Main:      p.Main,
		Constants: make(map[string]wireValue, len(p.Constants)),
	}
	for _, v := range p.Pool {
		wv, err := toWire(v)
		if err != nil {
			return err
		}
		out.Pool = append(out.Pool, wv)
	}
	for _, name := range p.functionNames() {
		out.Functions = append(out.Functions, p.Functions[name])
	}
	for k, v := range p.Constants {
		wv, err := toWire(v)
		if err != nil {
			return err
		}
		out.Constants[k] = wv
	}
	return msgpack.MarshalWrite(w, out)
}

func (p *Program) Deserialize(r io.Reader) error {
	var in wireProgram
	if err := msgpack.UnmarshalRead(r, &in); err != nil {
		return err
	}
	if in.Version != FormatVersion {
		return fmt.Errorf("bytecode format version %d, expected %d", in.Version, FormatVersion)
	}
	if in.Main == nil {
		return fmt.Errorf("serialized program has no main function")
	}
	out := Program{
		Main:      in.Main,
		Functions: make(map[string]*Function, len(in.Functions)),
		Constants: make(map[string]Value, len(in.Constants)),
	}
	for _, wv := range in.Pool {
		v, err := fromWire(wv)
		if err != nil {
			return err
		}
		out.Pool = append(out.Pool, v)
	}
	for _, f := range in.Functions {
		out.Functions[f.Name] = f
	}
	for k, wv := range in.Constants {
		v, err := fromWire(wv)
		if err != nil {
			return err
		}
		out.Constants[k] = v
	}
	if err := out.Main.Validate(len(out.Pool)); err != nil {
		return err
	}
	for _, f := range out.Functions {
		if err := f.Validate(len(out.Pool)); err != nil {
			return err
		}
	}
	*p = out
	return nil
}
