package ast

import "fmt"

type Statement interface {
	isStatement()
}

type Expression interface {
	isExpression()
}

type Op int

const (
	Add Op = iota
	Subtract
	Multiply
	Divide
	LessThan
	GreaterThan
	Concat
)

func (o Op) String() string {
	switch o {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	case LessThan:
		return "<"
	case GreaterThan:
		return ">"
	case Concat:
		return "."
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Statements

type Echo struct {
	Value Expression
}

type ExpressionStmt struct {
	Value Expression
}

type IfElse struct {
	Cond Expression
	Then []Statement
	Else []Statement
}

type While struct {
	Cond Expression
	Body []Statement
}

// For holds the three clauses of a C-style loop. A nil Cond loops until a break.
type For struct {
	Init []Expression
	Cond Expression
	Step []Expression
	Body []Statement
}

type Function struct {
	Name   string
	Params []string
	Body   []Statement
}

// Return with a nil Value is a bare `return;`.
type Return struct {
	Value Expression
}

type Const struct {
	Name  string
	Value Expression
}

type Break struct{}

func (Echo) isStatement()           {}
func (ExpressionStmt) isStatement() {}
func (IfElse) isStatement()         {}
func (While) isStatement()          {}
func (For) isStatement()            {}
func (Function) isStatement()       {}
func (Return) isStatement()         {}
func (Const) isStatement()          {}
func (Break) isStatement()          {}

// Expressions

type String struct {
	Value string
}

type Integer struct {
	Value int64
}

type Float struct {
	Value float64
}

type True struct{}

type False struct{}

type Null struct{}

// Variable is a `$name` reference; Name excludes the sigil.
type Variable struct {
	Name string
}

// Identifier is a bare name: a function name in a call, or a named constant.
type Identifier struct {
	Name string
}

type Infix struct {
	Left  Expression
	Op    Op
	Right Expression
}

type Assign struct {
	Target Expression
	Value  Expression
}

type Call struct {
	Callee Expression
	Args   []Expression
}

type Index struct {
	Target Expression
	Index  Expression
}

type Array struct {
	Items []Expression
}

func (String) isExpression()     {}
func (Integer) isExpression()    {}
func (Float) isExpression()      {}
func (True) isExpression()       {}
func (False) isExpression()      {}
func (Null) isExpression()       {}
func (Variable) isExpression()   {}
func (Identifier) isExpression() {}
func (Infix) isExpression()      {}
func (Assign) isExpression()     {}
func (Call) isExpression()       {}
func (Index) isExpression()      {}
func (Array) isExpression()      {}
