package vm

import (
	"github.com/timewinder-dev/phpvm/ast"
)

func (cc *compileContext) buildFromStatements(stmts []ast.Statement) error {
	for _, s := range stmts {
		err := cc.statement(s)
		if err != nil {
			return err
		}
	}
	return nil
}

func (cc *compileContext) statement(s ast.Statement) error {
	switch v := s.(type) {
	case ast.Echo:
		err := cc.expr(v.Value)
		if err != nil {
			return err
		}
		cc.emit(ECHO)
	case ast.ExpressionStmt:
		err := cc.expr(v.Value)
		if err != nil {
			return err
		}
		// Every expression leaves exactly one value, assignments included.
		cc.emit(POP)
	case ast.IfElse:
		err := cc.expr(v.Cond)
		if err != nil {
			return err
		}
		jumpIfNot := cc.emitJump(JUMP_IF_FALSE)
		err = cc.buildFromStatements(v.Then)
		if err != nil {
			return err
		}
		if len(v.Else) == 0 {
			cc.patch(jumpIfNot, cc.here())
			return nil
		}
		jumpEnd := cc.emitJump(JUMP)
		cc.patch(jumpIfNot, cc.here())
		err = cc.buildFromStatements(v.Else)
		if err != nil {
			return err
		}
		cc.patch(jumpEnd, cc.here())
	case ast.While:
		// Test at the bottom:
		//   JUMP cond
		// body:
		//   <body>
		// cond:
		//   <cond>
		//   JUMP_IF_TRUE body
		// end:
		jumpCond := cc.emitJump(JUMP)
		bodyStart := cc.here()
		saved := cc.enterLoop()
		err := cc.buildFromStatements(v.Body)
		if err != nil {
			return err
		}
		cc.patch(jumpCond, cc.here())
		err = cc.expr(v.Cond)
		if err != nil {
			return err
		}
		cc.emitArg(JUMP_IF_TRUE, bodyStart)
		cc.exitLoop(saved)
	case ast.For:
		for _, e := range v.Init {
			err := cc.expr(e)
			if err != nil {
				return err
			}
			cc.emit(POP)
		}
		jumpCond := cc.emitJump(JUMP)
		bodyStart := cc.here()
		saved := cc.enterLoop()
		err := cc.buildFromStatements(v.Body)
		if err != nil {
			return err
		}
		for _, e := range v.Step {
			err := cc.expr(e)
			if err != nil {
				return err
			}
			cc.emit(POP)
		}
		cc.patch(jumpCond, cc.here())
		if v.Cond == nil {
			cc.emit(TRUE)
		} else {
			err = cc.expr(v.Cond)
			if err != nil {
				return err
			}
		}
		cc.emitArg(JUMP_IF_TRUE, bodyStart)
		cc.exitLoop(saved)
	case ast.Break:
		if !cc.breakable {
			return compileErrorf(ErrInvalidBreak, "break outside of a loop")
		}
		cc.breaks = append(cc.breaks, cc.emitJump(JUMP))
	case ast.Function:
		return cc.function(v)
	case ast.Return:
		if v.Value == nil {
			cc.emit(RETURN)
			return nil
		}
		err := cc.expr(v.Value)
		if err != nil {
			return err
		}
		cc.emit(RETURN_VALUE)
	case ast.Const:
		val, ok := cc.constValue(v.Value)
		if !ok {
			return compileErrorf(ErrUnsupported, "value of constant %s is not a constant expression", v.Name)
		}
		cc.unit.globals.DefineConstant(v.Name, val)
		cc.unit.program.Constants[v.Name] = val
	default:
		return compileErrorf(ErrUnsupported, "unhandled statement type %T", s)
	}
	return nil
}

type loopState struct {
	breakable bool
	breaks    []int
}

// enterLoop opens a breakable scope, saving the enclosing loop's pending breaks
// so they are not patched to this loop's exit.
func (cc *compileContext) enterLoop() loopState {
	saved := loopState{breakable: cc.breakable, breaks: cc.breaks}
	cc.breakable = true
	cc.breaks = nil
	return saved
}

// exitLoop patches the pending breaks to the current position and restores the
// enclosing scope.
func (cc *compileContext) exitLoop(saved loopState) {
	after := cc.here()
	for _, pos := range cc.breaks {
		cc.patch(pos, after)
	}
	cc.breakable = saved.breakable
	cc.breaks = saved.breaks
}

func (cc *compileContext) function(v ast.Function) error {
	// Declared before the body so recursive calls compile as user calls.
	cc.unit.globals.DeclareUser(v.Name)
	sub := newCompileContext(cc.unit, v.Name)
	// Arguments are staged in reverse, so the first parameter is on top.
	for _, p := range v.Params {
		sub.emitName(ASSIGN, p)
		sub.emit(POP)
	}
	err := sub.buildFromStatements(v.Body)
	if err != nil {
		return err
	}
	if sub.needsEpilogue() {
		sub.emit(NULL)
		sub.emit(RETURN)
	}
	f, err := sub.intoFunction(v.Params)
	if err != nil {
		return err
	}
	cc.unit.globals.DefineUser(f)
	cc.unit.program.Functions[v.Name] = f
	return nil
}

// needsEpilogue reports whether control can reach the end of the body: it is
// empty, does not end in a return, or some jump targets the end.
func (cc *compileContext) needsEpilogue() bool {
	n := len(cc.ops)
	if n == 0 {
		return true
	}
	if last := cc.ops[n-1].Code; last != RETURN && last != RETURN_VALUE {
		return true
	}
	for _, op := range cc.ops {
		if op.Code.IsJump() && op.Arg == n {
			return true
		}
	}
	return false
}

func (cc *compileContext) expr(e ast.Expression) error {
	switch v := e.(type) {
	case ast.String:
		cc.constant(StrValue(v.Value))
	case ast.Integer:
		cc.constant(IntValue(v.Value))
	case ast.Float:
		cc.constant(FloatValue(v.Value))
	case ast.True:
		cc.emit(TRUE)
	case ast.False:
		cc.emit(FALSE)
	case ast.Null:
		cc.emit(NULL)
	case ast.Variable:
		cc.emitName(GET, v.Name)
	case ast.Identifier:
		cc.emitName(GET_CONSTANT, v.Name)
	case ast.Infix:
		return cc.infix(v)
	case ast.Assign:
		target, ok := v.Target.(ast.Variable)
		if !ok {
			return compileErrorf(ErrInvalidAssignTarget, "cannot assign to %T", v.Target)
		}
		err := cc.expr(v.Value)
		if err != nil {
			return err
		}
		cc.emitName(ASSIGN, target.Name)
	case ast.Call:
		return cc.call(v)
	case ast.Index:
		err := cc.expr(v.Target)
		if err != nil {
			return err
		}
		err = cc.expr(v.Index)
		if err != nil {
			return err
		}
		cc.emit(INDEX)
	case ast.Array:
		cc.emit(NEW_ARRAY)
		for _, item := range v.Items {
			err := cc.expr(item)
			if err != nil {
				return err
			}
			cc.emit(APPEND)
		}
	default:
		return compileErrorf(ErrUnsupported, "unhandled expression type %T", e)
	}
	return nil
}

func (cc *compileContext) infix(v ast.Infix) error {
	if folded, ok := foldInfix(v); ok {
		cc.constant(folded)
		return nil
	}
	err := cc.expr(v.Left)
	if err != nil {
		return err
	}
	err = cc.expr(v.Right)
	if err != nil {
		return err
	}
	return cc.binOp(v.Op)
}

func (cc *compileContext) binOp(op ast.Op) error {
	switch op {
	case ast.Add:
		cc.emit(ADD)
	case ast.Subtract:
		cc.emit(SUBTRACT)
	case ast.Multiply:
		cc.emit(MULTIPLY)
	case ast.Divide:
		cc.emit(DIVIDE)
	case ast.LessThan:
		cc.emit(LESS_THAN)
	case ast.GreaterThan:
		cc.emit(GREATER_THAN)
	case ast.Concat:
		cc.emit(CONCAT)
	default:
		return compileErrorf(ErrUnsupported, "unhandled binary operation %s", op)
	}
	return nil
}

// call stages the arguments last to first. The dispatch kind is fixed here
// from what the registry knows now: a user function declared further down
// the file compiles as an internal call.
func (cc *compileContext) call(v ast.Call) error {
	callee, ok := v.Callee.(ast.Identifier)
	if !ok {
		return compileErrorf(ErrUnsupported, "cannot call %T", v.Callee)
	}
	cc.emitName(INIT_CALL, callee.Name)
	for i := len(v.Args) - 1; i >= 0; i-- {
		err := cc.expr(v.Args[i])
		if err != nil {
			return err
		}
		cc.emit(SEND_ARG)
	}
	if cc.unit.globals.IsUserFunction(callee.Name) {
		cc.emit(DO_CALL)
	} else {
		cc.emit(DO_INTERNAL_CALL)
	}
	return nil
}

// foldInfix evaluates arithmetic on two numeric literals. Comparisons and
// concatenation are never folded, nor is division by a literal zero.
func foldInfix(v ast.Infix) (Value, bool) {
	switch v.Op {
	case ast.Add, ast.Subtract, ast.Multiply, ast.Divide:
	default:
		return nil, false
	}
	l, lok := literalNumber(v.Left)
	r, rok := literalNumber(v.Right)
	if !lok || !rok {
		return nil, false
	}
	li, lInt := l.(IntValue)
	ri, rInt := r.(IntValue)
	if lInt && rInt && v.Op != ast.Divide {
		switch v.Op {
		case ast.Add:
			return li + ri, true
		case ast.Subtract:
			return li - ri, true
		case ast.Multiply:
			return li * ri, true
		}
	}
	lf, rf := asFloat(l), asFloat(r)
	switch v.Op {
	case ast.Add:
		return FloatValue(lf + rf), true
	case ast.Subtract:
		return FloatValue(lf - rf), true
	case ast.Multiply:
		return FloatValue(lf * rf), true
	case ast.Divide:
		if rf == 0 {
			return nil, false
		}
		return FloatValue(lf / rf), true
	}
	return nil, false
}

func literalNumber(e ast.Expression) (Value, bool) {
	switch v := e.(type) {
	case ast.Integer:
		return IntValue(v.Value), true
	case ast.Float:
		return FloatValue(v.Value), true
	}
	return nil, false
}

func asFloat(v Value) float64 {
	if i, ok := v.(IntValue); ok {
		return float64(i)
	}
	return float64(v.(FloatValue))
}

// constValue evaluates the value of a const declaration at compile time.
func (cc *compileContext) constValue(e ast.Expression) (Value, bool) {
	switch v := e.(type) {
	case ast.String:
		return StrValue(v.Value), true
	case ast.Integer:
		return IntValue(v.Value), true
	case ast.Float:
		return FloatValue(v.Value), true
	case ast.True:
		return True, true
	case ast.False:
		return False, true
	case ast.Null:
		return Null, true
	case ast.Infix:
		return foldInfix(v)
	case ast.Identifier:
		return cc.unit.globals.Constant(v.Name)
	}
	return nil, false
}
