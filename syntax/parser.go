package syntax

import (
	"fmt"
	"strconv"

	"github.com/timewinder-dev/phpvm/ast"
)

// Binding powers, weakest first.
const (
	precLowest = iota
	precAssign
	precCompare
	precConcat
	precSum
	precProduct
	precPrefix
	precPostfix
)

var infixPrec = map[Kind]int{
	EQ:     precAssign,
	LT:     precCompare,
	GT:     precCompare,
	DOT:    precConcat,
	PLUS:   precSum,
	MINUS:  precSum,
	STAR:   precProduct,
	SLASH:  precProduct,
	LPAREN: precPostfix,
	LBRACK: precPostfix,
}

var infixOps = map[Kind]ast.Op{
	LT:    ast.LessThan,
	GT:    ast.GreaterThan,
	DOT:   ast.Concat,
	PLUS:  ast.Add,
	MINUS: ast.Subtract,
	STAR:  ast.Multiply,
	SLASH: ast.Divide,
}

type parser struct {
	name string
	toks []Token
	pos  int
}

// Parse tokenizes and parses a whole program. The source must start with `<?php`.
func Parse(name string, src string) ([]ast.Statement, error) {
	toks, err := Tokenize(name, src)
	if err != nil {
		return nil, err
	}
	p := &parser{name: name, toks: toks}
	if p.cur().Kind != OPEN_TAG {
		return nil, p.errorf("expected open-tag")
	}
	p.read()
	var out []ast.Statement
	for p.cur().Kind != EOF {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ParseExpr parses a single expression with no open tag, as used by tests and tools.
func ParseExpr(src string) (ast.Expression, error) {
	toks, err := Tokenize("", src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.expression(precLowest)
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != EOF {
		return nil, p.errorf("unexpected %s after expression", p.cur())
	}
	return e, nil
}

func (p *parser) cur() Token {
	return p.toks[p.pos]
}

func (p *parser) peek() Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) read() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k Kind) (Token, error) {
	if p.cur().Kind != k {
		return Token{}, p.errorf("expected %q, found %s", k.String(), p.cur())
	}
	return p.read(), nil
}

func (p *parser) errorf(format string, args ...any) error {
	t := p.cur()
	return &Error{Name: p.name, Line: t.Line, Col: t.Col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) statement() (ast.Statement, error) {
	switch p.cur().Kind {
	case ECHO:
		p.read()
		e, err := p.expression(precLowest)
		if err != nil {
			return nil, err
		}
		return ast.Echo{Value: e}, p.semi()
	case IF:
		p.read()
		return p.ifElse()
	case WHILE:
		p.read()
		cond, err := p.condition()
		if err != nil {
			return nil, err
		}
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		return ast.While{Cond: cond, Body: body}, nil
	case FOR:
		p.read()
		return p.forLoop()
	case FUNCTION:
		p.read()
		return p.function()
	case RETURN:
		p.read()
		if p.cur().Kind == SEMI {
			p.read()
			return ast.Return{}, nil
		}
		e, err := p.expression(precLowest)
		if err != nil {
			return nil, err
		}
		return ast.Return{Value: e}, p.semi()
	case CONST:
		p.read()
		name, err := p.expect(IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(EQ); err != nil {
			return nil, err
		}
		e, err := p.expression(precLowest)
		if err != nil {
			return nil, err
		}
		return ast.Const{Name: name.Text, Value: e}, p.semi()
	case BREAK:
		p.read()
		return ast.Break{}, p.semi()
	}
	e, err := p.expression(precLowest)
	if err != nil {
		return nil, err
	}
	return ast.ExpressionStmt{Value: e}, p.semi()
}

func (p *parser) semi() error {
	_, err := p.expect(SEMI)
	return err
}

func (p *parser) condition() (ast.Expression, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	e, err := p.expression(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *parser) block() ([]ast.Statement, error) {
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	var out []ast.Statement
	for p.cur().Kind != RBRACE {
		if p.cur().Kind == EOF {
			return nil, p.errorf("unexpected end of file, expected \"}\"")
		}
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	p.read()
	return out, nil
}

// ifElse parses after the `if` keyword. `elseif` and `else if` chains nest in Else.
func (p *parser) ifElse() (ast.Statement, error) {
	cond, err := p.condition()
	if err != nil {
		return nil, err
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}
	out := ast.IfElse{Cond: cond, Then: then}
	switch p.cur().Kind {
	case ELSEIF:
		p.read()
		nested, err := p.ifElse()
		if err != nil {
			return nil, err
		}
		out.Else = []ast.Statement{nested}
	case ELSE:
		p.read()
		if p.cur().Kind == IF {
			p.read()
			nested, err := p.ifElse()
			if err != nil {
				return nil, err
			}
			out.Else = []ast.Statement{nested}
			break
		}
		out.Else, err = p.block()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (p *parser) forLoop() (ast.Statement, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	var out ast.For
	var err error
	out.Init, err = p.expressionList(SEMI)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMI); err != nil {
		return nil, err
	}
	if p.cur().Kind != SEMI {
		out.Cond, err = p.expression(precLowest)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(SEMI); err != nil {
		return nil, err
	}
	out.Step, err = p.expressionList(RPAREN)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	out.Body, err = p.block()
	if err != nil {
		return nil, err
	}
	return out, nil
}

// expressionList parses comma-separated expressions up to (not including) end.
func (p *parser) expressionList(end Kind) ([]ast.Expression, error) {
	var out []ast.Expression
	if p.cur().Kind == end {
		return out, nil
	}
	for {
		e, err := p.expression(precLowest)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		if p.cur().Kind != COMMA {
			return out, nil
		}
		p.read()
	}
}

func (p *parser) function() (ast.Statement, error) {
	name, err := p.expect(IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	var params []string
	for p.cur().Kind != RPAREN {
		v, err := p.expect(VARIABLE)
		if err != nil {
			return nil, err
		}
		params = append(params, v.Text)
		if p.cur().Kind != COMMA {
			break
		}
		p.read()
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.Function{Name: name.Text, Params: params, Body: body}, nil
}

func (p *parser) expression(prec int) (ast.Expression, error) {
	left, err := p.prefix()
	if err != nil {
		return nil, err
	}
	for {
		k := p.cur().Kind
		next, ok := infixPrec[k]
		if !ok || next <= prec {
			return left, nil
		}
		switch k {
		case EQ:
			p.read()
			// Right associative: $a = $b = 1.
			value, err := p.expression(precAssign - 1)
			if err != nil {
				return nil, err
			}
			left = ast.Assign{Target: left, Value: value}
		case LPAREN:
			p.read()
			args, err := p.expressionList(RPAREN)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RPAREN); err != nil {
				return nil, err
			}
			left = ast.Call{Callee: left, Args: args}
		case LBRACK:
			p.read()
			idx, err := p.expression(precLowest)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RBRACK); err != nil {
				return nil, err
			}
			left = ast.Index{Target: left, Index: idx}
		default:
			p.read()
			right, err := p.expression(next)
			if err != nil {
				return nil, err
			}
			left = ast.Infix{Left: left, Op: infixOps[k], Right: right}
		}
	}
}

func (p *parser) prefix() (ast.Expression, error) {
	t := p.cur()
	switch t.Kind {
	case INT:
		p.read()
		return parseInt(p, t, t.Text)
	case FLOAT:
		p.read()
		return parseFloat(p, t, t.Text)
	case STRING:
		p.read()
		return ast.String{Value: t.Text}, nil
	case TRUE:
		p.read()
		return ast.True{}, nil
	case FALSE:
		p.read()
		return ast.False{}, nil
	case NULL:
		p.read()
		return ast.Null{}, nil
	case VARIABLE:
		p.read()
		return ast.Variable{Name: t.Text}, nil
	case IDENT:
		p.read()
		return ast.Identifier{Name: t.Text}, nil
	case LPAREN:
		p.read()
		e, err := p.expression(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return e, nil
	case LBRACK:
		p.read()
		items, err := p.expressionList(RBRACK)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RBRACK); err != nil {
			return nil, err
		}
		return ast.Array{Items: items}, nil
	case MINUS:
		p.read()
		// Fold the sign into numeric literals so the minimum integer parses.
		switch n := p.cur(); n.Kind {
		case INT:
			if peekBindsTighter(p.peek()) {
				break
			}
			p.read()
			return parseInt(p, n, "-"+n.Text)
		case FLOAT:
			if peekBindsTighter(p.peek()) {
				break
			}
			p.read()
			return parseFloat(p, n, "-"+n.Text)
		}
		operand, err := p.expression(precPrefix)
		if err != nil {
			return nil, err
		}
		return ast.Infix{Left: ast.Integer{Value: 0}, Op: ast.Subtract, Right: operand}, nil
	}
	return nil, p.errorf("unexpected %s", t)
}

func peekBindsTighter(t Token) bool {
	return infixPrec[t.Kind] > precPrefix
}

func parseInt(p *parser, t Token, text string) (ast.Expression, error) {
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		// PHP promotes integer literals that overflow to float.
		f, ferr := strconv.ParseFloat(text, 64)
		if ferr != nil {
			return nil, &Error{Name: p.name, Line: t.Line, Col: t.Col, Msg: fmt.Sprintf("invalid integer %s", text)}
		}
		return ast.Float{Value: f}, nil
	}
	return ast.Integer{Value: i}, nil
}

func parseFloat(p *parser, t Token, text string) (ast.Expression, error) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, &Error{Name: p.name, Line: t.Line, Col: t.Col, Msg: fmt.Sprintf("invalid float %s", text)}
	}
	return ast.Float{Value: f}, nil
}
