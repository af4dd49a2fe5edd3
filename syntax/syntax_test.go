package syntax

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timewinder-dev/phpvm/ast"
)

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenize(t *testing.T) {
	toks, err := Tokenize("t.php", "<?php $x = 1.5 . \"a\\n\"; // comment\n# another\n/* block\n */ ECHO 42;")
	require.NoError(t, err)
	assert.Equal(t, []Kind{OPEN_TAG, VARIABLE, EQ, FLOAT, DOT, STRING, SEMI, ECHO, INT, SEMI, EOF}, kinds(toks))
	assert.Equal(t, "x", toks[1].Text)
	assert.Equal(t, "1.5", toks[3].Text)
	assert.Equal(t, "a\n", toks[5].Text)
	assert.Equal(t, "42", toks[8].Text)
}

func TestTokenPositions(t *testing.T) {
	toks, err := Tokenize("t.php", "<?php\n  $x;")
	require.NoError(t, err)
	assert.Equal(t, 2, toks[1].Line)
	assert.Equal(t, 3, toks[1].Col)
}

func TestTokenizeStrings(t *testing.T) {
	tests := map[string]string{
		`"tab\there"`:   "tab\there",
		`"quote\"d"`:    `quote"d`,
		`"dollar\$x"`:   "dollar$x",
		`"keep\q"`:      `keep\q`,
		`'it\'s'`:       "it's",
		`'back\\slash'`: `back\slash`,
		`'no\nescape'`:  `no\nescape`,
		`"plain $x"`:    "plain $x",
	}
	for lit, want := range tests {
		toks, err := Tokenize("", lit)
		require.NoError(t, err, lit)
		require.Equal(t, STRING, toks[0].Kind, lit)
		assert.Equal(t, want, toks[0].Text, lit)
	}
}

func TestTokenizeShebang(t *testing.T) {
	toks, err := Tokenize("t.php", "#!/usr/bin/env phpvm\n<?php echo 1;")
	require.NoError(t, err)
	assert.Equal(t, OPEN_TAG, toks[0].Kind)
	assert.Equal(t, 2, toks[0].Line)
}

func TestTokenizeError(t *testing.T) {
	_, err := Tokenize("t.php", "<?php @")
	require.Error(t, err)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 1, serr.Line)
	assert.Equal(t, 7, serr.Col)
	assert.Equal(t, "t.php:1:7: unexpected character '@'", err.Error())
}

func parseExpr(t *testing.T, src string) ast.Expression {
	t.Helper()
	e, err := ParseExpr(src)
	require.NoError(t, err, src)
	return e
}

func TestParseExpr(t *testing.T) {
	i := func(n int64) ast.Expression { return ast.Integer{Value: n} }
	v := func(name string) ast.Expression { return ast.Variable{Name: name} }
	infix := func(l ast.Expression, op ast.Op, r ast.Expression) ast.Expression {
		return ast.Infix{Left: l, Op: op, Right: r}
	}
	tests := []struct {
		src  string
		want ast.Expression
	}{
		{"1 + 2 * 3", infix(i(1), ast.Add, infix(i(2), ast.Multiply, i(3)))},
		{"1 - 2 - 3", infix(infix(i(1), ast.Subtract, i(2)), ast.Subtract, i(3))},
		{"(1 + 2) * 3", infix(infix(i(1), ast.Add, i(2)), ast.Multiply, i(3))},
		{"$a . 1 + 2", infix(v("a"), ast.Concat, infix(i(1), ast.Add, i(2)))},
		{"$a < $b . $c", infix(v("a"), ast.LessThan, infix(v("b"), ast.Concat, v("c")))},
		{"$a > 6 / 2", infix(v("a"), ast.GreaterThan, infix(i(6), ast.Divide, i(2)))},
		{"$a = $b = 1", ast.Assign{Target: v("a"), Value: ast.Assign{Target: v("b"), Value: i(1)}}},
		{"-1", i(-1)},
		{"-1.5", ast.Float{Value: -1.5}},
		{"-$x", infix(i(0), ast.Subtract, v("x"))},
		{"2 - -1", infix(i(2), ast.Subtract, i(-1))},
		{"-9223372036854775808", i(math.MinInt64)},
		{"9223372036854775808", ast.Float{Value: 9223372036854775808}},
		{"true", ast.True{}},
		{"NULL", ast.Null{}},
		{"PHP_EOL", ast.Identifier{Name: "PHP_EOL"}},
		{"f(1, $x)[2]", ast.Index{
			Target: ast.Call{Callee: ast.Identifier{Name: "f"}, Args: []ast.Expression{i(1), v("x")}},
			Index:  i(2),
		}},
		{"f()", ast.Call{Callee: ast.Identifier{Name: "f"}}},
		{"[]", ast.Array{}},
		{"[1, [2]]", ast.Array{Items: []ast.Expression{i(1), ast.Array{Items: []ast.Expression{i(2)}}}}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseExpr(t, tt.src), tt.src)
	}
}

func TestParseExprErrors(t *testing.T) {
	for _, src := range []string{"1 +", "(1", "f(1,", "[1", "1 2", ")"} {
		_, err := ParseExpr(src)
		assert.Error(t, err, src)
	}
}

func TestParseStatements(t *testing.T) {
	stmts, err := Parse("t.php", `<?php
const MAX = 10;
function add($a, $b) {
	return $a + $b;
}
function nothing() { return; }
if ($x < 1) {
	echo "a";
} elseif ($x < 2) {
	echo "b";
} else if ($x < 3) {
	echo "c";
} else {
	echo "d";
}
while (true) { break; }
for ($i = 0, $j = 1; ; ) { }
add(1, 2);
`)
	require.NoError(t, err)
	require.Len(t, stmts, 7)

	assert.Equal(t, ast.Const{Name: "MAX", Value: ast.Integer{Value: 10}}, stmts[0])

	fn, ok := stmts[1].(ast.Function)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, []string{"a", "b"}, fn.Params)
	require.Len(t, fn.Body, 1)
	assert.IsType(t, ast.Return{}, fn.Body[0])

	nothing := stmts[2].(ast.Function)
	assert.Empty(t, nothing.Params)
	assert.Equal(t, []ast.Statement{ast.Return{}}, nothing.Body)

	// elseif and else if both nest in the else branch.
	ifs := stmts[3].(ast.IfElse)
	require.Len(t, ifs.Else, 1)
	second := ifs.Else[0].(ast.IfElse)
	require.Len(t, second.Else, 1)
	third := second.Else[0].(ast.IfElse)
	assert.Equal(t, []ast.Statement{ast.Echo{Value: ast.String{Value: "d"}}}, third.Else)

	loop := stmts[4].(ast.While)
	assert.Equal(t, ast.True{}, loop.Cond)
	assert.Equal(t, []ast.Statement{ast.Break{}}, loop.Body)

	forLoop := stmts[5].(ast.For)
	assert.Len(t, forLoop.Init, 2)
	assert.Nil(t, forLoop.Cond)
	assert.Empty(t, forLoop.Step)
	assert.Empty(t, forLoop.Body)

	assert.IsType(t, ast.ExpressionStmt{}, stmts[6])
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src string
		msg string
	}{
		{`echo 1;`, "expected open-tag"},
		{`<?php echo 1`, `expected ";"`},
		{`<?php while (true) { echo 1;`, "unexpected end of file"},
		{`<?php function ($a) {}`, `expected "identifier"`},
		{`<?php function f(a) {}`, `expected "variable"`},
		{`<?php if true {}`, `expected "("`},
	}
	for _, tt := range tests {
		_, err := Parse("t.php", tt.src)
		require.Error(t, err, tt.src)
		var serr *Error
		require.ErrorAs(t, err, &serr, tt.src)
		assert.Contains(t, err.Error(), tt.msg, tt.src)
	}
}
