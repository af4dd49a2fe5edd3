package syntax

import "fmt"

type Kind int

const (
	EOF Kind = iota
	OPEN_TAG
	VARIABLE
	IDENT
	INT
	FLOAT
	STRING

	// Keywords
	ECHO
	IF
	ELSE
	ELSEIF
	WHILE
	FOR
	FUNCTION
	RETURN
	CONST
	BREAK
	TRUE
	FALSE
	NULL

	// Punctuation
	SEMI
	COMMA
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACK
	RBRACK
	EQ
	PLUS
	MINUS
	STAR
	SLASH
	DOT
	LT
	GT
)

var kindNames = map[Kind]string{
	EOF:      "end of file",
	OPEN_TAG: "<?php",
	VARIABLE: "variable",
	IDENT:    "identifier",
	INT:      "integer",
	FLOAT:    "float",
	STRING:   "string",
	ECHO:     "echo",
	IF:       "if",
	ELSE:     "else",
	ELSEIF:   "elseif",
	WHILE:    "while",
	FOR:      "for",
	FUNCTION: "function",
	RETURN:   "return",
	CONST:    "const",
	BREAK:    "break",
	TRUE:     "true",
	FALSE:    "false",
	NULL:     "null",
	SEMI:     ";",
	COMMA:    ",",
	LPAREN:   "(",
	RPAREN:   ")",
	LBRACE:   "{",
	RBRACE:   "}",
	LBRACK:   "[",
	RBRACK:   "]",
	EQ:       "=",
	PLUS:     "+",
	MINUS:    "-",
	STAR:     "*",
	SLASH:    "/",
	DOT:      ".",
	LT:       "<",
	GT:       ">",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords are case-insensitive, as in PHP.
var keywords = map[string]Kind{
	"echo":     ECHO,
	"if":       IF,
	"else":     ELSE,
	"elseif":   ELSEIF,
	"while":    WHILE,
	"for":      FOR,
	"function": FUNCTION,
	"return":   RETURN,
	"const":    CONST,
	"break":    BREAK,
	"true":     TRUE,
	"false":    FALSE,
	"null":     NULL,
}

type Token struct {
	Kind Kind
	Text string
	Line int
	Col  int
}

func (t Token) String() string {
	switch t.Kind {
	case VARIABLE, IDENT, INT, FLOAT, STRING:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	}
	return fmt.Sprintf("%q", t.Kind.String())
}

// Error is a lexical or parse error positioned at a 1-based line and column.
type Error struct {
	Name string
	Line int
	Col  int
	Msg  string
}

func (e *Error) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Name, e.Line, e.Col, e.Msg)
}
