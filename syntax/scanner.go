package syntax

import (
	"fmt"
	"regexp"
	"strings"
)

type rule struct {
	kind Kind
	re   *regexp.Regexp
	skip bool
}

// Order matters: the first matching rule wins.
var rules = []rule{
	{re: regexp.MustCompile(`^[ \t\r\n\f]+`), skip: true},
	{re: regexp.MustCompile(`^//[^\n]*`), skip: true},
	{re: regexp.MustCompile(`^#[^\n]*`), skip: true},
	{re: regexp.MustCompile(`^/\*(?s:.*?)\*/`), skip: true},
	{kind: OPEN_TAG, re: regexp.MustCompile(`^<\?php`)},
	{kind: VARIABLE, re: regexp.MustCompile(`^\$[A-Za-z_][A-Za-z0-9_]*`)},
	{kind: FLOAT, re: regexp.MustCompile(`^(?:[0-9]+\.[0-9]+(?:[eE][+-]?[0-9]+)?|[0-9]+[eE][+-]?[0-9]+)`)},
	{kind: INT, re: regexp.MustCompile(`^[0-9]+`)},
	{kind: IDENT, re: regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`)},
	{kind: STRING, re: regexp.MustCompile(`^"(?:[^"\\]|\\.)*"`)},
	{kind: STRING, re: regexp.MustCompile(`^'(?:[^'\\]|\\.)*'`)},
}

var punct = map[byte]Kind{
	';': SEMI,
	',': COMMA,
	'(': LPAREN,
	')': RPAREN,
	'{': LBRACE,
	'}': RBRACE,
	'[': LBRACK,
	']': RBRACK,
	'=': EQ,
	'+': PLUS,
	'-': MINUS,
	'*': STAR,
	'/': SLASH,
	'.': DOT,
	'<': LT,
	'>': GT,
}

type scanner struct {
	name string
	src  string
	off  int
	line int
	col  int
}

// Tokenize splits src into tokens, ending with a single EOF token.
func Tokenize(name string, src string) ([]Token, error) {
	s := &scanner{name: name, src: src, line: 1, col: 1}
	if strings.HasPrefix(src, "#!") {
		end := strings.IndexByte(src, '\n')
		if end < 0 {
			end = len(src)
		}
		s.advance(end)
	}
	var out []Token
	for {
		tok, err := s.next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.Kind == EOF {
			return out, nil
		}
	}
}

func (s *scanner) next() (Token, error) {
outer:
	for s.off < len(s.src) {
		rest := s.src[s.off:]
		for _, r := range rules {
			m := r.re.FindString(rest)
			if m == "" {
				continue
			}
			if r.skip {
				s.advance(len(m))
				continue outer
			}
			tok := Token{Kind: r.kind, Line: s.line, Col: s.col}
			s.advance(len(m))
			switch r.kind {
			case VARIABLE:
				tok.Text = m[1:]
			case IDENT:
				tok.Text = m
				if kw, ok := keywords[strings.ToLower(m)]; ok {
					tok.Kind = kw
				}
			case STRING:
				tok.Text = unquote(m)
			default:
				tok.Text = m
			}
			return tok, nil
		}
		if k, ok := punct[rest[0]]; ok {
			tok := Token{Kind: k, Text: rest[:1], Line: s.line, Col: s.col}
			s.advance(1)
			return tok, nil
		}
		return Token{}, &Error{Name: s.name, Line: s.line, Col: s.col, Msg: fmt.Sprintf("unexpected character %q", rest[0])}
	}
	return Token{Kind: EOF, Line: s.line, Col: s.col}, nil
}

func (s *scanner) advance(n int) {
	for _, c := range s.src[s.off : s.off+n] {
		if c == '\n' {
			s.line++
			s.col = 1
		} else {
			s.col++
		}
	}
	s.off += n
}

// unquote strips the quotes from a string literal and resolves its escapes.
// Single-quoted strings only understand \\ and \'. Unknown escapes are kept verbatim.
func unquote(lit string) string {
	quote := lit[0]
	body := lit[1 : len(lit)-1]
	if !strings.ContainsRune(body, '\\') {
		return body
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			b.WriteByte(c)
			continue
		}
		n := body[i+1]
		if quote == '\'' {
			if n == '\\' || n == '\'' {
				b.WriteByte(n)
				i++
			} else {
				b.WriteByte(c)
			}
			continue
		}
		switch n {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\', '"', '$':
			b.WriteByte(n)
		default:
			b.WriteByte(c)
			b.WriteByte(n)
		}
		i++
	}
	return b.String()
}
