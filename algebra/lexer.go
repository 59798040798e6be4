package algebra

import (
	"strings"
	"unicode"

	"github.com/grass-svn2git/grass/errors"
)

// lexer turns an algebra expression into a token stream. Braced
// temporal operators such as {+,equal|during,l} are captured as a
// single token and decomposed later by ParseTemporalOperator.
type lexer struct {
	input string
	pos   int
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

func (l *lexer) errorf(pos int, format string, args ...interface{}) error {
	return errors.NewSyntaxError("at position %d: "+format, append([]interface{}{pos + 1}, args...)...)
}

// tokens scans the whole input up front. Expressions are short, so
// there is no need for a streaming scanner.
func (l *lexer) tokens() ([]Token, error) {
	var out []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.Kind == TokenEOF {
			return out, nil
		}
	}
}

func (l *lexer) next() (Token, error) {
	for l.pos < len(l.input) && unicode.IsSpace(rune(l.input[l.pos])) {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Pos: l.pos}, nil
	}

	start := l.pos
	c := l.input[l.pos]
	switch c {
	case '(':
		l.pos++
		return Token{Kind: TokenLParen, Text: "(", Pos: start}, nil
	case ')':
		l.pos++
		return Token{Kind: TokenRParen, Text: ")", Pos: start}, nil
	case ',':
		l.pos++
		return Token{Kind: TokenComma, Text: ",", Pos: start}, nil
	case '{':
		end := strings.IndexByte(l.input[l.pos:], '}')
		if end < 0 {
			return Token{}, l.errorf(start, "unterminated temporal operator")
		}
		text := l.input[l.pos : l.pos+end+1]
		l.pos += end + 1
		return Token{Kind: TokenTemporalOp, Text: text, Pos: start}, nil
	case '+', '-', '*', '/', '%':
		l.pos++
		return Token{Kind: TokenArith, Text: string(c), Pos: start}, nil
	case ':':
		l.pos++
		return Token{Kind: TokenSelect, Text: ":", Pos: start}, nil
	case '&':
		if l.peek(1) == '&' {
			l.pos += 2
			return Token{Kind: TokenAnd, Text: "&&", Pos: start}, nil
		}
		return Token{}, l.errorf(start, "unexpected character %q", c)
	case '|':
		if l.peek(1) == '|' {
			l.pos += 2
			return Token{Kind: TokenOr, Text: "||", Pos: start}, nil
		}
		return Token{}, l.errorf(start, "unexpected character %q", c)
	case '=':
		if l.peek(1) == '=' {
			l.pos += 2
			return Token{Kind: TokenCompare, Text: "==", Pos: start}, nil
		}
		l.pos++
		return Token{Kind: TokenAssign, Text: "=", Pos: start}, nil
	case '!':
		switch l.peek(1) {
		case '=':
			l.pos += 2
			return Token{Kind: TokenCompare, Text: "!=", Pos: start}, nil
		case ':':
			l.pos += 2
			return Token{Kind: TokenNotSelect, Text: "!:", Pos: start}, nil
		}
		return Token{}, l.errorf(start, "unexpected character %q", c)
	case '<', '>':
		if l.peek(1) == '=' {
			l.pos += 2
			return Token{Kind: TokenCompare, Text: l.input[start:l.pos], Pos: start}, nil
		}
		l.pos++
		return Token{Kind: TokenCompare, Text: string(c), Pos: start}, nil
	}

	if isDigit(c) {
		return l.scanNumber(), nil
	}
	if isIdentStart(c) {
		return l.scanIdent(), nil
	}
	return Token{}, l.errorf(start, "unexpected character %q", c)
}

func (l *lexer) peek(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *lexer) scanNumber() Token {
	start := l.pos
	for l.pos < len(l.input) && (isDigit(l.input[l.pos]) || l.input[l.pos] == '.') {
		l.pos++
	}
	return Token{Kind: TokenNumber, Text: l.input[start:l.pos], Pos: start}
}

// scanIdent accepts map and dataset identifiers, including the
// name@mapset form.
func (l *lexer) scanIdent() Token {
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.pos++
	}
	return Token{Kind: TokenIdent, Text: l.input[start:l.pos], Pos: start}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '@' || c == '.'
}
