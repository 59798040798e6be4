package algebra

import (
	"github.com/grass-svn2git/grass/errors"
)

// mapcalcFunctions are the raster calculator builtins the parser
// accepts as function calls. Anything else in call position is a
// syntax error rather than a silent pass-through.
var mapcalcFunctions = map[string]bool{
	"abs": true, "acos": true, "asin": true, "atan": true,
	"ceil": true, "cos": true, "double": true, "eval": true,
	"exp": true, "float": true, "floor": true, "int": true,
	"isnull": true, "isntnull": true, "log": true, "null": true,
	"rand": true, "round": true, "sin": true, "sqrt": true,
	"tan": true,
}

type parser struct {
	toks []Token
	pos  int
}

// Parse parses a full statement of the form "result = expression".
func Parse(input string) (*Assignment, error) {
	toks, err := newLexer(input).tokens()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	if p.peek().Kind != TokenIdent {
		return nil, p.expected("result name")
	}
	result := p.advance().Text
	if p.peek().Kind != TokenAssign {
		return nil, p.expected("'='")
	}
	p.advance()
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != TokenEOF {
		return nil, p.expected("end of expression")
	}
	return &Assignment{Result: result, Expr: expr}, nil
}

// ParseExpression parses a bare expression with no assignment.
func ParseExpression(input string) (Node, error) {
	toks, err := newLexer(input).tokens()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != TokenEOF {
		return nil, p.expected("end of expression")
	}
	return expr, nil
}

func (p *parser) peek() Token { return p.toks[p.pos] }

func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if t.Kind != TokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) expected(what string) error {
	t := p.peek()
	return errors.NewSyntaxError("at position %d: expected %s, found %s %q",
		t.Pos+1, what, t.Kind, t.Text)
}

// bracedOperator returns the decomposed temporal operator when the
// next token is a braced operator whose symbol is one of syms.
func (p *parser) bracedOperator(syms ...string) (TemporalOperator, bool, error) {
	t := p.peek()
	if t.Kind != TokenTemporalOp {
		return TemporalOperator{}, false, nil
	}
	op, err := ParseTemporalOperator(t.Text)
	if err != nil {
		return TemporalOperator{}, false, err
	}
	for _, s := range syms {
		if op.Op == s {
			p.advance()
			return op, true, nil
		}
	}
	return TemporalOperator{}, false, nil
}

// The grammar is a conventional precedence ladder. Braced operators
// bind at the tier of their embedded symbol, so {*,during} parses
// where * would.
func (p *parser) parseExpr() (Node, error) { return p.parseSelect() }

func (p *parser) parseSelect() (Node, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	for {
		var op TemporalOperator
		switch p.peek().Kind {
		case TokenSelect:
			p.advance()
			op = plainOperator(":")
		case TokenNotSelect:
			p.advance()
			op = plainOperator("!:")
		default:
			braced, ok, err := p.bracedOperator(":", "!:")
			if err != nil {
				return nil, err
			}
			if !ok {
				return left, nil
			}
			op = braced
		}
		right, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		var op TemporalOperator
		if p.peek().Kind == TokenOr {
			p.advance()
			op = plainOperator("||")
		} else {
			braced, ok, err := p.bracedOperator("||")
			if err != nil {
				return nil, err
			}
			if !ok {
				return left, nil
			}
			op = braced
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseCompare()
	if err != nil {
		return nil, err
	}
	for {
		var op TemporalOperator
		if p.peek().Kind == TokenAnd {
			p.advance()
			op = plainOperator("&&")
		} else {
			braced, ok, err := p.bracedOperator("&&")
			if err != nil {
				return nil, err
			}
			if !ok {
				return left, nil
			}
			op = braced
		}
		right, err := p.parseCompare()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseCompare() (Node, error) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	for {
		var op TemporalOperator
		if p.peek().Kind == TokenCompare {
			op = plainOperator(p.advance().Text)
		} else {
			braced, ok, err := p.bracedOperator("==", "!=", "<", "<=", ">", ">=")
			if err != nil {
				return nil, err
			}
			if !ok {
				return left, nil
			}
			op = braced
		}
		right, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseAdd() (Node, error) {
	left, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for {
		var op TemporalOperator
		if t := p.peek(); t.Kind == TokenArith && (t.Text == "+" || t.Text == "-") {
			op = plainOperator(p.advance().Text)
		} else {
			braced, ok, err := p.bracedOperator("+", "-")
			if err != nil {
				return nil, err
			}
			if !ok {
				return left, nil
			}
			op = braced
		}
		right, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseMul() (Node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		var op TemporalOperator
		if t := p.peek(); t.Kind == TokenArith && (t.Text == "*" || t.Text == "/" || t.Text == "%") {
			op = plainOperator(p.advance().Text)
		} else {
			braced, ok, err := p.bracedOperator("*", "/", "%")
			if err != nil {
				return nil, err
			}
			if !ok {
				return left, nil
			}
			op = braced
		}
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parsePrimary() (Node, error) {
	switch t := p.peek(); t.Kind {
	case TokenNumber:
		p.advance()
		return &Number{Text: t.Text}, nil
	case TokenLParen:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek().Kind != TokenRParen {
			return nil, p.expected("')'")
		}
		p.advance()
		return expr, nil
	case TokenIdent:
		p.advance()
		if p.peek().Kind != TokenLParen {
			return &DatasetRef{Name: t.Text}, nil
		}
		switch t.Text {
		case "if":
			return p.parseConditional()
		case "map":
			return p.parseMapRef()
		default:
			return p.parseCall(t.Text)
		}
	}
	return nil, p.expected("operand")
}

func (p *parser) parseConditional() (Node, error) {
	p.advance() // (
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != TokenComma {
		return nil, p.expected("','")
	}
	p.advance()
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	cnd := &Conditional{Cond: cond, Then: then}
	if p.peek().Kind == TokenComma {
		p.advance()
		cnd.Else, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if p.peek().Kind != TokenRParen {
		return nil, p.expected("')'")
	}
	p.advance()
	return cnd, nil
}

func (p *parser) parseMapRef() (Node, error) {
	p.advance() // (
	if p.peek().Kind != TokenIdent {
		return nil, p.expected("map name")
	}
	name := p.advance().Text
	if p.peek().Kind != TokenRParen {
		return nil, p.expected("')'")
	}
	p.advance()
	return &MapRef{Name: name}, nil
}

func (p *parser) parseCall(name string) (Node, error) {
	if !mapcalcFunctions[name] {
		return nil, errors.NewSyntaxError("unknown function %q", name)
	}
	p.advance() // (
	call := &Call{Func: name}
	if p.peek().Kind != TokenRParen {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			if p.peek().Kind != TokenComma {
				break
			}
			p.advance()
		}
	}
	if p.peek().Kind != TokenRParen {
		return nil, p.expected("')'")
	}
	p.advance()
	return call, nil
}
