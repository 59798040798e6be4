package algebra

import "fmt"

// TokenKind classifies lexical tokens of the temporal algebra
// language.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenIdent
	TokenNumber
	TokenLParen
	TokenRParen
	TokenComma
	TokenAssign     // =
	TokenArith      // + - * / %
	TokenCompare    // == != < <= > >=
	TokenAnd        // &&
	TokenOr         // ||
	TokenSelect     // :
	TokenNotSelect  // !:
	TokenTemporalOp // {operator,relations,mode}
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of expression"
	case TokenIdent:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenComma:
		return "','"
	case TokenAssign:
		return "'='"
	case TokenArith:
		return "arithmetic operator"
	case TokenCompare:
		return "comparison operator"
	case TokenAnd:
		return "'&&'"
	case TokenOr:
		return "'||'"
	case TokenSelect:
		return "':'"
	case TokenNotSelect:
		return "'!:'"
	case TokenTemporalOp:
		return "temporal operator"
	}
	return fmt.Sprintf("token(%d)", int(k))
}

// Token is one lexical unit with its source position, used for error
// reporting.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}
