// Package expr implements the calculator expression parser and evaluator.
// It handles arithmetic over decimal literals with the four basic binary
// operators and a single optional leading sign per operand.
package expr

// TokenType represents the type of a lexical token.
type TokenType int

const (
	// Literals
	TokenNumber TokenType = iota // numeric literal

	// Arithmetic
	TokenPlus  // +
	TokenMinus // -
	TokenStar  // *
	TokenSlash // /

	// Special
	TokenEOF // end of expression
)

// Token represents a single lexical token.
type Token struct {
	Type   TokenType
	Value  string  // raw string value
	NumVal float64 // parsed number (for TokenNumber)
	Pos    int     // position in source
}

// String returns a debug-friendly representation of the token type.
func (t TokenType) String() string {
	switch t {
	case TokenNumber:
		return "NUMBER"
	case TokenPlus:
		return "PLUS"
	case TokenMinus:
		return "MINUS"
	case TokenStar:
		return "STAR"
	case TokenSlash:
		return "SLASH"
	case TokenEOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}
