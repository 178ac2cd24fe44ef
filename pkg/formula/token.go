// Package formula parses composed-metric formulas like
// "[Revenue] / [# Orders]" into expression trees. A formula is a sequence
// of bracketed metric references, numeric literals, the four arithmetic
// operators and parentheses.
package formula

import "fmt"

// TokenType identifies the kind of a lexed token.
type TokenType int

// Token types.
const (
	EOF TokenType = iota
	ILLEGAL

	METRIC // [Metric name]
	NUMBER // 100, 0.5

	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	LPAREN // (
	RPAREN // )
)

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",
	METRIC:  "METRIC",
	NUMBER:  "NUMBER",
	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	LPAREN:  "(",
	RPAREN:  ")",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a lexed token with its position in the formula.
type Token struct {
	Type    TokenType
	Literal string // metric name for METRIC (without brackets), text otherwise
	Pos     int    // byte offset in the formula
}
