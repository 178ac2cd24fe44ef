package formula

import "fmt"

// SyntaxError reports a malformed formula: unterminated bracket,
// unknown character, or an unexpected token.
type SyntaxError struct {
	Pos     int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("formula syntax error at offset %d: %s", e.Pos, e.Message)
}
