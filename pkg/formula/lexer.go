package formula

import "strings"

// Lexer tokenizes a formula string.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
}

// NewLexer creates a Lexer for the given formula.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}

	pos := l.pos
	switch l.ch {
	case 0:
		return Token{Type: EOF, Pos: pos}
	case '+':
		l.readChar()
		return Token{Type: PLUS, Literal: "+", Pos: pos}
	case '-':
		l.readChar()
		return Token{Type: MINUS, Literal: "-", Pos: pos}
	case '*':
		l.readChar()
		return Token{Type: STAR, Literal: "*", Pos: pos}
	case '/':
		l.readChar()
		return Token{Type: SLASH, Literal: "/", Pos: pos}
	case '(':
		l.readChar()
		return Token{Type: LPAREN, Literal: "(", Pos: pos}
	case ')':
		l.readChar()
		return Token{Type: RPAREN, Literal: ")", Pos: pos}
	case '[':
		return l.readMetricRef(pos)
	}

	if isDigit(l.ch) {
		return l.readNumber(pos)
	}

	tok := Token{Type: ILLEGAL, Literal: string(l.ch), Pos: pos}
	l.readChar()
	return tok
}

// readMetricRef reads a bracketed metric reference. The metric name is
// everything between the brackets, with surrounding whitespace trimmed;
// nested brackets are not allowed.
func (l *Lexer) readMetricRef(pos int) Token {
	l.readChar() // consume '['
	start := l.pos
	for l.ch != ']' {
		if l.ch == 0 || l.ch == '[' {
			return Token{Type: ILLEGAL, Literal: "[", Pos: pos}
		}
		l.readChar()
	}
	name := strings.TrimSpace(l.input[start:l.pos])
	l.readChar() // consume ']'
	return Token{Type: METRIC, Literal: name, Pos: pos}
}

// readNumber reads an integer or decimal literal.
func (l *Lexer) readNumber(pos int) Token {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return Token{Type: NUMBER, Literal: l.input[start:l.pos], Pos: pos}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
