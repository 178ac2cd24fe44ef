package formula

import "fmt"

// Operator precedence levels.
const (
	precedenceNone     = 0
	precedenceAddition = 1 // +, -
	precedenceMultiply = 2 // *, /
	precedenceUnary    = 3 // prefix -, +
)

// Parser builds an expression tree from a formula using precedence
// climbing ("*" and "/" bind tighter than "+" and "-", parentheses
// override).
type Parser struct {
	lexer *Lexer
	token Token
}

// Parse parses a formula into an expression tree. It returns a
// *SyntaxError for malformed input.
func Parse(input string) (Expr, error) {
	p := &Parser{lexer: NewLexer(input)}
	p.nextToken()

	expr, err := p.parseExpression(precedenceNone + 1)
	if err != nil {
		return nil, err
	}
	if p.token.Type != EOF {
		return nil, p.errorf("unexpected token %s", p.describeToken())
	}
	return expr, nil
}

func (p *Parser) nextToken() {
	p.token = p.lexer.NextToken()
}

// parseExpression implements precedence climbing.
func (p *Parser) parseExpression(minPrecedence int) (Expr, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for {
		prec := infixPrecedence(p.token.Type)
		if prec < minPrecedence {
			return left, nil
		}

		op := p.token.Type
		p.nextToken()

		// Left-associative: the right operand binds one level tighter.
		right, err := p.parseExpression(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, LHS: left, RHS: right}
	}
}

// parsePrefix parses unary operators and primary expressions.
func (p *Parser) parsePrefix() (Expr, error) {
	switch p.token.Type {
	case MINUS, PLUS:
		op := p.token.Type
		p.nextToken()
		x, err := p.parseExpression(precedenceUnary)
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op, X: x}, nil

	case METRIC:
		if p.token.Literal == "" {
			return nil, p.errorf("empty metric reference")
		}
		ref := &MetricRef{Name: p.token.Literal}
		p.nextToken()
		return ref, nil

	case NUMBER:
		lit := &NumberLit{Value: p.token.Literal}
		p.nextToken()
		return lit, nil

	case LPAREN:
		p.nextToken()
		x, err := p.parseExpression(precedenceNone + 1)
		if err != nil {
			return nil, err
		}
		if p.token.Type != RPAREN {
			return nil, p.errorf("expected ), got %s", p.describeToken())
		}
		p.nextToken()
		return &ParenExpr{X: x}, nil

	case ILLEGAL:
		if p.token.Literal == "[" {
			return nil, p.errorf("unterminated metric reference")
		}
		return nil, p.errorf("unexpected character %q", p.token.Literal)

	default:
		return nil, p.errorf("unexpected token %s", p.describeToken())
	}
}

func infixPrecedence(t TokenType) int {
	switch t {
	case PLUS, MINUS:
		return precedenceAddition
	case STAR, SLASH:
		return precedenceMultiply
	default:
		return precedenceNone
	}
}

func (p *Parser) describeToken() string {
	if p.token.Type == EOF {
		return "end of formula"
	}
	return fmt.Sprintf("%q", p.token.Literal)
}

func (p *Parser) errorf(format string, args ...any) error {
	return &SyntaxError{Pos: p.token.Pos, Message: fmt.Sprintf(format, args...)}
}
