package formula

import "strings"

// Expr is a node in a parsed formula expression tree.
type Expr interface {
	// String renders the node back into display-formula syntax.
	String() string
}

// MetricRef references another metric by name, written "[Name]".
type MetricRef struct {
	Name string
}

func (e *MetricRef) String() string { return "[" + e.Name + "]" }

// NumberLit is a numeric literal.
type NumberLit struct {
	Value string
}

func (e *NumberLit) String() string { return e.Value }

// UnaryExpr is a prefix + or - applied to an operand.
type UnaryExpr struct {
	Op TokenType
	X  Expr
}

func (e *UnaryExpr) String() string { return e.Op.String() + e.X.String() }

// BinaryExpr is an arithmetic operation over two operands.
type BinaryExpr struct {
	Op  TokenType
	LHS Expr
	RHS Expr
}

func (e *BinaryExpr) String() string {
	return e.LHS.String() + " " + e.Op.String() + " " + e.RHS.String()
}

// ParenExpr is a parenthesized sub-expression. Kept as an explicit node
// so that rendering preserves the author's grouping.
type ParenExpr struct {
	X Expr
}

func (e *ParenExpr) String() string { return "(" + e.X.String() + ")" }

// MetricRefs returns the names referenced by the expression, in first-use
// order and without duplicates.
func MetricRefs(expr Expr) []string {
	var names []string
	seen := map[string]bool{}
	var walk func(e Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case *MetricRef:
			if !seen[n.Name] {
				seen[n.Name] = true
				names = append(names, n.Name)
			}
		case *UnaryExpr:
			walk(n.X)
		case *BinaryExpr:
			walk(n.LHS)
			walk(n.RHS)
		case *ParenExpr:
			walk(n.X)
		}
	}
	walk(expr)
	return names
}

// CleanFormula collapses whitespace in a raw formula string for display,
// e.g. " [a] \n + [b]" -> "[a] + [b]".
func CleanFormula(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}
