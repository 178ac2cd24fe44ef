package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SingleReference(t *testing.T) {
	expr, err := Parse("[Revenue]")
	require.NoError(t, err)

	ref, ok := expr.(*MetricRef)
	require.True(t, ok)
	assert.Equal(t, "Revenue", ref.Name)
}

func TestParse_Precedence(t *testing.T) {
	// Division binds tighter than addition: a + b/c, not (a+b)/c.
	expr, err := Parse("[A] + [B] / [C]")
	require.NoError(t, err)

	add, ok := expr.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, PLUS, add.Op)
	assert.IsType(t, &MetricRef{}, add.LHS)

	div, ok := add.RHS.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, SLASH, div.Op)
}

func TestParse_Parentheses(t *testing.T) {
	expr, err := Parse("[A] / ([B] + [C])")
	require.NoError(t, err)

	div, ok := expr.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, SLASH, div.Op)

	paren, ok := div.RHS.(*ParenExpr)
	require.True(t, ok)
	inner, ok := paren.X.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, PLUS, inner.Op)
}

func TestParse_LeftAssociative(t *testing.T) {
	// a - b - c parses as (a-b)-c.
	expr, err := Parse("[A] - [B] - [C]")
	require.NoError(t, err)

	outer, ok := expr.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, MINUS, outer.Op)
	inner, ok := outer.LHS.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, MINUS, inner.Op)
}

func TestParse_NumbersAndUnary(t *testing.T) {
	expr, err := Parse("100 * [Conversion rate]")
	require.NoError(t, err)
	mul, ok := expr.(*BinaryExpr)
	require.True(t, ok)
	num, ok := mul.LHS.(*NumberLit)
	require.True(t, ok)
	assert.Equal(t, "100", num.Value)

	expr, err = Parse("-[Refunds] + 0.5")
	require.NoError(t, err)
	add, ok := expr.(*BinaryExpr)
	require.True(t, ok)
	assert.IsType(t, &UnaryExpr{}, add.LHS)
}

func TestParse_MetricNamesWithPunctuation(t *testing.T) {
	expr, err := Parse("[Revenue (lifetime)] / [# Orders]")
	require.NoError(t, err)

	refs := MetricRefs(expr)
	assert.Equal(t, []string{"Revenue (lifetime)", "# Orders"}, refs)
}

func TestParse_MultilineFormula(t *testing.T) {
	expr, err := Parse(" [Product revenue] \n + [Shipping revenue] ")
	require.NoError(t, err)
	assert.Equal(t, "[Product revenue] + [Shipping revenue]", expr.String())
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated bracket", "[Revenue"},
		{"nested bracket", "[Revenue [x]]"},
		{"empty reference", "[] + [A]"},
		{"unknown character", "[A] & [B]"},
		{"dangling operator", "[A] +"},
		{"missing close paren", "([A] + [B]"},
		{"adjacent references", "[A] [B]"},
		{"empty formula", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr, "input %q", tt.input)
		})
	}
}

func TestMetricRefs_Deduplicates(t *testing.T) {
	expr, err := Parse("[A] / ([A] + [B])")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, MetricRefs(expr))
}

func TestCleanFormula(t *testing.T) {
	assert.Equal(t, "[a] + [b]", CleanFormula(" [a] \n +   [b] "))
}

func TestExprString_RoundTrip(t *testing.T) {
	tests := []string{
		"[A] + [B]",
		"[A] / ([B] + [C])",
		"100 * [Rate] - 1",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expr, err := Parse(input)
			require.NoError(t, err)
			assert.Equal(t, input, expr.String())
		})
	}
}
