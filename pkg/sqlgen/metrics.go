package sqlgen

import (
	"github.com/widetable-labs/widetable/pkg/dataset"
	"github.com/widetable-labs/widetable/pkg/formula"
)

// renderMetrics renders the SQL expression of every metric, keyed by
// metric name. Metrics are processed in dependency order so that a
// composed metric can inline the already rendered expressions of the
// metrics it references; the emitted SQL never refers to a sibling
// column alias.
func renderMetrics(ds *dataset.DataSet, res *dataset.MetricResolution, opts Options) map[string]string {
	rendered := map[string]string{}
	for _, m := range res.Order {
		switch metric := m.(type) {
		case *dataset.SimpleMetric:
			rendered[metric.Name] = simpleMetricSQL(ds, metric, opts)
		case *dataset.ComposedMetric:
			rendered[metric.Name] = renderExpr(res.Exprs[metric.Name], rendered)
		}
	}
	return rendered
}

// simpleMetricSQL renders a simple metric as a row-level expression.
// COUNT-style aggregations become a 0/1 indicator and all others are
// coalesced to 0, so that missing rows behind a LEFT JOIN aggregate to
// zero instead of null.
func simpleMetricSQL(ds *dataset.DataSet, m *dataset.SimpleMetric, opts Options) string {
	col := QuoteIdent(ds.Entity.Name) + "." + QuoteIdent(m.ColumnName)
	if !opts.PreComputedMetrics {
		return col
	}
	switch m.Aggregation {
	case dataset.Count, dataset.DistinctCount:
		return "(" + col + " IS NOT NULL)::INTEGER::SMALLINT"
	default:
		return "COALESCE(" + col + ", 0)"
	}
}

// renderExpr stringifies a parsed formula, substituting each metric
// reference with its rendered SQL. Division denominators are wrapped in
// NULLIF so that a zero or null denominator yields null instead of a
// divide-by-zero error.
func renderExpr(expr formula.Expr, rendered map[string]string) string {
	switch e := expr.(type) {
	case *formula.MetricRef:
		return "(" + rendered[e.Name] + ")"
	case *formula.NumberLit:
		return e.Value
	case *formula.UnaryExpr:
		return e.Op.String() + renderExpr(e.X, rendered)
	case *formula.BinaryExpr:
		lhs := renderExpr(e.LHS, rendered)
		rhs := renderExpr(e.RHS, rendered)
		if e.Op == formula.SLASH {
			return lhs + " / NULLIF(" + rhs + ", 0.0)"
		}
		return lhs + " " + e.Op.String() + " " + rhs
	case *formula.ParenExpr:
		return "(" + renderExpr(e.X, rendered) + ")"
	}
	return ""
}
