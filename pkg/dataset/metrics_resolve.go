package dataset

import (
	"github.com/widetable-labs/widetable/internal/dag"
	"github.com/widetable-labs/widetable/pkg/formula"
)

// MetricResolution is the output of metric resolution: all metrics of
// the data set in dependency order (referenced metrics before the
// metrics referencing them, insertion order otherwise) plus the parsed
// formula of every composed metric.
type MetricResolution struct {
	Order []Metric
	Exprs map[string]formula.Expr
}

// ResolveMetrics parses the formulas of all composed metrics, validates
// their references and linearizes the metric dependency graph. Simple
// metrics are always roots of the graph. Fails with a
// *formula.SyntaxError, *UnknownMetricError or *CyclicMetricError; no
// partial result is returned.
func (d *DataSet) ResolveMetrics() (*MetricResolution, error) {
	if !d.finalized {
		return nil, &NotFinalizedError{DataSet: d.Name}
	}

	graph := dag.NewGraph()
	exprs := map[string]formula.Expr{}

	for _, m := range d.metrics {
		graph.AddNode(m.MetricName(), m)
	}

	for _, m := range d.metrics {
		composed, ok := m.(*ComposedMetric)
		if !ok {
			continue
		}
		expr, err := formula.Parse(composed.Formula)
		if err != nil {
			return nil, err
		}
		exprs[composed.Name] = expr

		for _, ref := range formula.MetricRefs(expr) {
			if _, exists := d.metricIndex[ref]; !exists {
				return nil, &UnknownMetricError{DataSet: d.Name, Metric: composed.Name, Reference: ref}
			}
			if ref == composed.Name {
				return nil, &CyclicMetricError{DataSet: d.Name, Cycle: []string{composed.Name, composed.Name}}
			}
			if err := graph.AddEdge(ref, composed.Name); err != nil {
				return nil, err
			}
		}
	}

	if hasCycle, cycle := graph.HasCycle(); hasCycle {
		return nil, &CyclicMetricError{DataSet: d.Name, Cycle: cycle}
	}

	nodes, err := graph.TopologicalSort()
	if err != nil {
		return nil, err
	}
	order := make([]Metric, len(nodes))
	for i, node := range nodes {
		order[i] = node.Data.(Metric)
	}

	return &MetricResolution{Order: order, Exprs: exprs}, nil
}
