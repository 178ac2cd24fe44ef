package dataset

import (
	"fmt"

	"github.com/widetable-labs/widetable/pkg/formula"
)

// Aggregation is the aggregation method of a simple metric.
type Aggregation string

// Aggregation methods.
const (
	Sum           Aggregation = "sum"
	Average       Aggregation = "avg"
	Count         Aggregation = "count"
	DistinctCount Aggregation = "distinct-count"
	Min           Aggregation = "min"
	Max           Aggregation = "max"
)

// NumberFormat tells front-ends how to format metric values.
type NumberFormat string

// Number formats.
const (
	Standard NumberFormat = "Standard"
	Currency NumberFormat = "Currency"
	Percent  NumberFormat = "Percent"
)

// Metric is a numeric, aggregatable fact of a data set. Concrete types
// are SimpleMetric and ComposedMetric.
type Metric interface {
	// MetricName returns the display name, unique within the data set.
	MetricName() string

	// DisplayFormula returns a documentation string for front-ends.
	DisplayFormula() string
}

// SimpleMetric is a direct aggregation of a column of the root entity's
// table, e.g. SUM(revenue).
type SimpleMetric struct {
	Name           string
	Description    string
	ColumnName     string
	Aggregation    Aggregation
	ImportantField bool
	NumberFormat   NumberFormat
}

// MetricName implements Metric.
func (m *SimpleMetric) MetricName() string { return m.Name }

// DisplayFormula implements Metric, e.g. "sum(revenue)".
func (m *SimpleMetric) DisplayFormula() string {
	return fmt.Sprintf("%s(%s)", m.Aggregation, m.ColumnName)
}

// ComposedMetric is computed from other metrics by an arithmetic
// formula with bracketed references, e.g. "[Revenue] / [# Orders]".
// The formula is parsed and validated at metric resolution time.
type ComposedMetric struct {
	Name           string
	Description    string
	Formula        string
	ImportantField bool
	NumberFormat   NumberFormat
}

// MetricName implements Metric.
func (m *ComposedMetric) MetricName() string { return m.Name }

// DisplayFormula implements Metric. Whitespace in the raw formula is
// collapsed, e.g. " [a] \n + [b]" -> "[a] + [b]".
func (m *ComposedMetric) DisplayFormula() string {
	return formula.CleanFormula(m.Formula)
}

// SimpleMetricSpec holds the parameters for DataSet.AddSimpleMetric.
type SimpleMetricSpec struct {
	Name        string
	Description string

	// ColumnName defaults to the snake-cased name.
	ColumnName string

	Aggregation    Aggregation
	ImportantField bool

	// NumberFormat defaults to Standard.
	NumberFormat NumberFormat
}

// ComposedMetricSpec holds the parameters for DataSet.AddComposedMetric.
type ComposedMetricSpec struct {
	Name        string
	Description string

	// Formula references other metrics of the data set in bracket
	// syntax, e.g. "[Metric A] / ([Metric B] + [Metric C])".
	Formula string

	ImportantField bool

	// NumberFormat defaults to Standard.
	NumberFormat NumberFormat
}
