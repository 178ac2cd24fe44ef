package dataset

import (
	"fmt"
	"strings"
)

// DuplicateMetricError is returned when a metric name is added twice to
// the same data set.
type DuplicateMetricError struct {
	DataSet string
	Name    string
}

func (e *DuplicateMetricError) Error() string {
	return fmt.Sprintf("metric %q already exists in data set %q", e.Name, e.DataSet)
}

// FinalizedError is returned when a builder method is called after
// Finalize.
type FinalizedError struct {
	DataSet string
}

func (e *FinalizedError) Error() string {
	return fmt.Sprintf("data set %q is finalized and can no longer be modified", e.DataSet)
}

// NotFinalizedError is returned when resolution is attempted before
// Finalize.
type NotFinalizedError struct {
	DataSet string
}

func (e *NotFinalizedError) Error() string {
	return fmt.Sprintf("data set %q must be finalized before resolution", e.DataSet)
}

// UnknownMetricError is returned when a composed metric's formula
// references a metric name that does not exist in the data set.
type UnknownMetricError struct {
	DataSet   string
	Metric    string
	Reference string
}

func (e *UnknownMetricError) Error() string {
	return fmt.Sprintf("metric %q in data set %q references unknown metric %q",
		e.Metric, e.DataSet, e.Reference)
}

// CyclicMetricError is returned when the metric dependency graph cannot
// be linearized.
type CyclicMetricError struct {
	DataSet string
	Cycle   []string
}

func (e *CyclicMetricError) Error() string {
	return fmt.Sprintf("cyclic metric dependency in data set %q: %s",
		e.DataSet, strings.Join(e.Cycle, " -> "))
}

// AmbiguousNameError is returned when two resolved attributes end up
// with the same display name even after prefixing. The two paths are
// reported so that a disambiguating link prefix or an exclusion
// override can be added.
type AmbiguousNameError struct {
	DataSet string
	Name    string
	First   Path
	Second  Path
}

func (e *AmbiguousNameError) Error() string {
	return fmt.Sprintf("ambiguous attribute name %q in data set %q: reached via %s and %s",
		e.Name, e.DataSet, e.First, e.Second)
}
