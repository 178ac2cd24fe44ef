// Package dataset binds a root entity, a list of metrics and a set of
// path overrides into a data set, the unit of SQL generation. A data set
// is assembled with builder methods, finalized once, and from then on
// resolved read-only: the path resolver computes the reachable attribute
// closure and the metric resolver linearizes the metric dependency graph.
package dataset
