// Package schema models a dimensional warehouse schema as a graph of
// business entities. An Entity corresponds to a table, its Attributes to
// descriptive columns, and its EntityLinks to foreign-key relationships
// to other entities. The graph is assembled once through builder methods
// and then frozen; cycles between entities are legal and expected
// (e.g. Order -> Customer and Customer -> Order via "first order").
package schema
