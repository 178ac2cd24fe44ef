package dataset

import (
	"strings"

	"github.com/widetable-labs/widetable/pkg/schema"
)

// Path is the ordered sequence of entity links traversed from a data
// set's root entity to reach a linked entity. The same target entity
// reached via two distinct paths is two distinct paths; identity is the
// sequence of (target, prefix) pairs, not the sequence of entities.
// An empty path denotes the root entity itself.
type Path []*schema.EntityLink

// Extend returns a new path with link appended. The receiver is not
// modified.
func (p Path) Extend(link *schema.EntityLink) Path {
	next := make(Path, len(p), len(p)+1)
	copy(next, p)
	return append(next, link)
}

// Parent returns the path without its last link.
func (p Path) Parent() Path {
	return p[:len(p)-1]
}

// Target returns the entity the path leads to, or nil for the empty path.
func (p Path) Target() *schema.Entity {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1].Target
}

// Contains reports whether the path already traverses the given link.
func (p Path) Contains(link *schema.EntityLink) bool {
	for _, l := range p {
		if l == link {
			return true
		}
	}
	return false
}

// Key returns a canonical string identity for the path, usable as a map
// key. Two paths have the same key iff they traverse the same links.
func (p Path) Key() string {
	parts := make([]string, len(p))
	for i, l := range p {
		parts[i] = l.Target.Name + "\x1e" + l.Prefix
	}
	return strings.Join(parts, "\x1f")
}

// Alias returns the table alias for the path's target: the link prefixes
// followed by the target entity name, normalized. E.g. a "First order"
// link to entity "Order" yields "First order".
func (p Path) Alias() string {
	parts := make([]string, 0, len(p)+1)
	for _, l := range p {
		parts = append(parts, l.Prefix)
	}
	parts = append(parts, p.Target().Name)
	return schema.NormalizeName(strings.Join(parts, " "))
}

// AttributeName returns the display name of an attribute pulled in
// through the path: the lower-cased link prefixes followed by the
// attribute name, normalized. E.g. "First order" + "Order date" ->
// "First order date". For the empty path the attribute name is used
// as-is.
func (p Path) AttributeName(attr *schema.Attribute) string {
	if len(p) == 0 {
		return schema.NormalizeName(attr.Name)
	}
	parts := make([]string, 0, len(p)+1)
	for _, l := range p {
		parts = append(parts, strings.ToLower(l.Prefix))
	}
	parts = append(parts, schema.FirstLower(attr.Name))
	return schema.NormalizeName(strings.Join(parts, " "))
}

// String renders the path for error messages, e.g. "Order > Customer".
func (p Path) String() string {
	if len(p) == 0 {
		return "<root>"
	}
	parts := make([]string, len(p))
	for i, l := range p {
		parts[i] = l.Prefix
	}
	return strings.Join(parts, " > ")
}
