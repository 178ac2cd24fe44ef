package schema

import "fmt"

// DuplicateNameError is returned when an attribute name collides within
// an entity.
type DuplicateNameError struct {
	Entity string
	Name   string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("attribute %q already exists in entity %q", e.Name, e.Entity)
}

// DuplicateLinkError is returned when an entity already has a link to the
// same target with the same prefix. A second link to the same target
// requires a disambiguating prefix.
type DuplicateLinkError struct {
	Entity string
	Target string
	Prefix string
}

func (e *DuplicateLinkError) Error() string {
	return fmt.Sprintf("entity %q already links to %q with prefix %q", e.Entity, e.Target, e.Prefix)
}

// FrozenError is returned when a builder method is called after the
// entity graph has been frozen.
type FrozenError struct {
	Entity string
}

func (e *FrozenError) Error() string {
	return fmt.Sprintf("entity %q is frozen and can no longer be modified", e.Entity)
}

// AttributeNotFoundError is returned by FindAttribute for unknown names.
type AttributeNotFoundError struct {
	Entity string
	Name   string
}

func (e *AttributeNotFoundError) Error() string {
	return fmt.Sprintf("attribute %q not found in entity %q", e.Name, e.Entity)
}

// LinkNotFoundError is returned by FindEntityLink when no link matches the
// given target name and prefix.
type LinkNotFoundError struct {
	Entity string
	Target string
	Prefix string
}

func (e *LinkNotFoundError) Error() string {
	if e.Prefix != "" {
		return fmt.Sprintf("no link to %q with prefix %q in entity %q", e.Target, e.Prefix, e.Entity)
	}
	return fmt.Sprintf("no link to %q in entity %q", e.Target, e.Entity)
}

// AmbiguousLinkError is returned by FindEntityLink when multiple links to
// the same target match and no prefix was given to disambiguate.
type AmbiguousLinkError struct {
	Entity string
	Target string
}

func (e *AmbiguousLinkError) Error() string {
	return fmt.Sprintf("multiple links to %q in entity %q, a prefix is required", e.Target, e.Entity)
}
