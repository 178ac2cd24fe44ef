package schema

// EntityLink is a directed foreign-key edge from one entity to another.
// The target reference is non-owning: entities are shared between links,
// never copied.
type EntityLink struct {
	// Source is the entity that carries the foreign-key column.
	Source *Entity

	// Target is the referenced entity.
	Target *Entity

	// Prefix disambiguates multiple links to the same target and renames
	// pulled-in attributes, e.g. "First order" + "Order date" ->
	// "First order date". Defaults to the target entity name.
	Prefix string

	// FKColumn is the foreign-key column in the source entity's table.
	// Defaults to "<target_table>_fk".
	FKColumn string

	// Description explains the relation between source and target.
	Description string
}

// LinkSpec holds the parameters for Entity.LinkEntity.
type LinkSpec struct {
	// FKColumn defaults to "<target_table>_fk".
	FKColumn string

	// Prefix defaults to the target entity name.
	Prefix string

	Description string
}
