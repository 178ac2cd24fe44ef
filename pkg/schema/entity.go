package schema

// Entity is a business object backed by a table in the dimensional
// schema. It owns an ordered list of attributes (insertion order is
// display order) and an ordered list of outgoing links to other entities.
type Entity struct {
	// Name is a short noun phrase, e.g. "Customer" or "Order item".
	// Unique across the entity graph.
	Name string

	// Description explains the underlying business process.
	Description string

	// SchemaName is the database schema of the underlying table, e.g. "e_dim".
	SchemaName string

	// TableName defaults to the snake-cased entity name.
	TableName string

	// PKColumnName defaults to "<table_name>_id".
	PKColumnName string

	attributes []*Attribute
	links      []*EntityLink
	frozen     bool
}

// EntitySpec holds the parameters for NewEntity.
type EntitySpec struct {
	Name        string
	Description string
	SchemaName  string

	// TableName defaults to the snake-cased name.
	TableName string

	// PKColumnName defaults to "<table_name>_id".
	PKColumnName string
}

// NewEntity creates an entity from a spec, applying table and primary-key
// naming defaults.
func NewEntity(spec EntitySpec) *Entity {
	tableName := spec.TableName
	if tableName == "" {
		tableName = SnakeCase(spec.Name)
	}
	pkColumn := spec.PKColumnName
	if pkColumn == "" {
		pkColumn = tableName + "_id"
	}
	return &Entity{
		Name:         spec.Name,
		Description:  spec.Description,
		SchemaName:   spec.SchemaName,
		TableName:    tableName,
		PKColumnName: pkColumn,
	}
}

// AddAttribute appends a new attribute to the entity and returns it.
// Returns a DuplicateNameError if an attribute with the same name already
// exists, or a FrozenError after Freeze.
func (e *Entity) AddAttribute(spec AttributeSpec) (*Attribute, error) {
	if e.frozen {
		return nil, &FrozenError{Entity: e.Name}
	}
	for _, a := range e.attributes {
		if a.Name == spec.Name {
			return nil, &DuplicateNameError{Entity: e.Name, Name: spec.Name}
		}
	}

	columnName := spec.ColumnName
	if columnName == "" {
		columnName = SnakeCase(spec.Name)
	}
	attr := &Attribute{
		Name:                    spec.Name,
		Description:             spec.Description,
		ColumnName:              columnName,
		Type:                    spec.Type,
		HighCardinality:         spec.HighCardinality,
		PersonalData:            spec.PersonalData,
		ImportantField:          spec.ImportantField,
		AccessibleViaEntityLink: !spec.ExcludeFromEntityLinks,
	}
	e.attributes = append(e.attributes, attr)
	return attr, nil
}

// LinkEntity appends a foreign-key link to target and returns it. A second
// link to the same target requires a distinct prefix; omitting the prefix
// when one link to the target already exists is a DuplicateLinkError.
func (e *Entity) LinkEntity(target *Entity, spec LinkSpec) (*EntityLink, error) {
	if e.frozen {
		return nil, &FrozenError{Entity: e.Name}
	}

	prefix := spec.Prefix
	if prefix == "" {
		prefix = target.Name
	}
	for _, l := range e.links {
		if l.Target == target && l.Prefix == prefix {
			return nil, &DuplicateLinkError{Entity: e.Name, Target: target.Name, Prefix: prefix}
		}
	}

	fkColumn := spec.FKColumn
	if fkColumn == "" {
		fkColumn = target.TableName + "_fk"
	}
	link := &EntityLink{
		Source:      e,
		Target:      target,
		Prefix:      prefix,
		FKColumn:    fkColumn,
		Description: spec.Description,
	}
	e.links = append(e.links, link)
	return link, nil
}

// Attributes returns the entity's attributes in insertion order.
func (e *Entity) Attributes() []*Attribute {
	return e.attributes
}

// Links returns the entity's outgoing links in insertion order.
func (e *Entity) Links() []*EntityLink {
	return e.links
}

// FindAttribute looks up an attribute by display name.
func (e *Entity) FindAttribute(name string) (*Attribute, error) {
	for _, a := range e.attributes {
		if a.Name == name {
			return a, nil
		}
	}
	return nil, &AttributeNotFoundError{Entity: e.Name, Name: name}
}

// FindEntityLink looks up a link by target entity name and optional
// prefix. With an empty prefix, exactly one link to the target must
// exist; otherwise an AmbiguousLinkError is returned.
func (e *Entity) FindEntityLink(targetName, prefix string) (*EntityLink, error) {
	var found *EntityLink
	for _, l := range e.links {
		if l.Target.Name != targetName {
			continue
		}
		if prefix != "" {
			if l.Prefix == prefix {
				return l, nil
			}
			continue
		}
		if found != nil {
			return nil, &AmbiguousLinkError{Entity: e.Name, Target: targetName}
		}
		found = l
	}
	if found == nil {
		return nil, &LinkNotFoundError{Entity: e.Name, Target: targetName, Prefix: prefix}
	}
	return found, nil
}

// Frozen reports whether the entity has been frozen.
func (e *Entity) Frozen() bool {
	return e.frozen
}

// Freeze marks the entity and every entity reachable from it as
// read-only. After freezing, path resolution and SQL generation may run
// concurrently over the graph.
func Freeze(roots ...*Entity) {
	seen := map[*Entity]bool{}
	var walk func(e *Entity)
	walk = func(e *Entity) {
		if seen[e] {
			return
		}
		seen[e] = true
		e.frozen = true
		for _, l := range e.links {
			walk(l.Target)
		}
	}
	for _, r := range roots {
		walk(r)
	}
}

// ConnectedEntities returns the set of entities reachable from e,
// including e itself, in first-visit order.
func ConnectedEntities(e *Entity) []*Entity {
	seen := map[*Entity]bool{e: true}
	result := []*Entity{e}
	var walk func(e *Entity)
	walk = func(e *Entity) {
		for _, l := range e.links {
			if !seen[l.Target] {
				seen[l.Target] = true
				result = append(result, l.Target)
				walk(l.Target)
			}
		}
	}
	walk(e)
	return result
}
