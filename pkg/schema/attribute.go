package schema

// Type classifies an attribute for artifact generation. ID and ENUM
// attributes are cast to text in flattened tables so that they can be
// filtered; DATE and DURATION attributes reference time dimensions.
type Type string

// Attribute types.
const (
	TypeID       Type = "id"
	TypeText     Type = "text"
	TypeEnum     Type = "enum"
	TypeDate     Type = "date"
	TypeDuration Type = "duration"
	TypeNumber   Type = "number"
	TypeArray    Type = "array"
)

// Attribute is a descriptive column of an entity. Attributes are owned by
// exactly one Entity and are immutable once the entity is frozen.
type Attribute struct {
	// Name is how the attribute is displayed in front-ends, e.g. "Order date".
	// Unique within the owning entity.
	Name string

	// Description is a business definition of the attribute.
	Description string

	// ColumnName is the column in the underlying table. Defaults to the
	// snake-cased name.
	ColumnName string

	// Type controls casting and dimension treatment, see Type.
	Type Type

	// HighCardinality marks columns whose values are mostly unique.
	HighCardinality bool

	// PersonalData marks person-related data, e.g. "Email address".
	PersonalData bool

	// ImportantField marks attributes shown by default in overviews.
	ImportantField bool

	// AccessibleViaEntityLink is false for attributes that are private to
	// the entity's own data sets and must not be pulled in through links.
	AccessibleViaEntityLink bool
}

// AttributeSpec holds the parameters for Entity.AddAttribute.
type AttributeSpec struct {
	Name        string
	Description string

	// ColumnName defaults to the snake-cased name.
	ColumnName string

	Type            Type
	HighCardinality bool
	PersonalData    bool
	ImportantField  bool

	// ExcludeFromEntityLinks makes the attribute private to data sets
	// rooted at the owning entity (AccessibleViaEntityLink = false).
	ExcludeFromEntityLinks bool
}
