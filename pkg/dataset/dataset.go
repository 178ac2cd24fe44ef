package dataset

import (
	"fmt"

	"github.com/widetable-labs/widetable/pkg/schema"
)

// UnlimitedDepth disables the entity link depth bound of a data set.
const UnlimitedDepth = -1

// PathToken identifies one link step in an override path: the target
// entity name plus the link prefix when more than one link to that
// target exists.
type PathToken struct {
	Target string
	Prefix string
}

// DataSet binds a root entity, metrics and path overrides into one
// reporting artifact. Builder methods may be called until Finalize;
// afterwards the data set is read-only and Resolve / ResolveMetrics may
// run concurrently.
type DataSet struct {
	// Entity is the root of path resolution.
	Entity *schema.Entity

	// Name of the data set, e.g. "Order items".
	Name string

	// MaxLinkDepth bounds traversal: no emitted path is longer than
	// this unless reinstated by IncludePath. UnlimitedDepth disables
	// the bound.
	MaxLinkDepth int

	metrics     []Metric
	metricIndex map[string]Metric

	excludedPaths map[string]Path
	includedPaths map[string]Path

	// includedAttributes makes a path's attribute set exclusive to the
	// listed attributes; excludedAttributes removes from the default set.
	includedAttributes map[string][]*schema.Attribute
	excludedAttributes map[string][]*schema.Attribute

	finalized bool
}

// New creates a data set rooted at entity. maxLinkDepth bounds path
// resolution, pass UnlimitedDepth for no bound.
func New(entity *schema.Entity, name string, maxLinkDepth int) *DataSet {
	return &DataSet{
		Entity:             entity,
		Name:               name,
		MaxLinkDepth:       maxLinkDepth,
		metricIndex:        map[string]Metric{},
		excludedPaths:      map[string]Path{},
		includedPaths:      map[string]Path{},
		includedAttributes: map[string][]*schema.Attribute{},
		excludedAttributes: map[string][]*schema.Attribute{},
	}
}

// AddSimpleMetric adds a metric that is a direct aggregation of a
// column of the root entity's table.
func (d *DataSet) AddSimpleMetric(spec SimpleMetricSpec) (*SimpleMetric, error) {
	if d.finalized {
		return nil, &FinalizedError{DataSet: d.Name}
	}
	if _, exists := d.metricIndex[spec.Name]; exists {
		return nil, &DuplicateMetricError{DataSet: d.Name, Name: spec.Name}
	}

	columnName := spec.ColumnName
	if columnName == "" {
		columnName = schema.SnakeCase(spec.Name)
	}
	format := spec.NumberFormat
	if format == "" {
		format = Standard
	}
	m := &SimpleMetric{
		Name:           spec.Name,
		Description:    spec.Description,
		ColumnName:     columnName,
		Aggregation:    spec.Aggregation,
		ImportantField: spec.ImportantField,
		NumberFormat:   format,
	}
	d.metrics = append(d.metrics, m)
	d.metricIndex[m.Name] = m
	return m, nil
}

// AddComposedMetric adds a metric computed from other metrics by a
// formula. The formula is parsed and its references validated at
// resolution time, not here, so metrics may be added in any order.
func (d *DataSet) AddComposedMetric(spec ComposedMetricSpec) (*ComposedMetric, error) {
	if d.finalized {
		return nil, &FinalizedError{DataSet: d.Name}
	}
	if _, exists := d.metricIndex[spec.Name]; exists {
		return nil, &DuplicateMetricError{DataSet: d.Name, Name: spec.Name}
	}

	format := spec.NumberFormat
	if format == "" {
		format = Standard
	}
	m := &ComposedMetric{
		Name:           spec.Name,
		Description:    spec.Description,
		Formula:        spec.Formula,
		ImportantField: spec.ImportantField,
		NumberFormat:   format,
	}
	d.metrics = append(d.metrics, m)
	d.metricIndex[m.Name] = m
	return m, nil
}

// Metrics returns the data set's metrics in insertion order.
func (d *DataSet) Metrics() []Metric {
	return d.metrics
}

// MetricByName looks up a metric by display name.
func (d *DataSet) MetricByName(name string) (Metric, bool) {
	m, ok := d.metricIndex[name]
	return m, ok
}

// resolvePath turns override tokens into the entity links they name,
// starting at the root entity. Mistyped tokens fail here, at
// registration time, rather than silently matching nothing during
// resolution.
func (d *DataSet) resolvePath(tokens []PathToken) (Path, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("data set %q: override path must name at least one entity", d.Name)
	}
	var path Path
	entity := d.Entity
	for _, tok := range tokens {
		link, err := entity.FindEntityLink(tok.Target, tok.Prefix)
		if err != nil {
			return nil, err
		}
		path = append(path, link)
		entity = link.Target
	}
	return path, nil
}

// ExcludePath blocks a path entirely: no attributes are pulled in
// through it and traversal does not continue past it.
func (d *DataSet) ExcludePath(tokens ...PathToken) error {
	if d.finalized {
		return &FinalizedError{DataSet: d.Name}
	}
	path, err := d.resolvePath(tokens)
	if err != nil {
		return err
	}
	d.excludedPaths[path.Key()] = path
	return nil
}

// IncludePath reinstates a path that would otherwise be pruned by
// MaxLinkDepth.
func (d *DataSet) IncludePath(tokens ...PathToken) error {
	if d.finalized {
		return &FinalizedError{DataSet: d.Name}
	}
	path, err := d.resolvePath(tokens)
	if err != nil {
		return err
	}
	d.includedPaths[path.Key()] = path
	return nil
}

// ExcludeAttributes removes the named attributes of the path's target
// entity from the data set. With no names, all attributes of the target
// are excluded (the join is still made if traversal continues past it).
func (d *DataSet) ExcludeAttributes(tokens []PathToken, names ...string) error {
	if d.finalized {
		return &FinalizedError{DataSet: d.Name}
	}
	path, err := d.resolvePath(tokens)
	if err != nil {
		return err
	}
	target := path.Target()

	var attrs []*schema.Attribute
	if len(names) == 0 {
		attrs = target.Attributes()
	} else {
		for _, name := range names {
			attr, err := target.FindAttribute(name)
			if err != nil {
				return err
			}
			attrs = append(attrs, attr)
		}
	}
	d.excludedAttributes[path.Key()] = attrs
	return nil
}

// IncludeAttributes makes the path's attribute set exclusive to the
// named attributes. Listed attributes are emitted even when flagged
// inaccessible via entity links or filtered by visibility flags.
func (d *DataSet) IncludeAttributes(tokens []PathToken, names ...string) error {
	if d.finalized {
		return &FinalizedError{DataSet: d.Name}
	}
	path, err := d.resolvePath(tokens)
	if err != nil {
		return err
	}
	target := path.Target()

	var attrs []*schema.Attribute
	for _, name := range names {
		attr, err := target.FindAttribute(name)
		if err != nil {
			return err
		}
		attrs = append(attrs, attr)
	}
	d.includedAttributes[path.Key()] = attrs
	return nil
}

// Finalize freezes the data set and the entity graph reachable from its
// root. After Finalize, builder methods fail and resolution may run.
func (d *DataSet) Finalize() error {
	if d.finalized {
		return &FinalizedError{DataSet: d.Name}
	}
	schema.Freeze(d.Entity)
	d.finalized = true
	return nil
}

// Finalized reports whether Finalize has been called.
func (d *DataSet) Finalized() bool {
	return d.finalized
}
