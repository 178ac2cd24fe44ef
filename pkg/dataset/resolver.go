package dataset

import (
	"github.com/widetable-labs/widetable/pkg/schema"
)

// ResolvedAttribute is one column of the flattened table: an attribute
// plus the path it was reached through and its final display name.
type ResolvedAttribute struct {
	// Path is empty for attributes of the root entity.
	Path Path

	Attribute *schema.Attribute

	// Name is the prefixed, normalized display name, unique within the
	// resolution.
	Name string

	// Explicit is true for attributes reinstated by IncludeAttributes.
	// Explicit attributes bypass visibility flag filtering downstream.
	Explicit bool
}

// Resolution is the output of path resolution: the ordered attribute
// closure of a data set and the ordered list of paths to join. Root
// attributes come first, then one block per path in traversal order.
type Resolution struct {
	DataSet    *DataSet
	Attributes []ResolvedAttribute
	Paths      []Path
}

// Resolve computes the data set's attribute closure by breadth-first
// traversal of the entity graph from the root. Traversal follows
// link-insertion order at each entity, so the result is deterministic.
//
// A path is followed unless it is excluded, or it is longer than
// MaxLinkDepth and not reinstated by IncludePath. Cycles in the entity
// graph terminate at the depth bound; revisiting an entity via a longer
// path is permitted and yields a distinct path. With UnlimitedDepth,
// a path never traverses the same link twice so that cyclic graphs
// still terminate.
func (d *DataSet) Resolve() (*Resolution, error) {
	if !d.finalized {
		return nil, &NotFinalizedError{DataSet: d.Name}
	}

	var paths []Path
	queue := []Path{nil}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		entity := current.Target()
		if entity == nil {
			entity = d.Entity
		}
		for _, link := range entity.Links() {
			next := current.Extend(link)
			if _, excluded := d.excludedPaths[next.Key()]; excluded {
				continue
			}
			_, reinstated := d.includedPaths[next.Key()]
			if d.MaxLinkDepth >= 0 && len(next) > d.MaxLinkDepth && !reinstated {
				continue
			}
			if d.MaxLinkDepth < 0 && current.Contains(link) {
				continue
			}
			paths = append(paths, next)
			queue = append(queue, next)
		}
	}

	resolution := &Resolution{DataSet: d, Paths: paths}
	seen := map[string]Path{}

	emit := func(path Path, attr *schema.Attribute, explicit bool) error {
		name := path.AttributeName(attr)
		if first, dup := seen[name]; dup {
			return &AmbiguousNameError{DataSet: d.Name, Name: name, First: first, Second: path}
		}
		seen[name] = path
		resolution.Attributes = append(resolution.Attributes, ResolvedAttribute{
			Path:      path,
			Attribute: attr,
			Name:      name,
			Explicit:  explicit,
		})
		return nil
	}

	// Root attributes are always included, regardless of the depth bound
	// and of AccessibleViaEntityLink.
	for _, attr := range d.Entity.Attributes() {
		if err := emit(nil, attr, false); err != nil {
			return nil, err
		}
	}

	for _, path := range paths {
		included, exclusive := d.includedAttributes[path.Key()]
		excluded := d.excludedAttributes[path.Key()]

		for _, attr := range path.Target().Attributes() {
			if exclusive {
				if !containsAttribute(included, attr) {
					continue
				}
			} else if !attr.AccessibleViaEntityLink {
				continue
			}
			if containsAttribute(excluded, attr) {
				continue
			}
			if err := emit(path, attr, exclusive); err != nil {
				return nil, err
			}
		}
	}

	return resolution, nil
}

func containsAttribute(attrs []*schema.Attribute, attr *schema.Attribute) bool {
	for _, a := range attrs {
		if a == attr {
			return true
		}
	}
	return false
}
