package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// fileSpec is the top-level structure of a schema definition file.
// Entities and data sets may be spread over multiple files in the same
// directory; links may reference entities defined elsewhere.
type fileSpec struct {
	Entities []entitySpec  `yaml:"entities"`
	DataSets []dataSetSpec `yaml:"data_sets"`
}

type entitySpec struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Schema      string          `yaml:"schema"`
	Table       string          `yaml:"table"`
	PKColumn    string          `yaml:"pk_column"`
	Attributes  []attributeSpec `yaml:"attributes"`
	Links       []linkSpec      `yaml:"links"`
}

type attributeSpec struct {
	Name            string `yaml:"name"`
	Description     string `yaml:"description"`
	Column          string `yaml:"column"`
	Type            string `yaml:"type"`
	HighCardinality bool   `yaml:"high_cardinality"`
	PersonalData    bool   `yaml:"personal_data"`
	ImportantField  bool   `yaml:"important_field"`

	// AccessibleViaEntityLink defaults to true when omitted.
	AccessibleViaEntityLink *bool `yaml:"accessible_via_entity_link"`
}

type linkSpec struct {
	Target      string `yaml:"target"`
	Prefix      string `yaml:"prefix"`
	FKColumn    string `yaml:"fk_column"`
	Description string `yaml:"description"`
}

type dataSetSpec struct {
	Name   string `yaml:"name"`
	Entity string `yaml:"entity"`

	// MaxLinkDepth is unlimited when omitted.
	MaxLinkDepth *int `yaml:"max_link_depth"`

	IncludePaths      []pathSpec          `yaml:"include_paths"`
	ExcludePaths      []pathSpec          `yaml:"exclude_paths"`
	IncludeAttributes []attributeOverride `yaml:"include_attributes"`
	ExcludeAttributes []attributeOverride `yaml:"exclude_attributes"`
	Metrics           []metricSpec        `yaml:"metrics"`
}

type attributeOverride struct {
	Path       pathSpec `yaml:"path"`
	Attributes []string `yaml:"attributes"`
}

type metricSpec struct {
	Name           string `yaml:"name"`
	Description    string `yaml:"description"`
	Type           string `yaml:"type"` // "simple" (default) or "composed"
	Column         string `yaml:"column"`
	Aggregation    string `yaml:"aggregation"`
	Formula        string `yaml:"formula"`
	ImportantField bool   `yaml:"important_field"`
	NumberFormat   string `yaml:"number_format"`
}

// pathSpec is a sequence of path tokens.
type pathSpec []pathTokenSpec

// pathTokenSpec is one step of an override path. In YAML it is either a
// plain entity name or a mapping with target and prefix:
//
//	exclude_paths:
//	  - [Order, Customer]
//	  - [{target: Order, prefix: First order}]
type pathTokenSpec struct {
	Target string `yaml:"target"`
	Prefix string `yaml:"prefix"`
}

func (t *pathTokenSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		t.Target = node.Value
		return nil
	case yaml.MappingNode:
		type plain pathTokenSpec
		return node.Decode((*plain)(t))
	default:
		return fmt.Errorf("line %d: path token must be an entity name or a {target, prefix} mapping", node.Line)
	}
}
