// Package loader reads entity graph and data set definitions from YAML
// files. Loading is two-phase: first all entities with their attributes
// are created, then links are wired, so that definitions may reference
// entities from other files regardless of file order. Data sets are
// assembled last and finalized, ready for SQL generation.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/widetable-labs/widetable/pkg/dataset"
	"github.com/widetable-labs/widetable/pkg/schema"
)

// Result holds a fully loaded, finalized schema.
type Result struct {
	// Entities by name.
	Entities map[string]*schema.Entity

	// DataSets in definition order, finalized.
	DataSets []*dataset.DataSet
}

// DataSet looks up a data set by name.
func (r *Result) DataSet(name string) (*dataset.DataSet, bool) {
	for _, ds := range r.DataSets {
		if ds.Name == name {
			return ds, true
		}
	}
	return nil, false
}

// Load reads all .yaml and .yml files in dir (sorted by name, so the
// result is deterministic) and assembles the entity graph and data sets.
func Load(dir string) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no schema definition files (*.yaml) found in %s", dir)
	}
	sort.Strings(files)

	specs := make([]fileSpec, len(files))
	for i, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &specs[i]); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	result := &Result{Entities: map[string]*schema.Entity{}}

	// Phase 1: entities and attributes.
	for i, spec := range specs {
		for _, es := range spec.Entities {
			if es.Name == "" {
				return nil, fmt.Errorf("%s: entity without a name", files[i])
			}
			if _, exists := result.Entities[es.Name]; exists {
				return nil, fmt.Errorf("%s: entity %q defined twice", files[i], es.Name)
			}
			entity := schema.NewEntity(schema.EntitySpec{
				Name:         es.Name,
				Description:  es.Description,
				SchemaName:   es.Schema,
				TableName:    es.Table,
				PKColumnName: es.PKColumn,
			})
			for _, as := range es.Attributes {
				attrType, err := parseAttributeType(as.Type)
				if err != nil {
					return nil, fmt.Errorf("%s: entity %q: %w", files[i], es.Name, err)
				}
				_, err = entity.AddAttribute(schema.AttributeSpec{
					Name:                   as.Name,
					Description:            as.Description,
					ColumnName:             as.Column,
					Type:                   attrType,
					HighCardinality:        as.HighCardinality,
					PersonalData:           as.PersonalData,
					ImportantField:         as.ImportantField,
					ExcludeFromEntityLinks: as.AccessibleViaEntityLink != nil && !*as.AccessibleViaEntityLink,
				})
				if err != nil {
					return nil, fmt.Errorf("%s: %w", files[i], err)
				}
			}
			result.Entities[es.Name] = entity
		}
	}

	// Phase 2: links, now that every entity exists.
	for i, spec := range specs {
		for _, es := range spec.Entities {
			entity := result.Entities[es.Name]
			for _, ls := range es.Links {
				target, ok := result.Entities[ls.Target]
				if !ok {
					return nil, fmt.Errorf("%s: entity %q links to unknown entity %q",
						files[i], es.Name, ls.Target)
				}
				_, err := entity.LinkEntity(target, schema.LinkSpec{
					FKColumn:    ls.FKColumn,
					Prefix:      ls.Prefix,
					Description: ls.Description,
				})
				if err != nil {
					return nil, fmt.Errorf("%s: %w", files[i], err)
				}
			}
		}
	}

	// Phase 3: data sets.
	for i, spec := range specs {
		for _, dss := range spec.DataSets {
			ds, err := buildDataSet(result, dss)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", files[i], err)
			}
			result.DataSets = append(result.DataSets, ds)
		}
	}

	return result, nil
}

func buildDataSet(result *Result, spec dataSetSpec) (*dataset.DataSet, error) {
	root, ok := result.Entities[spec.Entity]
	if !ok {
		return nil, fmt.Errorf("data set %q: unknown root entity %q", spec.Name, spec.Entity)
	}

	depth := dataset.UnlimitedDepth
	if spec.MaxLinkDepth != nil {
		depth = *spec.MaxLinkDepth
	}
	ds := dataset.New(root, spec.Name, depth)

	for _, ms := range spec.Metrics {
		if err := addMetric(ds, ms); err != nil {
			return nil, err
		}
	}

	for _, path := range spec.ExcludePaths {
		if err := ds.ExcludePath(pathTokens(path)...); err != nil {
			return nil, fmt.Errorf("data set %q: %w", spec.Name, err)
		}
	}
	for _, path := range spec.IncludePaths {
		if err := ds.IncludePath(pathTokens(path)...); err != nil {
			return nil, fmt.Errorf("data set %q: %w", spec.Name, err)
		}
	}
	for _, override := range spec.ExcludeAttributes {
		if err := ds.ExcludeAttributes(pathTokens(override.Path), override.Attributes...); err != nil {
			return nil, fmt.Errorf("data set %q: %w", spec.Name, err)
		}
	}
	for _, override := range spec.IncludeAttributes {
		if err := ds.IncludeAttributes(pathTokens(override.Path), override.Attributes...); err != nil {
			return nil, fmt.Errorf("data set %q: %w", spec.Name, err)
		}
	}

	if err := ds.Finalize(); err != nil {
		return nil, err
	}
	return ds, nil
}

func addMetric(ds *dataset.DataSet, spec metricSpec) error {
	format, err := parseNumberFormat(spec.NumberFormat)
	if err != nil {
		return fmt.Errorf("metric %q: %w", spec.Name, err)
	}

	switch spec.Type {
	case "", "simple":
		agg, err := parseAggregation(spec.Aggregation)
		if err != nil {
			return fmt.Errorf("metric %q: %w", spec.Name, err)
		}
		_, err = ds.AddSimpleMetric(dataset.SimpleMetricSpec{
			Name:           spec.Name,
			Description:    spec.Description,
			ColumnName:     spec.Column,
			Aggregation:    agg,
			ImportantField: spec.ImportantField,
			NumberFormat:   format,
		})
		return err

	case "composed":
		if spec.Formula == "" {
			return fmt.Errorf("composed metric %q: formula is required", spec.Name)
		}
		_, err := ds.AddComposedMetric(dataset.ComposedMetricSpec{
			Name:           spec.Name,
			Description:    spec.Description,
			Formula:        spec.Formula,
			ImportantField: spec.ImportantField,
			NumberFormat:   format,
		})
		return err

	default:
		return fmt.Errorf("metric %q: unknown metric type %q", spec.Name, spec.Type)
	}
}

func pathTokens(path pathSpec) []dataset.PathToken {
	tokens := make([]dataset.PathToken, len(path))
	for i, t := range path {
		tokens[i] = dataset.PathToken{Target: t.Target, Prefix: t.Prefix}
	}
	return tokens
}

func parseAttributeType(s string) (schema.Type, error) {
	switch s {
	case "":
		return schema.TypeText, nil
	case "id", "text", "enum", "date", "duration", "number", "array":
		return schema.Type(s), nil
	default:
		return "", fmt.Errorf("unknown attribute type %q", s)
	}
}

func parseAggregation(s string) (dataset.Aggregation, error) {
	switch s {
	case "sum":
		return dataset.Sum, nil
	case "avg":
		return dataset.Average, nil
	case "count":
		return dataset.Count, nil
	case "distinct-count":
		return dataset.DistinctCount, nil
	case "min":
		return dataset.Min, nil
	case "max":
		return dataset.Max, nil
	default:
		return "", fmt.Errorf("unknown aggregation %q", s)
	}
}

func parseNumberFormat(s string) (dataset.NumberFormat, error) {
	switch s {
	case "":
		return dataset.Standard, nil
	case "Standard":
		return dataset.Standard, nil
	case "Currency":
		return dataset.Currency, nil
	case "Percent":
		return dataset.Percent, nil
	default:
		return "", fmt.Errorf("unknown number format %q", s)
	}
}
