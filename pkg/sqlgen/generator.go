// Package sqlgen turns a resolved data set into a flattened wide-table
// SELECT statement: one column per resolved attribute, one LEFT JOIN per
// resolved path, one expression per metric. The output is deterministic
// and newline-formatted; generation either yields a complete statement
// or fails with the underlying resolution error.
package sqlgen

import (
	"strings"

	"github.com/widetable-labs/widetable/pkg/dataset"
	"github.com/widetable-labs/widetable/pkg/schema"
)

// Options control column naming, metric rendering and visibility
// filtering of the generated statement.
type Options struct {
	// HumanReadableColumns aliases columns by display name ("Order
	// date") instead of a normalized identifier ("order_date").
	HumanReadableColumns bool

	// PreComputedMetrics renders metrics as row-level expressions with
	// null guards. When false, simple metrics are emitted as plain
	// column references for a downstream aggregation step.
	PreComputedMetrics bool

	// StarSchema emits one foreign-key column per linked path instead
	// of pulling in the path's attributes.
	StarSchema bool

	// PersonalData includes attributes flagged as personal data.
	PersonalData bool

	// HighCardinalityAttributes includes attributes flagged as high
	// cardinality.
	HighCardinalityAttributes bool
}

// Generate resolves the data set and emits one complete SELECT
// statement. The same data set and options always produce byte
// identical SQL.
func Generate(ds *dataset.DataSet, opts Options) (string, error) {
	resolution, err := ds.Resolve()
	if err != nil {
		return "", err
	}
	metrics, err := ds.ResolveMetrics()
	if err != nil {
		return "", err
	}

	rootAlias := ds.Entity.Name
	var columns []string

	for _, ra := range resolution.Attributes {
		if opts.StarSchema && len(ra.Path) > 0 {
			continue
		}
		if !ra.Explicit {
			if ra.Attribute.PersonalData && !opts.PersonalData {
				continue
			}
			if ra.Attribute.HighCardinality && !opts.HighCardinalityAttributes {
				continue
			}
		}
		alias := rootAlias
		if len(ra.Path) > 0 {
			alias = ra.Path.Alias()
		}
		columns = append(columns, attributeColumn(alias, ra.Attribute, columnAlias(ra.Name, opts)))
	}

	joinPaths := resolution.Paths
	if opts.StarSchema {
		columns = append(columns, foreignKeyColumns(rootAlias, resolution.Paths, opts)...)
		joinPaths = starJoinPaths(resolution.Paths)
	}

	rendered := renderMetrics(ds, metrics, opts)
	for _, m := range ds.Metrics() {
		columns = append(columns,
			rendered[m.MetricName()]+" AS "+QuoteIdent(columnAlias(m.MetricName(), opts)))
	}

	var b strings.Builder
	b.WriteString("SELECT\n    ")
	b.WriteString(strings.Join(columns, ",\n    "))
	b.WriteString("\nFROM ")
	b.WriteString(QuoteIdent(ds.Entity.SchemaName) + "." + QuoteIdent(ds.Entity.TableName))
	b.WriteString(" " + QuoteIdent(rootAlias))

	for _, path := range joinPaths {
		target := path.Target()
		parentAlias := rootAlias
		if len(path) > 1 {
			parentAlias = path.Parent().Alias()
		}
		b.WriteString("\nLEFT JOIN ")
		b.WriteString(QuoteIdent(target.SchemaName) + "." + QuoteIdent(target.TableName))
		b.WriteString(" " + QuoteIdent(path.Alias()))
		b.WriteString(" ON " + QuoteIdent(parentAlias) + "." + QuoteIdent(path[len(path)-1].FKColumn))
		b.WriteString(" = " + QuoteIdent(path.Alias()) + "." + QuoteIdent(target.PKColumnName))
	}

	return b.String(), nil
}

// attributeColumn renders one SELECT list entry. ID and ENUM attributes
// are cast to text so that flattened tables can be filtered on them.
func attributeColumn(tableAlias string, attr *schema.Attribute, alias string) string {
	col := QuoteIdent(tableAlias) + "." + QuoteIdent(attr.ColumnName)
	if attr.Type == schema.TypeID || attr.Type == schema.TypeEnum {
		col += "::TEXT"
	}
	return col + " AS " + QuoteIdent(alias)
}

// columnAlias picks the display name or its normalized identifier form.
func columnAlias(name string, opts Options) string {
	if opts.HumanReadableColumns {
		return name
	}
	return schema.SnakeCase(name)
}

// foreignKeyColumns emits, per resolved path, the foreign-key column of
// the path's last link, read from the parent table.
func foreignKeyColumns(rootAlias string, paths []dataset.Path, opts Options) []string {
	var columns []string
	for _, path := range paths {
		parentAlias := rootAlias
		if len(path) > 1 {
			parentAlias = path.Parent().Alias()
		}
		fk := path[len(path)-1].FKColumn
		name := schema.NormalizeName(parentAlias + " " + fk)
		columns = append(columns,
			QuoteIdent(parentAlias)+"."+QuoteIdent(fk)+" AS "+QuoteIdent(columnAlias(name, opts)))
	}
	return columns
}

// starJoinPaths returns the paths whose tables must still be joined in
// star schema mode: a path's foreign key lives in its parent's table,
// so only paths that are a proper prefix of another path need a join.
func starJoinPaths(paths []dataset.Path) []dataset.Path {
	parents := map[string]bool{}
	for _, p := range paths {
		if len(p) > 1 {
			parents[p.Parent().Key()] = true
		}
	}
	var joins []dataset.Path
	for _, p := range paths {
		if parents[p.Key()] {
			joins = append(joins, p)
		}
	}
	return joins
}
