package adapter

import (
	"context"
	"fmt"

	"github.com/widetable-labs/widetable/pkg/sqlgen"
)

// Materialize creates or replaces a table from a generated SELECT
// statement: the target schema is created if missing, an existing table
// is dropped, and the statement is wrapped in CREATE TABLE AS.
func Materialize(ctx context.Context, a Adapter, schemaName, tableName, selectSQL string) error {
	table := sqlgen.QuoteIdent(tableName)
	if schemaName != "" {
		if err := a.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+sqlgen.QuoteIdent(schemaName)); err != nil {
			return fmt.Errorf("failed to create schema %s: %w", schemaName, err)
		}
		table = sqlgen.QuoteIdent(schemaName) + "." + table
	}

	if err := a.Exec(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("failed to drop %s: %w", table, err)
	}
	if err := a.Exec(ctx, "CREATE TABLE "+table+" AS\n"+selectSQL); err != nil {
		return fmt.Errorf("failed to create %s: %w", table, err)
	}
	return nil
}
