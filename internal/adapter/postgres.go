package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
)

func init() {
	Register("postgres", func() Adapter { return NewPostgresAdapter() })
}

// PostgresAdapter implements the Adapter interface for PostgreSQL via
// the pgx driver.
type PostgresAdapter struct {
	sqlAdapter
	config Config
}

// NewPostgresAdapter creates a new PostgreSQL adapter instance.
func NewPostgresAdapter() *PostgresAdapter {
	return &PostgresAdapter{}
}

// Connect establishes a connection to PostgreSQL.
func (a *PostgresAdapter) Connect(ctx context.Context, cfg Config) error {
	db, err := sql.Open("pgx", buildDSN(cfg))
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	a.db = db
	a.config = cfg

	return nil
}

// DialectName returns "postgres".
func (a *PostgresAdapter) DialectName() string {
	return "postgres"
}

// buildDSN assembles a key=value connection string from the config.
// Empty fields are omitted so that libpq defaults and environment
// variables still apply.
func buildDSN(cfg Config) string {
	parts := []string{}
	add := func(key, value string) {
		if value != "" {
			parts = append(parts, key+"="+value)
		}
	}
	add("host", cfg.Host)
	if cfg.Port != 0 {
		parts = append(parts, fmt.Sprintf("port=%d", cfg.Port))
	}
	add("dbname", cfg.Database)
	add("user", cfg.Username)
	add("password", cfg.Password)

	options := make([]string, 0, len(cfg.Options))
	for key := range cfg.Options {
		options = append(options, key)
	}
	sort.Strings(options)
	for _, key := range options {
		add(key, cfg.Options[key])
	}

	return strings.Join(parts, " ")
}

// Ensure PostgresAdapter implements Adapter interface
var _ Adapter = (*PostgresAdapter)(nil)
