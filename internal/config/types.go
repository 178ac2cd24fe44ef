// Package config loads configuration for the widetable CLI from config
// files, environment variables, and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/widetable-labs/widetable/internal/adapter"
)

// TargetConfig holds database target configuration.
type TargetConfig struct {
	Type string `koanf:"type"` // duckdb, postgres

	// File-based databases (DuckDB)
	Path string `koanf:"path"` // file path or :memory:

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Database string `koanf:"database"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`
}

// Validate checks if the target configuration is valid. It uses the
// adapter registry to determine which adapter types are available.
func (t *TargetConfig) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}
	if !adapter.IsRegistered(strings.ToLower(t.Type)) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}
	return nil
}

// ToAdapterConfig converts the target configuration into the connection
// config consumed by the adapter registry.
func (t *TargetConfig) ToAdapterConfig() adapter.Config {
	return adapter.Config{
		Type:     strings.ToLower(t.Type),
		Path:     t.Path,
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Username: t.Username,
		Password: t.Password,
		Options:  t.Options,
	}
}

// GenerateConfig holds the column selection flags for SQL generation.
type GenerateConfig struct {
	HumanReadableColumns      bool `koanf:"human_readable_columns"`
	PreComputedMetrics        bool `koanf:"pre_computed_metrics"`
	StarSchema                bool `koanf:"star_schema"`
	PersonalData              bool `koanf:"personal_data"`
	HighCardinalityAttributes bool `koanf:"high_cardinality_attributes"`

	// TargetSchema is the database schema that materialized tables are
	// created in.
	TargetSchema string `koanf:"target_schema"`
}

// Config holds all CLI configuration options.
type Config struct {
	SchemaDir    string               `koanf:"schema_dir"`
	Verbose      bool                 `koanf:"verbose"`
	Environment  string               `koanf:"environment"`
	Generate     GenerateConfig       `koanf:"generate"`
	Target       *TargetConfig        `koanf:"target"`
	Environments map[string]EnvConfig `koanf:"environments"`

	// ProjectRoot is the directory the config file was found in; relative
	// paths are resolved against it. Not read from the file itself.
	ProjectRoot string `koanf:"-"`
}

// EnvConfig holds environment-specific configuration overrides.
type EnvConfig struct {
	SchemaDir string        `koanf:"schema_dir"`
	Target    *TargetConfig `koanf:"target"`
}

// MergeTargetConfig merges two target configs, with override taking
// precedence field by field.
func MergeTargetConfig(base, override *TargetConfig) *TargetConfig {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base
	merged.Options = make(map[string]string)
	for k, v := range base.Options {
		merged.Options[k] = v
	}

	if override.Type != "" {
		merged.Type = override.Type
	}
	if override.Path != "" {
		merged.Path = override.Path
	}
	if override.Host != "" {
		merged.Host = override.Host
	}
	if override.Port != 0 {
		merged.Port = override.Port
	}
	if override.Database != "" {
		merged.Database = override.Database
	}
	if override.Username != "" {
		merged.Username = override.Username
	}
	if override.Password != "" {
		merged.Password = override.Password
	}
	for k, v := range override.Options {
		merged.Options[k] = v
	}

	return &merged
}
