package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTargetConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		target    TargetConfig
		wantErr   bool
		errSubstr string
	}{
		{
			name:      "empty type",
			target:    TargetConfig{Type: ""},
			wantErr:   true,
			errSubstr: "target type is required",
		},
		{
			name:   "valid duckdb",
			target: TargetConfig{Type: "duckdb"},
		},
		{
			name:   "valid duckdb uppercase",
			target: TargetConfig{Type: "DuckDB"},
		},
		{
			name:   "valid postgres",
			target: TargetConfig{Type: "postgres"},
		},
		{
			name:      "unknown type mysql",
			target:    TargetConfig{Type: "mysql"},
			wantErr:   true,
			errSubstr: "unknown adapter type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.target.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTargetConfig_Validate_ErrorContainsAvailable(t *testing.T) {
	target := TargetConfig{Type: "invalid_db"}
	err := target.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duckdb")
	assert.Contains(t, err.Error(), "widetable.yaml")
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "")
	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(path), DefaultSchemaDir), cfg.SchemaDir)
	assert.Equal(t, DefaultEnv, cfg.Environment)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, DefaultTargetSchema, cfg.Generate.TargetSchema)

	require.NotNil(t, cfg.Target)
	assert.Equal(t, "duckdb", cfg.Target.Type)
	assert.Equal(t, ":memory:", cfg.Target.Path)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := writeConfig(t, `
schema_dir: definitions
verbose: true
generate:
  human_readable_columns: true
  star_schema: true
  target_schema: reporting
target:
  type: postgres
  host: db.example.com
  database: warehouse
  username: etl
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(path), "definitions"), cfg.SchemaDir)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.Generate.HumanReadableColumns)
	assert.True(t, cfg.Generate.StarSchema)
	assert.False(t, cfg.Generate.PreComputedMetrics)
	assert.Equal(t, "reporting", cfg.Generate.TargetSchema)

	assert.Equal(t, "postgres", cfg.Target.Type)
	assert.Equal(t, "db.example.com", cfg.Target.Host)
	assert.Equal(t, 5432, cfg.Target.Port)
}

func TestLoad_EnvVarsOverrideFile(t *testing.T) {
	path := writeConfig(t, "verbose: false\n")
	t.Setenv("WIDETABLE_VERBOSE", "true")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
}

func TestLoad_NestedEnvVars(t *testing.T) {
	path := writeConfig(t, "target:\n  type: postgres\n")
	t.Setenv("WIDETABLE_TARGET__PASSWORD", "s3cret")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Target.Password)
}

func TestLoad_FlagsOverrideEverything(t *testing.T) {
	path := writeConfig(t, "schema_dir: from_file\n")
	t.Setenv("WIDETABLE_SCHEMA_DIR", "from_env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("schema-dir", "", "")
	require.NoError(t, flags.Parse([]string{"--schema-dir", "/abs/from_flag"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "/abs/from_flag", cfg.SchemaDir)
}

func TestLoad_UnchangedFlagsAreIgnored(t *testing.T) {
	path := writeConfig(t, "verbose: true\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("verbose", false, "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
environment: prod
target:
  type: postgres
  host: localhost
  database: warehouse
environments:
  prod:
    schema_dir: prod_schema
    target:
      host: db.prod.example.com
      password: ${WIDETABLE_TEST_PROD_PW}
`)
	t.Setenv("WIDETABLE_TEST_PROD_PW", "hunter2")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(path), "prod_schema"), cfg.SchemaDir)
	assert.Equal(t, "db.prod.example.com", cfg.Target.Host)
	assert.Equal(t, "warehouse", cfg.Target.Database)
	assert.Equal(t, "hunter2", cfg.Target.Password)
}

func TestLoad_InvalidTargetType(t *testing.T) {
	path := writeConfig(t, "target:\n  type: mysql\n")
	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown adapter type")
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte(""), 0o644))
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found := FindProjectRoot(nested)
	assert.Equal(t, root, found)

	assert.Equal(t, "", FindProjectRoot(t.TempDir()))
}

func TestMergeTargetConfig(t *testing.T) {
	base := &TargetConfig{
		Type:     "postgres",
		Host:     "localhost",
		Port:     5432,
		Database: "warehouse",
		Options:  map[string]string{"sslmode": "disable"},
	}
	override := &TargetConfig{
		Host:    "db.prod.example.com",
		Options: map[string]string{"sslmode": "require"},
	}

	merged := MergeTargetConfig(base, override)
	assert.Equal(t, "postgres", merged.Type)
	assert.Equal(t, "db.prod.example.com", merged.Host)
	assert.Equal(t, 5432, merged.Port)
	assert.Equal(t, "warehouse", merged.Database)
	assert.Equal(t, "require", merged.Options["sslmode"])

	assert.Same(t, base, MergeTargetConfig(base, nil))
	assert.Same(t, override, MergeTargetConfig(nil, override))
}

func TestToAdapterConfig(t *testing.T) {
	target := &TargetConfig{
		Type:     "Postgres",
		Host:     "localhost",
		Port:     5432,
		Database: "warehouse",
		Username: "etl",
		Password: "pw",
	}
	cfg := target.ToAdapterConfig()
	assert.Equal(t, "postgres", cfg.Type)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "warehouse", cfg.Database)
}
