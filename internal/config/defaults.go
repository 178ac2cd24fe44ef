package config

// Default configuration values.
const (
	DefaultSchemaDir    = "schema"
	DefaultTargetSchema = "mart"
	DefaultEnv          = "dev"
)

// ApplyTargetDefaults applies default values to a TargetConfig based on
// the target type.
func ApplyTargetDefaults(t *TargetConfig) {
	if t == nil {
		return
	}
	switch t.Type {
	case "duckdb":
		if t.Path == "" {
			t.Path = ":memory:"
		}
	case "postgres":
		if t.Port == 0 {
			t.Port = 5432
		}
	}
}
