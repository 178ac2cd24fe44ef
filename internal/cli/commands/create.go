package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/widetable-labs/widetable/internal/adapter"
	"github.com/widetable-labs/widetable/pkg/schema"
	"github.com/widetable-labs/widetable/pkg/sqlgen"
)

// NewCreateCommand creates the create command.
func NewCreateCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "create [data set...]",
		Short: "Create flattened tables in the target database",
		Long: `Generate the SELECT statement for each data set and materialize it as
a table in the target schema, replacing any existing table. The target
database and schema come from widetable.yaml.`,
		Example: `  # Materialize one data set
  widetable create "Order items"

  # Materialize every data set
  widetable create --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, args, all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Materialize all data sets")
	cmd.Flags().Bool("human-readable-columns", false, "Use display names instead of snake_case column aliases")
	cmd.Flags().Bool("pre-computed-metrics", false, "Emit aggregation-ready metric expressions")
	cmd.Flags().Bool("star-schema", false, "Emit foreign keys per linked path instead of flattened attributes")
	cmd.Flags().Bool("personal-data", false, "Include attributes marked as personal data")
	cmd.Flags().Bool("high-cardinality-attributes", false, "Include attributes marked as high cardinality")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string, all bool) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)
	logger := GetLogger(ctx)

	result, err := loadSchema(ctx)
	if err != nil {
		return err
	}
	selected, err := selectDataSets(result, args, all)
	if err != nil {
		return err
	}
	opts := generateOptions(cmd)

	a, err := adapter.NewAdapter(cfg.Target.ToAdapterConfig())
	if err != nil {
		return err
	}
	if err := a.Connect(ctx, cfg.Target.ToAdapterConfig()); err != nil {
		return fmt.Errorf("failed to connect to %s target: %w", cfg.Target.Type, err)
	}
	defer func() { _ = a.Close() }()

	targetSchema := cfg.Generate.TargetSchema
	for _, ds := range selected {
		sql, err := sqlgen.Generate(ds, opts)
		if err != nil {
			return fmt.Errorf("data set %q: %w", ds.Name, err)
		}
		tableName := schema.SnakeCase(ds.Name)

		start := time.Now()
		if err := adapter.Materialize(ctx, a, targetSchema, tableName, sql); err != nil {
			return fmt.Errorf("data set %q: %w", ds.Name, err)
		}
		logger.Info("table created",
			"data_set", ds.Name,
			"table", targetSchema+"."+tableName,
			"duration", time.Since(start).Round(time.Millisecond))
	}
	return nil
}
