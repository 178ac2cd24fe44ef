package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/widetable-labs/widetable/pkg/sqlgen"
)

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "generate [data set...]",
		Short: "Generate flattened SELECT statements for data sets",
		Long: `Generate one wide-table SELECT statement per data set, with all
attributes reachable over entity links pulled in as LEFT JOINs.

Column selection flags default to the generate section of widetable.yaml;
passing a flag overrides the config file.`,
		Example: `  # Generate SQL for one data set
  widetable generate "Order items"

  # Generate SQL for all data sets, with display names as column aliases
  widetable generate --all --human-readable-columns`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Generate SQL for all data sets")
	cmd.Flags().Bool("human-readable-columns", false, "Use display names instead of snake_case column aliases")
	cmd.Flags().Bool("pre-computed-metrics", false, "Emit aggregation-ready metric expressions")
	cmd.Flags().Bool("star-schema", false, "Emit foreign keys per linked path instead of flattened attributes")
	cmd.Flags().Bool("personal-data", false, "Include attributes marked as personal data")
	cmd.Flags().Bool("high-cardinality-attributes", false, "Include attributes marked as high cardinality")

	return cmd
}

// generateOptions merges config file defaults with explicitly set flags.
func generateOptions(cmd *cobra.Command) sqlgen.Options {
	gen := GetConfig(cmd.Context()).Generate
	opts := sqlgen.Options{
		HumanReadableColumns:      gen.HumanReadableColumns,
		PreComputedMetrics:        gen.PreComputedMetrics,
		StarSchema:                gen.StarSchema,
		PersonalData:              gen.PersonalData,
		HighCardinalityAttributes: gen.HighCardinalityAttributes,
	}
	override := func(name string, dst *bool) {
		if cmd.Flags().Changed(name) {
			*dst, _ = cmd.Flags().GetBool(name)
		}
	}
	override("human-readable-columns", &opts.HumanReadableColumns)
	override("pre-computed-metrics", &opts.PreComputedMetrics)
	override("star-schema", &opts.StarSchema)
	override("personal-data", &opts.PersonalData)
	override("high-cardinality-attributes", &opts.HighCardinalityAttributes)
	return opts
}

func runGenerate(cmd *cobra.Command, args []string, all bool) error {
	ctx := cmd.Context()

	result, err := loadSchema(ctx)
	if err != nil {
		return err
	}
	selected, err := selectDataSets(result, args, all)
	if err != nil {
		return err
	}
	opts := generateOptions(cmd)

	// Generation is pure, so data sets can be resolved concurrently;
	// statements are printed in selection order afterwards.
	statements := make([]string, len(selected))
	g, _ := errgroup.WithContext(ctx)
	for i, ds := range selected {
		g.Go(func() error {
			sql, err := sqlgen.Generate(ds, opts)
			if err != nil {
				return fmt.Errorf("data set %q: %w", ds.Name, err)
			}
			statements[i] = sql
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, sql := range statements {
		if len(selected) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "-- %s\n", selected[i].Name)
		}
		fmt.Fprintln(out, sql)
	}
	return nil
}
