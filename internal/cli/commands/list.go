package commands

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all data sets",
		Long: `List all data sets defined in the schema directory, with their root
entity, link depth, and the number of resolved attributes and metrics.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}
}

func runList(cmd *cobra.Command) error {
	result, err := loadSchema(cmd.Context())
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Data set", "Root entity", "Max depth", "Attributes", "Metrics"})

	for _, ds := range result.DataSets {
		res, err := ds.Resolve()
		if err != nil {
			return fmt.Errorf("data set %q: %w", ds.Name, err)
		}
		depth := "unlimited"
		if ds.MaxLinkDepth >= 0 {
			depth = strconv.Itoa(ds.MaxLinkDepth)
		}
		t.AppendRow(table.Row{
			ds.Name,
			ds.Entity.Name,
			depth,
			len(res.Attributes),
			len(ds.Metrics()),
		})
	}

	t.Render()
	return nil
}
