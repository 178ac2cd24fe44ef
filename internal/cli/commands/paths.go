package commands

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewPathsCommand creates the paths command.
func NewPathsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "paths <data set>",
		Short: "Show the resolved entity link paths of a data set",
		Long: `Show every entity link path a data set pulls attributes in through,
with the table alias and attribute names each path contributes. Useful
for checking the effect of depth limits and path overrides.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPaths(cmd, args[0])
		},
	}
}

func runPaths(cmd *cobra.Command, name string) error {
	result, err := loadSchema(cmd.Context())
	if err != nil {
		return err
	}
	selected, err := selectDataSets(result, []string{name}, false)
	if err != nil {
		return err
	}
	ds := selected[0]

	res, err := ds.Resolve()
	if err != nil {
		return err
	}

	// Group resolved attributes by path, in resolution order.
	attrsByPath := map[string][]string{}
	for _, ra := range res.Attributes {
		key := ra.Path.String()
		attrsByPath[key] = append(attrsByPath[key], ra.Name)
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Path", "Entity", "Alias", "Attributes"})

	t.AppendRow(table.Row{
		"<root>",
		ds.Entity.Name,
		ds.Entity.Name,
		strings.Join(attrsByPath["<root>"], ", "),
	})
	for _, path := range res.Paths {
		t.AppendRow(table.Row{
			path.String(),
			path.Target().Name,
			path.Alias(),
			strings.Join(attrsByPath[path.String()], ", "),
		})
	}

	t.Render()
	return nil
}
