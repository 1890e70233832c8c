// File: cmd/tags.go
package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List all tags in use, with workflow counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cfg)
		if err != nil {
			return err
		}

		tags, err := app.manager.AllTags()
		if err != nil {
			return err
		}
		if len(tags) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tags yet.")
			return nil
		}

		flows, err := app.manager.ListWorkflows("")
		if err != nil {
			return err
		}
		counts := make(map[string]int, len(tags))
		for _, w := range flows {
			for _, tag := range w.Tags {
				counts[tag]++
			}
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Tag", "Workflows"})
		for _, tag := range tags {
			t.AppendRow(table.Row{tag, counts[tag]})
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}
