// File: cmd/show.go
package cmd

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show a workflow's recorded steps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cfg)
		if err != nil {
			return err
		}

		id, err := resolveWorkflowID(app.manager, args[0])
		if err != nil {
			return err
		}
		w, err := app.manager.LoadWorkflow(id)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n", w.Name, w.ID)
		if w.Description != "" {
			fmt.Fprintln(out, w.Description)
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"#", "Action", "Parameters", "Delay"})
		for i, step := range w.Steps {
			t.AppendRow(table.Row{i + 1, step.Action, summarizeParams(step.Parameters), formatDuration(step.Delay)})
		}
		fmt.Fprintln(out, t.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

// summarizeParams renders a parameter map compactly for the steps table.
func summarizeParams(params map[string]any) string {
	if len(params) == 0 {
		return ""
	}
	out := ""
	for _, key := range sortedKeys(params) {
		if out != "" {
			out += " "
		}
		out += fmt.Sprintf("%s=%s", key, cast.ToString(params[key]))
	}
	return out
}

func sortedKeys(params map[string]any) []string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
