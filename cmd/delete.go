// File: cmd/delete.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id|name>",
	Short: "Delete a saved workflow",
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

		existed, err := app.manager.DeleteWorkflow(id)
		if err != nil {
			return err
		}
		if !existed {
			return fmt.Errorf("no workflow with id %s", id)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted workflow %s.\n", shortID(id))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
