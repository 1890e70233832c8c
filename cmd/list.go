// File: cmd/list.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/deskpilot/internal/workflow"
)

var listTag string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved workflows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cfg)
		if err != nil {
			return err
		}

		var flows []*workflow.Workflow
		if listTag != "" {
			flows, err = app.store.ListByTag(listTag)
			if err != nil {
				return err
			}
		} else {
			// The unfiltered listing also surfaces records that failed to
			// decode, so a corrupted file is noticed instead of silently
			// vanishing from the table.
			var recordErrs []error
			flows, recordErrs, err = app.store.ListWithErrors()
			if err != nil {
				return err
			}
			for _, recErr := range recordErrs {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", recErr)
			}
		}

		if len(flows) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No workflows saved yet.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderWorkflowTable(flows))
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listTag, "tag", "t", "", "only list workflows carrying this tag")
	rootCmd.AddCommand(listCmd)
}
