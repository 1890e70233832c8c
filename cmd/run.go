// File: cmd/run.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <id|name>",
	Short: "Replay a saved workflow",
	Long: `Run replays the referenced workflow step by step, honoring each step's
recorded delay. The replay aborts on the first failing step; the workflow's
success counter only advances when every step succeeds.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		id, err := resolveWorkflowID(app.manager, args[0])
		if err != nil {
			return err
		}

		result, err := app.runner.Run(ctx, id, app.computer)
		if err != nil {
			return err
		}

		if result.Output != "" {
			fmt.Fprintln(cmd.OutOrStdout(), result.Output)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Workflow completed successfully.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
