// File: cmd/chat.go
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/deskpilot/internal/observability"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive session that turns instructions into desktop actions",
	Long: `Chat reads instructions from stdin, plans them into input actions and executes
them. Slash commands control workflow recording and replay without leaving the
session; type /help inside the session for the full list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runChatLoop(ctx, app, os.Stdin, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

const chatHelp = `Slash commands:
  /record                       start recording executed actions
  /stop                         stop recording (the buffer is kept)
  /save <name> [#tag ...] [description]
                                save the buffered steps as a workflow
  /discard                      drop the buffered steps without saving
  /list [tag]                   list saved workflows
  /run <id|name>                replay a saved workflow
  /delete <id|name>             delete a saved workflow
  /tags                         list all known tags
  /help                         show this help
  /quit                         leave the session
Anything else is treated as an instruction and executed.`

// runChatLoop drives the interactive session. It is split from the cobra
// handler so tests can feed scripted input and capture output.
func runChatLoop(ctx context.Context, app *app, in io.Reader, w io.Writer) error {
	say := func(format string, args ...any) {
		fmt.Fprintf(w, format+"\n", args...)
	}

	say("deskpilot %s. Type an instruction, or /help for commands.", Version)

	scanner := bufio.NewScanner(in)
	for {
		if app.manager.IsRecording() {
			fmt.Fprintf(w, "[rec %d] > ", app.manager.StepCount())
		} else {
			fmt.Fprint(w, "> ")
		}
		if !scanner.Scan() {
			say("")
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := handleSlashCommand(ctx, app, line, say); quit {
				return nil
			}
			continue
		}

		result, err := app.agent.ProcessMessage(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			say("error: %v", err)
			continue
		}
		if result.Output != "" {
			say("%s", result.Output)
		}
		if result.Failed() {
			say("failed: %s", result.Error)
		}
	}
}

// handleSlashCommand dispatches one /command line. It returns true when the
// session should end.
func handleSlashCommand(ctx context.Context, app *app, line string, say func(string, ...any)) bool {
	fields := strings.Fields(line)
	command, args := fields[0], fields[1:]

	switch command {
	case "/quit", "/exit":
		return true

	case "/help":
		say("%s", chatHelp)

	case "/record":
		app.manager.StartRecording()
		say("Recording. Every executed action is captured until /stop or /save.")

	case "/stop":
		app.manager.StopRecording()
		say("Stopped recording with %d step(s) buffered. /save to keep them, /discard to drop them.",
			app.manager.StepCount())

	case "/discard":
		app.manager.DiscardRecording()
		say("Recording discarded.")

	case "/save":
		if len(args) == 0 {
			say("usage: /save <name> [#tag ...] [description]")
			return false
		}
		name, tags, description := parseSaveArgs(args)
		id, err := app.manager.SaveWorkflow(name, description, tags)
		if err != nil {
			say("error: %v", err)
			return false
		}
		say("Saved workflow %q as %s.", name, shortID(id))

	case "/list":
		tag := ""
		if len(args) > 0 {
			tag = args[0]
		}
		flows, err := app.manager.ListWorkflows(tag)
		if err != nil {
			say("error: %v", err)
			return false
		}
		if len(flows) == 0 {
			say("No workflows saved yet.")
			return false
		}
		say("%s", renderWorkflowTable(flows))

	case "/run":
		if len(args) != 1 {
			say("usage: /run <id|name>")
			return false
		}
		id, err := resolveWorkflowID(app.manager, args[0])
		if err != nil {
			say("error: %v", err)
			return false
		}
		result, err := app.runner.Run(ctx, id, app.computer)
		if err != nil {
			say("error: %v", err)
			return false
		}
		if result.Output != "" {
			say("%s", result.Output)
		}
		say("Workflow completed successfully.")

	case "/delete":
		if len(args) != 1 {
			say("usage: /delete <id|name>")
			return false
		}
		id, err := resolveWorkflowID(app.manager, args[0])
		if err != nil {
			say("error: %v", err)
			return false
		}
		existed, err := app.manager.DeleteWorkflow(id)
		if err != nil {
			say("error: %v", err)
		} else if existed {
			say("Deleted workflow %s.", shortID(id))
		} else {
			say("No workflow with id %s.", shortID(id))
		}

	case "/tags":
		tags, err := app.manager.AllTags()
		if err != nil {
			say("error: %v", err)
			return false
		}
		if len(tags) == 0 {
			say("No tags yet.")
		} else {
			say("%s", strings.Join(tags, ", "))
		}

	default:
		observability.GetLogger().Debug("Unknown slash command", zap.String("command", command))
		say("Unknown command %s. Try /help.", command)
	}
	return false
}

// parseSaveArgs splits /save arguments: the first token is the name, #-prefixed
// tokens are tags, everything else joins into the description.
func parseSaveArgs(args []string) (name string, tags []string, description string) {
	name = args[0]
	var descParts []string
	for _, tok := range args[1:] {
		if strings.HasPrefix(tok, "#") && len(tok) > 1 {
			tags = append(tags, tok[1:])
		} else {
			descParts = append(descParts, tok)
		}
	}
	return name, tags, strings.Join(descParts, " ")
}
