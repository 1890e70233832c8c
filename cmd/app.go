// File: cmd/app.go
package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"

	"github.com/xkilldash9x/deskpilot/internal/agent"
	"github.com/xkilldash9x/deskpilot/internal/computer"
	"github.com/xkilldash9x/deskpilot/internal/config"
	"github.com/xkilldash9x/deskpilot/internal/interpreter"
	"github.com/xkilldash9x/deskpilot/internal/observability"
	"github.com/xkilldash9x/deskpilot/internal/store"
	"github.com/xkilldash9x/deskpilot/internal/workflow"
)

// app bundles the wired components every subcommand works with.
type app struct {
	cfg      *config.Config
	store    *store.Store
	manager  *workflow.Manager
	computer *computer.Computer
	runner   *workflow.Runner
	agent    *agent.Agent
}

// buildApp assembles the component graph from the loaded configuration.
func buildApp(cfg *config.Config) (*app, error) {
	logger := observability.GetLogger()

	st, err := store.New(cfg.Workflows.Dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open workflow store: %w", err)
	}

	driver := newDriver(cfg.Input, logger)
	comp := computer.New(driver, cfg.Input, logger)
	manager := workflow.NewManager(st, cfg.Workflows.DefaultStepDelay, logger)
	runner := workflow.NewRunner(st, logger)

	interp, err := interpreter.New(cfg.Agent, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build instruction interpreter: %w", err)
	}

	return &app{
		cfg:      cfg,
		store:    st,
		manager:  manager,
		computer: comp,
		runner:   runner,
		agent:    agent.New(interp, comp, manager, cfg.Agent, logger),
	}, nil
}

// newDriver selects the input backend. This build ships only the simulated
// driver; native injection requires a platform driver that is not compiled in,
// so input.dry_run=false degrades to simulation with a warning.
func newDriver(cfg config.InputConfig, logger *zap.Logger) computer.InputDriver {
	if !cfg.DryRun {
		logger.Warn("Native input injection is not available in this build, falling back to the simulated driver")
	}
	return computer.NewSimDriver(logger)
}

// resolveWorkflowID maps a user-supplied reference to a stored workflow id.
// Accepted forms, in priority order: exact id, unique id prefix, exact name.
func resolveWorkflowID(m *workflow.Manager, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("workflow reference must not be empty")
	}
	flows, err := m.ListWorkflows("")
	if err != nil {
		return "", err
	}

	var prefixMatches, nameMatches []string
	for _, w := range flows {
		if w.ID == ref {
			return w.ID, nil
		}
		if strings.HasPrefix(w.ID, ref) {
			prefixMatches = append(prefixMatches, w.ID)
		}
		if w.Name == ref {
			nameMatches = append(nameMatches, w.ID)
		}
	}

	switch {
	case len(prefixMatches) == 1:
		return prefixMatches[0], nil
	case len(prefixMatches) > 1:
		return "", fmt.Errorf("workflow reference %q is ambiguous, matches %d ids", ref, len(prefixMatches))
	case len(nameMatches) == 1:
		return nameMatches[0], nil
	case len(nameMatches) > 1:
		return "", fmt.Errorf("workflow name %q is ambiguous, matches %d workflows", ref, len(nameMatches))
	}
	return "", fmt.Errorf("no workflow matches %q", ref)
}

// renderWorkflowTable renders a listing the way `deskpilot list` shows it.
func renderWorkflowTable(flows []*workflow.Workflow) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Name", "Steps", "Tags", "Runs", "Last Run", "Created"})
	for _, w := range flows {
		lastRun := "never"
		if w.LastRun != nil {
			lastRun = w.LastRun.Local().Format("2006-01-02 15:04")
		}
		t.AppendRow(table.Row{
			shortID(w.ID),
			w.Name,
			len(w.Steps),
			strings.Join(w.Tags, ", "),
			w.SuccessCount,
			lastRun,
			w.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return t.Render()
}

// shortID abbreviates a uuid to its first group for display. Any listed
// workflow can still be addressed by this prefix.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// formatDuration renders a step delay compactly for display.
func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
