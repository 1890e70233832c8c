// File: internal/agent/agent.go

// Package agent glues the instruction interpreter to the input-action executor.
// One user message becomes an ordered plan of actions; each executed action is
// reported to the workflow manager so that an active recording captures it.
package agent

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/deskpilot/internal/config"
	"github.com/xkilldash9x/deskpilot/internal/interpreter"
	"github.com/xkilldash9x/deskpilot/internal/workflow"
)

// Agent executes natural-language instructions against the desktop.
type Agent struct {
	interp  interpreter.Interpreter
	exec    workflow.Executor
	manager *workflow.Manager
	pacing  time.Duration
	log     *zap.Logger
}

// New wires an agent. pacing comes from cfg.ActionPacing and spaces out the
// actions of a multi-action plan; zero disables the pause.
func New(interp interpreter.Interpreter, exec workflow.Executor, manager *workflow.Manager, cfg config.AgentConfig, logger *zap.Logger) *Agent {
	return &Agent{
		interp:  interp,
		exec:    exec,
		manager: manager,
		pacing:  cfg.ActionPacing,
		log:     logger.Named("agent"),
	}
}

// ProcessMessage interprets one instruction and executes the resulting plan in
// order. Execution stops at the first failed action; everything executed up to
// and including the failure is reported to the recorder and folded into the
// returned result. A non-nil error means the instruction could not be planned
// or the context ended; action-level failures surface in the result instead.
func (a *Agent) ProcessMessage(ctx context.Context, text string) (workflow.ActionResult, error) {
	requests, err := a.interp.Parse(ctx, text)
	if err != nil {
		return workflow.ActionResult{}, fmt.Errorf("could not interpret instruction: %w", err)
	}
	if len(requests) == 0 {
		a.log.Debug("Instruction produced no actions")
		return workflow.ActionResult{Output: "I didn't find anything actionable in that. Try phrases like 'move mouse to 100, 200', 'click', 'type \"hello\"' or 'press command+c'."}, nil
	}

	a.log.Info("Executing action plan", zap.Int("actions", len(requests)))

	results := make([]workflow.ActionResult, 0, len(requests))
	for i, req := range requests {
		if err := ctx.Err(); err != nil {
			return workflow.CombineResults(results), err
		}

		result := a.exec.Execute(ctx, req.Action, req.Parameters)
		a.manager.AddStep(req.Action, req.Parameters, &result)
		results = append(results, result)

		if result.Failed() {
			a.log.Warn("Action failed, abandoning remaining plan",
				zap.String("action", req.Action),
				zap.Int("completed", i),
				zap.Int("abandoned", len(requests)-i-1),
				zap.String("error", result.Error))
			break
		}

		if i < len(requests)-1 {
			if err := pace(ctx, a.pacing); err != nil {
				return workflow.CombineResults(results), err
			}
		}
	}

	return workflow.CombineResults(results), nil
}

// pace waits between consecutive actions, waking early on cancellation.
func pace(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
