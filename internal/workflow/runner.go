// File: internal/workflow/runner.go
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Executor performs the OS-level effect of one action and returns a uniform
// result. Implementations fail closed: unknown actions and internal faults
// come back as a result with Error set, never as a panic across the boundary.
type Executor interface {
	Execute(ctx context.Context, action string, parameters map[string]any) ActionResult
}

// ExecutionError reports a replay that aborted. StepIndex is 1-based so it
// reads naturally in user-facing messages.
type ExecutionError struct {
	WorkflowID string
	StepIndex  int
	Action     string
	Cause      error
}

func (e *ExecutionError) Error() string {
	if e.StepIndex == 0 {
		return fmt.Sprintf("workflow %s failed: %v", e.WorkflowID, e.Cause)
	}
	return fmt.Sprintf("workflow %s failed at step %d (%s): %v",
		e.WorkflowID, e.StepIndex, e.Action, e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Runner replays stored workflows against an executor. Steps run strictly in
// order: step n+1 never starts before step n's result is observed and its
// delay has elapsed. There is no rollback; side effects on the real device are
// not undoable.
type Runner struct {
	store Store
	log   *zap.Logger
}

// NewRunner creates a replay engine over the given store.
func NewRunner(st Store, logger *zap.Logger) *Runner {
	return &Runner{
		store: st,
		log:   logger.Named("workflow_runner"),
	}
}

// Run replays the workflow stored under id. On the first step whose result
// carries an error it aborts immediately, leaving the run statistics
// untouched. Only a fully successful replay increments SuccessCount and sets
// LastRun, persisted in a single Put. Cancellation is honored between steps;
// a cancelled run also leaves the statistics unchanged.
func (r *Runner) Run(ctx context.Context, id string, exec Executor) (ActionResult, error) {
	w, err := r.store.Get(id)
	if err != nil {
		execErr := &ExecutionError{WorkflowID: id, Cause: err}
		return ActionResult{Error: execErr.Error()}, execErr
	}

	r.log.Info("Replaying workflow",
		zap.String("id", w.ID), zap.String("name", w.Name), zap.Int("steps", len(w.Steps)))

	results := make([]ActionResult, 0, len(w.Steps))
	for i, step := range w.Steps {
		if err := ctx.Err(); err != nil {
			return ActionResult{}, err
		}

		result := exec.Execute(ctx, step.Action, step.Parameters)
		if result.Failed() {
			execErr := &ExecutionError{
				WorkflowID: w.ID,
				StepIndex:  i + 1,
				Action:     step.Action,
				Cause:      errors.New(result.Error),
			}
			r.log.Warn("Replay aborted", zap.String("id", w.ID),
				zap.Int("step", i+1), zap.String("action", step.Action), zap.String("error", result.Error))
			return ActionResult{Error: execErr.Error()}, execErr
		}
		results = append(results, result)

		// Pace the next injection, except after the final step.
		if i < len(w.Steps)-1 {
			if err := sleepCtx(ctx, step.Delay); err != nil {
				return ActionResult{}, err
			}
		}
	}

	now := time.Now()
	w.SuccessCount++
	w.LastRun = &now
	if err := r.store.Put(w); err != nil {
		// The actions all ran; surface the bookkeeping failure distinctly.
		return CombineResults(results), fmt.Errorf("workflow %s ran but statistics update failed: %w", w.ID, err)
	}

	r.log.Info("Workflow replay succeeded",
		zap.String("id", w.ID), zap.Int("success_count", w.SuccessCount))
	return CombineResults(results), nil
}

// sleepCtx suspends cooperatively, waking early on cancellation.
func sleepCtx(ctx context.Context, d time.Duration) error {
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
