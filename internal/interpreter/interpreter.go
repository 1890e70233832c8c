// File: internal/interpreter/interpreter.go

// Package interpreter turns free-text instructions into an ordered list of
// input-action requests. Two implementations exist: an LLM-backed planner and
// a regex heuristic used when no LLM provider is configured.
package interpreter

import (
	"context"

	"go.uber.org/zap"

	"github.com/xkilldash9x/deskpilot/internal/config"
	"github.com/xkilldash9x/deskpilot/internal/llmclient"
)

// ActionRequest is one planned action: a name from the computer package's
// vocabulary plus its parameters. Validity of the name is the executor's
// concern, not the interpreter's.
type ActionRequest struct {
	Action     string         `json:"action"`
	Parameters map[string]any `json:"parameters"`
}

// Interpreter converts an instruction into an ordered action plan. An empty
// plan with a nil error means the text contained nothing actionable.
type Interpreter interface {
	Parse(ctx context.Context, text string) ([]ActionRequest, error)
}

// New selects the interpreter implementation from configuration: the LLM
// planner when a provider is configured, the heuristic otherwise.
func New(cfg config.AgentConfig, logger *zap.Logger) (Interpreter, error) {
	client, err := llmclient.NewClient(cfg.LLM, logger)
	if err != nil {
		return nil, err
	}
	if client == nil {
		logger.Info("No LLM provider configured, using heuristic instruction parsing")
		return NewHeuristic(logger), nil
	}
	planner := NewPlanner(client, cfg.LLM, logger)
	if cfg.SystemPromptOverride != "" {
		planner.systemPrompt = cfg.SystemPromptOverride
	}
	return planner, nil
}
