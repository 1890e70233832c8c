// File: internal/interpreter/planner.go
package interpreter

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/deskpilot/internal/computer"
	"github.com/xkilldash9x/deskpilot/internal/config"
	"github.com/xkilldash9x/deskpilot/internal/llmclient"
	"github.com/xkilldash9x/deskpilot/internal/llmutil"
)

// Planner asks an LLM to compile the instruction into a JSON action plan
// restricted to the computer package's vocabulary.
type Planner struct {
	client       llmclient.Client
	cfg          config.LLMModelConfig
	systemPrompt string
	logger       *zap.Logger
}

// NewPlanner builds an LLM-backed interpreter.
func NewPlanner(client llmclient.Client, cfg config.LLMModelConfig, logger *zap.Logger) *Planner {
	return &Planner{
		client:       client,
		cfg:          cfg,
		systemPrompt: buildSystemPrompt(),
		logger:       logger.Named("planner"),
	}
}

// Parse sends the instruction to the model and decodes the returned plan.
func (p *Planner) Parse(ctx context.Context, text string) ([]ActionRequest, error) {
	response, err := p.client.GenerateResponse(ctx, llmclient.GenerationRequest{
		SystemPrompt: p.systemPrompt,
		UserPrompt:   text,
		Temperature:  p.cfg.Temperature,
		MaxTokens:    p.cfg.MaxOutputTokens,
		ForceJSON:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("instruction planning failed: %w", err)
	}

	plan, err := llmutil.ParseJSONResponse[[]ActionRequest](response)
	if err != nil {
		return nil, fmt.Errorf("could not understand the model's plan: %w", err)
	}

	requests := make([]ActionRequest, 0, len(*plan))
	for _, req := range *plan {
		if req.Action == "" {
			continue
		}
		if req.Parameters == nil {
			req.Parameters = map[string]any{}
		}
		requests = append(requests, req)
	}

	p.logger.Debug("Planned actions", zap.Int("count", len(requests)))
	return requests, nil
}

// buildSystemPrompt renders the action vocabulary into planning instructions.
func buildSystemPrompt() string {
	var b strings.Builder
	b.WriteString(`You control a desktop computer by emitting input actions.
Translate the user's instruction into a JSON array of actions, in execution order.
Each element has the shape {"action": "<name>", "parameters": {...}}.
Respond with the JSON array only. If nothing in the instruction maps to an action, respond with [].

Supported actions:
`)
	for _, spec := range computer.Catalog() {
		fmt.Fprintf(&b, "- %s %s: %s\n", spec.Name, spec.Parameters, spec.Description)
	}
	b.WriteString("\nNamed shortcuts usable with hotkey: ")
	b.WriteString(strings.Join(computer.ShortcutNames(), ", "))
	b.WriteString("\n")
	return b.String()
}
