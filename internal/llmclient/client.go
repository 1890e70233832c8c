// File: internal/llmclient/client.go

// Package llmclient provides access to hosted LLM APIs for the instruction
// interpreter. The transport is plain HTTP with retries; provider-specific
// request shapes stay inside their client files.
package llmclient

import "context"

// GenerationRequest carries one prompt exchange to the model.
type GenerationRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int
	// ForceJSON asks the provider for a JSON-typed response when supported.
	ForceJSON bool
}

// Client is the minimal surface the interpreter needs from an LLM backend.
type Client interface {
	GenerateResponse(ctx context.Context, req GenerationRequest) (string, error)
}
