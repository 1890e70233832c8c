// File: internal/llmclient/gemini_client.go
package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/deskpilot/internal/config"
)

// GeminiClient implements Client against the Google Gemini REST API.
type GeminiClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
	cfg        config.LLMModelConfig
}

// -- Gemini API request/response structures (internal to this file) --

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiSystemInstruction struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"response_mime_type,omitempty"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
}

type geminiRequestPayload struct {
	Contents          []geminiContent          `json:"contents"`
	SystemInstruction *geminiSystemInstruction `json:"system_instruction,omitempty"`
	GenerationConfig  geminiGenerationConfig   `json:"generationConfig"`
}

type geminiResponsePayload struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

// NewGeminiClient initializes the client.
func NewGeminiClient(cfg config.LLMModelConfig, logger *zap.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf(
			"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent", cfg.Model)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}

	timeout := cfg.APITimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &GeminiClient{
		apiKey:     cfg.APIKey,
		endpoint:   endpoint,
		cfg:        cfg,
		limiter:    limiter,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("llm_client.gemini"),
	}, nil
}

// GenerateResponse sends the prompts to the Gemini API and returns the
// generated text, retrying transient failures with exponential backoff.
func (c *GeminiClient) GenerateResponse(ctx context.Context, req GenerationRequest) (string, error) {
	body, err := json.Marshal(c.buildRequestPayload(req))
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter wait aborted: %w", err)
		}
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 2 * time.Minute
	b.MaxInterval = 30 * time.Second

	var responseContent string
	operation := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create HTTP request: %w", err))
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("x-goog-api-key", c.apiKey)

		start := time.Now()
		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			c.logger.Warn("Network error during LLM request, retrying...", zap.Error(err))
			return fmt.Errorf("failed to execute HTTP request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return c.classifyAPIError(resp.StatusCode, respBody)
		}

		content, err := extractContent(respBody)
		if err != nil {
			return backoff.Permanent(err)
		}

		c.logger.Debug("LLM request completed",
			zap.Duration("duration", time.Since(start)), zap.Int("response_bytes", len(content)))
		responseContent = content
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return "", err
	}
	return responseContent, nil
}

func (c *GeminiClient) buildRequestPayload(req GenerationRequest) geminiRequestPayload {
	payload := geminiRequestPayload{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: req.UserPrompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		},
	}
	if req.SystemPrompt != "" {
		payload.SystemInstruction = &geminiSystemInstruction{
			Parts: []geminiPart{{Text: req.SystemPrompt}},
		}
	}
	if req.ForceJSON {
		payload.GenerationConfig.ResponseMimeType = "application/json"
	}
	return payload
}

// classifyAPIError decides whether a non-200 status is worth retrying.
// Client-side errors (bad key, malformed request) are permanent; rate limits
// and server errors are transient.
func (c *GeminiClient) classifyAPIError(status int, body []byte) error {
	apiErr := fmt.Errorf("gemini API returned status %d: %s", status, truncateBody(body))
	switch {
	case status == http.StatusTooManyRequests || status >= 500:
		c.logger.Warn("Transient LLM API error, retrying...", zap.Int("status", status))
		return apiErr
	default:
		return backoff.Permanent(apiErr)
	}
}

// extractContent pulls the first candidate's text out of a response body.
func extractContent(body []byte) (string, error) {
	var payload geminiResponsePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}
	if len(payload.Candidates) == 0 || len(payload.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response contained no candidates")
	}
	return payload.Candidates[0].Content.Parts[0].Text, nil
}

func truncateBody(body []byte) string {
	const maxLen = 500
	if len(body) <= maxLen {
		return string(body)
	}
	return string(body[:maxLen]) + "..."
}
