// File: internal/llmclient/factory.go
package llmclient

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/deskpilot/internal/config"
)

// NewClient is a factory function that creates a Client based on the
// configuration. Provider "none" returns (nil, nil): the caller falls back to
// the heuristic interpreter.
func NewClient(cfg config.LLMModelConfig, logger *zap.Logger) (Client, error) {
	switch cfg.Provider {
	case config.ProviderNone, "":
		return nil, nil
	case config.ProviderGemini:
		return NewGeminiClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown or unsupported LLM provider configured: %q. Supported: [%s, %s]",
			cfg.Provider, config.ProviderGemini, config.ProviderNone)
	}
}
