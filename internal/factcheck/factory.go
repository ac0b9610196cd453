package factcheck

import (
	"fmt"
	"strings"

	"github.com/dlinden/factgate/internal/model"
)

// NewOracle creates a verification oracle based on configuration
func NewOracle(config Config) (Oracle, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return NewOpenAIOracle(config)

	case "anthropic", "claude":
		return NewAnthropicOracle(config)

	case "ollama":
		return NewOllamaOracle(config)

	case "":
		// No provider configured - fact checking disabled
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown oracle provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromModel converts the runtime fact-check configuration to the
// oracle provider configuration
func ConfigFromModel(cfg model.FactCheckConfig) Config {
	return Config{
		Provider:       cfg.Provider,
		Model:          cfg.Model,
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		TimeoutSeconds: int(cfg.Timeout.Seconds()),
		HTTPProxy:      cfg.HTTPProxy,
		HTTPSProxy:     cfg.HTTPSProxy,
	}
}
