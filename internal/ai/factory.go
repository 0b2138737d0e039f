package ai

import (
	"log/slog"
	"time"

	"yourspace/internal/config"
	"yourspace/internal/middleware"
	"yourspace/internal/sanitize"
)

// FromConfig selects the backend named by AI_PROVIDER. An OpenAI provider
// without a usable key produces an unconfigured generator.
func FromConfig(cfg *config.Config, policy *sanitize.Policy) *Generator {
	timeout := time.Duration(cfg.AITimeoutSeconds) * time.Second

	var backend Backend
	switch cfg.AIProvider {
	case config.AIProviderOllama:
		backend = NewOllamaBackend(cfg.OllamaURL, cfg.OllamaModel, timeout)
	default:
		if cfg.OpenAIConfigured() {
			backend = NewOpenAIBackend(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, timeout)
		} else {
			middleware.Logger.Warn("OpenAI API key is not configured; AI assistant disabled")
		}
	}

	gen := NewGenerator(backend, policy, timeout)
	if gen.Configured() {
		middleware.Logger.Info("AI assistant ready", slog.String("provider", gen.Provider()))
	}
	return gen
}
