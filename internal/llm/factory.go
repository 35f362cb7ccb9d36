package llm

import (
	"fmt"
	"time"

	"github.com/voyagerhq/voyager/internal/config"
)

// NewBackend creates a backend based on the config.
func NewBackend(cfg *config.Config) (Backend, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocalBackend(time.Duration(cfg.Local.LatencyMs) * time.Millisecond), nil
	case "ollama":
		return NewOllamaBackend(cfg.Ollama.BaseURL, cfg.Ollama.Model), nil
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("openai API key not configured. Set OPENAI_API_KEY or add to config")
		}
		return NewOpenAIBackend(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Model), nil
	case "hub":
		if cfg.Hub.APIKey == "" {
			return nil, fmt.Errorf("hub API key not configured. Set HUB_API_KEY or add to config")
		}
		return NewHubBackend(HubConfig{
			APIKey:        cfg.Hub.APIKey,
			ChatURL:       cfg.Hub.ChatURL,
			ChatModel:     cfg.Hub.ChatModel,
			ImageURL:      cfg.Hub.ImageURL,
			SummarizeURL:  cfg.Hub.SummarizeURL,
			TranscribeURL: cfg.Hub.TranscribeURL,
			OutputDir:     cfg.Hub.OutputDir,
		}), nil
	case "assistant":
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("openai API key not configured. Set OPENAI_API_KEY or add to config")
		}
		chat := NewOpenAIBackend(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		return NewAssistantBackend(chat, cfg.OpenAI.APIKey), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s (valid: local, ollama, openai, hub, assistant)", cfg.Backend)
	}
}
