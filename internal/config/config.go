package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Backend    string           `mapstructure:"backend"`
	Local      LocalConfig      `mapstructure:"local"`
	Ollama     OllamaConfig     `mapstructure:"ollama"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Hub        HubConfig        `mapstructure:"hub"`
	Sessions   SessionsConfig   `mapstructure:"sessions"`
	Enrichment EnrichmentConfig `mapstructure:"enrichment"`
	Theme      ThemeConfig      `mapstructure:"theme"`
	Debug      DebugConfig      `mapstructure:"debug"`
}

// LocalConfig configures the simulated echo backend
type LocalConfig struct {
	LatencyMs int `mapstructure:"latency_ms"` // artificial reply latency
}

// OllamaConfig configures the self-hosted model server backend
type OllamaConfig struct {
	BaseURL string `mapstructure:"base_url"` // Default: http://localhost:11434/api/generate
	Model   string `mapstructure:"model"`
}

// OpenAIConfig configures the hosted chat-completion backend
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"` // Optional, for compatible gateways
	Model   string `mapstructure:"model"`
}

// HubConfig configures the multi-modal inference hub backend
type HubConfig struct {
	APIKey        string `mapstructure:"api_key"`
	ChatModel     string `mapstructure:"chat_model"`
	ChatURL       string `mapstructure:"chat_url"`
	ImageURL      string `mapstructure:"image_url"`
	SummarizeURL  string `mapstructure:"summarize_url"`
	TranscribeURL string `mapstructure:"transcribe_url"`
	OutputDir     string `mapstructure:"output_dir"` // where generated images are saved
}

// SessionsConfig configures conversation persistence
type SessionsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Backend string `mapstructure:"backend"` // "file" (default) or "sqlite"
}

// EnrichmentConfig toggles post-commit title/suggestion generation
type EnrichmentConfig struct {
	Titles      bool `mapstructure:"titles"`
	Suggestions bool `mapstructure:"suggestions"`
}

// ThemeConfig allows customization of UI colors.
// Colors can be ANSI color numbers (0-255) or hex codes (#RRGGBB)
type ThemeConfig struct {
	Primary   string `mapstructure:"primary"`   // main accent (user messages, highlights)
	Secondary string `mapstructure:"secondary"` // secondary accent (headers, borders)
	Success   string `mapstructure:"success"`   // success states
	Error     string `mapstructure:"error"`     // error states
	Muted     string `mapstructure:"muted"`     // dimmed text
	Text      string `mapstructure:"text"`      // primary text
	Spinner   string `mapstructure:"spinner"`   // loading spinner
}

// DebugConfig configures debug logging
type DebugConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"` // Override default directory
}

func Load() (*Config, error) {
	configPath, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config dir: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath(".")

	// Set defaults
	viper.SetDefault("backend", "local")
	viper.SetDefault("local.latency_ms", 600)
	viper.SetDefault("ollama.base_url", "http://localhost:11434/api/generate")
	viper.SetDefault("ollama.model", "llama3")
	viper.SetDefault("openai.model", "gpt-4o")
	viper.SetDefault("sessions.enabled", true)
	viper.SetDefault("sessions.backend", "file")
	viper.SetDefault("enrichment.titles", true)
	viper.SetDefault("enrichment.suggestions", true)

	// Read config file (optional - won't error if missing)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	resolveOpenAICredentials(&cfg.OpenAI)
	resolveHubCredentials(&cfg.Hub)
	resolveOllamaCredentials(&cfg.Ollama)

	return &cfg, nil
}

// ApplyOverrides applies backend and model overrides to the config.
func (c *Config) ApplyOverrides(backend, model string) {
	if backend != "" {
		c.Backend = backend
	}
	if model != "" {
		switch c.Backend {
		case "ollama":
			c.Ollama.Model = model
		case "openai", "assistant":
			c.OpenAI.Model = model
		case "hub":
			c.Hub.ChatModel = model
		}
	}
}

func resolveOpenAICredentials(cfg *OpenAIConfig) {
	cfg.APIKey = expandEnv(cfg.APIKey)
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	cfg.BaseURL = expandEnv(cfg.BaseURL)
}

func resolveHubCredentials(cfg *HubConfig) {
	cfg.APIKey = expandEnv(cfg.APIKey)
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("HUB_API_KEY")
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("HF_TOKEN")
	}
}

func resolveOllamaCredentials(cfg *OllamaConfig) {
	cfg.BaseURL = expandEnv(cfg.BaseURL)
	if host := os.Getenv("OLLAMA_HOST"); host != "" && cfg.BaseURL == "" {
		cfg.BaseURL = host
	}
}

// expandEnv expands ${VAR} or $VAR in a string
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		varName := s[2 : len(s)-1]
		return os.Getenv(varName)
	}
	if strings.HasPrefix(s, "$") {
		return os.Getenv(s[1:])
	}
	return s
}

// GetConfigDir returns the XDG config directory for voyager.
// Uses $XDG_CONFIG_HOME if set, otherwise ~/.config
func GetConfigDir() (string, error) {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, "voyager"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "voyager"), nil
}

// GetConfigPath returns the path where the config file should be located
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// GetDataDir returns the XDG data directory for voyager.
// Uses $XDG_DATA_HOME if set, otherwise ~/.local/share
func GetDataDir() (string, error) {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "voyager"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "voyager"), nil
}

// Exists returns true if a config file exists
func Exists() bool {
	path, err := GetConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// NeedsSetup returns true if config file doesn't exist
func NeedsSetup() bool {
	return !Exists()
}

// Save writes the config to disk
func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content := fmt.Sprintf(`backend: %s

local:
  latency_ms: %d

ollama:
  base_url: %s
  model: %s

openai:
  model: %s
  # api_key: set OPENAI_API_KEY env var or add here

hub:
  # api_key: set HUB_API_KEY or HF_TOKEN env var or add here

sessions:
  enabled: %t
  backend: %s

enrichment:
  titles: %t
  suggestions: %t
`, cfg.Backend, cfg.Local.LatencyMs, cfg.Ollama.BaseURL, cfg.Ollama.Model,
		cfg.OpenAI.Model, cfg.Sessions.Enabled, cfg.Sessions.Backend,
		cfg.Enrichment.Titles, cfg.Enrichment.Suggestions)

	return os.WriteFile(path, []byte(content), 0600)
}
