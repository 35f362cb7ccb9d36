package config

import (
	"path/filepath"
	"testing"
)

func TestApplyOverrides(t *testing.T) {
	cfg := &Config{
		Backend: "local",
		Ollama:  OllamaConfig{Model: "llama3"},
		OpenAI:  OpenAIConfig{Model: "gpt-4o"},
		Hub:     HubConfig{ChatModel: "hub-default"},
	}

	cfg.ApplyOverrides("ollama", "mistral")
	if cfg.Backend != "ollama" {
		t.Fatalf("backend=%q, want %q", cfg.Backend, "ollama")
	}
	if cfg.Ollama.Model != "mistral" {
		t.Fatalf("ollama model=%q, want %q", cfg.Ollama.Model, "mistral")
	}
	if cfg.OpenAI.Model != "gpt-4o" {
		t.Fatalf("openai model changed unexpectedly: %q", cfg.OpenAI.Model)
	}

	cfg.ApplyOverrides("", "llama3.1")
	if cfg.Backend != "ollama" {
		t.Fatalf("backend changed unexpectedly: %q", cfg.Backend)
	}
	if cfg.Ollama.Model != "llama3.1" {
		t.Fatalf("ollama model=%q, want %q", cfg.Ollama.Model, "llama3.1")
	}

	cfg.ApplyOverrides("hub", "hub-large")
	if cfg.Hub.ChatModel != "hub-large" {
		t.Fatalf("hub model=%q, want %q", cfg.Hub.ChatModel, "hub-large")
	}

	cfg.ApplyOverrides("assistant", "gpt-4o-mini")
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Fatalf("assistant must route model to openai, got %q", cfg.OpenAI.Model)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("VOYAGER_TEST_KEY", "secret-value")

	cases := []struct {
		in   string
		want string
	}{
		{"${VOYAGER_TEST_KEY}", "secret-value"},
		{"$VOYAGER_TEST_KEY", "secret-value"},
		{"literal-key", "literal-key"},
		{"${VOYAGER_TEST_UNSET}", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := expandEnv(tc.in); got != tc.want {
			t.Errorf("expandEnv(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGetConfigDirHonorsXDG(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir failed: %v", err)
	}
	if dir != filepath.Join(tmp, "voyager") {
		t.Errorf("config dir=%q, want under %q", dir, tmp)
	}
}

func TestGetDataDirHonorsXDG(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	dir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dir != filepath.Join(tmp, "voyager") {
		t.Errorf("data dir=%q, want under %q", dir, tmp)
	}
}

func TestSaveWritesConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{
		Backend:  "ollama",
		Local:    LocalConfig{LatencyMs: 600},
		Ollama:   OllamaConfig{BaseURL: "http://localhost:11434/api/generate", Model: "llama3"},
		OpenAI:   OpenAIConfig{Model: "gpt-4o"},
		Sessions: SessionsConfig{Enabled: true, Backend: "file"},
		Enrichment: EnrichmentConfig{
			Titles:      true,
			Suggestions: true,
		},
	}
	if err := Save(cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if !Exists() {
		t.Error("config file should exist after save")
	}
	if NeedsSetup() {
		t.Error("setup should not be needed after save")
	}
}
