package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/voyagerhq/voyager/internal/config"
)

// getTTY opens /dev/tty for direct terminal access (bypasses redirections)
func getTTY() (*os.File, error) {
	return os.OpenFile("/dev/tty", os.O_RDWR, 0)
}

// ShowError displays an error message
func ShowError(msg string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
}

// backendEnvVar maps key-requiring backends to the env var that supplies
// their credential.
func backendEnvVar(backend string) string {
	switch backend {
	case "openai", "assistant":
		return "OPENAI_API_KEY"
	case "hub":
		return "HUB_API_KEY"
	}
	return ""
}

// RunSetupWizard runs the first-time setup wizard and returns the config
func RunSetupWizard() (*config.Config, error) {
	tty, ttyErr := getTTY()
	if ttyErr == nil {
		defer tty.Close()
		fmt.Fprintln(tty, "Welcome to voyager! Let's get you set up.")
	} else {
		fmt.Fprintln(os.Stderr, "Welcome to voyager! Let's get you set up.")
	}

	var backend string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which backend do you want to use?").
				Options(
					huh.NewOption("Local (offline echo, no key needed)", "local"),
					huh.NewOption("Ollama (self-hosted models)", "ollama"),
					huh.NewOption("OpenAI", "openai"),
					huh.NewOption("Inference hub (chat, image, summarize, transcribe)", "hub"),
					huh.NewOption("Assistant (OpenAI chat + image + transcription)", "assistant"),
				).
				Value(&backend),
		),
	)

	if ttyErr == nil {
		tty2, _ := getTTY()
		defer tty2.Close()
		form = form.WithInput(tty2).WithOutput(tty2)
	}

	if err := form.Run(); err != nil {
		return nil, err
	}

	if envVar := backendEnvVar(backend); envVar != "" {
		apiKey := os.Getenv(envVar)
		if backend == "hub" && apiKey == "" {
			apiKey = os.Getenv("HF_TOKEN")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("%s environment variable is not set\n\nPlease set it:\n  export %s=your-api-key", envVar, envVar)
		}
	}

	cfg := &config.Config{
		Backend: backend,
		Local: config.LocalConfig{
			LatencyMs: 600,
		},
		Ollama: config.OllamaConfig{
			BaseURL: "http://localhost:11434/api/generate",
			Model:   "llama3",
		},
		OpenAI: config.OpenAIConfig{
			Model: "gpt-4o",
		},
		Sessions: config.SessionsConfig{
			Enabled: true,
			Backend: "file",
		},
		Enrichment: config.EnrichmentConfig{
			Titles:      true,
			Suggestions: true,
		},
	}

	if err := config.Save(cfg); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	path, _ := config.GetConfigPath()
	if tty, err := getTTY(); err == nil {
		fmt.Fprintf(tty, "Config saved to %s\n\n", path)
		tty.Close()
	} else {
		fmt.Fprintf(os.Stderr, "Config saved to %s\n\n", path)
	}

	// Reload to pick up env vars
	return config.Load()
}

// PromptProfile collects a user profile interactively for login.
func PromptProfile() (name, email string, err error) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Display name").
				Placeholder("Ada Lovelace").
				Value(&name),
			huh.NewInput().
				Title("Email (optional)").
				Placeholder("ada@example.com").
				Value(&email),
		),
	)

	if tty, ttyErr := getTTY(); ttyErr == nil {
		defer tty.Close()
		form = form.WithInput(tty).WithOutput(tty)
	}

	if err := form.Run(); err != nil {
		return "", "", err
	}
	return name, email, nil
}
