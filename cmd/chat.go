package cmd

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/voyagerhq/voyager/internal/auth"
	"github.com/voyagerhq/voyager/internal/chat"
	"github.com/voyagerhq/voyager/internal/debuglog"
	"github.com/voyagerhq/voyager/internal/llm"
	"github.com/voyagerhq/voyager/internal/session"
	tuichat "github.com/voyagerhq/voyager/internal/tui/chat"
)

var (
	chatBackend string
	chatModel   string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatBackend, "backend", "b", "", "Backend override (local, ollama, openai, hub, assistant)")
	chatCmd.Flags().StringVarP(&chatModel, "model", "m", "", "Model override for the selected backend")

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	profile, err := auth.Current()
	if errors.Is(err, auth.ErrNotLoggedIn) {
		return fmt.Errorf("not logged in. Run: voyager login")
	}
	if err != nil {
		return err
	}

	cfg, err := loadConfigWithSetup()
	if err != nil {
		return err
	}
	cfg.ApplyOverrides(chatBackend, chatModel)
	initDebug(cfg)
	defer debuglog.Close()
	initThemeFromConfig(cfg)

	backend, err := llm.NewBackend(cfg)
	if err != nil {
		return err
	}

	store, err := session.NewStore(cfg.Sessions)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer store.Close()

	var program *tea.Program
	controller := chat.NewController(backend, store, chat.Options{
		Notify: func(ev chat.Event) {
			if program != nil {
				program.Send(tuichat.ControllerEventMsg{Event: ev})
			}
		},
		EnrichTitles:      cfg.Enrichment.Titles,
		EnrichSuggestions: cfg.Enrichment.Suggestions,
	})

	if err := controller.LoadFromStore(context.Background()); err != nil {
		return fmt.Errorf("failed to load conversations: %w", err)
	}

	model := tuichat.New(controller, profile.Name)
	program = tea.NewProgram(model)

	_, err = program.Run()
	return err
}
