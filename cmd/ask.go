package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/voyagerhq/voyager/internal/debuglog"
	"github.com/voyagerhq/voyager/internal/llm"
	"github.com/voyagerhq/voyager/internal/signal"
	"github.com/voyagerhq/voyager/internal/ui"
)

var (
	askBackend string
	askModel   string
	askAttach  []string
	askPlain   bool
)

var askCmd = &cobra.Command{
	Use:   "ask <prompt>",
	Short: "Ask a one-shot question and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askBackend, "backend", "b", "", "Backend override (local, ollama, openai, hub, assistant)")
	askCmd.Flags().StringVarP(&askModel, "model", "m", "", "Model override for the selected backend")
	askCmd.Flags().StringArrayVarP(&askAttach, "attach", "a", nil, "Attach a file by name (repeatable; only the name travels)")
	askCmd.Flags().BoolVar(&askPlain, "plain", false, "Print raw text without markdown rendering")

	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext()
	defer stop()

	cfg, err := loadConfigWithSetup()
	if err != nil {
		return err
	}
	cfg.ApplyOverrides(askBackend, askModel)
	initDebug(cfg)
	defer debuglog.Close()
	initThemeFromConfig(cfg)

	backend, err := llm.NewBackend(cfg)
	if err != nil {
		return err
	}

	prompt := strings.Join(args, " ")

	var attachments []llm.Attachment
	for _, path := range askAttach {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("attach %s: %w", path, err)
		}
		attachments = append(attachments, llm.Attachment{
			Name: filepath.Base(path),
			Size: info.Size(),
		})
	}

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	opts := llm.InputOptions{Attachments: attachments}

	// Stream raw chunks straight to stdout when piped or plain; render
	// markdown after the fact on a terminal.
	if askPlain || !isTTY {
		opts.OnChunk = func(text string) {
			fmt.Print(text)
		}
	}

	reply, err := llm.HandleUserInput(ctx, backend, prompt, opts)
	if err != nil {
		return err
	}

	if opts.OnChunk != nil {
		fmt.Println()
		return nil
	}

	width := 100
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	fmt.Println(ui.RenderMarkdown(reply.Content, width))
	return nil
}
