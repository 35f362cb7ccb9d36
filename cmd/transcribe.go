package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voyagerhq/voyager/internal/debuglog"
	"github.com/voyagerhq/voyager/internal/llm"
	"github.com/voyagerhq/voyager/internal/signal"
)

var (
	transcribeBackend   string
	transcribePorcelain bool
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <file>",
	Short: "Transcribe an audio file to text",
	Args:  cobra.ExactArgs(1),
	RunE:  runTranscribe,
}

func init() {
	transcribeCmd.Flags().StringVarP(&transcribeBackend, "backend", "b", "", "Backend override (hub, assistant)")
	transcribeCmd.Flags().BoolVar(&transcribePorcelain, "porcelain", false, "Output only the transcript text")

	rootCmd.AddCommand(transcribeCmd)
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext()
	defer stop()

	cfg, err := loadConfigWithSetup()
	if err != nil {
		return err
	}
	cfg.ApplyOverrides(transcribeBackend, "")
	initDebug(cfg)
	defer debuglog.Close()

	filePath := args[0]
	if _, err := detectAudioMimeType(filePath); err != nil {
		return err
	}
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("open audio file: %w", err)
	}

	backend, err := llm.NewBackend(cfg)
	if err != nil {
		return err
	}

	transcriber, ok := backend.(llm.Transcriber)
	if !ok {
		return fmt.Errorf("backend %q cannot transcribe audio (use --backend hub or assistant)", backend.Name())
	}

	if !transcribePorcelain {
		fmt.Fprintf(cmd.ErrOrStderr(), "Transcribing %s...\n", filepath.Base(filePath))
	}

	transcript, err := transcriber.Transcribe(ctx, filePath)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), transcript)
	return nil
}

func detectAudioMimeType(filePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".ogg":
		return "audio/ogg", nil
	case ".mp3":
		return "audio/mpeg", nil
	case ".wav":
		return "audio/wav", nil
	case ".m4a", ".mp4":
		return "audio/mp4", nil
	case ".flac":
		return "audio/flac", nil
	case ".webm":
		return "audio/webm", nil
	default:
		return "", fmt.Errorf("unsupported audio extension %q", ext)
	}
}
