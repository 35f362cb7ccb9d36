package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voyagerhq/voyager/internal/debuglog"
	"github.com/voyagerhq/voyager/internal/llm"
	"github.com/voyagerhq/voyager/internal/signal"
)

var summarizeBackend string

var summarizeCmd = &cobra.Command{
	Use:   "summarize [text]",
	Short: "Summarize text from arguments or stdin",
	RunE:  runSummarize,
}

func init() {
	summarizeCmd.Flags().StringVarP(&summarizeBackend, "backend", "b", "", "Backend override (hub)")

	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext()
	defer stop()

	cfg, err := loadConfigWithSetup()
	if err != nil {
		return err
	}
	cfg.ApplyOverrides(summarizeBackend, "")
	initDebug(cfg)
	defer debuglog.Close()

	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = strings.TrimSpace(string(data))
	}
	if text == "" {
		return fmt.Errorf("nothing to summarize: pass text or pipe it on stdin")
	}

	backend, err := llm.NewBackend(cfg)
	if err != nil {
		return err
	}

	summarizer, ok := backend.(llm.Summarizer)
	if !ok {
		return fmt.Errorf("backend %q cannot summarize (use --backend hub)", backend.Name())
	}

	summary, err := summarizer.Summarize(ctx, text)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), summary)
	return nil
}
