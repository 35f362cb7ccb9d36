package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voyagerhq/voyager/internal/debuglog"
	"github.com/voyagerhq/voyager/internal/llm"
	"github.com/voyagerhq/voyager/internal/signal"
)

var imageBackend string

var imageCmd = &cobra.Command{
	Use:   "image <prompt>",
	Short: "Generate an image from a text prompt",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runImage,
}

func init() {
	imageCmd.Flags().StringVarP(&imageBackend, "backend", "b", "", "Backend override (hub, assistant)")

	rootCmd.AddCommand(imageCmd)
}

func runImage(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext()
	defer stop()

	cfg, err := loadConfigWithSetup()
	if err != nil {
		return err
	}
	cfg.ApplyOverrides(imageBackend, "")
	initDebug(cfg)
	defer debuglog.Close()

	backend, err := llm.NewBackend(cfg)
	if err != nil {
		return err
	}

	generator, ok := backend.(llm.ImageGenerator)
	if !ok {
		return fmt.Errorf("backend %q cannot generate images (use --backend hub or assistant)", backend.Name())
	}

	prompt := strings.Join(args, " ")
	fmt.Fprintf(cmd.ErrOrStderr(), "Generating image with %s...\n", backend.Name())

	location, err := generator.GenerateImage(ctx, prompt)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), location)
	return nil
}
