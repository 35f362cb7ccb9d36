package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Write debug logs to the data directory")
}

var rootCmd = &cobra.Command{
	Use:   "voyager",
	Short: "Chat with interchangeable AI backends",
	Long: `voyager is a conversational client for local and hosted AI backends.

Examples:
  voyager chat                          # interactive chat
  voyager ask "explain io.Reader"       # one-shot question
  voyager image "a lighthouse at dusk"  # generate an image
  voyager transcribe talk.mp3           # audio to text

  voyager sessions list                 # saved conversations`,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

var debugFlag bool

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
