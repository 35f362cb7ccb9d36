package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voyagerhq/voyager/internal/session"
	"github.com/voyagerhq/voyager/internal/ui"
)

var exportFormat string

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved conversations",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved conversations",
	RunE:  runSessionsList,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

var sessionsExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a conversation to markdown or yaml",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsExport,
}

func init() {
	sessionsExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "markdown", "Export format: markdown or yaml")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsExportCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func loadConversations() ([]*session.Conversation, session.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	store, err := session.NewStore(cfg.Sessions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session store: %w", err)
	}

	conversations, err := store.Load(context.Background())
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to load conversations: %w", err)
	}
	return conversations, store, nil
}

// findConversation matches a full ID or an unambiguous prefix.
func findConversation(conversations []*session.Conversation, id string) (*session.Conversation, error) {
	var found *session.Conversation
	for _, conv := range conversations {
		if conv.ID == id {
			return conv, nil
		}
		if strings.HasPrefix(conv.ID, id) {
			if found != nil {
				return nil, fmt.Errorf("ambiguous id %q", id)
			}
			found = conv
		}
	}
	if found == nil {
		return nil, fmt.Errorf("no conversation with id %q", id)
	}
	return found, nil
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	conversations, store, err := loadConversations()
	if err != nil {
		return err
	}
	defer store.Close()

	if len(conversations) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved conversations.")
		return nil
	}

	styles := ui.NewStyles(os.Stdout)
	for _, conv := range conversations {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s %s\n",
			styles.Muted.Render(conv.ID),
			ui.Truncate(conv.Title, 50),
			styles.Muted.Render(fmt.Sprintf("(%d messages)", len(conv.Messages))))
	}
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	conversations, store, err := loadConversations()
	if err != nil {
		return err
	}
	defer store.Close()

	target, err := findConversation(conversations, args[0])
	if err != nil {
		return err
	}

	kept := conversations[:0]
	for _, conv := range conversations {
		if conv.ID != target.ID {
			kept = append(kept, conv)
		}
	}
	if err := store.Save(context.Background(), kept); err != nil {
		return fmt.Errorf("failed to save conversations: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", target.Title)
	return nil
}

func runSessionsExport(cmd *cobra.Command, args []string) error {
	conversations, store, err := loadConversations()
	if err != nil {
		return err
	}
	defer store.Close()

	target, err := findConversation(conversations, args[0])
	if err != nil {
		return err
	}

	switch exportFormat {
	case "markdown", "md":
		fmt.Fprint(cmd.OutOrStdout(), session.ExportToMarkdown(target))
	case "yaml", "yml":
		out, err := session.ExportToYAML(target)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
	default:
		return fmt.Errorf("unknown format %q (valid: markdown, yaml)", exportFormat)
	}
	return nil
}
