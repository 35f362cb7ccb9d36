package session

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/voyagerhq/voyager/internal/llm"
)

// ExportToMarkdown renders a conversation as a readable markdown document.
func ExportToMarkdown(c *Conversation) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# %s\n\n", c.Title))

	for _, m := range c.Messages {
		label := "User"
		if m.Role == llm.RoleAssistant {
			label = "Assistant"
		}
		b.WriteString(fmt.Sprintf("## %s (%s)\n\n", label, m.CreatedAt.UTC().Format("2006-01-02 15:04 UTC")))
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	return b.String()
}

// exportMessage flattens a message for YAML export.
type exportMessage struct {
	Role      string `yaml:"role"`
	Content   string `yaml:"content"`
	CreatedAt string `yaml:"created_at"`
}

type exportConversation struct {
	ID       string          `yaml:"id"`
	Title    string          `yaml:"title"`
	Messages []exportMessage `yaml:"messages"`
}

// ExportToYAML renders a conversation as YAML for scripting.
func ExportToYAML(c *Conversation) (string, error) {
	out := exportConversation{
		ID:    c.ID,
		Title: c.Title,
	}
	for _, m := range c.Messages {
		out.Messages = append(out.Messages, exportMessage{
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to encode conversation: %w", err)
	}
	return string(data), nil
}
