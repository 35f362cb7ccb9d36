package session

import (
	"strings"

	"github.com/voyagerhq/voyager/internal/llm"
)

// DefaultTitle is the placeholder label for conversations that have not
// been titled yet.
const DefaultTitle = "New Chat"

// Conversation is a titled, append-only message history. The title starts
// as a heuristic placeholder and may be rewritten once by enrichment;
// messages are never reordered or individually deleted.
type Conversation struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Messages []llm.Message `json:"messages"`
}

// NewConversation creates an empty conversation with a heuristic title
// derived from the first prompt.
func NewConversation(firstPrompt string) *Conversation {
	return &Conversation{
		ID:    llm.NewID(),
		Title: HeuristicTitle(firstPrompt),
	}
}

// Append adds a message to the history.
func (c *Conversation) Append(msg llm.Message) {
	c.Messages = append(c.Messages, msg)
}

// TitleFinalized reports whether the title has been explicitly set. A title
// equal to the default label or ending with the ellipsis marker is still a
// placeholder and may be rewritten by enrichment.
func (c *Conversation) TitleFinalized() bool {
	return c.Title != DefaultTitle && !strings.HasSuffix(c.Title, "…")
}

// HistoryPayload renders the conversation as a role-labelled transcript for
// use as backend context.
func (c *Conversation) HistoryPayload() string {
	lines := make([]string, 0, len(c.Messages))
	for _, m := range c.Messages {
		label := "User"
		if m.Role == llm.RoleAssistant {
			label = "Assistant"
		}
		lines = append(lines, label+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}

// HeuristicTitle derives a placeholder title from message text: strip
// non-alphanumerics, keep words longer than two characters, take the first
// six, capitalize, and append an ellipsis. Empty input yields the default
// label.
func HeuristicTitle(text string) string {
	if text == "" {
		return DefaultTitle
	}

	var cleaned strings.Builder
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == ' ' {
			cleaned.WriteRune(r)
		}
	}

	var words []string
	for _, w := range strings.Fields(cleaned.String()) {
		if len(w) > 2 {
			words = append(words, w)
		}
		if len(words) == 6 {
			break
		}
	}
	if len(words) == 0 {
		return DefaultTitle
	}

	title := strings.Join(words, " ")
	return strings.ToUpper(title[:1]) + title[1:] + "…"
}
