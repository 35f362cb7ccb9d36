package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/voyagerhq/voyager/internal/debuglog"
	"github.com/voyagerhq/voyager/internal/llm"
	"github.com/voyagerhq/voyager/internal/session"
)

const titlePromptTemplate = `Generate a concise 3-6 word conversation title (no punctuation) summarizing this assistant reply:

"%s"

Title:`

const suggestionsPromptTemplate = `From the assistant reply below, produce exactly 3 short follow-up user prompts (2-8 words each), each on a separate line. Do NOT add numbering.

Assistant reply:
%s

Suggestions:
`

// enrichTitle replaces a placeholder title with a model-generated one.
// Finalized titles are never rewritten; the heuristic fallback keeps the
// trailing ellipsis so a later commit retries. Enrichment goes through the
// orchestrator directly, never through Send.
func (c *Controller) enrichTitle(ctx context.Context, conv *session.Conversation, reply string) {
	c.mu.Lock()
	finalized := conv.TitleFinalized()
	c.mu.Unlock()
	if finalized {
		return
	}

	prompt := fmt.Sprintf(titlePromptTemplate, clipForPrompt(reply))
	msg, err := llm.HandleUserInput(ctx, c.backend, prompt, llm.InputOptions{})
	title := ""
	if err != nil {
		debuglog.Log("enrich_title_error", map[string]any{"error": err.Error()})
	} else {
		title = firstLine(msg.Content)
	}
	if title == "" {
		title = session.HeuristicTitle(reply)
	}

	c.mu.Lock()
	conv.Title = title
	c.mu.Unlock()

	c.persist(ctx)
	c.opts.Notify(Event{Kind: EventTitle, ConversationID: conv.ID, Title: title})
}

// enrichSuggestions asks the backend for follow-up prompts. Anything other
// than usable lines falls back to deterministic templates built from the
// reply, so the suggestion row is never empty after a commit.
func (c *Controller) enrichSuggestions(ctx context.Context, convID string, myGen uint64, reply string) {
	prompt := fmt.Sprintf(suggestionsPromptTemplate, clipForPrompt(reply))
	msg, err := llm.HandleUserInput(ctx, c.backend, prompt, llm.InputOptions{})

	var suggestions []string
	if err != nil {
		debuglog.Log("enrich_suggestions_error", map[string]any{"error": err.Error()})
	} else {
		suggestions = parseSuggestions(msg.Content)
	}
	if len(suggestions) == 0 {
		suggestions = heuristicSuggestions(reply)
	}

	c.mu.Lock()
	stale := myGen != c.gen || convID != c.activeID
	if !stale {
		c.suggestions = suggestions
	}
	c.mu.Unlock()
	if stale {
		return
	}

	c.opts.Notify(Event{Kind: EventSuggestions, ConversationID: convID, Suggestions: suggestions})
}

// parseSuggestions splits the model output into at most three non-blank
// trimmed lines.
func parseSuggestions(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == 3 {
			break
		}
	}
	return out
}

// heuristicSuggestions templates three follow-ups from the opening words of
// the reply.
func heuristicSuggestions(reply string) []string {
	words := strings.Fields(reply)
	if len(words) > 4 {
		words = words[:4]
	}
	topic := strings.Join(words, " ")
	if topic == "" {
		topic = "this"
	}
	return []string{
		"Tell me more about " + topic,
		"Give examples related to " + topic,
		"Summarize key points about " + topic,
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.Trim(strings.TrimSpace(line), `"`)
}

// clipForPrompt bounds the reply text embedded in enrichment prompts.
func clipForPrompt(s string) string {
	const max = 2000
	if len(s) <= max {
		return s
	}
	return s[:max]
}
