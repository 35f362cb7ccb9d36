package session

import (
	"testing"

	"github.com/voyagerhq/voyager/internal/llm"
)

func TestHeuristicTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", DefaultTitle},
		{"all words too short", "is it ok to go", DefaultTitle},
		{"basic", "explain the http package", "Explain the http package…"},
		{"punctuation stripped", "what's a goroutine, really?!", "Whats goroutine really…"},
		{"capped at six words", "one1 two2 three3 four4 five5 six6 seven7 eight8", "One1 two2 three3 four4 five5 six6…"},
		{"only short words", "a an to of", DefaultTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HeuristicTitle(tt.input); got != tt.want {
				t.Errorf("HeuristicTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTitleFinalized(t *testing.T) {
	c := &Conversation{Title: DefaultTitle}
	if c.TitleFinalized() {
		t.Error("default title must not count as finalized")
	}

	c.Title = "Explain the http package…"
	if c.TitleFinalized() {
		t.Error("ellipsis placeholder must not count as finalized")
	}

	c.Title = "HTTP Package Basics"
	if !c.TitleFinalized() {
		t.Error("plain title must count as finalized")
	}
}

func TestNewConversationUsesHeuristicTitle(t *testing.T) {
	c := NewConversation("explain the http package")
	if c.ID == "" {
		t.Error("expected generated id")
	}
	if c.Title != "Explain the http package…" {
		t.Errorf("unexpected title %q", c.Title)
	}
	if len(c.Messages) != 0 {
		t.Errorf("new conversation must start empty, got %d messages", len(c.Messages))
	}
}

func TestHistoryPayload(t *testing.T) {
	c := NewConversation("hello")
	c.Append(llm.NewUserMessage("hello"))
	c.Append(llm.NewAssistantMessage("hi there"))
	c.Append(llm.NewUserMessage("and again"))

	want := "User: hello\nAssistant: hi there\nUser: and again"
	if got := c.HistoryPayload(); got != want {
		t.Errorf("payload mismatch:\nwant %q\ngot  %q", want, got)
	}
}
