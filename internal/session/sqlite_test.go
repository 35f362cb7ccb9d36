package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/voyagerhq/voyager/internal/llm"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "chats.db"))
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	first := NewConversation("explain channels")
	first.Append(llm.NewUserMessage("explain channels"))
	first.Append(llm.NewAssistantMessage("Channels connect goroutines."))

	second := NewConversation("what about select")
	second.Append(llm.NewUserMessage("what about select"))

	if err := store.Save(ctx, []*Conversation{first, second}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(loaded))
	}

	// Order preserved
	if loaded[0].ID != first.ID || loaded[1].ID != second.ID {
		t.Error("conversation order not preserved")
	}

	msgs := loaded[0].Messages
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Content != "explain channels" || msgs[1].Content != "Channels connect goroutines." {
		t.Error("message contents not preserved in sequence")
	}
	if msgs[0].Role != llm.RoleUser || msgs[1].Role != llm.RoleAssistant {
		t.Error("message roles not preserved")
	}
	if msgs[0].CreatedAt.IsZero() {
		t.Error("timestamps must survive the round trip")
	}
}

func TestSQLiteStoreSaveReplacesSnapshot(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	conv := NewConversation("temp")
	conv.Append(llm.NewUserMessage("temp"))
	if err := store.Save(ctx, []*Conversation{conv}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := store.Save(ctx, nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected empty snapshot, got %d conversations", len(loaded))
	}
}

func TestSQLiteStoreTitleUpdatePersists(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	conv := NewConversation("first prompt here")
	conv.Append(llm.NewUserMessage("first prompt here"))
	if err := store.Save(ctx, []*Conversation{conv}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	conv.Title = "A Finalized Title"
	if err := store.Save(ctx, []*Conversation{conv}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Title != "A Finalized Title" {
		t.Fatalf("expected updated title, got %+v", loaded)
	}
}
