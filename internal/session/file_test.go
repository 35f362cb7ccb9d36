package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/voyagerhq/voyager/internal/llm"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chats.json")
	store := NewFileStore(path)
	defer store.Close()

	ctx := context.Background()

	conv := NewConversation("explain interfaces")
	conv.Append(llm.NewUserMessage("explain interfaces"))
	conv.Append(llm.NewAssistantMessage("An interface is a method set."))

	if err := store.Save(ctx, []*Conversation{conv}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(loaded))
	}

	got := loaded[0]
	if got.ID != conv.ID || got.Title != conv.Title {
		t.Errorf("conversation identity mismatch: %+v", got)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got.Messages))
	}
	if got.Messages[0].Role != llm.RoleUser || got.Messages[1].Role != llm.RoleAssistant {
		t.Error("message roles not preserved in order")
	}
	if got.Messages[1].Content != "An interface is a method set." {
		t.Errorf("message content mismatch: %q", got.Messages[1].Content)
	}
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "never-written.json"))
	defer store.Close()

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("missing snapshot must not be an error: %v", err)
	}
	if loaded != nil {
		t.Errorf("expected nil conversations, got %v", loaded)
	}
}

func TestFileStoreSaveReplacesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chats.json")
	store := NewFileStore(path)
	defer store.Close()

	ctx := context.Background()

	first := NewConversation("first")
	second := NewConversation("second")
	if err := store.Save(ctx, []*Conversation{first, second}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Save(ctx, []*Conversation{second}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != second.ID {
		t.Fatalf("expected snapshot replaced wholesale, got %d conversations", len(loaded))
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the snapshot file, found %d entries", len(entries))
	}
}

func TestFileStoreSaveNilSlice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chats.json")
	store := NewFileStore(path)
	defer store.Close()

	ctx := context.Background()
	if err := store.Save(ctx, nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("expected empty array snapshot, got %q", string(data))
	}
}
