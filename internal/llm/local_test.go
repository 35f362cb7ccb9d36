package llm

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestLocalBackendEchoesPrompt(t *testing.T) {
	backend := NewLocalBackend(5 * time.Millisecond)

	start := time.Now()
	msg, err := backend.Send(context.Background(), "hello there")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if msg.Role != RoleAssistant {
		t.Errorf("expected assistant role, got %q", msg.Role)
	}
	if !strings.Contains(msg.Content, "hello there") {
		t.Errorf("expected reply to echo the prompt, got %q", msg.Content)
	}
	if msg.ID == "" {
		t.Error("expected message to have an id")
	}
	if !msg.CreatedAt.After(start) {
		t.Errorf("reply timestamp %v must be after the request at %v", msg.CreatedAt, start)
	}
}

func TestLocalBackendCancellation(t *testing.T) {
	backend := NewLocalBackend(5 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := backend.Send(ctx, "never delivered")
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
