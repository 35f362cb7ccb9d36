package llm

import (
	"context"
	"errors"
	"testing"
)

// scriptedBackend replays predetermined events through the Stream interface.
type scriptedBackend struct {
	events   []Event
	lastSent string
	sends    int
}

func (b *scriptedBackend) Name() string { return "scripted" }

func (b *scriptedBackend) Send(ctx context.Context, content string) (Message, error) {
	b.sends++
	b.lastSent = content
	return NewAssistantMessage("sent:" + content), nil
}

func (b *scriptedBackend) Stream(ctx context.Context, content string) (Stream, error) {
	b.lastSent = content
	events := b.events
	return newEventStream(ctx, func(ctx context.Context, ch chan<- Event) error {
		for _, ev := range events {
			select {
			case ch <- ev:
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	}), nil
}

func TestHandleUserInputStreamsAndCommits(t *testing.T) {
	final := NewAssistantMessage("Hello world")
	backend := &scriptedBackend{events: []Event{
		{Type: EventTextDelta, Text: "Hello "},
		{Type: EventTextDelta, Text: "world"},
		{Type: EventDone, Message: &final},
	}}

	var chunks []string
	msg, err := HandleUserInput(context.Background(), backend, "hi", InputOptions{
		OnChunk: func(text string) { chunks = append(chunks, text) },
	})
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	if len(chunks) != 2 || chunks[0] != "Hello " || chunks[1] != "world" {
		t.Errorf("unexpected chunks %v", chunks)
	}
	if msg.Content != "Hello world" {
		t.Errorf("unexpected final content %q", msg.Content)
	}
	if backend.sends != 0 {
		t.Error("streaming path must not call Send")
	}
}

func TestHandleUserInputSynthesizesFinalMessage(t *testing.T) {
	// Done carries no message: the reply is synthesized from the deltas.
	backend := &scriptedBackend{events: []Event{
		{Type: EventTextDelta, Text: "partial "},
		{Type: EventTextDelta, Text: "reply"},
		{Type: EventDone},
	}}

	msg, err := HandleUserInput(context.Background(), backend, "hi", InputOptions{
		OnChunk: func(string) {},
	})
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if msg.Content != "partial reply" {
		t.Errorf("expected synthesized content, got %q", msg.Content)
	}
	if msg.Role != RoleAssistant {
		t.Errorf("expected assistant role, got %q", msg.Role)
	}
}

func TestHandleUserInputStreamErrorSurfaces(t *testing.T) {
	wantErr := errors.New("stream broke")
	backend := &scriptedBackend{events: []Event{
		{Type: EventTextDelta, Text: "some"},
		{Type: EventError, Err: wantErr},
	}}

	_, err := HandleUserInput(context.Background(), backend, "hi", InputOptions{
		OnChunk: func(string) {},
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected stream error, got %v", err)
	}
}

func TestHandleUserInputFallsBackToSendWithoutOnChunk(t *testing.T) {
	backend := &scriptedBackend{}

	msg, err := HandleUserInput(context.Background(), backend, "plain", InputOptions{})
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if backend.sends != 1 {
		t.Errorf("expected one Send call, got %d", backend.sends)
	}
	if msg.Content != "sent:plain" {
		t.Errorf("unexpected content %q", msg.Content)
	}
}

func TestHandleUserInputAttachmentManifest(t *testing.T) {
	backend := &scriptedBackend{}

	_, err := HandleUserInput(context.Background(), backend, "look at these", InputOptions{
		Attachments: []Attachment{
			{Name: "notes.txt", Size: 120},
			{Name: "shot.png", Size: 2048},
		},
	})
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	want := "look at these\n[Attached: notes.txt, shot.png]"
	if backend.lastSent != want {
		t.Errorf("expected manifest appended:\nwant %q\ngot  %q", want, backend.lastSent)
	}
}

func TestHandleUserInputPanickingChunkConsumer(t *testing.T) {
	final := NewAssistantMessage("ok")
	backend := &scriptedBackend{events: []Event{
		{Type: EventTextDelta, Text: "ok"},
		{Type: EventDone, Message: &final},
	}}

	msg, err := HandleUserInput(context.Background(), backend, "hi", InputOptions{
		OnChunk: func(string) { panic("consumer bug") },
	})
	if err != nil {
		t.Fatalf("handle failed despite recovered panic: %v", err)
	}
	if msg.Content != "ok" {
		t.Errorf("unexpected content %q", msg.Content)
	}
}

func TestAnnotateAttachmentsNoAttachments(t *testing.T) {
	if got := AnnotateAttachments("plain", nil); got != "plain" {
		t.Errorf("expected prompt unchanged, got %q", got)
	}
}
