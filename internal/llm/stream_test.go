package llm

import (
	"context"
	"errors"
	"io"
	"testing"
)

func TestEventStreamDeliversInOrder(t *testing.T) {
	stream := newEventStream(context.Background(), func(ctx context.Context, ch chan<- Event) error {
		ch <- Event{Type: EventTextDelta, Text: "a"}
		ch <- Event{Type: EventTextDelta, Text: "b"}
		final := NewAssistantMessage("ab")
		ch <- Event{Type: EventDone, Message: &final}
		return nil
	})
	defer stream.Close()

	var got string
	for {
		event, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("recv failed: %v", err)
		}
		switch event.Type {
		case EventTextDelta:
			got += event.Text
		case EventDone:
			if event.Message == nil || event.Message.Content != "ab" {
				t.Fatalf("unexpected done message: %+v", event.Message)
			}
		}
	}

	if got != "ab" {
		t.Errorf("expected deltas \"ab\", got %q", got)
	}
}

func TestEventStreamProducerError(t *testing.T) {
	wantErr := errors.New("boom")
	stream := newEventStream(context.Background(), func(ctx context.Context, ch chan<- Event) error {
		return wantErr
	})
	defer stream.Close()

	event, err := stream.Recv()
	if err != nil {
		t.Fatalf("recv failed: %v", err)
	}
	if event.Type != EventError || !errors.Is(event.Err, wantErr) {
		t.Fatalf("expected error event, got %+v", event)
	}

	if _, err := stream.Recv(); err != io.EOF {
		t.Fatalf("expected EOF after error event, got %v", err)
	}
}

func TestEventStreamCloseCancelsProducer(t *testing.T) {
	started := make(chan struct{})
	stopped := make(chan struct{})

	stream := newEventStream(context.Background(), func(ctx context.Context, ch chan<- Event) error {
		close(started)
		<-ctx.Done()
		close(stopped)
		return nil
	})

	<-started
	stream.Close()

	select {
	case <-stopped:
	default:
		// Producer exit is asynchronous; wait via Recv which observes
		// cancellation.
		if _, err := stream.Recv(); err == nil {
			t.Fatal("expected error from closed stream")
		}
		<-stopped
	}
}

func TestEventStreamDrainsBufferedEventsBeforeCancellation(t *testing.T) {
	delivered := make(chan struct{})
	stream := newEventStream(context.Background(), func(ctx context.Context, ch chan<- Event) error {
		final := NewAssistantMessage("done")
		ch <- Event{Type: EventDone, Message: &final}
		close(delivered)
		return nil
	})

	<-delivered
	// Cancel after the done event is buffered: Recv must still surface it.
	stream.Close()

	event, err := stream.Recv()
	if err != nil {
		t.Fatalf("expected buffered done event, got error %v", err)
	}
	if event.Type != EventDone {
		t.Fatalf("expected done event, got %v", event.Type)
	}
}
