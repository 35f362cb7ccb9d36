package llm

import (
	"context"
	"time"
)

const defaultLocalLatency = 600 * time.Millisecond

// LocalBackend is a simulated provider for offline use and demos. It waits a
// fixed artificial latency and echoes the prompt back as the reply. It never
// fails and does not stream.
type LocalBackend struct {
	latency time.Duration
}

func NewLocalBackend(latency time.Duration) *LocalBackend {
	if latency <= 0 {
		latency = defaultLocalLatency
	}
	return &LocalBackend{latency: latency}
}

func (b *LocalBackend) Name() string {
	return "Local (echo)"
}

func (b *LocalBackend) Send(ctx context.Context, content string) (Message, error) {
	select {
	case <-time.After(b.latency):
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
	return NewAssistantMessage(content), nil
}
