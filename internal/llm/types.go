package llm

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation turn. Messages are immutable once
// constructed; conversations only ever append them.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewID generates a unique message/conversation ID using a timestamp prefix
// and random suffix. Format: YYYYMMDD-HHMMSS-RANDOM (e.g. "20240115-143052-a1b2c3").
// Sorts chronologically and is human-readable; uniqueness is best-effort,
// not cryptographic.
func NewID() string {
	now := time.Now()
	random := make([]byte, 3) // 6 hex chars
	rand.Read(random)
	return fmt.Sprintf("%s-%s",
		now.Format("20060102-150405"),
		hex.EncodeToString(random),
	)
}

// NewAssistantMessage constructs an assistant message stamped with the
// current time.
func NewAssistantMessage(content string) Message {
	return Message{
		ID:        NewID(),
		Role:      RoleAssistant,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewUserMessage constructs a user message stamped with the current time.
func NewUserMessage(content string) Message {
	return Message{
		ID:        NewID(),
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// Backend is the minimal contract every provider adapter satisfies.
// Send must fail with an error on transport/provider problems; it never
// swallows them.
type Backend interface {
	Name() string
	Send(ctx context.Context, content string) (Message, error)
}

// Streamer is the optional streaming capability. Callers probe for it with
// a type assertion and silently fall back to Send when absent.
type Streamer interface {
	Backend
	Stream(ctx context.Context, content string) (Stream, error)
}

// ImageGenerator is the optional image generation capability. Returns a
// local file path or a URL to the generated image.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Transcriber is the optional audio transcription capability.
type Transcriber interface {
	Transcribe(ctx context.Context, filePath string) (string, error)
}

// Summarizer is the optional text summarization capability.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Stream yields events until io.EOF. Close is idempotent and releases the
// underlying transport on every exit path. Cancelling the context passed to
// Stream stops delivery; a cancelled stream never yields EventDone.
type Stream interface {
	Recv() (Event, error)
	Close() error
}

// EventType describes streaming events.
type EventType string

const (
	EventTextDelta EventType = "text_delta"
	EventDone      EventType = "done"
	EventError     EventType = "error"
)

// Event represents a streamed output update.
//
// EventTextDelta carries a non-empty incremental fragment in arrival order.
// EventDone is delivered at most once, only on graceful termination; its
// Message content equals the concatenation of every delta, or Message is nil
// when nothing accumulated.
type Event struct {
	Type    EventType
	Text    string
	Message *Message
	Err     error
}
