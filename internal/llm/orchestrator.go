package llm

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Attachment describes a file picked by the user. Only the descriptor
// travels through this layer; the bytes are never uploaded here.
type Attachment struct {
	Name string
	Size int64
	Type string
}

// InputOptions configures a single HandleUserInput call.
type InputOptions struct {
	// Attachments are appended to the prompt as a human-readable manifest.
	Attachments []Attachment
	// OnChunk receives each incremental fragment when the backend streams.
	// Supplying it opts into streaming on backends that support it.
	OnChunk func(text string)
}

// AnnotateAttachments appends the attachment manifest to the prompt text.
func AnnotateAttachments(prompt string, attachments []Attachment) string {
	if len(attachments) == 0 {
		return prompt
	}
	names := make([]string, len(attachments))
	for i, a := range attachments {
		names[i] = a.Name
	}
	return prompt + "\n[Attached: " + strings.Join(names, ", ") + "]"
}

// HandleUserInput is the single entry point for sending a prompt to a
// backend. When OnChunk is supplied and the backend streams, it consumes the
// stream and resolves with the adapter's final message, or one synthesized
// from the accumulated text when the adapter supplies none. Otherwise it
// delegates to Send. Every caller receives one normalized (Message, error).
func HandleUserInput(ctx context.Context, backend Backend, prompt string, opts InputOptions) (Message, error) {
	content := AnnotateAttachments(prompt, opts.Attachments)

	streamer, ok := backend.(Streamer)
	if !ok || opts.OnChunk == nil {
		return backend.Send(ctx, content)
	}

	stream, err := streamer.Stream(ctx, content)
	if err != nil {
		return Message{}, err
	}
	defer stream.Close()

	var accumulated strings.Builder
	for {
		event, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Message{}, err
		}

		switch event.Type {
		case EventTextDelta:
			accumulated.WriteString(event.Text)
			deliverChunk(opts.OnChunk, event.Text)
		case EventDone:
			if event.Message != nil {
				return *event.Message, nil
			}
			return NewAssistantMessage(accumulated.String()), nil
		case EventError:
			if event.Err != nil {
				return Message{}, event.Err
			}
			return Message{}, fmt.Errorf("%s stream failed", backend.Name())
		}
	}

	// Stream closed without a done event.
	return NewAssistantMessage(accumulated.String()), nil
}

// deliverChunk invokes the chunk callback, swallowing panics so a
// misbehaving consumer cannot break the stream.
func deliverChunk(onChunk func(string), text string) {
	defer func() {
		_ = recover()
	}()
	onChunk(text)
}
