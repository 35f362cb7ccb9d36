// Package chat owns the conversation list and the lifecycle of a send
// operation: pending, streaming, committed, aborted. All conversation
// mutation funnels through the Controller; the UI observes it through
// notification events.
package chat

import (
	"context"
	"errors"
	"sync"

	"github.com/voyagerhq/voyager/internal/debuglog"
	"github.com/voyagerhq/voyager/internal/llm"
	"github.com/voyagerhq/voyager/internal/session"
)

// EventKind identifies a controller notification.
type EventKind string

const (
	// EventUserMessage: the user's message was appended to a conversation.
	EventUserMessage EventKind = "user_message"
	// EventStreamDelta: the streaming accumulator for the active
	// conversation grew; Text carries the full accumulated partial reply.
	EventStreamDelta EventKind = "stream_delta"
	// EventCommitted: the assistant reply was committed to the record.
	EventCommitted EventKind = "committed"
	// EventTitle: a conversation title changed.
	EventTitle EventKind = "title"
	// EventSuggestions: follow-up suggestions are available.
	EventSuggestions EventKind = "suggestions"
	// EventAborted: the send was cancelled; partial text is retained.
	EventAborted EventKind = "aborted"
	// EventSendError: the send failed with a non-cancellation error.
	EventSendError EventKind = "error"
	// EventSendDone: the send reached a terminal state and the guard
	// is released.
	EventSendDone EventKind = "done"
)

// Event is a controller notification delivered through the notify callback.
type Event struct {
	Kind           EventKind
	ConversationID string
	Text           string // accumulated text for deltas, error text for errors
	Message        *llm.Message
	Title          string
	Suggestions    []string
}

// Options configures a Controller.
type Options struct {
	// Notify receives controller events. May be called from the goroutine
	// running Send; must not block for long. Nil means no notifications.
	Notify func(Event)
	// EnrichTitles enables post-commit title generation.
	EnrichTitles bool
	// EnrichSuggestions enables post-commit follow-up suggestions.
	EnrichSuggestions bool
}

// Controller is the conversation session controller. At most one send
// operation is in flight per instance; a new send is a no-op while one is
// pending. Safe for use from multiple goroutines.
type Controller struct {
	backend llm.Backend
	store   session.Store
	opts    Options

	mu            sync.Mutex
	conversations []*session.Conversation
	activeID      string
	accumulators  map[string]string
	suggestions   []string
	sending       bool
	// gen is the generation token for the current view. Each send captures
	// it; results from a stale send (the user switched conversations, or a
	// newer send started) are applied to records but not to the view.
	gen    uint64
	cancel context.CancelFunc
}

func NewController(backend llm.Backend, store session.Store, opts Options) *Controller {
	if opts.Notify == nil {
		opts.Notify = func(Event) {}
	}
	return &Controller{
		backend:      backend,
		store:        store,
		opts:         opts,
		accumulators: make(map[string]string),
	}
}

// LoadFromStore reads the persisted conversation snapshot. Called once at
// startup.
func (c *Controller) LoadFromStore(ctx context.Context) error {
	conversations, err := c.store.Load(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.conversations = conversations
	c.mu.Unlock()
	return nil
}

// Backend returns the backend this controller sends through.
func (c *Controller) Backend() llm.Backend {
	return c.backend
}

// Conversations returns the conversation list in order.
func (c *Controller) Conversations() []*session.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*session.Conversation, len(c.conversations))
	copy(out, c.conversations)
	return out
}

// Active returns the active conversation, or nil.
func (c *Controller) Active() *session.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.findLocked(c.activeID)
}

// ActiveID returns the active conversation id, or "".
func (c *Controller) ActiveID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID
}

// Sending reports whether a send operation is in flight.
func (c *Controller) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// Accumulated returns the partial streamed text for a conversation, and
// whether a stream has delivered anything for it. Retained after an abort
// so the user can see what arrived before cancellation.
func (c *Controller) Accumulated(conversationID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	text, ok := c.accumulators[conversationID]
	return text, ok
}

// Suggestions returns the current follow-up suggestions.
func (c *Controller) Suggestions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.suggestions))
	copy(out, c.suggestions)
	return out
}

// Select makes the given conversation active and invalidates any stale
// in-flight view updates.
func (c *Controller) Select(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.findLocked(id) == nil {
		return
	}
	c.activeID = id
	c.gen++
	c.suggestions = nil
}

// NewConversation deselects the active conversation so the next send starts
// a fresh one.
func (c *Controller) NewConversation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeID = ""
	c.gen++
	c.suggestions = nil
}

// Delete removes a whole conversation. Individual messages are never
// deleted.
func (c *Controller) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	kept := c.conversations[:0]
	for _, conv := range c.conversations {
		if conv.ID != id {
			kept = append(kept, conv)
		}
	}
	c.conversations = kept
	delete(c.accumulators, id)
	if c.activeID == id {
		c.activeID = ""
		c.gen++
		c.suggestions = nil
	}
	snapshot := make([]*session.Conversation, len(c.conversations))
	copy(snapshot, c.conversations)
	c.mu.Unlock()

	return c.store.Save(ctx, snapshot)
}

// Abort cancels the in-flight send, if any. The partial text accumulated so
// far stays visible.
func (c *Controller) Abort() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Send runs one complete send operation: append the user message, invoke
// the backend (streaming when available), commit the reply, then enrich the
// title and suggestions. It blocks until the operation reaches a terminal
// state; run it on its own goroutine. A Send while another is pending is a
// no-op.
func (c *Controller) Send(ctx context.Context, prompt string, attachments []llm.Attachment) {
	if prompt == "" && len(attachments) == 0 {
		return
	}

	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return
	}
	c.sending = true
	c.gen++
	myGen := c.gen

	conv := c.findLocked(c.activeID)
	if conv == nil {
		conv = session.NewConversation(prompt)
		c.conversations = append(c.conversations, conv)
		c.activeID = conv.ID
	}
	convID := conv.ID
	c.suggestions = nil

	// The user's message carries the attachment manifest; only names
	// travel, never file contents.
	userContent := llm.AnnotateAttachments(prompt, attachments)
	userMsg := llm.NewUserMessage(userContent)
	conv.Append(userMsg)

	// Fresh cancellation handle, replacing any prior one.
	sendCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	_, streaming := c.backend.(llm.Streamer)
	if streaming {
		c.accumulators[convID] = ""
	}

	payload := conv.HistoryPayload()
	c.mu.Unlock()

	defer func() {
		cancel()
		c.mu.Lock()
		c.sending = false
		if c.cancel != nil {
			c.cancel = nil
		}
		c.mu.Unlock()
		c.opts.Notify(Event{Kind: EventSendDone, ConversationID: convID})
	}()

	c.persist(ctx)
	c.opts.Notify(Event{Kind: EventUserMessage, ConversationID: convID, Message: &userMsg})

	debuglog.Log("send_start", map[string]any{
		"conversation": convID,
		"backend":      c.backend.Name(),
		"streaming":    streaming,
	})

	opts := llm.InputOptions{}
	if streaming {
		opts.OnChunk = func(chunk string) {
			c.applyChunk(convID, myGen, chunk)
		}
	}

	reply, err := llm.HandleUserInput(sendCtx, c.backend, payload, opts)

	switch {
	case err != nil && (errors.Is(err, context.Canceled) || sendCtx.Err() != nil):
		// Cancellation is not an error: keep the partial text, leave the
		// record untouched.
		debuglog.Log("send_aborted", map[string]any{"conversation": convID})
		c.opts.Notify(Event{Kind: EventAborted, ConversationID: convID})
		return

	case err != nil:
		c.mu.Lock()
		delete(c.accumulators, convID)
		c.mu.Unlock()
		debuglog.Log("send_error", map[string]any{
			"conversation": convID,
			"error":        err.Error(),
		})
		c.opts.Notify(Event{Kind: EventSendError, ConversationID: convID, Text: err.Error()})
		return

	case reply.Content == "":
		// Graceful completion with nothing accumulated: no commit.
		c.mu.Lock()
		delete(c.accumulators, convID)
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	conv.Append(reply)
	delete(c.accumulators, convID)
	visible := myGen == c.gen && convID == c.activeID
	c.mu.Unlock()

	c.persist(ctx)
	// The record mutation always applies; the view update only when the
	// conversation is still active and no newer operation superseded this
	// send.
	if visible {
		c.opts.Notify(Event{Kind: EventCommitted, ConversationID: convID, Message: &reply})
	}

	// Enrichment runs inside the same guarded scope, sequentially: title
	// first, then suggestions. Failures never surface; both fall back to
	// deterministic heuristics.
	if c.opts.EnrichTitles {
		c.enrichTitle(ctx, conv, reply.Content)
	}
	if c.opts.EnrichSuggestions {
		c.enrichSuggestions(ctx, convID, myGen, reply.Content)
	}
}

// applyChunk grows the accumulator and notifies the view when the chunk
// belongs to the current send and the active conversation.
func (c *Controller) applyChunk(convID string, myGen uint64, chunk string) {
	c.mu.Lock()
	accumulated := c.accumulators[convID] + chunk
	c.accumulators[convID] = accumulated
	visible := myGen == c.gen && convID == c.activeID
	c.mu.Unlock()

	if visible {
		c.opts.Notify(Event{Kind: EventStreamDelta, ConversationID: convID, Text: accumulated})
	}
}

// persist rewrites the full conversation snapshot. Storage failures are
// logged, never surfaced: the in-memory conversation stays authoritative.
func (c *Controller) persist(ctx context.Context) {
	c.mu.Lock()
	snapshot := make([]*session.Conversation, len(c.conversations))
	copy(snapshot, c.conversations)
	c.mu.Unlock()

	if err := c.store.Save(ctx, snapshot); err != nil {
		debuglog.Log("persist_error", map[string]any{"error": err.Error()})
	}
}

func (c *Controller) findLocked(id string) *session.Conversation {
	if id == "" {
		return nil
	}
	for _, conv := range c.conversations {
		if conv.ID == id {
			return conv
		}
	}
	return nil
}
