package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/voyagerhq/voyager/internal/debuglog"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIBackend talks to a hosted chat-completion API. It works against the
// official endpoint and any compatible gateway; response shapes vary between
// them, so content extraction tries a fixed list of fallback paths and the
// first match wins.
type OpenAIBackend struct {
	baseURL string
	apiKey  string
	model   string
	name    string
}

func NewOpenAIBackend(baseURL, apiKey, model string) *OpenAIBackend {
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return &OpenAIBackend{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		name:    "OpenAI",
	}
}

func (b *OpenAIBackend) Name() string {
	return fmt.Sprintf("%s (%s)", b.name, b.model)
}

type oaiChatRequest struct {
	Model    string       `json:"model"`
	Messages []oaiMessage `json:"messages"`
	Stream   bool         `json:"stream,omitempty"`
}

type oaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
}

type oaiChatResponse struct {
	Choices []oaiChoice  `json:"choices"`
	Error   *oaiAPIError `json:"error,omitempty"`
}

type oaiChoice struct {
	Message *oaiMessage `json:"message,omitempty"`
	Delta   *oaiMessage `json:"delta,omitempty"`
	Text    string      `json:"text,omitempty"`
}

type oaiAPIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// contentFromChoice extracts reply text from a non-streaming choice.
// Fallback order: message.content, then text. First match wins.
func contentFromChoice(choice oaiChoice) string {
	if choice.Message != nil && choice.Message.Content != "" {
		return choice.Message.Content
	}
	return choice.Text
}

// deltaFromChoice extracts incremental text from a streaming choice.
// Fallback order: delta.content, then text, then message.content.
func deltaFromChoice(choice oaiChoice) string {
	if choice.Delta != nil && choice.Delta.Content != "" {
		return choice.Delta.Content
	}
	if choice.Text != "" {
		return choice.Text
	}
	if choice.Message != nil {
		return choice.Message.Content
	}
	return ""
}

func (b *OpenAIBackend) makeChatRequest(ctx context.Context, req oaiChatRequest) (*http.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", b.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	return defaultHTTPClient.Do(httpReq)
}

func (b *OpenAIBackend) Send(ctx context.Context, content string) (Message, error) {
	resp, err := b.makeChatRequest(ctx, oaiChatRequest{
		Model:    b.model,
		Messages: []oaiMessage{{Role: "user", Content: content}},
	})
	if err != nil {
		return Message{}, fmt.Errorf("%s API request failed: %w", b.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Message{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Message{}, fmt.Errorf("%s API error (status %d): %s", b.name, resp.StatusCode, string(body))
	}

	var chatResp oaiChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return Message{}, fmt.Errorf("failed to parse %s response: %w", b.name, err)
	}
	if chatResp.Error != nil {
		return Message{}, fmt.Errorf("%s API error: %s", b.name, chatResp.Error.Message)
	}

	var reply string
	if len(chatResp.Choices) > 0 {
		reply = contentFromChoice(chatResp.Choices[0])
	}
	return NewAssistantMessage(reply), nil
}

// Stream requests a server-sent-event stream and yields one delta per data
// line. Cancelling the context stops iteration without a done event; the
// response body is closed on every exit path.
func (b *OpenAIBackend) Stream(ctx context.Context, content string) (Stream, error) {
	return newEventStream(ctx, func(ctx context.Context, events chan<- Event) error {
		resp, err := b.makeChatRequest(ctx, oaiChatRequest{
			Model:    b.model,
			Messages: []oaiMessage{{Role: "user", Content: content}},
			Stream:   true,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("%s API request failed: %w", b.name, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("%s API error (status %d): %s", b.name, resp.StatusCode, string(body))
		}

		scanner := bufio.NewScanner(resp.Body)
		buf := make([]byte, 0, 64*1024)
		scanner.Buffer(buf, 1024*1024)

		var full strings.Builder

		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			data := strings.TrimPrefix(line, "data: ")
			if data == "[DONE]" {
				break
			}

			var chatResp oaiChatResponse
			if err := json.Unmarshal([]byte(data), &chatResp); err != nil {
				debuglog.Log("openai_parse_skip", map[string]any{
					"error": err.Error(),
					"line":  truncate(data, 200),
				})
				continue
			}
			if chatResp.Error != nil {
				return fmt.Errorf("%s API error: %s", b.name, chatResp.Error.Message)
			}

			for _, choice := range chatResp.Choices {
				delta := deltaFromChoice(choice)
				if delta == "" {
					continue
				}
				full.WriteString(delta)
				select {
				case events <- Event{Type: EventTextDelta, Text: delta}:
				case <-ctx.Done():
					return nil
				}
			}
		}

		if err := scanner.Err(); err != nil {
			// Cancellation surfaces as a read error on the closed body;
			// it is not a stream failure.
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("%s streaming error: %w", b.name, err)
		}
		if ctx.Err() != nil {
			return nil
		}

		var final *Message
		if full.Len() > 0 {
			msg := NewAssistantMessage(full.String())
			final = &msg
		}
		select {
		case events <- Event{Type: EventDone, Message: final}:
		case <-ctx.Done():
		}
		return nil
	}), nil
}
