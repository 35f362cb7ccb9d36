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
	"time"

	"github.com/voyagerhq/voyager/internal/debuglog"
)

// httpClientTimeout is the default timeout for HTTP requests.
const httpClientTimeout = 10 * time.Minute

// defaultHTTPClient is a shared HTTP client with reasonable timeouts.
var defaultHTTPClient = &http.Client{
	Timeout: httpClientTimeout,
}

const defaultOllamaURL = "http://localhost:11434/api/generate"

// structuredPromptPreamble asks the model for well-formed markdown so the
// transcript renders nicely.
const structuredPromptPreamble = `You are a helpful assistant. Format your response as follows:
- Start with a short one-line **title** at the top
- Use Markdown headings (## for sections, ### for subsections)
- Include relevant **emojis** in headings and bullet points
- Bold key terms
- Use bullet points or numbered lists
- Keep content clear, structured, and easy to read

User prompt: `

// OllamaBackend talks to a self-hosted generative model server. The server
// answers a single JSON object in non-streaming mode, or a byte stream of
// newline-delimited JSON objects when the stream flag is set.
type OllamaBackend struct {
	baseURL string
	model   string
}

func NewOllamaBackend(baseURL, model string) *OllamaBackend {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	if model == "" {
		model = "llama3"
	}
	return &OllamaBackend{baseURL: strings.TrimSuffix(baseURL, "/"), model: model}
}

func (b *OllamaBackend) Name() string {
	return fmt.Sprintf("Ollama (%s)", b.model)
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (b *OllamaBackend) makeRequest(ctx context.Context, stream bool, content string) (*http.Response, error) {
	body, err := json.Marshal(ollamaRequest{
		Model:  b.model,
		Prompt: structuredPromptPreamble + content,
		Stream: stream,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", b.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return defaultHTTPClient.Do(httpReq)
}

func (b *OllamaBackend) Send(ctx context.Context, content string) (Message, error) {
	resp, err := b.makeRequest(ctx, false, content)
	if err != nil {
		return Message{}, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Message{}, fmt.Errorf("ollama API error (status %d): %s", resp.StatusCode, string(body))
	}

	var genResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return Message{}, fmt.Errorf("failed to parse ollama response: %w", err)
	}

	return NewAssistantMessage(genResp.Response), nil
}

// Stream issues the generate request with the stream flag and yields one
// text delta per well-formed line. Malformed lines are logged and skipped
// without aborting the stream.
func (b *OllamaBackend) Stream(ctx context.Context, content string) (Stream, error) {
	return newEventStream(ctx, func(ctx context.Context, events chan<- Event) error {
		resp, err := b.makeRequest(ctx, true, content)
		if err != nil {
			return fmt.Errorf("ollama request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("ollama API error (status %d): %s", resp.StatusCode, string(body))
		}

		scanner := bufio.NewScanner(resp.Body)
		buf := make([]byte, 0, 64*1024)
		scanner.Buffer(buf, 1024*1024)

		var full strings.Builder
		done := false

		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			var chunk ollamaResponse
			if err := json.Unmarshal([]byte(line), &chunk); err != nil {
				debuglog.Log("ollama_parse_skip", map[string]any{
					"error": err.Error(),
					"line":  truncate(line, 200),
				})
				continue
			}

			if chunk.Response != "" {
				full.WriteString(chunk.Response)
				select {
				case events <- Event{Type: EventTextDelta, Text: chunk.Response}:
				case <-ctx.Done():
					return nil
				}
			}
			if chunk.Done {
				done = true
				break
			}
		}

		if err := scanner.Err(); err != nil {
			return fmt.Errorf("ollama streaming error: %w", err)
		}

		if done || full.Len() > 0 {
			var final *Message
			if full.Len() > 0 {
				msg := NewAssistantMessage(full.String())
				final = &msg
			}
			select {
			case events <- Event{Type: EventDone, Message: final}:
			case <-ctx.Done():
			}
		}
		return nil
	}), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
