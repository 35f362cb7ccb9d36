package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultHubChatURL       = "https://router.huggingface.co/v1/chat/completions"
	defaultHubImageURL      = "https://api-inference.huggingface.co/models/stabilityai/stable-diffusion-2"
	defaultHubSummarizeURL  = "https://api-inference.huggingface.co/models/facebook/bart-large-cnn"
	defaultHubTranscribeURL = "https://api-inference.huggingface.co/models/openai/whisper-small"

	defaultHubChatModel = "mistralai/Mistral-7B-Instruct-v0.2:featherless-ai"
)

// Task keywords checked against the normalized prompt, in priority order.
const (
	imageKeyword     = "generate image"
	summarizeKeyword = "summarize"
)

// HubConfig holds the endpoints and credentials for the inference hub.
// Zero-value fields fall back to the public defaults.
type HubConfig struct {
	APIKey        string
	ChatURL       string
	ChatModel     string
	ImageURL      string
	SummarizeURL  string
	TranscribeURL string
	OutputDir     string // where generated images are written
}

// HubBackend routes a prompt to one of several inference-hub task models by
// prefix matching: image generation first, summarization second, chat as the
// fallback. The matched keyword is stripped before the remaining text is
// forwarded as the task payload.
type HubBackend struct {
	cfg HubConfig
}

func NewHubBackend(cfg HubConfig) *HubBackend {
	if cfg.ChatURL == "" {
		cfg.ChatURL = defaultHubChatURL
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = defaultHubChatModel
	}
	if cfg.ImageURL == "" {
		cfg.ImageURL = defaultHubImageURL
	}
	if cfg.SummarizeURL == "" {
		cfg.SummarizeURL = defaultHubSummarizeURL
	}
	if cfg.TranscribeURL == "" {
		cfg.TranscribeURL = defaultHubTranscribeURL
	}
	return &HubBackend{cfg: cfg}
}

func (b *HubBackend) Name() string {
	return "Hub"
}

// stripKeyword removes the first case-insensitive occurrence of keyword and
// trims the remainder.
func stripKeyword(content, keyword string) string {
	lower := strings.ToLower(content)
	idx := strings.Index(lower, keyword)
	if idx < 0 {
		return strings.TrimSpace(content)
	}
	return strings.TrimSpace(content[:idx] + content[idx+len(keyword):])
}

func (b *HubBackend) Send(ctx context.Context, content string) (Message, error) {
	lower := strings.ToLower(strings.TrimSpace(content))

	switch {
	case strings.HasPrefix(lower, imageKeyword):
		prompt := stripKeyword(content, imageKeyword)
		path, err := b.GenerateImage(ctx, prompt)
		if err != nil {
			return Message{}, err
		}
		return NewAssistantMessage(fmt.Sprintf("![image](%s)", path)), nil

	case strings.HasPrefix(lower, summarizeKeyword):
		text := stripKeyword(content, summarizeKeyword)
		summary, err := b.Summarize(ctx, text)
		if err != nil {
			return Message{}, err
		}
		return NewAssistantMessage(summary), nil

	default:
		reply, err := b.Chat(ctx, content)
		if err != nil {
			return Message{}, err
		}
		return NewAssistantMessage(reply), nil
	}
}

func (b *HubBackend) postJSON(ctx context.Context, url string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if b.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+b.cfg.APIKey)
	}
	return defaultHTTPClient.Do(httpReq)
}

// hubError reads the response body and formats a task error carrying the
// HTTP status and body text.
func hubError(task string, resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("hub %s error %d: %s", task, resp.StatusCode, string(body))
}

// Chat sends the prompt to the hub's chat-completion endpoint.
func (b *HubBackend) Chat(ctx context.Context, prompt string) (string, error) {
	resp, err := b.postJSON(ctx, b.cfg.ChatURL, map[string]any{
		"model":    b.cfg.ChatModel,
		"messages": []map[string]string{{"role": "user", "content": prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("hub chat request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", hubError("chat", resp)
	}

	var chatResp oaiChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to parse hub chat response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", nil
	}
	return contentFromChoice(chatResp.Choices[0]), nil
}

// GenerateImage submits a text-to-image request, writes the returned image
// bytes to the output directory, and returns the file path.
func (b *HubBackend) GenerateImage(ctx context.Context, prompt string) (string, error) {
	resp, err := b.postJSON(ctx, b.cfg.ImageURL, map[string]string{"inputs": prompt})
	if err != nil {
		return "", fmt.Errorf("hub image request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", hubError("image", resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read image data: %w", err)
	}

	dir := b.cfg.OutputDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	path := filepath.Join(dir, NewID()+".png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return path, nil
}

type hubSummary struct {
	SummaryText string `json:"summary_text"`
}

// Summarize condenses the given text with the hub's summarization model.
func (b *HubBackend) Summarize(ctx context.Context, text string) (string, error) {
	resp, err := b.postJSON(ctx, b.cfg.SummarizeURL, map[string]string{"inputs": text})
	if err != nil {
		return "", fmt.Errorf("hub summarize request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", hubError("summarize", resp)
	}

	var results []hubSummary
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", fmt.Errorf("failed to parse hub summarize response: %w", err)
	}
	if len(results) == 0 {
		return "", nil
	}
	return results[0].SummaryText, nil
}

type hubTranscript struct {
	Text string `json:"text"`
}

// Transcribe uploads an audio file as a multipart form and returns the
// transcript. The multipart writer sets its own content type; no JSON
// header is sent. Some endpoints return {text}, others an array of results.
func (b *HubBackend) Transcribe(ctx context.Context, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	mw.Close()

	httpReq, err := http.NewRequestWithContext(ctx, "POST", b.cfg.TranscribeURL, &body)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if b.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+b.cfg.APIKey)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := defaultHTTPClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("hub transcribe request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", hubError("transcribe", resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read transcribe response: %w", err)
	}

	var single hubTranscript
	if err := json.Unmarshal(raw, &single); err == nil && single.Text != "" {
		return single.Text, nil
	}
	var many []hubTranscript
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 {
		return many[0].Text, nil
	}
	return "", nil
}
