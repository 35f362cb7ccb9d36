package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// AssistantBackend is a convenience adapter for demos: chat passes straight
// through to a primary hosted backend, and one-shot image generation and
// audio transcription are exposed as separate calls outside the Backend
// contract. Underlying errors propagate unchanged.
type AssistantBackend struct {
	chat   Streamer
	client *openai.Client
}

func NewAssistantBackend(chat *OpenAIBackend, apiKey string) *AssistantBackend {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &AssistantBackend{
		chat:   chat,
		client: &client,
	}
}

func (b *AssistantBackend) Name() string {
	return fmt.Sprintf("Assistant (%s)", b.chat.Name())
}

func (b *AssistantBackend) Send(ctx context.Context, content string) (Message, error) {
	return b.chat.Send(ctx, content)
}

func (b *AssistantBackend) Stream(ctx context.Context, content string) (Stream, error) {
	return b.chat.Stream(ctx, content)
}

// GenerateImage creates a single image and returns its hosted URL.
func (b *AssistantBackend) GenerateImage(ctx context.Context, prompt string) (string, error) {
	res, err := b.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Model:  openai.ImageModelDallE3,
		Prompt: prompt,
		Size:   openai.ImageGenerateParamsSize1024x1024,
	})
	if err != nil {
		return "", err
	}
	if len(res.Data) == 0 || res.Data[0].URL == "" {
		return "", fmt.Errorf("no image URL returned")
	}
	return res.Data[0].URL, nil
}

// Transcribe sends an audio file through the transcription endpoint and
// returns the text.
func (b *AssistantBackend) Transcribe(ctx context.Context, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	res, err := b.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModelWhisper1,
		File:  f,
	})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}
