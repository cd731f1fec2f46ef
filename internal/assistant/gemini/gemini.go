package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/assistant"
)

type GeminiAssistant struct {
	client *genai.Client
	model  string
}

// NewGeminiAssistant creates a Gemini backend. baseURL overrides the API
// endpoint and may be empty.
func NewGeminiAssistant(ctx context.Context, apiKey, model, baseURL string) (*GeminiAssistant, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiAssistant{client: client, model: model}, nil
}

// SearchesWeb reports that answers are grounded with Google Search.
func (a *GeminiAssistant) SearchesWeb() bool { return true }

func (a *GeminiAssistant) Ask(ctx context.Context, prompt string) (<-chan assistant.Chunk, error) {
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}

	ch := make(chan assistant.Chunk, 16)
	go func() {
		defer close(ch)
		for resp, err := range a.client.Models.GenerateContentStream(ctx, a.model, genai.Text(prompt), config) {
			if err != nil {
				if ctx.Err() == nil {
					ch <- assistant.Chunk{Err: fmt.Errorf("gemini stream failed: %w", err)}
				}
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			select {
			case ch <- assistant.Chunk{Text: text}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}
