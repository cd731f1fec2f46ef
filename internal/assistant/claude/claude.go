package claude

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/assistant"
)

const maxTokens = 1024

type ClaudeAssistant struct {
	client *anthropic.Client
	model  string
}

func NewClaudeAssistant(apiKey, model string, opts ...anthropic.ClientOption) *ClaudeAssistant {
	return &ClaudeAssistant{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

// Ask streams text deltas from the Messages API as they arrive.
func (a *ClaudeAssistant) Ask(ctx context.Context, prompt string) (<-chan assistant.Chunk, error) {
	// Buffer so the SDK callback rarely blocks on a slow consumer.
	ch := make(chan assistant.Chunk, 16)

	go func() {
		defer close(ch)
		_, err := a.client.CreateMessagesStream(ctx, anthropic.MessagesStreamRequest{
			MessagesRequest: anthropic.MessagesRequest{
				Model:     anthropic.Model(a.model),
				MaxTokens: maxTokens,
				Messages:  []anthropic.Message{anthropic.NewUserTextMessage(prompt)},
			},
			OnContentBlockDelta: func(data anthropic.MessagesEventContentBlockDeltaData) {
				if data.Delta.Text == nil || *data.Delta.Text == "" {
					return
				}
				select {
				case ch <- assistant.Chunk{Text: *data.Delta.Text}:
				case <-ctx.Done():
				}
			},
		})
		if err != nil && ctx.Err() == nil {
			ch <- assistant.Chunk{Err: fmt.Errorf("claude stream failed: %w", err)}
		}
	}()

	return ch, nil
}
