package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/assistant"
)

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateChunk is one line of the newline-delimited JSON stream.
type generateChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error"`
}

// OllamaAssistant answers with a model served by a local Ollama instance.
type OllamaAssistant struct {
	host   string
	model  string
	client *http.Client
}

func NewOllamaAssistant(host, model string) *OllamaAssistant {
	return &OllamaAssistant{
		host:   strings.TrimSuffix(host, "/"),
		model:  model,
		client: &http.Client{},
	}
}

func (a *OllamaAssistant) Ask(ctx context.Context, prompt string) (<-chan assistant.Chunk, error) {
	payload, err := json.Marshal(generateRequest{Model: a.model, Prompt: prompt, Stream: true})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.host+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call ollama: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, errBody)
	}

	ch := make(chan assistant.Chunk, 16)
	go func() {
		defer close(ch)
		defer func() {
			if err := resp.Body.Close(); err != nil {
				slog.Error("failed to close ollama stream body", "error", err)
			}
		}()

		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			var c generateChunk
			if err := json.Unmarshal(line, &c); err != nil {
				continue
			}
			if c.Error != "" {
				ch <- assistant.Chunk{Err: fmt.Errorf("ollama: %s", c.Error)}
				return
			}
			if c.Response != "" {
				select {
				case ch <- assistant.Chunk{Text: c.Response}:
				case <-ctx.Done():
					return
				}
			}
			if c.Done {
				return
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			ch <- assistant.Chunk{Err: fmt.Errorf("read ollama stream: %w", err)}
		}
	}()
	return ch, nil
}
