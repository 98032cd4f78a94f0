package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rshade/footprint/internal/config"
)

// maxErrorBody caps how much of an error response is quoted.
const maxErrorBody = 512

// Message is one entry of a completions request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer produces the assistant's next message.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

type openAIClient struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	baseURL     string
	client      *http.Client
}

// NewClient creates a Completer for an OpenAI-compatible API described
// by cfg.
func NewClient(cfg config.ChatConfig, client *http.Client) Completer {
	return newClientWithURL(cfg, client, cfg.BaseURL)
}

// newClientWithURL overrides the base URL for tests.
func newClientWithURL(cfg config.ChatConfig, client *http.Client, url string) Completer {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &openAIClient{
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		baseURL:     strings.TrimSuffix(url, "/"),
		client:      client,
	}
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func (c *openAIClient) Complete(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling chat API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if len(respBody) > maxErrorBody {
			respBody = respBody[:maxErrorBody]
		}
		return "", fmt.Errorf("chat API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed completionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parsing chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", ErrEmptyReply
	}

	reply := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if reply == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}
