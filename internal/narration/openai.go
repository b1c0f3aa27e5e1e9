package narration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/florecer/florecer/internal/reliability"
)

const (
	defaultChatURL = "https://api.openai.com/v1/chat/completions"
	defaultModelID = "gpt-4o-mini"

	// Session scripts run 3-4 spoken minutes; 1500 tokens covers that
	// with headroom, and 0.7 keeps the scripts varied between runs.
	maxTokens   = 1500
	temperature = 0.7
)

// OpenAIConfig configures the chat-completions generator. Any
// OpenAI-compatible endpoint works; only APIKey is mandatory.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	ModelID string
}

// OpenAIGenerator calls a chat-completions endpoint with a single
// user-role message holding the composed prompt.
type OpenAIGenerator struct {
	cfg    OpenAIConfig
	client *http.Client
}

func NewOpenAIGenerator(cfg OpenAIConfig) *OpenAIGenerator {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultChatURL
	}
	if strings.TrimSpace(cfg.ModelID) == "" {
		cfg.ModelID = defaultModelID
	}
	return &OpenAIGenerator{
		cfg: cfg,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(g.cfg.APIKey) == "" {
		return "", fmt.Errorf("narration: %w", reliability.ErrMissingCredential)
	}

	payload, err := json.Marshal(chatRequest{
		Model:       g.cfg.ModelID,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	res, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", reliability.ErrServiceUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", fmt.Errorf("%w: %s", reliability.ErrServiceUnavailable, res.Status)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: unparseable response", reliability.ErrEmptyGeneration)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", reliability.ErrEmptyGeneration)
	}
	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: blank content", reliability.ErrEmptyGeneration)
	}
	return text, nil
}
