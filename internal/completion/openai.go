package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OpenAIClient calls an OpenAI-compatible chat endpoint (Ollama, LM Studio,
// vLLM, etc.).
type OpenAIClient struct {
	url    string       // e.g. "http://localhost:11434"
	model  string       // e.g. "llama3.2"
	client *http.Client // reused across calls
}

// Compile-time check: *OpenAIClient satisfies the Client interface.
var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient creates a client for the given endpoint. A zero timeout
// means 120 seconds.
func NewOpenAIClient(url, model string, timeout time.Duration) *OpenAIClient {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OpenAIClient{
		url:   strings.TrimRight(url, "/"),
		model: model,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *OpenAIClient) Name() string { return "openai" }

// ============================================================================
// Wire types
// ============================================================================

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stop        []string      `json:"stop,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type modelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ============================================================================
// Client interface
// ============================================================================

// Complete sends a single chat request and returns the raw text response.
// Transport failures and non-200 statuses are reported as *UnavailableError.
func (c *OpenAIClient) Complete(ctx context.Context, p Prompt) (string, error) {
	var messages []chatMessage
	if p.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: p.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: p.User})

	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: p.Options.Temperature,
		MaxTokens:   p.Options.MaxTokens,
		Stop:        p.Options.Stop,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &UnavailableError{Provider: c.Name(), Reason: "request failed", Wrapped: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &UnavailableError{Provider: c.Name(), Reason: fmt.Sprintf("status %d", resp.StatusCode)}
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("completion returned empty content")
	}

	return content, nil
}

// Ping lists the served models. It succeeds when the configured model is
// listed, or when any model is listed since some servers load on demand.
func (c *OpenAIClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"/v1/models", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &UnavailableError{Provider: c.Name(), Reason: "ping failed", Wrapped: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &UnavailableError{Provider: c.Name(), Reason: fmt.Sprintf("ping status %d", resp.StatusCode)}
	}

	var models modelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&models); err != nil {
		return &UnavailableError{Provider: c.Name(), Reason: "invalid model list", Wrapped: err}
	}

	for _, m := range models.Data {
		if m.ID == c.model || strings.HasPrefix(m.ID, c.model+":") {
			return nil
		}
	}
	if len(models.Data) > 0 {
		return nil
	}
	return &UnavailableError{Provider: c.Name(), Reason: "no models served"}
}
