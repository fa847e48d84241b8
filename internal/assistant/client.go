// Package assistant turns user messages into document patches and navigation
// hints by round-tripping conversation history and document state through the
// inference backend.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the inference gateway. The gateway is an opaque
// collaborator: role-tagged messages in, generated text out.
type Client struct {
	BaseURL string
	Model   string
	APIKey  string
	HTTP    *http.Client
}

// NewClient builds a client with a 60s request timeout; generation can be
// slow on long histories.
func NewClient(baseURL, model, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		Model:   model,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
	}
}

// ChatMessage is a role-tagged message forwarded to the gateway.
type ChatMessage struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

type generateRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type generateResponse struct {
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}

// Generate sends the message stack and returns the raw generated text.
func (c *Client) Generate(ctx context.Context, messages []ChatMessage) (string, error) {
	b, err := json.Marshal(generateRequest{Model: c.Model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("encode inference request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/generate", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("build inference request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("inference call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read inference response: %w", err)
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode inference response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode >= 400 || out.Error != "" {
		return "", fmt.Errorf("inference error (status %d): %s", resp.StatusCode, out.Error)
	}
	return out.Content, nil
}
