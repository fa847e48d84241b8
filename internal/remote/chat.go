package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tablero-app/planner-backend/internal/assistant"
	"github.com/tablero-app/planner-backend/internal/planner/domain"
)

// ChatResult is the server's answer to one conversational turn.
type ChatResult struct {
	Message    string         `json:"message"`
	Updates    map[string]any `json:"updates,omitempty"`
	NavigateTo *domain.Phase  `json:"navigate_to,omitempty"`
	Remaining  int64          `json:"remaining"`
}

// Chat sends the document (whose history ends with the new user message) for
// one assistant turn. domain.ErrQuotaExceeded when the daily limit is spent.
func (c *Client) Chat(ctx context.Context, doc *domain.ProjectDocument) (*ChatResult, error) {
	body := struct {
		Document *domain.ProjectDocument `json:"document"`
	}{Document: doc}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/chat", body)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("server request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return nil, domain.ErrQuotaExceeded
	default:
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	var out ChatResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}
	return &out, nil
}

// AnalyzeConcept asks the server for estimates and suggestions on a concept.
func (c *Client) AnalyzeConcept(ctx context.Context, description, city, mode string) (*assistant.ConceptAnalysis, error) {
	body := struct {
		Description string `json:"description"`
		City        string `json:"city,omitempty"`
		Mode        string `json:"mode,omitempty"`
	}{Description: description, City: city, Mode: mode}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/analyze-concept", body)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("server request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	var out struct {
		Analysis assistant.ConceptAnalysis `json:"analysis"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &out.Analysis, nil
}
