// Package remote talks to the planner API server on behalf of a signed-in
// client. It satisfies the sync engine's RemoteStore interface.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tablero-app/planner-backend/internal/planner/domain"
)

const defaultTimeout = 15 * time.Second

// TokenSource yields a fresh bearer token for each request.
type TokenSource func(ctx context.Context) (string, error)

// StaticToken returns a TokenSource that always yields the same token.
func StaticToken(token string) TokenSource {
	return func(context.Context) (string, error) { return token, nil }
}

type Client struct {
	baseURL string
	token   TokenSource
	http    *http.Client
}

func NewClient(baseURL string, token TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// FindLatestByOwner fetches the caller's most recent document. The owner is
// implied by the bearer token; the argument exists to satisfy the store
// interface. domain.ErrNotFound when the user has no documents yet.
func (c *Client) FindLatestByOwner(ctx context.Context, _ string) (*domain.ProjectDocument, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/documents/latest", nil)
	if err != nil {
		return nil, err
	}
	return c.doDocument(req, http.StatusOK)
}

// Create registers a new document and returns it with its assigned id.
func (c *Client) Create(ctx context.Context, doc *domain.ProjectDocument) (*domain.ProjectDocument, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/documents", doc)
	if err != nil {
		return nil, err
	}
	return c.doDocument(req, http.StatusCreated)
}

// Update overwrites an existing document.
func (c *Client) Update(ctx context.Context, doc *domain.ProjectDocument) error {
	req, err := c.newRequest(ctx, http.MethodPut, "/api/v1/documents/"+doc.ID, doc)
	if err != nil {
		return err
	}
	_, err = c.doDocument(req, http.StatusOK)
	return err
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req, nil
}

func (c *Client) doDocument(req *http.Request, wantStatus int) (*domain.ProjectDocument, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("server request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == wantStatus:
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrNotFound
	default:
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	var doc domain.ProjectDocument
	if err := json.NewDecoder(io.LimitReader(resp.Body, 8<<20)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}
