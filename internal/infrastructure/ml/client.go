// Package ml integrates the external embedding/classification model
// service.
package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"techwatch/internal/ports"
)

// Client talks to the model service over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

var _ ports.ModelClient = (*Client)(nil)

// NewClient creates a reusable HTTP client for the model service.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Embed turns text into its sentence embedding.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	var resp struct {
		Embedding []float32 `json:"embedding"`
	}
	if err := c.post(ctx, "/embed", map[string]any{"text": text}, &resp); err != nil {
		return nil, err
	}
	return resp.Embedding, nil
}

// Predict classifies an embedding into a label index.
func (c *Client) Predict(ctx context.Context, vector []float32) (int, error) {
	var resp struct {
		Label int `json:"label"`
	}
	if err := c.post(ctx, "/predict", map[string]any{"embedding": vector}, &resp); err != nil {
		return 0, err
	}
	return resp.Label, nil
}

// DecodeLabel resolves a label index to its category name.
func (c *Client) DecodeLabel(ctx context.Context, label int) (string, error) {
	var resp struct {
		Category string `json:"category"`
	}
	if err := c.post(ctx, "/decode", map[string]any{"label": label}, &resp); err != nil {
		return "", err
	}
	return resp.Category, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return fmt.Errorf("unexpected status %s, close body: %v", resp.Status, closeErr)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		_ = resp.Body.Close()
		return fmt.Errorf("decode response: %w", err)
	}

	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}

	return nil
}
