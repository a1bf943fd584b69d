// Package functions is a client for the hosted function-invocation endpoint.
// Each function is invoked with a JSON body and returns either a JSON result
// or a structured error envelope.
package functions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ignite/outreach-analytics/internal/config"
	"github.com/ignite/outreach-analytics/internal/pkg/httpretry"
)

// Client invokes hosted functions over HTTP with retry on transient failures.
type Client struct {
	baseURL string
	apiKey  string
	http    httpretry.HTTPDoer
}

// errorEnvelope is the error shape the function host returns on failures.
type errorEnvelope struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// NewClient creates a functions client from config. Returns nil when the
// endpoint is not configured, so callers can treat the feature as disabled.
func NewClient(cfg config.FunctionsConfig) *Client {
	if !cfg.Enabled || cfg.BaseURL == "" {
		return nil
	}
	base := &http.Client{Timeout: cfg.Timeout()}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    httpretry.NewRetryClient(base, cfg.MaxRetries),
	}
}

// Invoke calls the named function with payload as the JSON body and decodes
// the JSON response into result. result may be nil when the caller only
// cares about success.
func (c *Client) Invoke(ctx context.Context, fn string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	url := fmt.Sprintf("%s/functions/v1/%s", c.baseURL, fn)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	// Allow httpretry to replay the body on retry
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("invoke %s: %w", fn, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("read %s response: %w", fn, err)
	}

	if resp.StatusCode != http.StatusOK {
		var envelope errorEnvelope
		if json.Unmarshal(data, &envelope) == nil && envelope.Error != "" {
			return fmt.Errorf("function %s failed (%d): %s", fn, resp.StatusCode, envelope.Error)
		}
		return fmt.Errorf("function %s failed with status %d", fn, resp.StatusCode)
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("decode %s result: %w", fn, err)
	}
	return nil
}
