// Insight service client for AI-generated listening summaries
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/desertthunder/sortify/internal/shared"
)

// InsightRequest is the narrow shape sent to the insight service: track and
// artist names already fetched by the browser, nothing else.
type InsightRequest struct {
	Tracks  []string `json:"tracks"`
	Artists []string `json:"artists"`
}

// InsightResponse carries the generated summary text.
type InsightResponse struct {
	Insight string `json:"insight"`
}

// InsightClient calls the external insight generation service. The call is a
// plain authenticated passthrough; no prompt construction happens here.
type InsightClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewInsightClient creates a client for the configured insight endpoint.
func NewInsightClient(cfg shared.InsightConfig, client *http.Client) *InsightClient {
	if client == nil {
		client = http.DefaultClient
	}

	return &InsightClient{
		baseURL:    cfg.URL,
		apiKey:     cfg.APIKey,
		httpClient: client,
	}
}

// Enabled reports whether an insight endpoint is configured.
func (c *InsightClient) Enabled() bool {
	return c.baseURL != ""
}

// Generate posts the request to the insight service and decodes its response.
func (c *InsightClient) Generate(ctx context.Context, ir *InsightRequest) (*InsightResponse, error) {
	payload, err := json.Marshal(ir)
	if err != nil {
		return nil, fmt.Errorf("failed to encode insight request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(body))
	}

	var out InsightResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode insight response: %w", err)
	}

	return &out, nil
}
