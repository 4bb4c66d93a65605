// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package plans tracks the candidate set of insurance plan identifiers
// narrowed over the course of a conversation.
package plans

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Configuration constants for the plans endpoint.
const (
	// DefaultTimeout is the default timeout for the initial fetch.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 1 * 1024 * 1024 // 1MB limit
)

// plansResponse is the wire format of the plans endpoint.
type plansResponse struct {
	PlanIDs []int `json:"plan_ids"`
}

// Client fetches the initial plan candidate set from the backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a plans client for the given backend base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zap.NewNop(),
	}
}

// WithHTTPClient sets a custom HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithLogger sets the logger used for fetch diagnostics.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	c.logger = logger
	return c
}

// Fetch retrieves the full plan candidate set, optionally scoped to a
// region. Each fetch carries its own throwaway session identifier; the
// backend uses it for request correlation only.
func (c *Client) Fetch(ctx context.Context, region string) (Set, error) {
	q := url.Values{}
	if region != "" {
		q.Set("county", region)
	}
	q.Set("sessionId", uuid.NewString())

	fetchURL := c.baseURL + "/plans?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return Empty(), fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Empty(), fmt.Errorf("plans fetch failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return Empty(), fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Empty(), fmt.Errorf("plans fetch returned status %d", resp.StatusCode)
	}

	var parsed plansResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Empty(), fmt.Errorf("failed to parse plans response: %w", err)
	}

	c.logger.Info("Fetched plan candidates",
		zap.Int("count", len(parsed.PlanIDs)),
		zap.String("region", region))

	return NewSet(parsed.PlanIDs), nil
}
