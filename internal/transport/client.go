// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport implements the asynchronous request/reply protocol
// against the advisor backend.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Configuration constants for the advisor backend.
const (
	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultPollInterval is the delay between poll attempts.
	DefaultPollInterval = 2 * time.Second

	// DefaultMaxAttempts bounds the poll loop. At the default interval
	// this gives a five minute ceiling.
	DefaultMaxAttempts = 150

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 1 * 1024 * 1024 // 1MB limit
)

// ErrPollTimeout indicates the poll attempt budget was exhausted before
// the backend produced a reply.
var ErrPollTimeout = errors.New("polling timeout: no reply within attempt budget")

// SubmitRequest carries one outbound user message.
type SubmitRequest struct {
	// Message is the user's text.
	Message string

	// PlanIDs is the current candidate set, echoed to the backend so it
	// can narrow from the right baseline.
	PlanIDs []int
}

// submitBody is the wire format of the outbound write.
type submitBody struct {
	UUID       string `json:"uuid"`
	PlanIDs    []int  `json:"planIds"`
	NewMessage string `json:"newMessage"`
}

// pollResponse is the wire format of the poll read.
type pollResponse struct {
	Status string `json:"status"`
	Reply  string `json:"reply"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the advisor backend. A request is submitted without
// waiting for its outcome, then the reply is polled on a separate
// endpoint correlated by a single-use session identifier.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	maxAttempts  int
	logger       *zap.Logger
}

// New creates a client for the given backend base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		pollInterval: DefaultPollInterval,
		maxAttempts:  DefaultMaxAttempts,
		logger:       zap.NewNop(),
	}
}

// WithHTTPClient sets a custom HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithPollInterval sets the delay between poll attempts.
func (c *Client) WithPollInterval(interval time.Duration) *Client {
	if interval > 0 {
		c.pollInterval = interval
	}
	return c
}

// WithMaxAttempts sets the poll attempt budget.
func (c *Client) WithMaxAttempts(attempts int) *Client {
	if attempts > 0 {
		c.maxAttempts = attempts
	}
	return c
}

// WithLogger sets the logger used for transport diagnostics.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	c.logger = logger
	return c
}

// MaxAttempts returns the configured poll attempt budget.
func (c *Client) MaxAttempts() int {
	return c.maxAttempts
}

// =============================================================================
// SUBMIT (FIRE-AND-FORGET)
// =============================================================================

// Submit generates a fresh session identifier and dispatches the outbound
// write without blocking on its completion. The write's outcome is
// deliberately discarded: a local transport error does not mean the
// backend missed the request (a connection can drop after the request was
// proxied), so the exchange proceeds to polling regardless. Failures are
// logged only.
func (c *Client) Submit(req SubmitRequest) string {
	sessionID := uuid.NewString()

	body := submitBody{
		UUID:       sessionID,
		PlanIDs:    req.PlanIDs,
		NewMessage: req.Message,
	}
	if body.PlanIDs == nil {
		body.PlanIDs = []int{}
	}

	go func() {
		// Detached from the caller: cancelling the exchange must not
		// retract a write that may already have been received.
		ctx, cancel := context.WithTimeout(context.Background(), c.httpClient.Timeout)
		defer cancel()

		if err := c.postMessage(ctx, body); err != nil {
			c.logger.Warn("Submit write failed",
				zap.String("session_id", sessionID),
				zap.Error(err))
		}
	}()

	return sessionID
}

// postMessage performs the outbound POST to the bot endpoint.
func (c *Client) postMessage(ctx context.Context, body submitBody) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/bot", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, MaxResponseSize))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bot endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// =============================================================================
// POLL LOOP
// =============================================================================

// AwaitReply polls the read endpoint for the reply correlated with
// sessionID. Attempts are paced at the configured interval; a transport
// failure, a non-success status, and a "not ready" payload all count
// against the attempt budget and retry. A ready, non-empty reply returns
// immediately with no further call. Exhausting the budget returns
// ErrPollTimeout.
func (c *Client) AwaitReply(ctx context.Context, sessionID string) (string, error) {
	limiter := rate.NewLimiter(rate.Every(c.pollInterval), 1)

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return "", err
		}

		reply, ready, err := c.pollOnce(ctx, sessionID)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return "", err
			}
			c.logger.Debug("Poll attempt failed",
				zap.String("session_id", sessionID),
				zap.Int("attempt", attempt),
				zap.Error(err))
			continue
		}
		if ready {
			c.logger.Info("Reply ready",
				zap.String("session_id", sessionID),
				zap.Int("attempts", attempt))
			return reply, nil
		}
	}

	return "", fmt.Errorf("%w after %d attempts", ErrPollTimeout, c.maxAttempts)
}

// pollOnce issues a single read against the ping endpoint. ready is true
// only when the backend reports status ok with a non-empty reply.
func (c *Client) pollOnce(ctx context.Context, sessionID string) (reply string, ready bool, err error) {
	q := url.Values{}
	q.Set("uuid", sessionID)
	pollURL := c.baseURL + "/ping?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pollURL, nil)
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("poll failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return "", false, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("ping endpoint returned status %d", resp.StatusCode)
	}

	var parsed pollResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", false, fmt.Errorf("failed to parse poll response: %w", err)
	}

	if parsed.Status == "ok" && parsed.Reply != "" {
		return parsed.Reply, true, nil
	}
	return "", false, nil
}
