// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package exchange

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/planchat-tui/internal/transport"
)

// DefaultCannedReply is the stand-in reply used when no backend is
// configured.
const DefaultCannedReply = "Hello, World!"

// Canned is a Backend that returns a fixed reply with no network step.
// It lets the full exchange pipeline, including the reveal, run locally.
type Canned struct {
	// Reply is the text returned for every exchange. Defaults to
	// DefaultCannedReply when empty.
	Reply string

	// Delay simulates backend latency before the reply becomes ready.
	Delay time.Duration
}

// Submit generates a session identifier and discards the message.
func (c *Canned) Submit(req transport.SubmitRequest) string {
	return uuid.NewString()
}

// AwaitReply returns the canned reply after the configured delay.
func (c *Canned) AwaitReply(ctx context.Context, sessionID string) (string, error) {
	if c.Delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.Delay):
		}
	}
	if c.Reply == "" {
		return DefaultCannedReply, nil
	}
	return c.Reply, nil
}
