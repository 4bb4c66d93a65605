// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal discloses a reply string progressively, one character per
// tick, simulating live composition.
package reveal

import (
	"sync"
	"time"
)

// DefaultCadence is the delay between reveal ticks.
const DefaultCadence = 14 * time.Millisecond

// =============================================================================
// PREFIX SEQUENCE
// =============================================================================

// Prefixes returns the deterministic reveal sequence for a reply: every
// prefix of fullText, growing by exactly one rune per step. The final
// element is fullText itself. An empty string yields an empty sequence.
func Prefixes(fullText string) []string {
	runes := []rune(fullText)
	out := make([]string, 0, len(runes))
	for i := 1; i <= len(runes); i++ {
		out = append(out, string(runes[:i]))
	}
	return out
}

// =============================================================================
// SCHEDULER
// =============================================================================

// Scheduler runs reveals at a fixed cadence. At most one reveal should be
// active at a time; the owner cancels the previous Handle before starting
// a new one.
type Scheduler struct {
	cadence time.Duration
}

// NewScheduler creates a scheduler with the given tick cadence.
// Non-positive cadences fall back to the default.
func NewScheduler(cadence time.Duration) *Scheduler {
	if cadence <= 0 {
		cadence = DefaultCadence
	}
	return &Scheduler{cadence: cadence}
}

// Handle controls one in-flight reveal.
type Handle struct {
	mu       sync.Mutex
	cancelCh chan struct{}
	done     bool
}

// Cancel stops the reveal. The text is left at whatever prefix it had
// reached; onDone will not fire. Cancel is idempotent and safe to call
// after the reveal has completed.
func (h *Handle) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return
	}
	h.done = true
	close(h.cancelCh)
}

// finish marks the handle completed and reports whether onDone may fire.
func (h *Handle) finish() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return false
	}
	h.done = true
	return true
}

// cancelled reports whether Cancel has been called.
func (h *Handle) cancelled() bool {
	select {
	case <-h.cancelCh:
		return true
	default:
		return false
	}
}

// Start begins revealing fullText, invoking onTick with each successive
// prefix and onDone exactly once after the final tick. Callbacks run on
// the scheduler's goroutine; callers that need event-loop delivery
// forward them as messages. The returned Handle cancels the reveal.
func (s *Scheduler) Start(fullText string, onTick func(prefix string), onDone func()) *Handle {
	handle := &Handle{cancelCh: make(chan struct{})}

	go func() {
		ticker := time.NewTicker(s.cadence)
		defer ticker.Stop()

		for _, prefix := range Prefixes(fullText) {
			select {
			case <-handle.cancelCh:
				return
			case <-ticker.C:
			}
			if handle.cancelled() {
				return
			}
			onTick(prefix)
		}

		if handle.finish() {
			onDone()
		}
	}()

	return handle
}
