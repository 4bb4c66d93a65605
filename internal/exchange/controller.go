// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package exchange orchestrates one user-turn to bot-turn roundtrip.
package exchange

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jeranaias/planchat-tui/internal/decode"
	"github.com/jeranaias/planchat-tui/internal/model"
	"github.com/jeranaias/planchat-tui/internal/plans"
	"github.com/jeranaias/planchat-tui/internal/reveal"
	"github.com/jeranaias/planchat-tui/internal/store"
	"github.com/jeranaias/planchat-tui/internal/transport"
)

// ApologyMessage replaces the bot reply when the exchange fails. Raw
// errors never reach the presentation layer.
const ApologyMessage = "Sorry, something went wrong on my end. Please try sending your message again."

// =============================================================================
// STATE MACHINE
// =============================================================================

// State tracks the lifecycle of the in-flight exchange.
type State int

const (
	// StateIdle means no exchange is in flight.
	StateIdle State = iota

	// StateSubmitted means the user message was appended and the
	// outbound write dispatched.
	StateSubmitted

	// StateAwaitingReply means the poll loop is running.
	StateAwaitingReply

	// StateRevealing means the reply is being disclosed tick by tick.
	StateRevealing

	// StateFailed is transient: the apology message is being installed
	// before returning to idle.
	StateFailed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitted:
		return "submitted"
	case StateAwaitingReply:
		return "awaiting_reply"
	case StateRevealing:
		return "revealing"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// =============================================================================
// BACKEND INTERFACE
// =============================================================================

// Backend produces the final reply string for a submitted message.
// transport.Client is the real implementation; Canned stands in when no
// backend is configured.
type Backend interface {
	Submit(req transport.SubmitRequest) string
	AwaitReply(ctx context.Context, sessionID string) (string, error)
}

// Events receives notifications as the exchange progresses. All fields
// are optional. Callbacks run on the exchange goroutine; the UI forwards
// them into its event loop.
type Events struct {
	// OnChange fires after any conversation mutation (user message
	// appended, reveal tick, finalization, failure).
	OnChange func()

	// OnNarrowed fires when a reply shrank the plan candidate set, with
	// the number of plans eliminated.
	OnNarrowed func(count int)
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller drives the exchange state machine. It owns the single global
// composing flag: at most one exchange is in flight for the whole client,
// regardless of how many conversations exist. A commit gesture while
// composing is ignored outright, with no queueing and no error.
type Controller struct {
	mu        sync.Mutex
	state     State
	composing bool
	planSet   plans.Set

	convID string // conversation the in-flight exchange writes into
	handle *reveal.Handle
	cancel context.CancelFunc

	store     *store.Store
	backend   Backend
	scheduler *reveal.Scheduler
	events    Events
	logger    *zap.Logger
}

// New creates a controller over the given store and backend.
func New(st *store.Store, backend Backend, scheduler *reveal.Scheduler) *Controller {
	return &Controller{
		state:     StateIdle,
		store:     st,
		backend:   backend,
		scheduler: scheduler,
		logger:    zap.NewNop(),
	}
}

// WithLogger sets the logger used for exchange diagnostics.
func (c *Controller) WithLogger(logger *zap.Logger) *Controller {
	c.logger = logger
	return c
}

// WithEvents sets the event callbacks.
func (c *Controller) WithEvents(events Events) *Controller {
	c.events = events
	return c
}

// State returns the current exchange state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsComposing reports whether an exchange is in flight.
func (c *Controller) IsComposing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.composing
}

// Plans returns the current plan candidate set.
func (c *Controller) Plans() plans.Set {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.planSet
}

// SetPlans replaces the plan candidate set. Used once at startup after
// the initial fetch.
func (c *Controller) SetPlans(set plans.Set) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.planSet = set
}

// SetScheduler swaps the reveal scheduler. A reveal already in flight
// keeps its old cadence; the next one picks up the new scheduler.
func (c *Controller) SetScheduler(s *reveal.Scheduler) {
	if s == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scheduler = s
}

// =============================================================================
// COMMIT
// =============================================================================

// Commit starts an exchange for the given input. It reports whether the
// input was accepted: blank input and commits while composing are
// ignored. On acceptance the user message and an empty bot placeholder
// are appended synchronously before Commit returns, and the roundtrip
// proceeds in the background.
func (c *Controller) Commit(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	c.mu.Lock()
	if c.composing {
		c.mu.Unlock()
		return false
	}

	active := c.store.Active()
	if active == nil {
		active = c.store.Create()
	}
	convID := active.ID

	c.store.Append(convID, model.NewUserMessage(text))
	c.store.Append(convID, model.NewBotMessage())

	c.composing = true
	c.state = StateSubmitted
	c.convID = convID
	currentPlans := c.planSet

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	c.notifyChange()

	go c.run(ctx, convID, text, currentPlans)
	return true
}

// run drives one exchange from submission through reveal.
func (c *Controller) run(ctx context.Context, convID, text string, currentPlans plans.Set) {
	sessionID := c.backend.Submit(transport.SubmitRequest{
		Message: text,
		PlanIDs: currentPlans.IDs(),
	})

	c.setState(StateAwaitingReply)
	c.logger.Info("Exchange submitted",
		zap.String("session_id", sessionID),
		zap.String("conversation_id", convID))

	raw, err := c.backend.AwaitReply(ctx, sessionID)
	if err != nil {
		c.fail(convID, sessionID, err)
		return
	}

	result := decode.Decode(raw, currentPlans)

	c.mu.Lock()
	c.planSet = result.Plans
	c.mu.Unlock()

	if result.NarrowedBy > 0 {
		c.logger.Info("Candidate set narrowed",
			zap.Int("eliminated", result.NarrowedBy),
			zap.Int("remaining", result.Plans.Len()))
		if c.events.OnNarrowed != nil {
			c.events.OnNarrowed(result.NarrowedBy)
		}
	}

	c.startReveal(convID, result.DisplayText)
}

// startReveal hands the final reply text to the reveal scheduler.
func (c *Controller) startReveal(convID, displayText string) {
	c.mu.Lock()
	c.state = StateRevealing
	c.handle = c.scheduler.Start(displayText,
		func(prefix string) {
			c.store.ReplaceLast(convID, prefix)
			c.notifyChange()
		},
		func() {
			c.store.FinalizeLast(convID, displayText)
			c.mu.Lock()
			c.composing = false
			c.state = StateIdle
			c.handle = nil
			c.convID = ""
			c.mu.Unlock()
			c.notifyChange()
		})
	c.mu.Unlock()
	c.notifyChange()
}

// fail installs the apology message and returns the machine to idle.
// The underlying error is logged, never surfaced.
func (c *Controller) fail(convID, sessionID string, err error) {
	c.logger.Warn("Exchange failed",
		zap.String("session_id", sessionID),
		zap.String("conversation_id", convID),
		zap.Error(err))

	c.setState(StateFailed)
	c.store.FinalizeLast(convID, ApologyMessage)

	c.mu.Lock()
	c.composing = false
	c.state = StateIdle
	c.convID = ""
	c.mu.Unlock()

	c.notifyChange()
}

// =============================================================================
// CANCELLATION
// =============================================================================

// CancelReveal stops an in-flight reveal, leaving the bot message at
// whatever prefix it had reached, and returns the machine to idle. Called
// on conversation switch and on teardown. A no-op outside StateRevealing:
// an in-flight poll loop is not aborted by switching conversations.
func (c *Controller) CancelReveal() {
	c.mu.Lock()
	if c.state != StateRevealing || c.handle == nil {
		c.mu.Unlock()
		return
	}
	handle := c.handle
	convID := c.convID
	c.handle = nil
	c.convID = ""
	c.composing = false
	c.state = StateIdle
	c.mu.Unlock()

	handle.Cancel()
	c.store.SealLast(convID)
	c.notifyChange()
}

// Shutdown cancels any in-flight work at process teardown.
func (c *Controller) Shutdown() {
	c.CancelReveal()

	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// =============================================================================
// CONVERSATION GUARDS
// =============================================================================

// DeleteConversation removes a conversation unless an exchange is
// composing. Deletion while composing is refused so the in-flight
// exchange never writes into a deleted conversation; the report value
// tells the UI whether the delete was applied.
func (c *Controller) DeleteConversation(id string) bool {
	c.mu.Lock()
	if c.composing {
		c.mu.Unlock()
		return false
	}
	c.mu.Unlock()

	c.store.Delete(id)
	c.notifyChange()
	return true
}

// SelectConversation switches the active conversation, cancelling any
// in-flight reveal first so the old thread's bot message stops where it
// is.
func (c *Controller) SelectConversation(id string) error {
	c.CancelReveal()
	if err := c.store.Select(id); err != nil {
		return err
	}
	c.notifyChange()
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// setState updates the state under lock.
func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// notifyChange invokes the OnChange callback if set.
func (c *Controller) notifyChange() {
	if c.events.OnChange != nil {
		c.events.OnChange()
	}
}
