// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines all Bubble Tea message types used by the chat interface.
// Messages are organized into the following categories:
//   - Exchange: store updates pushed from the controller goroutines
//   - Narrowing: candidate plan set shrank after a decoded reply
//   - Notification: self-dismissing status banners
//   - Conversation: create, delete, rename, and selection
//
// All message types follow Bubble Tea conventions and are immutable.
package chat

import "time"

// =============================================================================
// EXCHANGE MESSAGES
// =============================================================================

// ExchangeUpdatedMsg signals that the conversation store changed outside
// the Bubble Tea loop: a reveal tick grew the in-flight bot message, an
// exchange finished, or a failure installed the apology text. The view
// re-reads the store; the message carries no payload.
type ExchangeUpdatedMsg struct{}

// NarrowedMsg reports that the decoded reply shrank the candidate plan set.
type NarrowedMsg struct {
	// Count is the number of plans eliminated by this exchange.
	Count int
}

// =============================================================================
// NOTIFICATION MESSAGES
// =============================================================================

// NotificationExpiredMsg dismisses the notification banner shown at the
// given time. Stale expirations (an earlier banner's timer firing after a
// newer banner appeared) are ignored.
type NotificationExpiredMsg struct {
	ShownAt time.Time
}

// =============================================================================
// CONVERSATION MESSAGES
// =============================================================================

// ConversationSelectedMsg signals that the sidebar selection changed.
type ConversationSelectedMsg struct {
	ID string
}
