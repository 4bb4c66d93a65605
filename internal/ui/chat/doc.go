// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// The view is a single Bubble Tea model composed of a conversation
// sidebar, a message viewport, a multi-line compose box, and a status
// bar. It holds no conversation state of its own: the store is the
// source of truth, and the exchange controller pushes change
// notifications into the program loop as ExchangeUpdatedMsg values,
// which trigger a re-read of the store.
//
// # Layout
//
//	+---------------------------------------------+
//	| header: planchat — <active title>           |
//	+----------+----------------------------------+
//	| sidebar  | message viewport                 |
//	| (chats)  |                                  |
//	+----------+----------------------------------+
//	| compose box (textarea)                      |
//	+---------------------------------------------+
//	| status bar: state, plan count, shortcuts    |
//	+---------------------------------------------+
//
// # Input Handling
//
// Enter commits the composed message; the input is cleared only when the
// controller accepts the commit, so text typed while an exchange is in
// flight is preserved. Esc skips the rest of a running reveal. Ctrl+N,
// Ctrl+R, and Ctrl+X create, rename, and delete conversations.
package chat
