// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package exchange orchestrates one user-turn to bot-turn roundtrip.
//
// The Controller drives the per-exchange state machine
//
//	Idle -> Submitted -> AwaitingReply -> Revealing -> Idle
//
// with a Failed edge back to Idle from any non-terminal state. It owns
// the single global composing flag: only one exchange may be in flight
// for the whole client, so a second commit while composing is simply not
// accepted. On commit the user message and an empty bot placeholder are
// appended synchronously; the roundtrip (submit, poll, decode, reveal)
// runs in the background and mutates only that placeholder. Every
// failure path installs a user-visible apology message and returns the
// machine to Idle; raw errors stay in the log.
package exchange
