// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport implements the asynchronous request/reply protocol
// against the advisor backend.
//
// The backend completes work asynchronously and cannot hold a connection
// open for the full duration, so the protocol splits into two independent
// operations joined only by a single-use session identifier: a
// fire-and-forget write (Submit) and a bounded poll loop on a separate
// read endpoint (AwaitReply). The write's outcome is logged and
// discarded; the poll loop retries transport failures and "not ready"
// responses alike until the attempt budget runs out, at which point it
// fails with ErrPollTimeout.
package transport
