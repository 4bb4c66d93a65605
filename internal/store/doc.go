// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store owns the set of conversation threads and the active-thread
// pointer.
//
// Exactly one conversation is active at any time, or zero if none exist.
// Creation assigns a unique default title by probing "New Chat",
// "New Chat 1", and so on; deletion of the active conversation re-selects
// the first remaining one. Select and Rename surface ErrNotFound for
// unknown IDs; Delete of an unknown ID is a deliberate no-op.
//
// Nothing in the store is persisted: conversations live only for the
// lifetime of the process.
package store
