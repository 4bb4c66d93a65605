// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package plans tracks the candidate set of insurance plan identifiers
// narrowed over the course of a conversation.
//
// The Set type holds the current candidates. A reply from the advisor
// backend may declare an updated list, which replaces the set wholesale;
// the cardinality decrease is surfaced to the user as a transient
// notification. The Client fetches the initial set from the backend at
// startup, optionally scoped by region.
package plans
