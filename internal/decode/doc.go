// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package decode extracts the structured payload embedded in advisor replies.
//
// Replies from the backend are free text that may wrap a JSON object with
// an optional "text" field and an optional "planIds" list. Decode locates
// the object heuristically (first '{' to last '}'), falls back to the raw
// reply on any parse failure, and reports how far the plan candidate set
// was narrowed. Decoding never returns an error; recovery is always local.
package decode
