// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package decode extracts the structured payload embedded in advisor replies.
package decode

import (
	"encoding/json"
	"strings"

	"github.com/jeranaias/planchat-tui/internal/plans"
)

// payload is the structured object the backend may embed in a reply.
// Both fields are optional.
type payload struct {
	Text    string `json:"text"`
	PlanIDs []int  `json:"planIds"`
}

// Result holds the outcome of decoding one raw reply.
type Result struct {
	// DisplayText is the text to show the user.
	DisplayText string

	// Plans is the candidate set after the reply. Unchanged from the
	// previous set unless the reply declared a new list.
	Plans plans.Set

	// NarrowedBy is how many candidates the reply eliminated. Zero when
	// the set did not shrink.
	NarrowedBy int
}

// Decode interprets a raw reply against the previous candidate set.
//
// A reply may be plain prose, or prose wrapped around a JSON object
// carrying a display text and an updated plan list. The object is located
// by taking the substring from the first '{' to the last '}' in the reply.
// This is a best-effort heuristic, not a grammar: multiple or malformed
// brace-delimited fragments are not disambiguated, and a stray interior
// brace can produce a substring that fails to parse. Every failure mode
// falls back to showing the raw reply verbatim with the set unchanged.
func Decode(raw string, previous plans.Set) Result {
	result := Result{
		DisplayText: raw,
		Plans:       previous,
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return result
	}

	var parsed payload
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return result
	}

	if parsed.Text != "" {
		result.DisplayText = parsed.Text
	}

	if parsed.PlanIDs != nil {
		updated := plans.NewSet(parsed.PlanIDs)
		if narrowed := previous.Len() - updated.Len(); narrowed > 0 {
			result.NarrowedBy = narrowed
		}
		result.Plans = updated
	}

	return result
}
