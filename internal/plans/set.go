// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package plans tracks the candidate set of insurance plan identifiers
// narrowed over the course of a conversation.
package plans

// =============================================================================
// SET TYPE
// =============================================================================

// Set is an ordered collection of plan identifiers. The set is replaced
// wholesale whenever a reply declares an updated list; it is never merged
// or mutated element-wise.
type Set struct {
	ids []int
}

// NewSet creates a set from a list of plan IDs. The order is preserved.
func NewSet(ids []int) Set {
	out := make([]int, len(ids))
	copy(out, ids)
	return Set{ids: out}
}

// Empty returns a set with no plan IDs.
func Empty() Set {
	return Set{}
}

// Len returns the number of plan IDs in the set.
func (s Set) Len() int {
	return len(s.ids)
}

// IsEmpty returns true if the set has no plan IDs.
func (s Set) IsEmpty() bool {
	return len(s.ids) == 0
}

// IDs returns a copy of the plan IDs in order.
func (s Set) IDs() []int {
	out := make([]int, len(s.ids))
	copy(out, s.ids)
	return out
}

// Contains reports whether the set includes the given plan ID.
func (s Set) Contains(id int) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Equal reports whether two sets hold the same IDs in the same order.
func (s Set) Equal(other Set) bool {
	if len(s.ids) != len(other.ids) {
		return false
	}
	for i, v := range s.ids {
		if other.ids[i] != v {
			return false
		}
	}
	return true
}
