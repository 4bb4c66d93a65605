// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal discloses a reply string progressively, one character per
// tick, simulating live composition.
//
// The sequence of prefixes is deterministic: for a given reply the text
// grows by exactly one rune per tick, so "Hi!" reveals as "H", "Hi",
// "Hi!". A reveal is cancellable; when superseded by a new exchange or a
// conversation switch, the prior reveal stops where it is and its onDone
// callback never fires. Completion fires onDone exactly once.
package reveal
