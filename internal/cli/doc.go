// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and non-TUI command handlers
// for planchat.
//
// The default command starts the chat interface; the config subcommands
// inspect and initialize the on-disk configuration without entering the
// TUI.
package cli
