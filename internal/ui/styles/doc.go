// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the planchat TUI.
//
// All colors are Lip Gloss AdaptiveColor values so the palette adjusts to
// light and dark terminal backgrounds automatically. The Theme type bundles
// every styled component the views need; construct one with NewTheme at
// startup and share it across the UI.
//
// # Usage
//
//	theme := styles.NewTheme(cfg.UI.Theme)
//	header := theme.Header.Render("planchat")
package styles
