// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/jeranaias/planchat-tui/internal/config"
	"github.com/jeranaias/planchat-tui/internal/exchange"
	"github.com/jeranaias/planchat-tui/internal/store"
	"github.com/jeranaias/planchat-tui/internal/ui/styles"
)

// =============================================================================
// CHAT MODE
// =============================================================================

// mode represents what the keyboard currently drives.
type mode int

const (
	modeCompose mode = iota // Typing into the message input
	modeRename              // Editing the active conversation title
)

// sidebarWidth is the fixed column width of the conversation list.
const sidebarWidth = 24

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// Styling
	theme *styles.Theme

	// Configuration
	cfg *config.Config

	// Dimensions
	width  int
	height int
	ready  bool

	// Domain state
	store      *store.Store
	controller *exchange.Controller

	// UI components
	viewport viewport.Model
	input    textarea.Model
	rename   textinput.Model
	spinner  spinner.Model

	// Key bindings
	keyMap KeyMap

	// Mode
	mode mode

	// Sidebar selection index into store.Metas()
	sidebarIndex int

	// Notification banner
	notification   string
	notificationAt time.Time

	// Markdown renderer for finalized advisor messages
	renderer *glamour.TermRenderer

	logger *zap.Logger
}

// New creates the chat model wired to the given store and controller.
func New(st *store.Store, ctrl *exchange.Controller, cfg *config.Config, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	input := textarea.New()
	input.Placeholder = "Ask about plans... (Enter to send, Alt+Enter for newline)"
	input.CharLimit = 4000
	input.SetHeight(3)
	input.ShowLineNumbers = false
	input.Focus()

	rename := textinput.New()
	rename.Placeholder = "Conversation title"
	rename.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		theme:      styles.NewTheme(cfg.UI.Theme),
		cfg:        cfg,
		store:      st,
		controller: ctrl,
		input:      input,
		rename:     rename,
		spinner:    sp,
		keyMap:     DefaultKeyMap(),
		logger:     logger,
	}
}

// Init starts the cursor blink and spinner animations.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

// syncSidebar clamps the sidebar index to the live conversation list and
// points it at the active conversation.
func (m *Model) syncSidebar() {
	metas := m.store.Metas()
	activeID := m.store.ActiveID()
	m.sidebarIndex = 0
	for i, meta := range metas {
		if meta.ID == activeID {
			m.sidebarIndex = i
			return
		}
	}
}

// layout recomputes component sizes after a terminal resize.
func (m *Model) layout() {
	chatWidth := m.width - sidebarWidth - 2
	if chatWidth < 20 {
		chatWidth = 20
	}

	// Header, input box (3 lines + border), status bar
	bodyHeight := m.height - 1 - 5 - 1
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(chatWidth, bodyHeight)
		m.ready = true
	} else {
		m.viewport.Width = chatWidth
		m.viewport.Height = bodyHeight
	}
	m.input.SetWidth(chatWidth - 2)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(chatWidth-2),
	)
	if err != nil {
		m.logger.Warn("markdown renderer unavailable, using plain text", zap.Error(err))
		m.renderer = nil
	} else {
		m.renderer = renderer
	}
}

// showNotification displays a self-dismissing banner and returns the
// command that expires it.
func (m *Model) showNotification(text string) tea.Cmd {
	m.notification = text
	m.notificationAt = time.Now()
	shownAt := m.notificationAt
	return tea.Tick(m.cfg.NotificationDelay(), func(time.Time) tea.Msg {
		return NotificationExpiredMsg{ShownAt: shownAt}
	})
}
