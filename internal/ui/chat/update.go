// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/planchat-tui/internal/exchange"
)

// Update handles all incoming Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ExchangeUpdatedMsg:
		m.refreshViewport()
		return m, nil

	case NarrowedMsg:
		text := "Narrowed down 1 plan"
		if msg.Count != 1 {
			text = fmt.Sprintf("Narrowed down %d plans", msg.Count)
		}
		return m, m.showNotification(text)

	case NotificationExpiredMsg:
		// Ignore expirations belonging to a banner that was replaced.
		if msg.ShownAt.Equal(m.notificationAt) {
			m.notification = ""
		}
		return m, nil

	case ConversationSelectedMsg:
		if err := m.controller.SelectConversation(msg.ID); err != nil {
			m.logger.Warn("conversation select failed", zap.String("id", msg.ID), zap.Error(err))
		}
		m.syncSidebar()
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// handleKey dispatches key presses according to the current mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		m.controller.Shutdown()
		return m, tea.Quit
	}

	if m.mode == modeRename {
		return m.handleRenameKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.commitInput()

	case key.Matches(msg, m.keyMap.Newline):
		m.input.InsertString("\n")
		return m, nil

	case key.Matches(msg, m.keyMap.Cancel):
		// Skip the rest of a running reveal; the prefix shown so far
		// becomes the final message text.
		m.controller.CancelReveal()
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keyMap.NewChat):
		m.store.Create()
		m.syncSidebar()
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keyMap.DeleteChat):
		id := m.store.ActiveID()
		if id == "" {
			return m, nil
		}
		if !m.controller.DeleteConversation(id) {
			return m, m.showNotification("Can't delete while a reply is in flight")
		}
		m.syncSidebar()
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keyMap.RenameChat):
		if active := m.store.Active(); active != nil {
			m.mode = modeRename
			m.rename.SetValue(active.Title)
			m.rename.CursorEnd()
			m.rename.Focus()
			m.input.Blur()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.NextChat):
		return m.selectOffset(1)

	case key.Matches(msg, m.keyMap.PrevChat):
		return m.selectOffset(-1)

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleRenameKey drives the inline title editor.
func (m Model) handleRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Submit):
		id := m.store.ActiveID()
		if id != "" {
			if err := m.store.Rename(id, m.rename.Value()); err != nil {
				m.logger.Warn("rename failed", zap.String("id", id), zap.Error(err))
			}
		}
		m.exitRename()
		return m, nil

	case key.Matches(msg, m.keyMap.Cancel):
		m.exitRename()
		return m, nil
	}

	var cmd tea.Cmd
	m.rename, cmd = m.rename.Update(msg)
	return m, cmd
}

func (m *Model) exitRename() {
	m.mode = modeCompose
	m.rename.Blur()
	m.rename.SetValue("")
	m.input.Focus()
}

// commitInput hands the composed text to the controller. The input is
// cleared only when the commit is accepted, so a message typed while an
// exchange is in flight stays in the box.
func (m Model) commitInput() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	if m.controller.Commit(text) {
		m.input.Reset()
		m.syncSidebar()
		m.refreshViewport()
	}
	return m, nil
}

// selectOffset moves the sidebar selection and activates the conversation
// under it. Switching away from a revealing conversation seals the
// in-flight message at its current prefix.
func (m Model) selectOffset(delta int) (tea.Model, tea.Cmd) {
	metas := m.store.Metas()
	if len(metas) == 0 {
		return m, nil
	}
	idx := m.sidebarIndex + delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(metas) {
		idx = len(metas) - 1
	}
	if idx == m.sidebarIndex {
		return m, nil
	}
	m.sidebarIndex = idx
	return m.Update(ConversationSelectedMsg{ID: metas[idx].ID})
}

// refreshViewport re-renders the active conversation and follows the tail
// while an exchange is in flight.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderConversation())
	if m.controller.State() != exchange.StateIdle || m.viewport.AtBottom() {
		m.viewport.GotoBottom()
	}
}
