// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/planchat-tui/internal/exchange"
	"github.com/jeranaias/planchat-tui/internal/model"
	"github.com/jeranaias/planchat-tui/internal/util"
)

// View renders the full chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderSidebar(),
		m.viewport.View(),
	)
	b.WriteString(body)
	b.WriteString("\n")

	if m.notification != "" {
		b.WriteString(m.theme.Notification.Render(m.notification))
		b.WriteString("\n")
	}

	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

// renderHeader draws the title bar.
func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("planchat")
	sub := ""
	if active := m.store.Active(); active != nil {
		sub = " — " + active.Title
	}
	return m.theme.Header.Width(m.width).Render(title + sub)
}

// renderSidebar draws the conversation list column.
func (m Model) renderSidebar() string {
	metas := m.store.Metas()
	activeID := m.store.ActiveID()

	var lines []string
	for _, meta := range metas {
		title := util.TruncateWidth(meta.Title, sidebarWidth-4)
		if meta.ID == activeID {
			lines = append(lines, m.theme.SidebarItemSelected.Render("> "+title))
		} else {
			lines = append(lines, m.theme.SidebarItem.Render("  "+title))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, m.theme.SidebarHint.Render("no chats"))
	}

	content := strings.Join(lines, "\n")
	return m.theme.Sidebar.
		Width(sidebarWidth).
		Height(m.viewport.Height).
		Render(content)
}

// renderInput draws the compose box, or the rename editor while a title
// edit is in progress.
func (m Model) renderInput() string {
	if m.mode == modeRename {
		label := m.theme.ShortcutDesc.Render("Rename: ")
		return m.theme.InputContainer.Width(m.width - 2).Render(label + m.rename.View())
	}
	return m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())
}

// renderStatusBar draws the bottom status line.
func (m Model) renderStatusBar() string {
	var left string
	switch m.controller.State() {
	case exchange.StateSubmitted, exchange.StateAwaitingReply:
		left = m.theme.StatusBusy.Render(m.spinner.View() + "waiting for advisor")
	case exchange.StateRevealing:
		left = m.theme.StatusBusy.Render("revealing")
	default:
		left = m.theme.StatusIdle.Render("ready")
	}

	if m.cfg.UI.ShowPlanCount {
		if set := m.controller.Plans(); !set.IsEmpty() {
			left += m.theme.ShortcutDesc.Render(fmt.Sprintf("  %d plans", set.Len()))
		}
	}

	var hints []string
	for _, binding := range m.keyMap.ShortHelp() {
		help := binding.Help()
		hints = append(hints,
			m.theme.ShortcutKey.Render(help.Key)+" "+m.theme.ShortcutDesc.Render(help.Desc))
	}
	right := strings.Join(hints, "  ")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderConversation renders every message of the active conversation.
func (m Model) renderConversation() string {
	conv := m.store.Active()
	if conv == nil {
		return m.theme.SidebarHint.Render("Start a new chat with Ctrl+N")
	}

	var parts []string
	for _, msg := range conv.Messages {
		parts = append(parts, m.renderMessage(msg))
	}
	return strings.Join(parts, "\n")
}

// renderMessage renders one message with its role label and timestamp.
// Finalized advisor messages go through the markdown renderer; revealing
// ones stay plain so the prefix grows without re-layout artifacts.
func (m Model) renderMessage(msg *model.Message) string {
	label := m.theme.UserLabel.Render(msg.Role.DisplayName())
	if msg.Role == model.RoleBot {
		label = m.theme.AdvisorLabel.Render(msg.Role.DisplayName())
	}
	ts := m.theme.Timestamp.Render(msg.Timestamp.Format("15:04"))
	header := label + " " + ts

	content := msg.Content
	switch {
	case msg.Role == model.RoleBot && msg.IsRevealing && content == "":
		content = m.theme.SidebarHint.Render(m.spinner.View() + "thinking...")
	case msg.Role == model.RoleBot && !msg.IsRevealing && m.renderer != nil:
		if rendered, err := m.renderer.Render(content); err == nil {
			content = strings.TrimRight(rendered, "\n")
		}
	}

	style := m.theme.UserBubble
	if msg.Role == model.RoleBot {
		style = m.theme.BotBubble
	}
	return header + "\n" + style.Render(content) + "\n"
}
