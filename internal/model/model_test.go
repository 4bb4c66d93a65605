// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strings"
	"testing"
)

// =============================================================================
// ROLE TESTS
// =============================================================================

func TestRole_DisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "You"},
		{RoleBot, "Advisor"},
		{Role("other"), "other"},
	}

	for _, tc := range tests {
		t.Run(string(tc.role), func(t *testing.T) {
			if got := tc.role.DisplayName(); got != tc.want {
				t.Errorf("DisplayName() = %q, want %q", got, tc.want)
			}
		})
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewBotMessage_IsRevealing(t *testing.T) {
	msg := NewBotMessage()

	if !msg.IsRevealing {
		t.Error("NewBotMessage should start in revealing state")
	}
	if !msg.IsEmpty() {
		t.Error("NewBotMessage should start empty")
	}
	if msg.Role != RoleBot {
		t.Errorf("Role = %q, want %q", msg.Role, RoleBot)
	}
}

func TestMessage_SetContent_OnlyWhileRevealing(t *testing.T) {
	msg := NewBotMessage()

	msg.SetContent("Hel")
	if msg.Content != "Hel" {
		t.Errorf("Content = %q, want %q", msg.Content, "Hel")
	}

	msg.Finalize("Hello")
	if msg.IsRevealing {
		t.Error("Finalize should clear the revealing flag")
	}

	msg.SetContent("overwritten")
	if msg.Content != "Hello" {
		t.Errorf("SetContent after Finalize mutated content: %q", msg.Content)
	}
}

func TestMessage_Preview(t *testing.T) {
	tests := []struct {
		name    string
		content string
		maxLen  int
		want    string
	}{
		{"short content unchanged", "hello", 10, "hello"},
		{"long content truncated", strings.Repeat("a", 20), 10, strings.Repeat("a", 7) + "..."},
		{"unicode truncated on rune boundary", strings.Repeat("é", 20), 10, strings.Repeat("é", 7) + "..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := NewUserMessage(tc.content)
			if got := msg.Preview(tc.maxLen); got != tc.want {
				t.Errorf("Preview(%d) = %q, want %q", tc.maxLen, got, tc.want)
			}
		})
	}
}

func TestGenerateID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := generateID()
		if !strings.HasPrefix(id, "msg_") {
			t.Errorf("ID %q should have msg_ prefix", id)
		}
		if seen[id] {
			t.Errorf("Duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_AddMessages(t *testing.T) {
	conv := NewConversation("New Chat")

	conv.AddUserMessage("hi")
	bot := conv.AddBotMessage()

	if conv.MessageCount() != 2 {
		t.Fatalf("MessageCount = %d, want 2", conv.MessageCount())
	}
	if conv.Messages[0].Role != RoleUser {
		t.Error("first message should be the user message")
	}
	if conv.LastMessage() != bot {
		t.Error("LastMessage should be the bot placeholder")
	}
}

func TestConversation_UpdateLast(t *testing.T) {
	conv := NewConversation("New Chat")
	conv.AddUserMessage("hi")
	conv.AddBotMessage()

	conv.UpdateLast("H")
	conv.UpdateLast("Hi")

	if got := conv.LastMessage().Content; got != "Hi" {
		t.Errorf("Content = %q, want %q", got, "Hi")
	}

	conv.FinalizeLast("Hi!")
	if conv.LastMessage().IsRevealing {
		t.Error("FinalizeLast should clear the revealing flag")
	}

	// Finalized messages are immutable.
	conv.UpdateLast("clobbered")
	if got := conv.LastMessage().Content; got != "Hi!" {
		t.Errorf("Content after finalize = %q, want %q", got, "Hi!")
	}
}

func TestConversation_UpdateLast_NoBotMessage(t *testing.T) {
	conv := NewConversation("New Chat")
	conv.AddUserMessage("hi")

	// Last message is a user message; UpdateLast must not touch it.
	conv.UpdateLast("clobbered")
	if got := conv.LastMessage().Content; got != "hi" {
		t.Errorf("user message mutated: %q", got)
	}
}

func TestConversation_LastUserAndBotMessage(t *testing.T) {
	conv := NewConversation("New Chat")
	if conv.LastUserMessage() != nil || conv.LastBotMessage() != nil {
		t.Error("empty conversation should have no last messages")
	}

	conv.AddUserMessage("first")
	conv.AddBotMessage()
	conv.FinalizeLast("reply")
	conv.AddUserMessage("second")

	if got := conv.LastUserMessage().Content; got != "second" {
		t.Errorf("LastUserMessage = %q, want %q", got, "second")
	}
	if got := conv.LastBotMessage().Content; got != "reply" {
		t.Errorf("LastBotMessage = %q, want %q", got, "reply")
	}
}

func TestConversation_PruneOldMessages(t *testing.T) {
	conv := NewConversation("New Chat")
	for i := 0; i < MaxMessages+10; i++ {
		conv.AddUserMessage("msg")
	}

	if conv.MessageCount() != MaxMessages {
		t.Errorf("MessageCount = %d, want %d", conv.MessageCount(), MaxMessages)
	}
}

func TestConversation_Clone(t *testing.T) {
	conv := NewConversation("New Chat")
	conv.AddUserMessage("hi")

	clone := conv.Clone()
	clone.Messages[0].Content = "mutated"

	if conv.Messages[0].Content != "hi" {
		t.Error("Clone should deep-copy messages")
	}
	if clone.ID != conv.ID || clone.Title != conv.Title {
		t.Error("Clone should preserve identity fields")
	}
}

func TestConversation_Meta(t *testing.T) {
	conv := NewConversation("My Chat")
	conv.AddUserMessage("what plans cover dental?")

	meta := conv.Meta()
	if meta.Title != "My Chat" {
		t.Errorf("Meta.Title = %q, want %q", meta.Title, "My Chat")
	}
	if meta.MessageCount != 1 {
		t.Errorf("Meta.MessageCount = %d, want 1", meta.MessageCount)
	}
	if meta.Preview != "what plans cover dental?" {
		t.Errorf("Meta.Preview = %q", meta.Preview)
	}
}
