// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types used throughout the application
// for representing chat conversations and their messages.
//
// # Key Types
//
//   - Conversation: Container for a chat thread with an append-only message sequence
//   - Message: Single message with role, content, and timestamp
//   - Role: Message role enumeration (user, bot)
//
// # Usage
//
// Create a new conversation:
//
//	conv := model.NewConversation("New Chat")
//	conv.AddUserMessage("Hello!")
//
// Message order is insertion order and is never reordered. The only in-place
// mutation is the newest bot message of an in-flight exchange, whose content
// grows one prefix at a time while the reply is revealed.
package model
