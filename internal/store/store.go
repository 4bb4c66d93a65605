// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store owns the set of conversation threads and the active-thread
// pointer.
package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jeranaias/planchat-tui/internal/model"
)

// DefaultTitle is the base title probed when creating a conversation.
const DefaultTitle = "New Chat"

// PlaceholderTitle is used when a rename commits empty input.
const PlaceholderTitle = "Untitled Chat"

// ErrNotFound indicates an operation referenced a conversation ID that
// does not exist in the store.
var ErrNotFound = errors.New("conversation not found")

// =============================================================================
// STORE TYPE
// =============================================================================

// Store holds all live conversations and tracks which one is active.
//
// Mutations happen on the single UI event loop, but the store is guarded
// by a mutex so background goroutines can read snapshots safely. Each
// operation is atomic: no caller ever observes a partially applied
// mutation.
type Store struct {
	mu            sync.Mutex
	conversations []*model.Conversation
	activeID      string
}

// New creates an empty store with no active conversation.
func New() *Store {
	return &Store{}
}

// NewWithDefault creates a store seeded with one default conversation,
// which becomes active. This is the process-start state.
func NewWithDefault() *Store {
	s := New()
	s.Create()
	return s
}

// =============================================================================
// CONVERSATION LIFECYCLE
// =============================================================================

// Create adds a new conversation with a unique default title and makes it
// the active conversation. Titles are probed as "New Chat", "New Chat 1",
// "New Chat 2", ... against the titles of live conversations.
func (s *Store) Create() *model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := model.NewConversation(s.nextTitle())
	s.conversations = append(s.conversations, conv)
	s.activeID = conv.ID
	return conv
}

// Select makes the conversation with the given ID active.
// Returns ErrNotFound if no such conversation exists.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(id) == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.activeID = id
	return nil
}

// Delete removes the conversation with the given ID. Deleting an unknown
// ID is a no-op. If the active conversation is deleted, activation falls
// back to the first remaining conversation, or to none if the store is
// now empty.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, conv := range s.conversations {
		if conv.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}

	s.conversations = append(s.conversations[:idx], s.conversations[idx+1:]...)

	if s.activeID == id {
		if len(s.conversations) > 0 {
			s.activeID = s.conversations[0].ID
		} else {
			s.activeID = ""
		}
	}
}

// Rename sets the title of the conversation with the given ID. The title
// is accepted verbatim; uniqueness is not re-validated on rename. Empty
// or whitespace-only input falls back to the placeholder title.
// Returns ErrNotFound if no such conversation exists.
func (s *Store) Rename(id, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.find(id)
	if conv == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = PlaceholderTitle
	}
	conv.SetTitle(title)
	return nil
}

// =============================================================================
// MESSAGE OPERATIONS
// =============================================================================

// Append adds a message to the conversation with the given ID.
// Returns ErrNotFound if no such conversation exists.
func (s *Store) Append(id string, msg *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.find(id)
	if conv == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	conv.AddMessage(msg)
	return nil
}

// ReplaceLast updates the content of the newest message of the given
// conversation, provided it is still revealing. Used only by the reveal
// loop to grow the visible prefix of the in-flight bot reply.
func (s *Store) ReplaceLast(id, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.find(id)
	if conv == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	conv.UpdateLast(content)
	return nil
}

// FinalizeLast completes the newest revealing message of the given
// conversation with its final content.
func (s *Store) FinalizeLast(id, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.find(id)
	if conv == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	conv.FinalizeLast(content)
	return nil
}

// SealLast completes the newest revealing message of the given
// conversation at whatever content it currently holds. Used when a reveal
// is cancelled: the prefix reached so far becomes the final text.
func (s *Store) SealLast(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.find(id)
	if conv == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if last := conv.LastMessage(); last != nil && last.IsRevealing {
		last.Finalize(last.Content)
	}
	return nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Active returns the active conversation, or nil if none exists.
func (s *Store) Active() *model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(s.activeID)
}

// ActiveID returns the ID of the active conversation, or "" if none.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Get returns the conversation with the given ID, or nil.
func (s *Store) Get(id string) *model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(id)
}

// List returns the live conversations in creation order.
func (s *Store) List() []*model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// Metas returns lightweight metadata for every live conversation.
func (s *Store) Metas() []model.ConversationMeta {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.ConversationMeta, 0, len(s.conversations))
	for _, conv := range s.conversations {
		out = append(out, conv.Meta())
	}
	return out
}

// Len returns the number of live conversations.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conversations)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// find returns the conversation with the given ID, or nil.
// Caller must hold s.mu.
func (s *Store) find(id string) *model.Conversation {
	if id == "" {
		return nil
	}
	for _, conv := range s.conversations {
		if conv.ID == id {
			return conv
		}
	}
	return nil
}

// nextTitle probes "New Chat", "New Chat 1", "New Chat 2", ... until it
// finds a title no live conversation holds. Caller must hold s.mu.
func (s *Store) nextTitle() string {
	taken := make(map[string]bool, len(s.conversations))
	for _, conv := range s.conversations {
		taken[conv.Title] = true
	}

	if !taken[DefaultTitle] {
		return DefaultTitle
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s %d", DefaultTitle, n)
		if !taken[candidate] {
			return candidate
		}
	}
}
