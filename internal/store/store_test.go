// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store owns the set of conversation threads and the active-thread
// pointer.
package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jeranaias/planchat-tui/internal/model"
)

// =============================================================================
// CREATION TESTS
// =============================================================================

func TestCreate_DefaultTitleSequence(t *testing.T) {
	s := New()

	want := []string{"New Chat", "New Chat 1", "New Chat 2", "New Chat 3"}
	for i, title := range want {
		conv := s.Create()
		if conv.Title != title {
			t.Errorf("Create #%d title = %q, want %q", i, conv.Title, title)
		}
	}

	// All titles distinct.
	seen := make(map[string]bool)
	for _, conv := range s.List() {
		if seen[conv.Title] {
			t.Errorf("duplicate title %q", conv.Title)
		}
		seen[conv.Title] = true
	}
}

func TestCreate_ReusesFreedTitle(t *testing.T) {
	s := New()
	first := s.Create()  // "New Chat"
	second := s.Create() // "New Chat 1"
	s.Delete(first.ID)

	third := s.Create()
	if third.Title != "New Chat" {
		t.Errorf("title = %q, want %q after the base title was freed", third.Title, "New Chat")
	}
	_ = second
}

func TestCreate_BecomesActive(t *testing.T) {
	s := New()
	first := s.Create()
	if s.ActiveID() != first.ID {
		t.Error("first created conversation should be active")
	}

	second := s.Create()
	if s.ActiveID() != second.ID {
		t.Error("newly created conversation should become active")
	}
}

func TestNewWithDefault(t *testing.T) {
	s := NewWithDefault()

	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	if s.Active() == nil {
		t.Fatal("default conversation should be active")
	}
	if s.Active().Title != DefaultTitle {
		t.Errorf("title = %q, want %q", s.Active().Title, DefaultTitle)
	}
}

// =============================================================================
// SELECT TESTS
// =============================================================================

func TestSelect(t *testing.T) {
	s := New()
	first := s.Create()
	s.Create()

	if err := s.Select(first.ID); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if s.ActiveID() != first.ID {
		t.Error("Select did not change the active conversation")
	}
}

func TestSelect_NotFound(t *testing.T) {
	s := NewWithDefault()
	before := s.ActiveID()

	err := s.Select("conv_missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if s.ActiveID() != before {
		t.Error("failed Select must not change the active conversation")
	}
}

// =============================================================================
// DELETE TESTS
// =============================================================================

func TestDelete_ActiveFallsBackToFirst(t *testing.T) {
	s := New()
	first := s.Create()
	second := s.Create()
	third := s.Create()

	if err := s.Select(second.ID); err != nil {
		t.Fatal(err)
	}
	s.Delete(second.ID)

	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	if s.ActiveID() != first.ID {
		t.Errorf("active = %s, want first remaining %s", s.ActiveID(), first.ID)
	}
	_ = third
}

func TestDelete_InactiveKeepsActive(t *testing.T) {
	s := New()
	first := s.Create()
	second := s.Create()

	s.Delete(first.ID)
	if s.ActiveID() != second.ID {
		t.Error("deleting an inactive conversation must not change activation")
	}
}

func TestDelete_LastLeavesNoActive(t *testing.T) {
	s := NewWithDefault()
	s.Delete(s.ActiveID())

	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
	if s.ActiveID() != "" {
		t.Errorf("ActiveID = %q, want empty", s.ActiveID())
	}
	if s.Active() != nil {
		t.Error("Active should be nil when the store is empty")
	}
}

func TestDelete_UnknownIsNoop(t *testing.T) {
	s := NewWithDefault()
	s.Delete("conv_missing")

	if s.Len() != 1 {
		t.Error("deleting an unknown ID must not remove anything")
	}
}

// =============================================================================
// RENAME TESTS
// =============================================================================

func TestRename(t *testing.T) {
	s := NewWithDefault()
	id := s.ActiveID()

	if err := s.Rename(id, "Dental Plans"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if got := s.Get(id).Title; got != "Dental Plans" {
		t.Errorf("title = %q, want %q", got, "Dental Plans")
	}
}

func TestRename_EmptyFallsBackToPlaceholder(t *testing.T) {
	s := NewWithDefault()
	id := s.ActiveID()

	tests := []string{"", "   ", "\t\n"}
	for _, input := range tests {
		if err := s.Rename(id, input); err != nil {
			t.Fatalf("Rename(%q) failed: %v", input, err)
		}
		if got := s.Get(id).Title; got != PlaceholderTitle {
			t.Errorf("Rename(%q) title = %q, want %q", input, got, PlaceholderTitle)
		}
	}
}

func TestRename_DuplicateTitleAccepted(t *testing.T) {
	s := New()
	first := s.Create()
	second := s.Create()

	// Uniqueness is not re-validated on manual rename.
	if err := s.Rename(second.ID, first.Title); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if s.Get(second.ID).Title != first.Title {
		t.Error("rename should accept a duplicate title verbatim")
	}
}

func TestRename_NotFound(t *testing.T) {
	s := NewWithDefault()

	err := s.Rename("conv_missing", "title")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// =============================================================================
// MESSAGE OPERATION TESTS
// =============================================================================

func TestAppendAndReplaceLast(t *testing.T) {
	s := NewWithDefault()
	id := s.ActiveID()

	if err := s.Append(id, model.NewUserMessage("hi")); err != nil {
		t.Fatal(err)
	}
	if err := s.Append(id, model.NewBotMessage()); err != nil {
		t.Fatal(err)
	}

	if err := s.ReplaceLast(id, "He"); err != nil {
		t.Fatal(err)
	}
	if got := s.Get(id).LastMessage().Content; got != "He" {
		t.Errorf("Content = %q, want %q", got, "He")
	}

	if err := s.FinalizeLast(id, "Hello"); err != nil {
		t.Fatal(err)
	}
	last := s.Get(id).LastMessage()
	if last.Content != "Hello" || last.IsRevealing {
		t.Errorf("message not finalized: content=%q revealing=%v", last.Content, last.IsRevealing)
	}
}

func TestMessageOps_NotFound(t *testing.T) {
	s := New()

	if err := s.Append("conv_missing", model.NewUserMessage("hi")); !errors.Is(err, ErrNotFound) {
		t.Errorf("Append err = %v, want ErrNotFound", err)
	}
	if err := s.ReplaceLast("conv_missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ReplaceLast err = %v, want ErrNotFound", err)
	}
	if err := s.FinalizeLast("conv_missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FinalizeLast err = %v, want ErrNotFound", err)
	}
}

// =============================================================================
// ACCESSOR TESTS
// =============================================================================

func TestMetas(t *testing.T) {
	s := New()
	for i := 0; i < 3; i++ {
		conv := s.Create()
		s.Append(conv.ID, model.NewUserMessage(fmt.Sprintf("msg %d", i)))
	}

	metas := s.Metas()
	if len(metas) != 3 {
		t.Fatalf("len(metas) = %d, want 3", len(metas))
	}
	for i, meta := range metas {
		if meta.MessageCount != 1 {
			t.Errorf("metas[%d].MessageCount = %d, want 1", i, meta.MessageCount)
		}
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	s := NewWithDefault()
	list := s.List()
	list[0] = nil

	if s.List()[0] == nil {
		t.Error("mutating the returned slice changed the store")
	}
}
