// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal discloses a reply string progressively, one character per
// tick, simulating live composition.
package reveal

import (
	"sync"
	"testing"
	"time"
)

// =============================================================================
// PREFIX TESTS
// =============================================================================

func TestPrefixes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"simple", "Hi!", []string{"H", "Hi", "Hi!"}},
		{"single rune", "x", []string{"x"}},
		{"empty", "", []string{}},
		{"multibyte runes", "héy", []string{"h", "hé", "héy"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Prefixes(tc.text)
			if len(got) != len(tc.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tc.want))
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Errorf("Prefixes[%d] = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestPrefixes_Deterministic(t *testing.T) {
	a := Prefixes("same input")
	b := Prefixes("same input")

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("prefix %d differs between runs", i)
		}
	}
}

// =============================================================================
// SCHEDULER TESTS
// =============================================================================

// collector gathers reveal callbacks for assertions.
type collector struct {
	mu       sync.Mutex
	prefixes []string
	doneCnt  int
	doneCh   chan struct{}
}

func newCollector() *collector {
	return &collector{doneCh: make(chan struct{}, 1)}
}

func (c *collector) onTick(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefixes = append(c.prefixes, prefix)
}

func (c *collector) onDone() {
	c.mu.Lock()
	c.doneCnt++
	c.mu.Unlock()
	c.doneCh <- struct{}{}
}

func (c *collector) snapshot() ([]string, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.prefixes))
	copy(out, c.prefixes)
	return out, c.doneCnt
}

func TestScheduler_RevealsInOrder(t *testing.T) {
	sched := NewScheduler(time.Millisecond)
	col := newCollector()

	sched.Start("Hi!", col.onTick, col.onDone)

	select {
	case <-col.doneCh:
	case <-time.After(2 * time.Second):
		t.Fatal("reveal did not complete")
	}

	prefixes, doneCnt := col.snapshot()
	want := []string{"H", "Hi", "Hi!"}
	if len(prefixes) != len(want) {
		t.Fatalf("prefixes = %v, want %v", prefixes, want)
	}
	for i := range want {
		if prefixes[i] != want[i] {
			t.Errorf("prefixes[%d] = %q, want %q", i, prefixes[i], want[i])
		}
	}
	if doneCnt != 1 {
		t.Errorf("onDone fired %d times, want exactly 1", doneCnt)
	}
}

func TestScheduler_EmptyTextCompletesImmediately(t *testing.T) {
	sched := NewScheduler(time.Millisecond)
	col := newCollector()

	sched.Start("", col.onTick, col.onDone)

	select {
	case <-col.doneCh:
	case <-time.After(time.Second):
		t.Fatal("empty reveal did not complete")
	}

	prefixes, _ := col.snapshot()
	if len(prefixes) != 0 {
		t.Errorf("prefixes = %v, want none", prefixes)
	}
}

func TestScheduler_CancelStopsProgress(t *testing.T) {
	sched := NewScheduler(5 * time.Millisecond)
	col := newCollector()

	handle := sched.Start("a long reply that will be cut off", col.onTick, col.onDone)
	time.Sleep(20 * time.Millisecond)
	handle.Cancel()

	settled, _ := col.snapshot()
	time.Sleep(50 * time.Millisecond)
	after, doneCnt := col.snapshot()

	// At most one tick may land between snapshot and cancel taking effect.
	if len(after) > len(settled)+1 {
		t.Errorf("prefixes kept growing after Cancel: %d -> %d", len(settled), len(after))
	}
	if doneCnt != 0 {
		t.Error("onDone must not fire after Cancel")
	}
}

func TestScheduler_CancelIdempotent(t *testing.T) {
	sched := NewScheduler(time.Millisecond)
	col := newCollector()

	handle := sched.Start("xy", col.onTick, col.onDone)
	handle.Cancel()
	handle.Cancel() // must not panic

	select {
	case <-col.doneCh:
		t.Error("onDone fired after Cancel")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestScheduler_CancelAfterCompletion(t *testing.T) {
	sched := NewScheduler(time.Millisecond)
	col := newCollector()

	handle := sched.Start("ok", col.onTick, col.onDone)

	select {
	case <-col.doneCh:
	case <-time.After(time.Second):
		t.Fatal("reveal did not complete")
	}

	handle.Cancel() // must not panic after completion

	_, doneCnt := col.snapshot()
	if doneCnt != 1 {
		t.Errorf("onDone fired %d times, want exactly 1", doneCnt)
	}
}

func TestNewScheduler_CadenceFallback(t *testing.T) {
	sched := NewScheduler(0)
	if sched.cadence != DefaultCadence {
		t.Errorf("cadence = %v, want default %v", sched.cadence, DefaultCadence)
	}
}
