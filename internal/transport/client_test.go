// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport implements the asynchronous request/reply protocol
// against the advisor backend.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// =============================================================================
// SUBMIT TESTS
// =============================================================================

func TestSubmit_DeliversBody(t *testing.T) {
	received := make(chan submitBody, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bot" {
			t.Errorf("path = %q, want /bot", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		var body submitBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		received <- body
	}))
	defer server.Close()

	client := New(server.URL)
	sessionID := client.Submit(SubmitRequest{
		Message: "what covers dental?",
		PlanIDs: []int{1, 2, 3},
	})

	if sessionID == "" {
		t.Fatal("Submit returned an empty session ID")
	}

	select {
	case body := <-received:
		if body.UUID != sessionID {
			t.Errorf("body UUID = %q, want session ID %q", body.UUID, sessionID)
		}
		if body.NewMessage != "what covers dental?" {
			t.Errorf("NewMessage = %q", body.NewMessage)
		}
		if len(body.PlanIDs) != 3 {
			t.Errorf("PlanIDs = %v, want 3 IDs", body.PlanIDs)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("backend never received the submit")
	}
}

func TestSubmit_FreshSessionPerCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	client := New(server.URL)
	first := client.Submit(SubmitRequest{Message: "a"})
	second := client.Submit(SubmitRequest{Message: "b"})

	if first == second {
		t.Error("session identifiers must never be reused across exchanges")
	}
}

func TestSubmit_ReturnsDespiteDeadBackend(t *testing.T) {
	// Nothing listens here; the write will fail, but Submit must still
	// hand back a session ID without blocking.
	client := New("http://127.0.0.1:1")

	done := make(chan string, 1)
	go func() {
		done <- client.Submit(SubmitRequest{Message: "hello"})
	}()

	select {
	case sessionID := <-done:
		if sessionID == "" {
			t.Error("Submit returned an empty session ID")
		}
	case <-time.After(time.Second):
		t.Fatal("Submit blocked on a failing write")
	}
}

func TestSubmit_NilPlansMarshalsAsEmptyList(t *testing.T) {
	received := make(chan submitBody, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body submitBody
		json.NewDecoder(r.Body).Decode(&body)
		received <- body
	}))
	defer server.Close()

	New(server.URL).Submit(SubmitRequest{Message: "hi"})

	select {
	case body := <-received:
		if body.PlanIDs == nil {
			t.Error("PlanIDs should serialize as an empty list, not null")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("backend never received the submit")
	}
}

// =============================================================================
// POLL LOOP TESTS
// =============================================================================

func TestAwaitReply_ReturnsOnReady(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ping" {
			t.Errorf("path = %q, want /ping", r.URL.Path)
		}
		if r.URL.Query().Get("uuid") != "session-1" {
			t.Errorf("uuid = %q, want session-1", r.URL.Query().Get("uuid"))
		}
		n := atomic.AddInt32(&calls, 1)
		if n < 4 {
			fmt.Fprint(w, `{"status":"pending"}`)
			return
		}
		fmt.Fprint(w, `{"status":"ok","reply":"here you go"}`)
	}))
	defer server.Close()

	client := New(server.URL).
		WithPollInterval(time.Millisecond).
		WithMaxAttempts(10)

	reply, err := client.AwaitReply(context.Background(), "session-1")
	if err != nil {
		t.Fatalf("AwaitReply failed: %v", err)
	}
	if reply != "here you go" {
		t.Errorf("reply = %q", reply)
	}
	if got := atomic.LoadInt32(&calls); got != 4 {
		t.Errorf("poll calls = %d, want exactly 4 (no call after ready)", got)
	}
}

func TestAwaitReply_TimeoutAfterExactBudget(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `{"status":"pending"}`)
	}))
	defer server.Close()

	client := New(server.URL).
		WithPollInterval(time.Millisecond).
		WithMaxAttempts(5)

	_, err := client.AwaitReply(context.Background(), "session-1")
	if !errors.Is(err, ErrPollTimeout) {
		t.Fatalf("err = %v, want ErrPollTimeout", err)
	}
	if got := atomic.LoadInt32(&calls); got != 5 {
		t.Errorf("poll calls = %d, want exactly 5", got)
	}
}

func TestAwaitReply_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		switch {
		case n == 1:
			http.Error(w, "boom", http.StatusInternalServerError)
		case n == 2:
			fmt.Fprint(w, "not json")
		default:
			fmt.Fprint(w, `{"status":"ok","reply":"recovered"}`)
		}
	}))
	defer server.Close()

	client := New(server.URL).
		WithPollInterval(time.Millisecond).
		WithMaxAttempts(10)

	reply, err := client.AwaitReply(context.Background(), "session-1")
	if err != nil {
		t.Fatalf("AwaitReply failed: %v", err)
	}
	if reply != "recovered" {
		t.Errorf("reply = %q", reply)
	}
}

func TestAwaitReply_OkWithEmptyReplyIsNotReady(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			fmt.Fprint(w, `{"status":"ok","reply":""}`)
			return
		}
		fmt.Fprint(w, `{"status":"ok","reply":"done"}`)
	}))
	defer server.Close()

	client := New(server.URL).
		WithPollInterval(time.Millisecond).
		WithMaxAttempts(5)

	reply, err := client.AwaitReply(context.Background(), "session-1")
	if err != nil {
		t.Fatalf("AwaitReply failed: %v", err)
	}
	if reply != "done" {
		t.Errorf("reply = %q", reply)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("poll calls = %d, want 2", got)
	}
}

func TestAwaitReply_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"pending"}`)
	}))
	defer server.Close()

	client := New(server.URL).
		WithPollInterval(50 * time.Millisecond).
		WithMaxAttempts(100)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.AwaitReply(ctx, "session-1")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
