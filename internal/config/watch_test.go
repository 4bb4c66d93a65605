// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWatcher(t *testing.T) {
	w, err := NewWatcher(0, nil)
	require.NoError(t, err)
	defer w.Stop()

	// Zero debounce falls back to the default window.
	assert.Equal(t, 500*time.Millisecond, w.debounce)
	assert.NotNil(t, w.logger)
}

func TestWatcher_IsConfigFile(t *testing.T) {
	w, err := NewWatcher(time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Stop()

	assert.True(t, w.isConfigFile("/home/user/.planchat/config.toml"))
	assert.True(t, w.isConfigFile("/home/user/.planchat/config.json"))
	assert.False(t, w.isConfigFile("/home/user/.planchat/planchat.log"))
	assert.False(t, w.isConfigFile("/home/user/.planchat/.tmp-123"))
}

func TestWatcher_DebounceCoalesces(t *testing.T) {
	w, err := NewWatcher(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Stop()

	// Rapid-fire schedules must collapse into one pending timer.
	for i := 0; i < 5; i++ {
		w.scheduleReload()
	}

	w.mu.Lock()
	pending := w.pending
	w.mu.Unlock()
	assert.True(t, pending, "a reload should be pending after schedule")

	// Stop before the timer fires so the test never touches the real
	// home-directory config.
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
}
