package state

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Rejection(t *testing.T) {
	sm := NewManager(time.Minute)
	id := uuid.New()

	_, ok := sm.PendingRejection(42)
	assert.False(t, ok)
	assert.Equal(t, StateNone, sm.GetState(42))

	sm.StartRejection(42, id)

	got, ok := sm.PendingRejection(42)
	require.True(t, ok)
	assert.Equal(t, id, got)
	assert.Equal(t, StateAwaitingRejectReason, sm.GetState(42))

	_, ok = sm.PendingRejection(7)
	assert.False(t, ok, "dialogs are per chat")

	sm.Clear(42)
	_, ok = sm.PendingRejection(42)
	assert.False(t, ok)
}

func TestManager_Expires(t *testing.T) {
	sm := NewManager(time.Minute)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	sm.now = func() time.Time { return now }

	sm.StartRejection(1, uuid.New())

	now = now.Add(59 * time.Second)
	_, ok := sm.PendingRejection(1)
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok = sm.PendingRejection(1)
	assert.False(t, ok)
	assert.Empty(t, sm.dialogs)
}

func TestNewManager_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, NewManager(0).ttl)
}
