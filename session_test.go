package classifier

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	a := NewSession()
	b := NewSession()

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.ValidInputsReceived)
}

func TestMemorySessionStore_SaveAndGet(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	ctx := context.Background()

	session := NewSession()
	session.ValidInputsReceived = true
	session.Text = "a\nb"
	session.Labels = []string{"x", "y"}
	require.NoError(t, store.Save(ctx, session))

	// later mutations of the caller's copy are not visible in the store
	session.Labels[0] = "mutated"

	loaded, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, loaded.ValidInputsReceived)
	assert.Equal(t, []string{"x", "y"}, loaded.Labels)

	loaded.Labels[1] = "changed"
	again, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, again.Labels)
}

func TestMemorySessionStore_NotFound(t *testing.T) {
	store := NewMemorySessionStore(0)
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionStore_Expiry(t *testing.T) {
	store := NewMemorySessionStore(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	old := NewSession()
	require.NoError(t, store.Save(ctx, old))

	now = now.Add(2 * time.Minute)
	_, err := store.Get(ctx, old.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, store.Len())

	// saving prunes other expired sessions
	stale := NewSession()
	require.NoError(t, store.Save(ctx, stale))
	now = now.Add(2 * time.Minute)
	fresh := NewSession()
	require.NoError(t, store.Save(ctx, fresh))
	assert.Equal(t, 1, store.Len())
}

func TestMemorySessionStore_ExpiredGetKeepsConcurrentRefresh(t *testing.T) {
	store := NewMemorySessionStore(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	session := NewSession()
	session.ValidInputsReceived = true
	require.NoError(t, store.Save(ctx, session))
	now = now.Add(2 * time.Minute)

	// Refresh the session between Get's read and its delete
	refreshed := false
	store.now = func() time.Time {
		if !refreshed {
			refreshed = true
			require.NoError(t, store.Save(ctx, session))
		}
		return now
	}

	_, err := store.Get(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	require.True(t, refreshed)

	loaded, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, loaded.ValidInputsReceived)
	assert.Equal(t, 1, store.Len())
}
