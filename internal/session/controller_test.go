package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paydeck/console/internal/models"
)

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds with valid credentials", func(t *testing.T) {
		eng := newTestEngine(t)

		require.True(t, eng.controller.Login(ctx, "owner@acme.test", "changeit", false))

		snapshot := eng.controller.Snapshot()
		assert.True(t, snapshot.IsAuthenticated)
		require.NotNil(t, snapshot.User)
		assert.Equal(t, "owner@acme.test", snapshot.User.Email)
		assert.Equal(t, models.StatusApproved, snapshot.ApplicationStatus)

		// No expiration marker without remember.
		persisted, err := eng.store.Read()
		require.NoError(t, err)
		require.NotNil(t, persisted)
		assert.False(t, persisted.Remember)
		assert.Nil(t, persisted.ExpiresAt)
	})

	t.Run("durable store and snapshot agree after login", func(t *testing.T) {
		eng := newTestEngine(t)

		require.True(t, eng.controller.Login(ctx, "owner@acme.test", "changeit", false))

		persisted, err := eng.store.Read()
		require.NoError(t, err)
		require.NotNil(t, persisted)

		state := eng.registry.State()
		assert.Equal(t, state.Token, persisted.Token)
		assert.Equal(t, state.User.ID, persisted.User.ID)
		assert.Equal(t, eng.controller.Snapshot().User.ID, persisted.User.ID)
	})

	t.Run("fails with bad credentials and leaves state untouched", func(t *testing.T) {
		eng := newTestEngine(t)

		before := eng.controller.Snapshot()
		assert.False(t, eng.controller.Login(ctx, "owner@acme.test", "wrongpass", false))
		assert.Equal(t, before, eng.controller.Snapshot())

		persisted, err := eng.store.Read()
		require.NoError(t, err)
		assert.Nil(t, persisted)
	})

	t.Run("failed login does not destroy a prior session", func(t *testing.T) {
		eng := newTestEngine(t)

		require.True(t, eng.controller.Login(ctx, "owner@acme.test", "changeit", false))
		token := eng.registry.State().Token

		assert.False(t, eng.controller.Login(ctx, "owner@acme.test", "wrongpass", false))

		assert.True(t, eng.controller.Snapshot().IsAuthenticated)
		assert.Equal(t, token, eng.registry.State().Token)

		persisted, err := eng.store.Read()
		require.NoError(t, err)
		require.NotNil(t, persisted)
		assert.Equal(t, token, persisted.Token)
	})

	t.Run("remember writes an expiration marker", func(t *testing.T) {
		eng := newTestEngine(t)

		require.True(t, eng.controller.Login(ctx, "owner@acme.test", "changeit", true))

		persisted, err := eng.store.Read()
		require.NoError(t, err)
		require.NotNil(t, persisted)
		assert.True(t, persisted.Remember)
		require.NotNil(t, persisted.ExpiresAt)
		assert.WithinDuration(t, time.Now().Add(DefaultRememberFor), *persisted.ExpiresAt, time.Minute)
	})

	t.Run("a second login replaces the session wholesale", func(t *testing.T) {
		eng := newTestEngine(t)

		require.True(t, eng.controller.Login(ctx, "owner@acme.test", "changeit", false))
		require.True(t, eng.controller.Login(ctx, "pending@acme.test", "changeit", false))

		snapshot := eng.controller.Snapshot()
		assert.Equal(t, "pending@acme.test", snapshot.User.Email)
		assert.Equal(t, models.StatusPending, snapshot.ApplicationStatus)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("clears store and registry and navigates to login", func(t *testing.T) {
		eng := newTestEngine(t)
		require.True(t, eng.controller.Login(ctx, "owner@acme.test", "changeit", false))

		eng.controller.Logout(ctx)

		assert.False(t, eng.controller.Snapshot().IsAuthenticated)
		persisted, err := eng.store.Read()
		require.NoError(t, err)
		assert.Nil(t, persisted)
		assert.Equal(t, []string{"/login"}, eng.nav.Paths())
	})

	t.Run("is idempotent", func(t *testing.T) {
		eng := newTestEngine(t)
		require.True(t, eng.controller.Login(ctx, "owner@acme.test", "changeit", false))

		eng.controller.Logout(ctx)
		after := eng.controller.Snapshot()

		assert.NotPanics(t, func() { eng.controller.Logout(ctx) })
		assert.Equal(t, after, eng.controller.Snapshot())
	})

	t.Run("is safe when never logged in", func(t *testing.T) {
		eng := newTestEngine(t)
		assert.NotPanics(t, func() { eng.controller.Logout(ctx) })
		assert.False(t, eng.controller.Snapshot().IsAuthenticated)
	})
}

func TestRefreshStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("re-derives the application record", func(t *testing.T) {
		eng := newTestEngine(t)
		require.True(t, eng.controller.Login(ctx, "review@acme.test", "changeit", false))

		// Simulate a stale in-memory record.
		eng.registry.SetApplication(&models.ApplicationRecord{Status: models.StatusRejected})
		assert.Equal(t, models.StatusRejected, eng.controller.Snapshot().ApplicationStatus)

		eng.controller.RefreshStatus(ctx)
		assert.Equal(t, models.StatusUnderReview, eng.controller.Snapshot().ApplicationStatus)
	})

	t.Run("is a no-op without a session", func(t *testing.T) {
		eng := newTestEngine(t)
		assert.NotPanics(t, func() { eng.controller.RefreshStatus(ctx) })
		assert.False(t, eng.controller.Snapshot().IsAuthenticated)
	})
}
