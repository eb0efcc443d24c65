package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"inspect-bot/internal/domain/entity"
)

func TestCacheSessionRepository_SaveAndGet(t *testing.T) {
	repo := NewCacheSessionRepository(time.Hour)
	ctx := context.Background()

	session := entity.NewInspectionSession("s-1")
	require.NoError(t, repo.Save(ctx, session))

	got, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	require.Same(t, session, got)
}

func TestCacheSessionRepository_GetMissing(t *testing.T) {
	repo := NewCacheSessionRepository(time.Hour)

	_, err := repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestCacheSessionRepository_Delete(t *testing.T) {
	repo := NewCacheSessionRepository(time.Hour)
	ctx := context.Background()

	session := entity.NewInspectionSession("s-1")
	require.NoError(t, repo.Save(ctx, session))
	require.NoError(t, repo.Delete(ctx, "s-1"))

	_, err := repo.Get(ctx, "s-1")
	require.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestCacheSessionRepository_CompletedSessionExpires(t *testing.T) {
	repo := NewCacheSessionRepository(30 * time.Millisecond)
	ctx := context.Background()

	session := entity.NewInspectionSession("s-1")
	require.NoError(t, session.SwitchToReturn())
	_, err := session.Complete(entity.DefaultCostTable())
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, session))

	_, err = repo.Get(ctx, "s-1")
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)

	_, err = repo.Get(ctx, "s-1")
	require.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestMemoryUserRepository_GetCreatesUser(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)

	again, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Same(t, user, again)
}
