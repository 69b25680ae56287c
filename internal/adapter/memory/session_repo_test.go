package memory

import (
	"context"
	"testing"
	"time"

	"github.com/joshd12blip/Cleanout-Market/internal/domain/entity"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/clock"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/logger"
	"github.com/joshd12blip/Cleanout-Market/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func TestSessionRepository_SaveGet(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(start)
	repo := NewSessionRepository(clk, logger.NewNop())

	_, err := repo.Get(ctx, "s1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	m := entity.NewMarketplace("s1", start)
	require.NoError(t, repo.Save(ctx, m, time.Hour))

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, m, got)

	// changes to the returned copy are not visible until saved
	_, err = got.AddToCart("1")
	require.NoError(t, err)
	again, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, again.Cart.ListingIDs)
}

func TestSessionRepository_StaleSaveConflicts(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(clock.NewManual(start), logger.NewNop())
	require.NoError(t, repo.Save(ctx, entity.NewMarketplace("s1", start), time.Hour))

	first, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	second, err := repo.Get(ctx, "s1")
	require.NoError(t, err)

	_, err = first.AddToCart("1")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first, time.Hour))
	assert.Equal(t, int64(2), first.Version)

	_, err = second.AddToCart("3")
	require.NoError(t, err)
	require.ErrorIs(t, repo.Save(ctx, second, time.Hour), repository.ErrConflict)
	assert.Equal(t, int64(1), second.Version)

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, got.Cart.ListingIDs)

	// a brand-new session must not overwrite a stored one
	require.ErrorIs(t, repo.Save(ctx, entity.NewMarketplace("s1", start), time.Hour), repository.ErrConflict)
}

func TestSessionRepository_Expiry(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(start)
	repo := NewSessionRepository(clk, logger.NewNop())

	require.NoError(t, repo.Save(ctx, entity.NewMarketplace("s1", start), time.Minute))
	require.NoError(t, repo.Save(ctx, entity.NewMarketplace("s2", start), time.Hour))

	clk.Advance(time.Minute)
	_, err := repo.Get(ctx, "s1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.Get(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.Len())
}

func TestSessionRepository_Sweep(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(start)
	repo := NewSessionRepository(clk, logger.NewNop())

	require.NoError(t, repo.Save(ctx, entity.NewMarketplace("a", start), time.Minute))
	require.NoError(t, repo.Save(ctx, entity.NewMarketplace("b", start), time.Minute))
	require.NoError(t, repo.Save(ctx, entity.NewMarketplace("c", start), 0))

	clk.Advance(2 * time.Minute)
	assert.Equal(t, 2, repo.Sweep())
	assert.Equal(t, 1, repo.Len())
}

func TestSessionRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(clock.NewManual(start), logger.NewNop())

	require.NoError(t, repo.Save(ctx, entity.NewMarketplace("s1", start), time.Hour))
	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err := repo.Get(ctx, "s1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSessionRepository_SaveRejectsAnonymous(t *testing.T) {
	repo := NewSessionRepository(clock.NewManual(start), logger.NewNop())
	require.Error(t, repo.Save(context.Background(), &entity.Marketplace{}, time.Hour))
	require.Error(t, repo.Save(context.Background(), nil, time.Hour))
}

func TestSessionRepository_RunStopsOnCancel(t *testing.T) {
	repo := NewSessionRepository(clock.NewManual(start), logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		repo.Run(ctx, 10*time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
