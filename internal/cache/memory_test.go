package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/movierec/internal/domain"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newMemory(capacity int) (*Memory, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory(capacity)
	m.now = clock.Now
	return m, clock
}

func TestMemory_GetSet(t *testing.T) {
	ctx := context.Background()
	m, _ := newMemory(10)

	_, ok, err := m.Get(ctx, "862")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "862", domain.NewArtworkPaths("/p.jpg", "/b.jpg"), time.Hour))

	paths, ok, err := m.Get(ctx, "862")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/p.jpg", *paths.PosterPath)
	assert.Equal(t, "memory", m.Name())
}

func TestMemory_CachesNullShape(t *testing.T) {
	ctx := context.Background()
	m, _ := newMemory(10)

	require.NoError(t, m.Set(ctx, "999", domain.ArtworkPaths{}, time.Hour))

	paths, ok, err := m.Get(ctx, "999")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, paths.HasPoster())
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	m, clock := newMemory(10)

	require.NoError(t, m.Set(ctx, "862", domain.NewArtworkPaths("/p.jpg", ""), time.Minute))
	clock.Advance(59 * time.Second)
	_, ok, _ := m.Get(ctx, "862")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok, _ = m.Get(ctx, "862")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestMemory_ZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	m, clock := newMemory(10)

	require.NoError(t, m.Set(ctx, "862", domain.ArtworkPaths{}, 0))
	clock.Advance(365 * 24 * time.Hour)

	_, ok, _ := m.Get(ctx, "862")
	assert.True(t, ok)
}

func TestMemory_Sweep(t *testing.T) {
	ctx := context.Background()
	m, clock := newMemory(10)

	require.NoError(t, m.Set(ctx, "1", domain.ArtworkPaths{}, time.Minute))
	require.NoError(t, m.Set(ctx, "2", domain.ArtworkPaths{}, time.Hour))
	clock.Advance(2 * time.Minute)

	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 0, m.Sweep())
}

func TestMemory_EvictsWhenFull(t *testing.T) {
	ctx := context.Background()
	m, clock := newMemory(2)

	require.NoError(t, m.Set(ctx, "1", domain.ArtworkPaths{}, time.Hour))
	clock.Advance(time.Minute)
	require.NoError(t, m.Set(ctx, "2", domain.ArtworkPaths{}, time.Hour))
	require.NoError(t, m.Set(ctx, "3", domain.ArtworkPaths{}, time.Hour))

	assert.Equal(t, 2, m.Len())
	_, ok, _ := m.Get(ctx, "1")
	assert.False(t, ok, "entry closest to expiry is evicted")
	_, ok, _ = m.Get(ctx, "3")
	assert.True(t, ok)
}

func TestMemory_PrefersExpiredOverLive(t *testing.T) {
	ctx := context.Background()
	m, clock := newMemory(2)

	require.NoError(t, m.Set(ctx, "live", domain.ArtworkPaths{}, 0))
	require.NoError(t, m.Set(ctx, "stale", domain.ArtworkPaths{}, time.Second))
	clock.Advance(time.Minute)
	require.NoError(t, m.Set(ctx, "new", domain.ArtworkPaths{}, time.Hour))

	_, ok, _ := m.Get(ctx, "live")
	assert.True(t, ok)
	_, ok, _ = m.Get(ctx, "new")
	assert.True(t, ok)
}

func TestMemory_OverwriteDoesNotEvict(t *testing.T) {
	ctx := context.Background()
	m, _ := newMemory(1)

	require.NoError(t, m.Set(ctx, "1", domain.ArtworkPaths{}, time.Hour))
	require.NoError(t, m.Set(ctx, "1", domain.NewArtworkPaths("/p.jpg", ""), time.Hour))

	paths, ok, _ := m.Get(ctx, "1")
	require.True(t, ok)
	assert.True(t, paths.HasPoster())
}
