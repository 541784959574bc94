package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlot/inventory-api/internal/core/domain"
	"github.com/carlot/inventory-api/internal/core/ports"
)

var _ ports.IdentityCache = (*IdentityCache)(nil)

func newTestCache(t *testing.T, ttl time.Duration) (*IdentityCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewIdentityCache(client, ttl), mr
}

func TestIdentityCache_SetGetStripsHash(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t, time.Minute)

	user := &domain.User{ID: 3, Username: "alice", Email: "alice@example.com", PasswordHash: "$2a$10$secret", Role: domain.RoleAdmin, IsActive: true}
	require.NoError(t, cache.Set(ctx, user, 0))

	raw, err := mr.Get("identity:alice")
	require.NoError(t, err)
	assert.NotContains(t, raw, "secret")

	got, version, err := cache.Get(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Zero(t, version)
	assert.Equal(t, int64(3), got.ID)
	assert.Equal(t, domain.RoleAdmin, got.Role)
	assert.Empty(t, got.PasswordHash)
}

func TestIdentityCache_MissAndExpiry(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t, 30*time.Second)

	got, _, err := cache.Get(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, cache.Set(ctx, &domain.User{Username: "bob", Role: domain.RoleBuyer}, 0))
	mr.FastForward(31 * time.Second)

	got, _, err = cache.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIdentityCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t, 0)

	require.NoError(t, cache.Set(ctx, &domain.User{Username: "a"}, 0))
	require.NoError(t, cache.Set(ctx, &domain.User{Username: "b"}, 0))
	assert.Equal(t, defaultIdentityTTL, mr.TTL("identity:a"))

	require.NoError(t, cache.Invalidate(ctx, "a", "b", "missing"))
	require.NoError(t, cache.Invalidate(ctx))

	assert.False(t, mr.Exists("identity:a"))
	assert.False(t, mr.Exists("identity:b"))

	_, version, err := cache.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	assert.Equal(t, versionTTL, mr.TTL("identity_version:a"))
}

func TestIdentityCache_SetAfterInvalidateIsDropped(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t, time.Minute)

	// A resolver reads the version and then the store, while an update to the
	// same identity invalidates in between.
	_, version, err := cache.Get(ctx, "carol")
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(ctx, "carol"))

	stale := &domain.User{Username: "carol", Role: domain.RoleAdmin, IsActive: true}
	require.NoError(t, cache.Set(ctx, stale, version))
	assert.False(t, mr.Exists("identity:carol"))

	got, next, err := cache.Get(ctx, "carol")
	require.NoError(t, err)
	assert.Nil(t, got)

	fresh := &domain.User{Username: "carol", Role: domain.RoleBuyer, IsActive: false}
	require.NoError(t, cache.Set(ctx, fresh, next))
	got, _, err = cache.Get(ctx, "carol")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.RoleBuyer, got.Role)
	assert.False(t, got.IsActive)
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	require.Error(t, err)
}
