package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenRepo(t *testing.T) (*TokenRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewTokenRepo(rdb), mr
}

func TestTokenRepo_RevokeUntilExpiry(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTestTokenRepo(t)

	revoked, err := repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
	revoked, err = repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.True(t, mr.Exists("revoked:jti-1"))
	ttl := mr.TTL("revoked:jti-1")
	assert.Greater(t, ttl, 59*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)

	// The entry disappears together with the token it revokes.
	mr.FastForward(time.Hour + time.Second)
	revoked, err = repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenRepo_ExpiredTokenNeedsNoEntry(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTestTokenRepo(t)

	require.NoError(t, repo.Revoke(ctx, "old", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists("revoked:old"))
	revoked, err := repo.IsRevoked(ctx, "old")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenRepo_RedisDown(t *testing.T) {
	repo, mr := newTestTokenRepo(t)
	mr.Close()

	_, err := repo.IsRevoked(context.Background(), "jti-1")
	assert.Error(t, err)
	assert.Error(t, repo.Revoke(context.Background(), "jti-1", time.Now().Add(time.Hour)))
}
