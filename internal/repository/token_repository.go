package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRepo keeps a denylist of revoked access token ids in Redis.  Each
// entry expires together with the token it revokes, so the list never
// outgrows the set of still-valid tokens.
type TokenRepo struct {
	RDB    *redis.Client
	Prefix string
}

func NewTokenRepo(rdb *redis.Client) *TokenRepo { return &TokenRepo{RDB: rdb, Prefix: "revoked"} }

func (r *TokenRepo) key(jti string) string { return r.Prefix + ":" + jti }

// Revoke marks a token id as revoked until exp.  Tokens that already
// expired need no entry.
func (r *TokenRepo) Revoke(ctx context.Context, jti string, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil
	}
	return r.RDB.Set(ctx, r.key(jti), 1, ttl).Err()
}

// IsRevoked reports whether the token id is on the denylist.
func (r *TokenRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.RDB.Exists(ctx, r.key(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
