package app

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainiacs/portal/internal/config"
)

func TestOpenRedis(t *testing.T) {
	ctx := context.Background()

	rdb, err := OpenRedis(ctx, config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, rdb)

	mr := miniredis.RunT(t)
	rdb, err = OpenRedis(ctx, config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	require.NotNil(t, rdb)
	assert.NoError(t, rdb.Ping(ctx).Err())
	_ = rdb.Close()

	addr := mr.Addr()
	mr.Close()
	rdb, err = OpenRedis(ctx, config.RedisConfig{Addr: addr})
	assert.Error(t, err)
	assert.Nil(t, rdb)
}
