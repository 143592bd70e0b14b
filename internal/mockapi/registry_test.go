package mockapi

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRegistry(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()
	now := time.Now()
	reg.now = func() time.Time { return now }

	require.NoError(t, reg.Register(ctx, "jti-1", "501", time.Minute))
	active, err := reg.Active(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, active)

	now = now.Add(2 * time.Minute)
	active, err = reg.Active(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, active, "expired entries are gone")

	require.NoError(t, reg.Register(ctx, "jti-2", "501", time.Minute))
	require.NoError(t, reg.Revoke(ctx, "jti-2"))
	active, _ = reg.Active(ctx, "jti-2")
	assert.False(t, active)
}

func TestRedisRegistry(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	reg := NewRedisRegistry(rdb)

	require.NoError(t, reg.Register(ctx, "jti-1", "501", time.Hour))
	assert.True(t, mr.Exists(SessionKey("jti-1")))
	got, err := mr.Get(SessionKey("jti-1"))
	require.NoError(t, err)
	assert.Equal(t, "501", got)
	assert.Equal(t, time.Hour, mr.TTL(SessionKey("jti-1")))

	active, err := reg.Active(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, active)

	mr.FastForward(time.Hour + time.Second)
	active, err = reg.Active(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, reg.Register(ctx, "jti-2", "w-1", time.Hour))
	require.NoError(t, reg.Revoke(ctx, "jti-2"))
	active, err = reg.Active(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestRedisRegistryUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	reg := NewRedisRegistry(rdb)

	mr.SetError("LOADING")
	_, err := reg.Active(context.Background(), "jti")
	assert.Error(t, err)
}

func TestOpenRegistry(t *testing.T) {
	ctx := context.Background()

	reg, closeFn, err := OpenRegistry(ctx, "", zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryRegistry{}, reg)
	assert.NoError(t, closeFn())

	mr := miniredis.RunT(t)
	reg, closeFn, err = OpenRegistry(ctx, "redis://"+mr.Addr()+"/0", zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &RedisRegistry{}, reg)
	assert.NoError(t, closeFn())

	_, _, err = OpenRegistry(ctx, "not a url", zerolog.Nop())
	assert.Error(t, err)
}
