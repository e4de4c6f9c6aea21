package cache

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNoopCache(t *testing.T) {
	c := NewNoopCache()
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.DeletePrefix(ctx, "report:"))
	assert.NoError(t, c.Close())
}

func TestRedisCache_Key(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"})
	defer rdb.Close()

	c := newRedisCache(rdb, "ems", zap.NewNop())
	assert.Equal(t, "ems:report:monthly:2024-03", c.key("report:monthly:2024-03"))

	c = newRedisCache(rdb, "", zap.NewNop())
	assert.Equal(t, "report:yearly:2024", c.key("report:yearly:2024"))
}

func TestRedisCache_SetSkipsNonPositiveTTL(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"})
	defer rdb.Close()

	c := newRedisCache(rdb, "ems", zap.NewNop())
	// No server is reachable, so a round trip would fail.
	assert.NoError(t, c.Set(context.Background(), "k", []byte("v"), 0))
	assert.NoError(t, c.Delete(context.Background()))
}
