package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache: miss")

// Cache stores opaque byte payloads with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
	Close() error
}

// NoopCache never stores anything. Used when Redis is disabled.
type NoopCache struct{}

func NewNoopCache() Cache { return NoopCache{} }

func (NoopCache) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }

func (NoopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NoopCache) Delete(context.Context, ...string) error { return nil }

func (NoopCache) DeletePrefix(context.Context, string) error { return nil }

func (NoopCache) Close() error { return nil }
