package cache

import (
	"context"
	"time"
)

// NullCache stores nothing: every Get misses. It is the backend when
// caching is switched off.
type NullCache struct{}

// NewNullCache returns a NullCache.
func NewNullCache() *NullCache {
	return &NullCache{}
}

func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*NullCache) Delete(context.Context, string) error { return nil }

func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
