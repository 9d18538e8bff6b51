package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// LoadJSON reads key and decodes it into v. It returns ErrCacheMiss when
// the key is absent. A stored value that no longer decodes is deleted and
// reported as a miss.
func LoadJSON(ctx context.Context, c Cache, key string, v any) error {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.Delete(ctx, key)
		return ErrCacheMiss
	}
	return nil
}

// StoreJSON encodes v and stores it under key.
func StoreJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return c.Set(ctx, key, data, ttl)
}
