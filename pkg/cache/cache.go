// Package cache stores decoded descriptors and generated artifacts between
// requests.
//
// Tokens are self-describing, so nothing here is needed for correctness: a
// miss only means the work is done again. Backends:
//   - [NullCache]: stores nothing (the default)
//   - [MemoryCache]: process-local map, for a single server instance
//   - [FileCache]: JSON files on disk, for the CLI
//   - [RedisCache]: shared storage for multi-instance deployments
//
// Keys come from a [Keyer] so that backends never interpret them.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero keeps the entry until it
	// is deleted or cleared.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry at once.
// Clear returns the number of entries removed.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// Default lifetimes.
const (
	// DescriptorTTL bounds memoized token decodes.
	DescriptorTTL = 24 * time.Hour

	// ArtifactTTL bounds rendered SLD/CSS/PNG/PDF output.
	ArtifactTTL = 7 * 24 * time.Hour
)

// Backend names a cache implementation.
type Backend string

const (
	BackendNone   Backend = "none"
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendRedis  Backend = "redis"
)

// Options selects and configures a backend for [Open].
type Options struct {
	Backend Backend
	Dir     string // file backend
	Redis   RedisOptions
}

// Open builds the backend named by opts.Backend. An empty backend means
// [BackendNone].
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendMemory:
		return NewMemoryCache(), nil
	case BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("file cache: directory not set")
		}
		fc, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	case BackendRedis:
		rc, err := NewRedisCache(ctx, opts.Redis)
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q (want none, memory, file or redis)", opts.Backend)
	}
}
