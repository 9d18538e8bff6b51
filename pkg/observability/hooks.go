// Package observability provides hooks for metrics, tracing, and logging.
//
// Instrumentation is optional and carries no backend dependency. The
// pipeline, the cache layer and the HTTP server call the registered hooks;
// main registers implementations at startup.
//
// # Usage
//
// Register hooks at application startup:
//
//	observability.NewLogHooks(logger).Install()
//	defer observability.Reset()
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	d, err := codec.Decode(token)
//	observability.Pipeline().OnDecode(ctx, token, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives token and artifact events from the pipeline.
type PipelineHooks interface {
	OnEncode(ctx context.Context, token string, duration time.Duration, err error)
	OnDecode(ctx context.Context, token string, duration time.Duration, err error)
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. keyType is "descriptor" or
// "artifact". OnCacheError reports a backend failure the caller has already
// worked around.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
	OnCacheError(ctx context.Context, keyType string, err error)
}

// HTTPHooks receives events from the HTTP server. OnRequest fires before
// routing and sees the raw path; OnResponse and OnError see the matched
// route pattern, so tokens never become label values.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, route string, err error)
}

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnEncode(context.Context, string, time.Duration, error)              {}
func (NoopPipelineHooks) OnDecode(context.Context, string, time.Duration, error)              {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)          {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)         {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int)     {}
func (NoopCacheHooks) OnCacheError(context.Context, string, error) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

var reg struct {
	sync.RWMutex
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

func init() { Reset() }

// SetPipelineHooks installs h. Call it at startup; nil is ignored.
func SetPipelineHooks(h PipelineHooks) { set(&reg.pipeline, h) }

// SetCacheHooks installs h. Call it at startup; nil is ignored.
func SetCacheHooks(h CacheHooks) { set(&reg.cache, h) }

// SetHTTPHooks installs h. Call it at startup; nil is ignored.
func SetHTTPHooks(h HTTPHooks) { set(&reg.http, h) }

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return get(&reg.pipeline) }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return get(&reg.cache) }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return get(&reg.http) }

// Reset puts the no-op hooks back. Tests defer it after installing their own.
func Reset() {
	reg.Lock()
	defer reg.Unlock()
	reg.pipeline = NoopPipelineHooks{}
	reg.cache = NoopCacheHooks{}
	reg.http = NoopHTTPHooks{}
}

func set[T any](slot *T, h T) {
	if any(h) == nil {
		return
	}
	reg.Lock()
	defer reg.Unlock()
	*slot = h
}

func get[T any](slot *T) T {
	reg.RLock()
	defer reg.RUnlock()
	return *slot
}
