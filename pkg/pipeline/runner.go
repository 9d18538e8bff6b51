package pipeline

import (
	"cmp"
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stylekey/pkg/cache"
	"github.com/matzehuels/stylekey/pkg/codec"
	"github.com/matzehuels/stylekey/pkg/observability"
	"github.com/matzehuels/stylekey/pkg/symbology"
)

// Runner executes pipeline stages with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL bounds cached artifacts. Zero means cache.ArtifactTTL.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Create parses labels into a descriptor and encodes its token. The decoded
// form is stored so the first Resolve of a fresh token is a cache hit.
func (r *Runner) Create(ctx context.Context, labels symbology.Labels) (Created, error) {
	start := time.Now()
	d, err := symbology.FromLabels(labels)
	if err != nil {
		observability.Pipeline().OnEncode(ctx, "", time.Since(start), err)
		return Created{}, err
	}
	token, err := codec.Encode(d)
	observability.Pipeline().OnEncode(ctx, token, time.Since(start), err)
	if err != nil {
		return Created{}, err
	}

	r.store(ctx, "descriptor", r.Keyer.DescriptorKey(token), d, cache.DescriptorTTL)
	r.Logger.Info("symbology created", "token", token, "descriptor", d)
	return Created{Token: token, Descriptor: d}, nil
}

// Resolve decodes token, consulting the cache first. The bool reports a
// cache hit.
func (r *Runner) Resolve(ctx context.Context, token string) (symbology.Descriptor, bool, error) {
	key := r.Keyer.DescriptorKey(token)

	var d symbology.Descriptor
	if r.load(ctx, "descriptor", key, &d) {
		return d, true, nil
	}

	start := time.Now()
	d, err := codec.Decode(token)
	observability.Pipeline().OnDecode(ctx, token, time.Since(start), err)
	if err != nil {
		r.Logger.Debug("rejected token", "token", token, "err", err)
		return symbology.Descriptor{}, false, err
	}
	r.store(ctx, "descriptor", key, d, cache.DescriptorTTL)
	return d, false, nil
}

// Artifact renders one output of token, serving it from the cache when
// possible.
func (r *Runner) Artifact(ctx context.Context, token string, opts Options) (*Artifact, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	d, _, err := r.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	art := &Artifact{
		Token:       token,
		Format:      opts.Format,
		ContentType: ContentType(opts.Format),
	}
	key := r.Keyer.ArtifactKey(token, opts.ArtifactKeyOpts())

	if !opts.Refresh {
		if data, ok := r.get(ctx, "artifact", key); ok {
			art.Data, art.CacheHit = data, true
			return art, nil
		}
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Format)
	data, err := Build(token, d, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Format, len(data), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("rendered artifact", "token", token, "format", opts.Format, "bytes", len(data), "duration", time.Since(start))

	if err := r.Cache.Set(ctx, key, data, cmp.Or(r.TTL, cache.ArtifactTTL)); err != nil {
		observability.Cache().OnCacheError(ctx, "artifact", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	art.Data = data
	return art, nil
}

// Artifacts renders several formats of token concurrently. base supplies
// the shared options; its Format is ignored. Results are in the order of
// formats. The first failure cancels the rest.
func (r *Runner) Artifacts(ctx context.Context, token string, formats []string, base Options) ([]*Artifact, error) {
	// Resolve once up front so a bad token fails before any rendering.
	if _, _, err := r.Resolve(ctx, token); err != nil {
		return nil, err
	}

	out := make([]*Artifact, len(formats))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, format := range formats {
		opts := base
		opts.Format = format
		g.Go(func() error {
			art, err := r.Artifact(gctx, token, opts)
			if err != nil {
				return err
			}
			out[i] = art
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// get reads a raw entry. Backend errors are reported and treated as misses.
func (r *Runner) get(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	switch {
	case err != nil:
		observability.Cache().OnCacheError(ctx, keyType, err)
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
		return nil, false
	case !hit:
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) load(ctx context.Context, keyType, key string, v any) bool {
	err := cache.LoadJSON(ctx, r.Cache, key, v)
	switch {
	case err == nil:
		observability.Cache().OnCacheHit(ctx, keyType)
		return true
	case err == cache.ErrCacheMiss:
		observability.Cache().OnCacheMiss(ctx, keyType)
	default:
		observability.Cache().OnCacheError(ctx, keyType, err)
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
	}
	return false
}

func (r *Runner) store(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	if err := cache.StoreJSON(ctx, r.Cache, key, v, ttl); err != nil {
		observability.Cache().OnCacheError(ctx, keyType, err)
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, 0)
}
