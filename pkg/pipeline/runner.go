package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/qtranspile/pkg/cache"
	"github.com/matzehuels/qtranspile/pkg/observability"
	"github.com/matzehuels/qtranspile/pkg/optimize"
)

// cacheKeyType labels result entries in cache hooks.
const cacheKeyType = "result"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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

// Execute validates opts, serves the result from cache when possible and
// otherwise transpiles and caches it. Every call gets a fresh run ID.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	runID := newRunID()

	res, hit, err := r.execute(ctx, opts)
	elapsed := time.Since(start)
	observability.Pipeline().OnRunComplete(ctx, runID, hit, elapsed, err)
	if err != nil {
		return nil, err
	}

	res.Info = ResultInfo{RunID: runID, CacheHit: hit, Duration: elapsed}
	r.Logger.Info("transpiled",
		"backend", res.Backend,
		"gates", fmt.Sprintf("%d→%d", res.Stats.OriginalGateCount, res.Stats.FinalGateCount),
		"depth", fmt.Sprintf("%d→%d", res.Stats.OriginalDepth, res.Stats.FinalDepth),
		"swaps", res.SwapCount,
		"cached", hit,
		"duration", elapsed)
	return res, nil
}

func (r *Runner) execute(ctx context.Context, opts Options) (*Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}

	key, err := r.Key(opts)
	if err != nil {
		opts.Logger.Debug("cache key unavailable", "error", err)
	}

	if key != "" && !opts.Refresh {
		var cached Result
		switch err := cache.GetJSON(ctx, r.Cache, key, &cached); err {
		case nil:
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			opts.Logger.Debug("cache hit", "key", key)
			return &cached, true, nil
		case cache.ErrCacheMiss:
			observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		default:
			observability.Cache().OnCacheMiss(ctx, cacheKeyType)
			opts.Logger.Debug("cache read failed", "error", err)
		}
	}

	passes, err := optimize.Resolve(opts.Passes)
	if err != nil {
		return nil, false, err
	}
	res, err := New(passes...).TranspileContext(ctx, opts.Source, opts.Backend)
	if err != nil {
		return nil, false, fmt.Errorf("parse: %w", err)
	}
	opts.Logger.Debug("pipeline finished", "stages", len(res.Stages))

	if key != "" {
		if data, err := json.Marshal(res); err == nil {
			if err := r.Cache.Set(ctx, key, data, cache.TTLResult); err != nil {
				opts.Logger.Debug("cache write failed", "error", err)
			} else {
				observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
			}
		}
	}
	return res, false, nil
}

// Key returns the cache key for opts. opts must already be validated.
func (r *Runner) Key(opts Options) (string, error) {
	backendHash, err := cache.HashJSON(opts.Backend)
	if err != nil {
		return "", err
	}
	return r.Keyer.ResultKey(cache.Hash([]byte(opts.Source)), backendHash, opts.Passes), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// newRunID returns a time-ordered UUID, falling back to a random one.
func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
