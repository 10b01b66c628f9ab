package analysis

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/taskwave/pkg/cache"
	"github.com/matzehuels/taskwave/pkg/observability"
)

// DefaultCacheCapacity is the number of reports kept in memory when no
// capacity is configured.
const DefaultCacheCapacity = 128

// Cache tier names reported to observability hooks.
const (
	tierMemory = "memory"
	tierStore  = "store"
)

// Cache memoizes reports by graph fingerprint.
//
// The first tier is a bounded in-memory LRU. An optional second tier is a
// byte-oriented [cache.Cache] (file, Redis, MongoDB) consulted after a
// memory miss and written after every computation, so reports survive
// restarts and can be shared between processes.
//
// A single mutex covers lookup, computation and insertion, so concurrent
// callers asking for the same fingerprint compute it once. Entries are only
// written after a computation succeeds; errors are never cached. Reports
// leave the cache as deep copies, so callers may modify them freely.
type Cache struct {
	mu     sync.Mutex
	lru    *lru.Cache[string, *Report]
	store  cache.Cache
	keyer  cache.Keyer
	keyOpt cache.ReportKeyOpts
	ttl    time.Duration
	logger *log.Logger
	hooks  observability.CacheHooks
}

// CacheOptions configures a [Cache].
type CacheOptions struct {
	Capacity int           // LRU capacity (DefaultCacheCapacity when <= 0)
	Store    cache.Cache   // second tier, nil for memory only
	Keyer    cache.Keyer   // second-tier key builder (DefaultKeyer when nil)
	TTL      time.Duration // second-tier TTL (cache.TTLReport when zero)
	Penalty  int           // conflict penalty the cached reports were scored with
	Logger   *log.Logger

	// Hooks receives hit, miss, set and evict events. Nil uses the hooks
	// registered with observability.SetCacheHooks.
	Hooks observability.CacheHooks
}

// NewCache creates a report cache.
func NewCache(opts CacheOptions) (*Cache, error) {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCacheCapacity
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.TTL == 0 {
		opts.TTL = cache.TTLReport
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}

	c := &Cache{
		store:  opts.Store,
		keyer:  opts.Keyer,
		keyOpt: cache.ReportKeyOpts{ConflictPenalty: opts.Penalty},
		ttl:    opts.TTL,
		logger: opts.Logger,
		hooks:  opts.Hooks,
	}
	l, err := lru.NewWithEvict(opts.Capacity, func(fp string, _ *Report) {
		c.logger.Debug("evicted report", "fingerprint", short(fp))
		c.cacheHooks().OnCacheEvict(context.Background(), tierMemory)
	})
	if err != nil {
		return nil, err
	}
	c.lru = l
	return c, nil
}

// GetOrCompute returns the report cached under fingerprint, calling compute
// on a miss. hit reports whether compute was skipped.
func (c *Cache) GetOrCompute(ctx context.Context, fingerprint string, compute func() (*Report, error)) (r *Report, hit bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r, ok := c.lookupLocked(ctx, fingerprint); ok {
		return r.Clone(), true, nil
	}

	r, err = compute()
	if err != nil {
		return nil, false, err
	}
	c.lru.Add(fingerprint, r)
	c.storeLocked(ctx, fingerprint, r)
	return r.Clone(), false, nil
}

// Lookup returns the report cached under fingerprint without computing
// anything. It returns [cache.ErrCacheMiss] when neither tier has it.
func (c *Cache) Lookup(ctx context.Context, fingerprint string) (*Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r, ok := c.lookupLocked(ctx, fingerprint); ok {
		return r.Clone(), nil
	}
	return nil, cache.ErrCacheMiss
}

// Len returns the number of reports held in memory.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Purge drops every in-memory report. The second tier is left untouched.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}

func (c *Cache) lookupLocked(ctx context.Context, fingerprint string) (*Report, bool) {
	if r, ok := c.lru.Get(fingerprint); ok {
		c.cacheHooks().OnCacheHit(ctx, tierMemory)
		return r, true
	}
	c.cacheHooks().OnCacheMiss(ctx, tierMemory)

	if c.store == nil {
		return nil, false
	}
	key := c.keyer.ReportKey(fingerprint, c.keyOpt)
	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("report store read failed", "fingerprint", short(fingerprint), "err", err)
		return nil, false
	}
	if !ok {
		c.cacheHooks().OnCacheMiss(ctx, tierStore)
		return nil, false
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil || r.Fingerprint != fingerprint {
		c.logger.Warn("discarding unreadable stored report", "fingerprint", short(fingerprint))
		_ = c.store.Delete(ctx, key)
		return nil, false
	}
	c.cacheHooks().OnCacheHit(ctx, tierStore)
	c.lru.Add(fingerprint, &r)
	return &r, true
}

func (c *Cache) storeLocked(ctx context.Context, fingerprint string, r *Report) {
	if c.store == nil {
		return
	}
	data, err := json.Marshal(r)
	if err != nil {
		c.logger.Warn("report encode failed", "fingerprint", short(fingerprint), "err", err)
		return
	}
	if err := c.store.Set(ctx, c.keyer.ReportKey(fingerprint, c.keyOpt), data, c.ttl); err != nil {
		c.logger.Warn("report store write failed", "fingerprint", short(fingerprint), "err", err)
		return
	}
	c.cacheHooks().OnCacheSet(ctx, tierStore, len(data))
}

func (c *Cache) cacheHooks() observability.CacheHooks {
	if c.hooks != nil {
		return c.hooks
	}
	return observability.Cache()
}

// short abbreviates a fingerprint for log output.
func short(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
