package analysis

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/taskwave/pkg/cache"
	"github.com/matzehuels/taskwave/pkg/dag"
	"github.com/matzehuels/taskwave/pkg/observability"
)

// Options configures an [Analyzer].
type Options struct {
	// ConflictPenalty is subtracted from the score per resource conflict.
	// Zero selects DefaultConflictPenalty; use a negative value to disable
	// the penalty.
	ConflictPenalty int

	// CacheCapacity bounds the in-memory report cache.
	CacheCapacity int

	// Store is an optional second-tier report store.
	Store cache.Cache

	// Keyer builds second-tier keys. Defaults to cache.DefaultKeyer.
	Keyer cache.Keyer

	// StoreTTL is the expiration of second-tier entries.
	StoreTTL time.Duration

	// Logger receives debug output. Defaults to a discarding logger.
	Logger *log.Logger

	// AnalysisHooks and CacheHooks receive analysis and cache events. Nil
	// uses the hooks registered with the observability package.
	AnalysisHooks observability.AnalysisHooks
	CacheHooks    observability.CacheHooks
}

// Analyzer runs analyses through a shared report cache. It is safe for
// concurrent use.
type Analyzer struct {
	penalty int
	cache   *Cache
	logger  *log.Logger
	hooks   observability.AnalysisHooks
}

// New creates an Analyzer.
func New(opts Options) (*Analyzer, error) {
	penalty := opts.ConflictPenalty
	switch {
	case penalty == 0:
		penalty = DefaultConflictPenalty
	case penalty < 0:
		penalty = 0
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}

	c, err := NewCache(CacheOptions{
		Capacity: opts.CacheCapacity,
		Store:    opts.Store,
		Keyer:    opts.Keyer,
		TTL:      opts.StoreTTL,
		Penalty:  penalty,
		Logger:   opts.Logger,
		Hooks:    opts.CacheHooks,
	})
	if err != nil {
		return nil, err
	}
	return &Analyzer{penalty: penalty, cache: c, logger: opts.Logger, hooks: opts.AnalysisHooks}, nil
}

// Penalty returns the conflict penalty reports are scored with.
func (a *Analyzer) Penalty() int { return a.penalty }

// Cache returns the analyzer's report cache.
func (a *Analyzer) Cache() *Cache { return a.cache }

// Analyze returns the report for a task set, serving it from cache when an
// identical graph was analyzed before.
//
// Errors from [Run] are returned unchanged and never cached.
func (a *Analyzer) Analyze(ctx context.Context, tasks []dag.Task, deps []dag.Dependency) (*Report, error) {
	r, _, err := a.AnalyzeCached(ctx, tasks, deps)
	return r, err
}

// AnalyzeCached is like [Analyzer.Analyze] and also reports whether the
// report came from cache.
func (a *Analyzer) AnalyzeCached(ctx context.Context, tasks []dag.Task, deps []dag.Dependency) (*Report, bool, error) {
	start := time.Now()
	a.analysisHooks().OnAnalyzeStart(ctx, len(tasks), len(deps))

	fp := Fingerprint(tasks, deps)
	r, hit, err := a.cache.GetOrCompute(ctx, fp, func() (*Report, error) {
		return Run(tasks, deps, a.penalty)
	})
	elapsed := time.Since(start)
	a.analysisHooks().OnAnalyzeComplete(ctx, fp, elapsed, err)
	if err != nil {
		return nil, false, err
	}

	a.logger.Debug("analyzed task graph",
		"fingerprint", short(fp),
		"tasks", len(tasks),
		"cached", hit,
		"score", r.Score,
		"duration", elapsed)
	return r, hit, nil
}

// Report returns a previously computed report by fingerprint, or
// [cache.ErrCacheMiss].
func (a *Analyzer) Report(ctx context.Context, fingerprint string) (*Report, error) {
	return a.cache.Lookup(ctx, fingerprint)
}

func (a *Analyzer) analysisHooks() observability.AnalysisHooks {
	if a.hooks != nil {
		return a.hooks
	}
	return observability.Analysis()
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
