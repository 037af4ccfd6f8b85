package fuzzy

import (
	"time"

	"github.com/bastiangx/typeahead/pkg/vocab"
	"github.com/charmbracelet/log"
)

// Engine binds an index to default query bounds and a result cache.
// It is not safe for concurrent use; each session owns its engine.
type Engine struct {
	index      *vocab.Index
	maxCost    int
	limit      int
	prefixOnly bool
	cacheSize  int
	cache      *resultCache
	logger     *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxCost sets the default edit cost ceiling.
func WithMaxCost(n int) Option {
	return func(e *Engine) { e.maxCost = n }
}

// WithLimit sets the default result cap.
func WithLimit(n int) Option {
	return func(e *Engine) { e.limit = n }
}

// WithPrefixOnly disables fuzzy scoring and only returns exact continuations.
func WithPrefixOnly(on bool) Option {
	return func(e *Engine) { e.prefixOnly = on }
}

// WithCacheSize sets the number of memoized fragments. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(e *Engine) { e.cacheSize = n }
}

// WithLogger routes debug timings to l.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine returns an engine over ix. It fails with vocab.ErrEmptyVocabulary
// when ix is nil or empty.
func NewEngine(ix *vocab.Index, opts ...Option) (*Engine, error) {
	if ix.Len() == 0 {
		return nil, vocab.ErrEmptyVocabulary
	}
	e := &Engine{
		index:     ix,
		maxCost:   DefaultMaxCost,
		limit:     DefaultLimit,
		cacheSize: 256,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cacheSize > 0 {
		c, err := newResultCache(e.cacheSize)
		if err != nil {
			return nil, err
		}
		e.cache = c
	}
	return e, nil
}

// Index returns the index the engine searches.
func (e *Engine) Index() *vocab.Index {
	return e.index
}

// Search runs q, filling unset bounds from the engine defaults.
// The returned slice is owned by the caller.
func (e *Engine) Search(q Query) []Candidate {
	if q.MaxCost < 0 {
		q.MaxCost = e.maxCost
	}
	if q.Limit <= 0 {
		q.Limit = e.limit
	}
	q.Fragment = vocab.Normalize(q.Fragment)
	if q.Fragment == "" {
		return nil
	}

	var key string
	if e.cache != nil {
		key = cacheKey(q, e.prefixOnly)
		if hit, ok := e.cache.get(key); ok {
			return hit
		}
	}

	start := time.Now()
	var out []Candidate
	if e.prefixOnly {
		out = SearchPrefix(e.index, q)
	} else {
		out = Search(e.index, q)
	}
	e.logger.Debug("search", "fragment", q.Fragment, "results", len(out), "took", time.Since(start))

	if e.cache != nil {
		e.cache.put(key, out)
	}
	return out
}

// Stats returns counters about the index and cache.
func (e *Engine) Stats() map[string]int {
	stats := map[string]int{
		"totalWords": e.index.Len(),
		"maxCost":    e.maxCost,
		"limit":      e.limit,
	}
	if e.cache != nil {
		for k, v := range e.cache.stats() {
			stats[k] = v
		}
	}
	return stats
}
