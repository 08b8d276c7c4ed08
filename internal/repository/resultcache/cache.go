// Package resultcache caches vector search results in a key-value store.
package resultcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/horrordb/internal/db"
	"github.com/kailas-cloud/horrordb/internal/domain/movie"
)

const cacheKeyPrefix = "horrordb:search:"

// Searcher is the wrapped movie search.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]movie.Movie, error)
}

// store is the consumer interface for the result cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedSearcher serves repeated queries from the cache.
type CachedSearcher struct {
	inner      Searcher
	store      store
	index      string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner Searcher,
	s store,
	index string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedSearcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSearcher{
		inner:      inner,
		store:      s,
		index:      index,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Search returns cached movies or calls the inner searcher.
// Failed searches are never cached; empty results are.
func (c *CachedSearcher) Search(ctx context.Context, query string, limit int) ([]movie.Movie, error) {
	key := c.cacheKey(query, limit)

	if movies, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return movies, nil
	}

	c.incCache("miss")

	movies, err := c.inner.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	c.putToCache(ctx, key, movies)
	return movies, nil
}

func (c *CachedSearcher) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedSearcher) cacheKey(query string, limit int) string {
	h := sha256.New()
	h.Write([]byte(c.index))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(limit)))
	h.Write([]byte{0})
	h.Write([]byte(query))
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedSearcher) getFromCache(ctx context.Context, key string) ([]movie.Movie, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached search", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	movies, err := decode(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached search", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return movies, true
}

func (c *CachedSearcher) putToCache(ctx context.Context, key string, movies []movie.Movie) {
	data, err := encode(movies)
	if err != nil {
		c.logger.Warn("Failed to encode search for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache search", zap.String("key", key), zap.Error(err))
	}
}
