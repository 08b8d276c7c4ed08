package resultcache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/horrordb/internal/domain"
)

func TestSearch_CacheMiss(t *testing.T) {
	inner := &mockSearcher{movies: sampleMovies()}
	cs, ms := newTestCachedSearcher(t, inner)

	var setKey string
	var setTTL time.Duration
	ms.setFn = func(_ context.Context, key string, _ []byte, ttl time.Duration) error {
		setKey, setTTL = key, ttl
		return nil
	}

	movies, err := cs.Search(context.Background(), "possession", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(movies) != 2 || movies[0].Title() != "The Exorcist" {
		t.Fatalf("unexpected movies: %v", movies)
	}
	if !strings.HasPrefix(setKey, cacheKeyPrefix) {
		t.Errorf("unexpected key %q", setKey)
	}
	if setTTL != time.Minute {
		t.Errorf("expected TTL=1m, got %v", setTTL)
	}
}

func TestSearch_CacheHit(t *testing.T) {
	inner := &mockSearcher{movies: sampleMovies()}
	cs := New(inner, memoryKV{}, testIndex, time.Minute, nil, zap.NewNop())
	ctx := context.Background()

	if _, err := cs.Search(ctx, "possession", 3); err != nil {
		t.Fatalf("first search: %v", err)
	}
	movies, err := cs.Search(ctx, "possession", 3)
	if err != nil {
		t.Fatalf("second search: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
	if len(movies) != 2 || movies[1].ReleaseYear() != "1976" || movies[1].ImageURL() != "https://i/omen.jpg" {
		t.Errorf("cached movies differ: %v", movies)
	}
}

func TestSearch_KeyDependsOnLimitAndIndex(t *testing.T) {
	a := New(&mockSearcher{}, memoryKV{}, testIndex, time.Minute, nil, nil)
	b := New(&mockSearcher{}, memoryKV{}, "main.default.other_index", time.Minute, nil, nil)

	if a.cacheKey("q", 3) == a.cacheKey("q", 4) {
		t.Error("limit must be part of the key")
	}
	if a.cacheKey("q", 3) == b.cacheKey("q", 3) {
		t.Error("index must be part of the key")
	}
	if a.cacheKey("q", 3) != a.cacheKey("q", 3) {
		t.Error("key must be stable")
	}
}

func TestSearch_ErrorNotCached(t *testing.T) {
	inner := &mockSearcher{err: domain.ErrWarehouseUnavailable}
	cs, ms := newTestCachedSearcher(t, inner)

	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		t.Error("failed search must not be cached")
		return nil
	}

	_, err := cs.Search(context.Background(), "ghosts", 3)
	if !errors.Is(err, domain.ErrWarehouseUnavailable) {
		t.Fatalf("expected ErrWarehouseUnavailable, got %v", err)
	}
}

func TestSearch_EmptyResultCached(t *testing.T) {
	inner := &mockSearcher{movies: nil}
	kv := memoryKV{}
	cs := New(inner, kv, testIndex, time.Minute, nil, zap.NewNop())
	ctx := context.Background()

	for range 2 {
		movies, err := cs.Search(ctx, "no such thing", 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(movies) != 0 {
			t.Fatalf("expected no movies, got %v", movies)
		}
	}
	if inner.calls != 1 {
		t.Errorf("expected empty result to be served from cache, got %d inner calls", inner.calls)
	}
}

func TestSearch_CacheReadErrorFallsThrough(t *testing.T) {
	inner := &mockSearcher{movies: sampleMovies()}
	cs, ms := newTestCachedSearcher(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("connection refused")
	}
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		return errors.New("connection refused")
	}

	movies, err := cs.Search(context.Background(), "possession", 3)
	if err != nil {
		t.Fatalf("cache failures must not fail the search: %v", err)
	}
	if len(movies) != 2 {
		t.Errorf("expected 2 movies, got %d", len(movies))
	}
}

func TestSearch_CorruptEntryIgnored(t *testing.T) {
	inner := &mockSearcher{movies: sampleMovies()}
	cs, ms := newTestCachedSearcher(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte("{not json"), nil
	}

	if _, err := cs.Search(context.Background(), "possession", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected fallback to inner searcher, got %d calls", inner.calls)
	}
}

func TestSearch_Metrics(t *testing.T) {
	total := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"result"})
	inner := &mockSearcher{movies: sampleMovies()}
	cs := New(inner, memoryKV{}, testIndex, time.Minute, total, zap.NewNop())
	ctx := context.Background()

	_, _ = cs.Search(ctx, "a", 3)
	_, _ = cs.Search(ctx, "a", 3)

	if got := testutil.ToFloat64(total.WithLabelValues("miss")); got != 1 {
		t.Errorf("miss = %v", got)
	}
	if got := testutil.ToFloat64(total.WithLabelValues("hit")); got != 1 {
		t.Errorf("hit = %v", got)
	}
}
