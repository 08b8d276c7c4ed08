package resultcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/horrordb/internal/db"
	"github.com/kailas-cloud/horrordb/internal/domain/movie"
)

const testIndex = "ashley_johnson.imdb.horror_movies_vs_index"

type mockSearcher struct {
	movies []movie.Movie
	err    error
	calls  int
}

func (m *mockSearcher) Search(_ context.Context, _ string, _ int) ([]movie.Movie, error) {
	m.calls++
	return m.movies, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

// memoryKV is a map-backed store for round-trip tests.
type memoryKV map[string][]byte

func (m memoryKV) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m memoryKV) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	m[key] = value
	return nil
}

func newTestCachedSearcher(t *testing.T, inner *mockSearcher) (*CachedSearcher, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	return New(inner, ms, testIndex, time.Minute, nil, zap.NewNop()), ms
}

func sampleMovies() []movie.Movie {
	return []movie.Movie{
		movie.New("The Exorcist", "1973", "https://w/exorcist", "https://i/exorcist.jpg"),
		movie.New("The Omen", "1976", "https://w/omen", "https://i/omen.jpg"),
	}
}
