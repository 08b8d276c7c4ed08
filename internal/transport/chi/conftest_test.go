package chi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/horrordb/internal/asset"
	"github.com/kailas-cloud/horrordb/internal/domain/movie"
	"github.com/kailas-cloud/horrordb/internal/domain/search/request"
	healthuc "github.com/kailas-cloud/horrordb/internal/usecase/health"
	searchuc "github.com/kailas-cloud/horrordb/internal/usecase/search"
)

const testDefaultQuery = "movies like The Exorcist"

var testLimits = request.Limits{MaxResults: 3, MaxQueryLength: 64}

// mockSearcher implements searchuc.Searcher for tests.
type mockSearcher struct {
	searchFn  func(ctx context.Context, query string, limit int) ([]movie.Movie, error)
	lastQuery string
	lastLimit int
}

func (m *mockSearcher) Search(ctx context.Context, query string, limit int) ([]movie.Movie, error) {
	m.lastQuery, m.lastLimit = query, limit
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return nil, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type testEnv struct {
	repo      *mockSearcher
	warehouse *mockPinger
	cache     *mockPinger
	files     fstest.MapFS
	router    chi.Router
}

func newTestEnv(t *testing.T, opts RouteOptions) *testEnv {
	t.Helper()
	env := &testEnv{
		repo:      &mockSearcher{},
		warehouse: &mockPinger{},
		cache:     &mockPinger{},
		files:     fstest.MapFS{},
	}
	searchSvc := searchuc.New(env.repo, testLimits, 2, time.Second)
	healthSvc := healthuc.New(env.warehouse, env.cache)
	header := asset.NewLoader(env.files, "pic.jpg", 30*time.Second)

	srv := NewServer(searchSvc, healthSvc, header, PageOptions{
		Title:        "The horror!!!",
		DefaultQuery: testDefaultQuery,
	}, zap.NewNop())

	r := chi.NewRouter()
	srv.Routes(r, opts)
	env.router = r
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, http.NoBody))
}

func (e *testEnv) returns(movies ...movie.Movie) {
	e.repo.searchFn = func(_ context.Context, _ string, _ int) ([]movie.Movie, error) {
		return movies, nil
	}
}

func (e *testEnv) fails(err error) {
	e.repo.searchFn = func(_ context.Context, _ string, _ int) ([]movie.Movie, error) {
		return nil, err
	}
}

func horrorMovie(title string) movie.Movie {
	return movie.New(title, "1980", "https://en.wikipedia.org/wiki/"+title, "https://img.example/"+title+".jpg")
}

var errDriver = errors.New("HTTP 403: invalid access token")
