package movie

import (
	"context"
	"testing"

	"github.com/kailas-cloud/horrordb/internal/db"
)

const testIndex = "ashley_johnson.imdb.horror_movies_vs_index"

// mockWarehouse implements the consumer interface for tests.
type mockWarehouse struct {
	queryFn  func(ctx context.Context, stmt *db.Statement) (*db.Table, error)
	lastStmt *db.Statement
	calls    int
}

func (m *mockWarehouse) Query(ctx context.Context, stmt *db.Statement) (*db.Table, error) {
	m.calls++
	m.lastStmt = stmt
	if m.queryFn != nil {
		return m.queryFn(ctx, stmt)
	}
	return &db.Table{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockWarehouse) {
	t.Helper()
	mw := &mockWarehouse{}
	return New(mw, testIndex), mw
}

func movieTable(rows ...[]any) *db.Table {
	return &db.Table{
		Columns: []string{"title", "release_year", "plot", "wiki_page", "image_url", "search_score"},
		Rows:    rows,
	}
}
