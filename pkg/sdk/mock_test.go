package horrordb

import (
	"context"

	"github.com/kailas-cloud/horrordb/internal/domain/movie"
	"github.com/kailas-cloud/horrordb/internal/domain/search/request"
	healthuc "github.com/kailas-cloud/horrordb/internal/usecase/health"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	limits   request.Limits
	searchFn func(ctx context.Context, req *request.Request) ([]movie.Movie, error)
}

func (m *mockSearchUC) Search(ctx context.Context, req *request.Request) ([]movie.Movie, error) {
	return m.searchFn(ctx, req)
}

func (m *mockSearchUC) Limits() request.Limits { return m.limits }

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(searchSvc searchUseCase, healthSvc healthUseCase) *Client {
	return &Client{searchSvc: searchSvc, healthSvc: healthSvc}
}

func defaultLimits() request.Limits {
	return request.Limits{MaxResults: 3, MaxQueryLength: 64}
}
