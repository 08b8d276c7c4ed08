package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/kailas-cloud/horrordb/internal/domain"
	"github.com/kailas-cloud/horrordb/internal/domain/movie"
	"github.com/kailas-cloud/horrordb/internal/domain/search/request"
)

// Service runs movie searches with a bounded number of concurrent warehouse queries.
type Service struct {
	repo         Searcher
	limits       request.Limits
	sem          *semaphore.Weighted
	queueTimeout time.Duration
}

// New creates a search service.
// maxConcurrent caps in-flight warehouse queries; queueTimeout bounds the wait for a free slot.
func New(repo Searcher, limits request.Limits, maxConcurrent int, queueTimeout time.Duration) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Service{
		repo:         repo,
		limits:       limits,
		sem:          semaphore.NewWeighted(int64(maxConcurrent)),
		queueTimeout: queueTimeout,
	}
}

// Limits returns the bounds requests are validated against.
func (s *Service) Limits() request.Limits { return s.limits }

// Search executes req and returns at most req.Limit() movies.
func (s *Service) Search(ctx context.Context, req *request.Request) ([]movie.Movie, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	if domain.CorrelationID(ctx) == "" {
		ctx = domain.WithCorrelationID(ctx, uuid.NewString())
	}

	movies, err := s.repo.Search(ctx, req.Query(), req.Limit())
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}

	if len(movies) > req.Limit() {
		movies = movies[:req.Limit()]
	}
	return movies, nil
}

func (s *Service) acquire(ctx context.Context) error {
	waitCtx := ctx
	if s.queueTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, s.queueTimeout)
		defer cancel()
	}

	if err := s.sem.Acquire(waitCtx, 1); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("wait for warehouse slot: %w", ctxErr)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: no warehouse slot free within %s", domain.ErrRateLimited, s.queueTimeout)
		}
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
	}
	return nil
}
