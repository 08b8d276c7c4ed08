package search

import (
	"context"

	"github.com/kailas-cloud/horrordb/internal/domain/movie"
)

// Searcher runs a vector search over the movie index.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]movie.Movie, error)
}
