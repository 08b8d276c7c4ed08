package movie

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/kailas-cloud/horrordb/internal/db"
	"github.com/kailas-cloud/horrordb/internal/domain"
	dommovie "github.com/kailas-cloud/horrordb/internal/domain/movie"
)

// querier is the consumer interface for warehouse access (ISP).
type querier interface {
	Query(ctx context.Context, stmt *db.Statement) (*db.Table, error)
}

// Repo runs vector searches over a movie index and maps rows to movies.
type Repo struct {
	warehouse querier
	index     string
}

// New creates a movie repository over the given vector search index.
func New(q querier, index string) *Repo {
	return &Repo{warehouse: q, index: index}
}

// Index returns the vector search index name.
func (r *Repo) Index() string { return r.index }

// Search asks the index for at most limit movies similar to query.
func (r *Repo) Search(ctx context.Context, query string, limit int) ([]dommovie.Movie, error) {
	stmt, err := db.NewVectorSearch(r.index).
		Query(query).
		NumResults(limit).
		Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}

	table, err := r.warehouse.Query(ctx, stmt)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			// the caller went away, not the warehouse
			return nil, fmt.Errorf("vector search %s: %w", r.index, context.Canceled)
		}
		return nil, fmt.Errorf("vector search %s: %w: %w", r.index, domain.ErrWarehouseUnavailable, err)
	}

	movies, err := toMovies(table)
	if err != nil {
		return nil, fmt.Errorf("vector search %s: %w", r.index, err)
	}
	if len(movies) > limit {
		movies = movies[:limit]
	}
	return movies, nil
}

// toMovies converts a result table into movies. Columns beyond the movie fields are ignored.
// An empty table is valid even when its columns are missing.
func toMovies(table *db.Table) ([]dommovie.Movie, error) {
	if table.Len() == 0 {
		return []dommovie.Movie{}, nil
	}

	idx := make(map[string]int, len(dommovie.Columns))
	for _, col := range dommovie.Columns {
		i := table.ColumnIndex(col)
		if i < 0 {
			return nil, domain.NewMissingColumn(col)
		}
		idx[col] = i
	}

	movies := make([]dommovie.Movie, 0, table.Len())
	for _, row := range table.Rows {
		movies = append(movies, dommovie.New(
			cellText(row, idx[dommovie.ColumnTitle]),
			cellText(row, idx[dommovie.ColumnReleaseYear]),
			cellText(row, idx[dommovie.ColumnWikiPage]),
			cellText(row, idx[dommovie.ColumnImageURL]),
		))
	}
	return movies, nil
}

func cellText(row []any, i int) string {
	if i >= len(row) {
		return ""
	}
	return formatValue(row[i])
}

// formatValue renders a warehouse cell as display text.
// Whole floats drop their fraction so a DOUBLE release year shows as 1973, not 1973.0.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int:
		return strconv.Itoa(x)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float32:
		return formatFloat(float64(x))
	case float64:
		return formatFloat(x)
	case time.Time:
		return strconv.Itoa(x.Year())
	default:
		return fmt.Sprint(x)
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
