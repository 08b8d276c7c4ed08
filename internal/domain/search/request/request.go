package request

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/horrordb/internal/domain"
)

// Limits bounds what a request may ask for.
type Limits struct {
	// MaxResults is the configured num_results cap. A request never exceeds it.
	MaxResults int
	// MaxQueryLength is the maximum query length in characters.
	MaxQueryLength int
}

// Request is a validated search query.
type Request struct {
	query string
	limit int
}

// New validates and normalizes search parameters.
// The query is trimmed and must be non-empty valid UTF-8 within MaxQueryLength characters.
// limit <= 0 or above MaxResults is clamped to MaxResults.
func New(query string, limit int, l Limits) (Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, fmt.Errorf("%w: query is required", domain.ErrInvalidQuery)
	}
	if !utf8.ValidString(query) {
		return Request{}, fmt.Errorf("%w: query is not valid UTF-8", domain.ErrInvalidQuery)
	}
	if strings.ContainsRune(query, 0) {
		return Request{}, fmt.Errorf("%w: query contains a NUL character", domain.ErrInvalidQuery)
	}
	if l.MaxQueryLength > 0 && utf8.RuneCountInString(query) > l.MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidQuery, l.MaxQueryLength)
	}
	if limit <= 0 || limit > l.MaxResults {
		limit = l.MaxResults
	}
	if limit <= 0 {
		return Request{}, fmt.Errorf("%w: result cap must be positive", domain.ErrInvalidQuery)
	}

	return Request{query: query, limit: limit}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// Limit returns the maximum number of movies to return.
func (r *Request) Limit() int { return r.limit }
