package horrordb

import "github.com/kailas-cloud/horrordb/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery         = domain.ErrInvalidQuery
	ErrRateLimited          = domain.ErrRateLimited
	ErrWarehouseUnavailable = domain.ErrWarehouseUnavailable
	ErrMalformedResult      = domain.ErrMalformedResult
)
