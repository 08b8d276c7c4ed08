package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/horrordb/internal/domain"
)

// ErrorCode is a machine-readable error code in JSON error responses.
type ErrorCode string

// Error codes returned by the JSON API.
const (
	ErrorCodeBadRequest           ErrorCode = "bad_request"
	ErrorCodeUnauthorized         ErrorCode = "unauthorized"
	ErrorCodeInvalidQuery         ErrorCode = "invalid_query"
	ErrorCodeRateLimited          ErrorCode = "rate_limited"
	ErrorCodeWarehouseUnavailable ErrorCode = "warehouse_unavailable"
	ErrorCodeMalformedResult      ErrorCode = "malformed_result"
	ErrorCodeNotFound             ErrorCode = "not_found"
	ErrorCodeInternalError        ErrorCode = "internal_error"
	ErrorCodeClientClosedRequest  ErrorCode = "client_closed_request"
)

// statusClientClosedRequest is the nginx convention for a request the client abandoned.
const statusClientClosedRequest = 499

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorMapping maps a domain sentinel to an HTTP status and code.
type errorMapping struct {
	sentinel error
	status   int
	code     ErrorCode
}

var errorMappings = []errorMapping{
	{domain.ErrInvalidQuery, http.StatusBadRequest, ErrorCodeInvalidQuery},
	{domain.ErrRateLimited, http.StatusTooManyRequests, ErrorCodeRateLimited},
	{domain.ErrMalformedResult, http.StatusBadGateway, ErrorCodeMalformedResult},
	{domain.ErrWarehouseUnavailable, http.StatusBadGateway, ErrorCodeWarehouseUnavailable},
	{context.Canceled, statusClientClosedRequest, ErrorCodeClientClosedRequest},
}

// classify returns the status, code and client-safe message for err.
// Unknown errors map to 500 without exposing internals.
func classify(err error) (int, ErrorCode, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.sentinel) {
			return m.status, m.code, m.sentinel.Error()
		}
	}
	return http.StatusInternalServerError, ErrorCodeInternalError, "internal error"
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := classify(err)
	s.logError(r, status, err)
	writeError(w, status, code, msg)
}

func (s *Server) logError(r *http.Request, status int, err error) {
	log := s.requestLogger(r)
	if status == statusClientClosedRequest {
		log.Debug("Search abandoned by client", zap.Error(err))
		return
	}
	if status >= http.StatusInternalServerError {
		log.Error("Search failed", zap.Int("status", status), zap.Error(err))
		return
	}
	log.Warn("Search rejected", zap.Int("status", status), zap.Error(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
