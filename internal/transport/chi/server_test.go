package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"go.uber.org/zap"

	searchuc "github.com/kailas-cloud/horrordb/internal/usecase/search"
)

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		warehouse  error
		cache      error
		wantStatus int
		wantBody   string
	}{
		{"all ok", nil, nil, http.StatusOK, "ok"},
		{"cache down", nil, errors.New("refused"), http.StatusOK, "degraded"},
		{"warehouse down", errors.New("403"), nil, http.StatusServiceUnavailable, "error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, RouteOptions{})
			env.warehouse.err = tc.warehouse
			env.cache.err = tc.cache

			rr := env.get("/health")
			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
			var resp healthResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tc.wantBody {
				t.Errorf("status field = %q, want %q", resp.Status, tc.wantBody)
			}
			if _, ok := resp.Checks["warehouse"]; !ok {
				t.Error("expected warehouse check")
			}
		})
	}
}

func TestHeaderImage(t *testing.T) {
	env := newTestEnv(t, RouteOptions{})
	env.files["pic.jpg"] = &fstest.MapFile{Data: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")}

	rr := env.get("/static/header")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rr.Body.Len() == 0 {
		t.Error("expected image bytes")
	}
}

func TestHeaderImage_Missing(t *testing.T) {
	env := newTestEnv(t, RouteOptions{})

	if rr := env.get("/static/header"); rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestHeaderImage_NoLoader(t *testing.T) {
	srv := NewServer(searchuc.New(&mockSearcher{}, testLimits, 1, time.Second), nil, nil, PageOptions{}, zap.NewNop())

	rr := httptest.NewRecorder()
	srv.HeaderImage(rr, httptest.NewRequest(http.MethodGet, "/static/header", http.NoBody))
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}
