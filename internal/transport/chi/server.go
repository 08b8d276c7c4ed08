package chi

import (
	"errors"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/horrordb/internal/asset"
	logpkg "github.com/kailas-cloud/horrordb/internal/logger"
	healthuc "github.com/kailas-cloud/horrordb/internal/usecase/health"
	searchuc "github.com/kailas-cloud/horrordb/internal/usecase/search"
)

// headerImagePath is where the page links the header image from.
const headerImagePath = "/static/header"

// PageOptions configures the HTML search page.
type PageOptions struct {
	Title        string
	DefaultQuery string
}

// RouteOptions configures access to the JSON API.
type RouteOptions struct {
	APIKeys        []string
	AllowedOrigins []string
}

// Server serves the search page, the JSON API, the header image and health.
type Server struct {
	search *searchuc.Service
	health *healthuc.Service
	header *asset.Loader
	page   PageOptions
	tmpl   *template.Template
	logger *zap.Logger
}

// NewServer creates an HTTP server. header may be nil, in which case the page renders without an image.
func NewServer(
	search *searchuc.Service,
	health *healthuc.Service,
	header *asset.Loader,
	page PageOptions,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		search: search,
		health: health,
		header: header,
		page:   page,
		tmpl:   pageTemplate,
		logger: logger,
	}
}

// Routes mounts every endpoint on r.
// The JSON API lives under /api with CORS and bearer auth; the page, image, health and metrics are public.
func (s *Server) Routes(r chi.Router, opts RouteOptions) {
	r.Get("/", s.Page)
	r.Get(headerImagePath, s.HeaderImage)
	r.Get("/health", s.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
		r.Use(BearerAuthMiddleware(opts.APIKeys))
		r.Get("/search", s.SearchAPI)
	})
}

// healthResponse is the GET /health body.
type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health handles GET /health.
// A degraded cache still answers 200 because search keeps working without it.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// HeaderImage handles GET /static/header.
func (s *Server) HeaderImage(w http.ResponseWriter, r *http.Request) {
	if s.header == nil {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "no header image configured")
		return
	}

	img, err := s.header.Load()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeError(w, http.StatusNotFound, ErrorCodeNotFound, "header image not found")
			return
		}
		s.requestLogger(r).Error("Failed to load header image", zap.Error(err))
		writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Last-Modified", img.LoadedAt.UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img.Data)
}

func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	return logpkg.FromContext(r.Context(), s.logger)
}
