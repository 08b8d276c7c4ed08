package chi

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/horrordb/internal/domain/movie"
	"github.com/kailas-cloud/horrordb/internal/domain/search/request"
)

// gridColumns is the number of result sub-columns; row i lands in column i mod gridColumns.
const gridColumns = 3

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// pageData is the view model of the search page.
type pageData struct {
	Title          string
	Query          string
	HeaderImageURL string
	Columns        [][]MovieItem
	Error          string
	Empty          bool
}

// Page handles GET /. A blank q falls back to the default query.
func (s *Server) Page(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		query = s.page.DefaultQuery
	}

	data := pageData{
		Title: s.page.Title,
		Query: query,
	}
	if s.header != nil {
		data.HeaderImageURL = headerImagePath
	}

	status := http.StatusOK
	movies, err := s.runSearch(r, query)
	if err != nil {
		var code ErrorCode
		var msg string
		status, code, msg = classify(err)
		s.logError(r, status, err)
		data.Error = pageErrorText(code, msg)
	} else {
		data.Columns = buildGrid(movies, gridColumns)
		data.Empty = len(movies) == 0
	}

	s.render(w, r, status, data)
}

func (s *Server) runSearch(r *http.Request, query string) ([]movie.Movie, error) {
	req, err := request.New(query, 0, s.search.Limits())
	if err != nil {
		return nil, err
	}
	return s.search.Search(r.Context(), &req)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		s.requestLogger(r).Error("Failed to render page", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// buildGrid distributes movies across n columns in reading order.
func buildGrid(movies []movie.Movie, n int) [][]MovieItem {
	cols := make([][]MovieItem, n)
	for i, item := range moviesToItems(movies) {
		cols[i%n] = append(cols[i%n], item)
	}
	return cols
}

func pageErrorText(code ErrorCode, msg string) string {
	switch code {
	case ErrorCodeInvalidQuery:
		return "That search could not be run: " + msg + "."
	case ErrorCodeRateLimited:
		return "Too many searches are running right now. Try again in a moment."
	case ErrorCodeWarehouseUnavailable, ErrorCodeMalformedResult:
		return "The movie database could not be searched (" + msg + "). Try again later."
	default:
		return "Something went wrong while searching."
	}
}
