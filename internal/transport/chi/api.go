package chi

import (
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/horrordb/internal/domain/movie"
	"github.com/kailas-cloud/horrordb/internal/domain/search/request"
)

// SearchParams are the GET /api/search query parameters.
type SearchParams struct {
	Q     string `form:"q" json:"q"`
	Limit *int   `form:"limit,omitempty" json:"limit,omitempty"`
}

// MovieItem is a movie in a JSON search response.
type MovieItem struct {
	Title       string `json:"title"`
	ReleaseYear string `json:"release_year"`
	WikiPage    string `json:"wiki_page"`
	ImageURL    string `json:"image_url"`
}

// SearchResponse is the GET /api/search body.
type SearchResponse struct {
	Query   string      `json:"query"`
	Results []MovieItem `json:"results"`
	Count   int         `json:"count"`
}

// SearchAPI handles GET /api/search.
func (s *Server) SearchAPI(w http.ResponseWriter, r *http.Request) {
	var params SearchParams

	if err := runtime.BindQueryParameter("form", true, true, "q", r.URL.Query(), &params.Q); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid parameter q: "+err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid parameter limit: "+err.Error())
		return
	}

	limit := 0
	if params.Limit != nil {
		if *params.Limit < 1 {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "limit must be positive")
			return
		}
		limit = *params.Limit
	}

	req, err := request.New(params.Q, limit, s.search.Limits())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	movies, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Query:   req.Query(),
		Results: moviesToItems(movies),
		Count:   len(movies),
	})
}

func moviesToItems(movies []movie.Movie) []MovieItem {
	items := make([]MovieItem, len(movies))
	for i, m := range movies {
		items[i] = MovieItem{
			Title:       m.Title(),
			ReleaseYear: m.ReleaseYear(),
			WikiPage:    m.WikiPage(),
			ImageURL:    m.ImageURL(),
		}
	}
	return items
}
