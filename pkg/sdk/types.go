package horrordb

import "github.com/kailas-cloud/horrordb/internal/domain/movie"

// Movie is a search hit.
type Movie struct {
	Title       string
	ReleaseYear string
	WikiPage    string
	ImageURL    string
}

// SearchOptions configures a search.
type SearchOptions struct {
	// Limit lowers the configured result cap. Zero uses the cap.
	Limit int
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

func moviesFromDomain(in []movie.Movie) []Movie {
	out := make([]Movie, len(in))
	for i, m := range in {
		out[i] = Movie{
			Title:       m.Title(),
			ReleaseYear: m.ReleaseYear(),
			WikiPage:    m.WikiPage(),
			ImageURL:    m.ImageURL(),
		}
	}
	return out
}
