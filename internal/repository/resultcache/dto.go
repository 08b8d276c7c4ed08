package resultcache

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/horrordb/internal/domain/movie"
)

type movieDTO struct {
	Title       string `json:"title"`
	ReleaseYear string `json:"release_year"`
	WikiPage    string `json:"wiki_page"`
	ImageURL    string `json:"image_url"`
}

func encode(movies []movie.Movie) ([]byte, error) {
	dtos := make([]movieDTO, len(movies))
	for i, m := range movies {
		dtos[i] = movieDTO{
			Title:       m.Title(),
			ReleaseYear: m.ReleaseYear(),
			WikiPage:    m.WikiPage(),
			ImageURL:    m.ImageURL(),
		}
	}
	data, err := json.Marshal(dtos)
	if err != nil {
		return nil, fmt.Errorf("marshal movies: %w", err)
	}
	return data, nil
}

func decode(data []byte) ([]movie.Movie, error) {
	var dtos []movieDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("unmarshal movies: %w", err)
	}
	movies := make([]movie.Movie, len(dtos))
	for i, d := range dtos {
		movies[i] = movie.New(d.Title, d.ReleaseYear, d.WikiPage, d.ImageURL)
	}
	return movies, nil
}
