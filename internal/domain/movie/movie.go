// Package movie defines the catalog entry returned by a vector search.
package movie

import "strings"

// Column names the warehouse returns for each movie row.
const (
	ColumnTitle       = "title"
	ColumnReleaseYear = "release_year"
	ColumnWikiPage    = "wiki_page"
	ColumnImageURL    = "image_url"
)

// Columns lists the columns a row must carry to become a Movie.
var Columns = []string{ColumnTitle, ColumnReleaseYear, ColumnWikiPage, ColumnImageURL}

// Movie is a single search hit. Other columns of the row are dropped.
type Movie struct {
	title       string
	releaseYear string
	wikiPage    string
	imageURL    string
}

// New creates a movie. Surrounding whitespace is trimmed from every field.
func New(title, releaseYear, wikiPage, imageURL string) Movie {
	return Movie{
		title:       strings.TrimSpace(title),
		releaseYear: strings.TrimSpace(releaseYear),
		wikiPage:    strings.TrimSpace(wikiPage),
		imageURL:    strings.TrimSpace(imageURL),
	}
}

// Title returns the movie title.
func (m Movie) Title() string { return m.title }

// ReleaseYear returns the release year as text. Empty when unknown.
func (m Movie) ReleaseYear() string { return m.releaseYear }

// WikiPage returns the Wikipedia article URL.
func (m Movie) WikiPage() string { return m.wikiPage }

// ImageURL returns the poster image URL.
func (m Movie) ImageURL() string { return m.imageURL }
