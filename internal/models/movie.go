package models

import "fmt"

const (
	// ImageBaseURL is the catalog's image CDN root.
	ImageBaseURL = "https://image.tmdb.org/t/p"
	// PosterSize is the rendition used for result thumbnails.
	PosterSize = "w200"

	unknownRelease = "Unknown"
	emptyOverview  = "No overview available."
)

// Movie is a single catalog entry. Values are sourced wholesale from one query and never persisted.
type Movie struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Overview    string `json:"overview"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path,omitempty"`
}

// ReleaseLabel returns the release date or "Unknown" when the catalog has none.
func (m Movie) ReleaseLabel() string {
	if m.ReleaseDate == "" {
		return unknownRelease
	}
	return m.ReleaseDate
}

// OverviewText returns the overview with a placeholder for empty text.
func (m Movie) OverviewText() string {
	if m.Overview == "" {
		return emptyOverview
	}
	return m.Overview
}

func (m Movie) HasPoster() bool { return m.PosterPath != "" }

// PosterURL builds the thumbnail URL, or returns "" when there is no poster to show.
func (m Movie) PosterURL() string {
	if !m.HasPoster() {
		return ""
	}
	return fmt.Sprintf("%s/%s%s", ImageBaseURL, PosterSize, m.PosterPath)
}

// Category is a genre from the catalog's genre list.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Heading is the label displayed above a category's results.
func (c Category) Heading() string {
	return fmt.Sprintf("Top %s Movies by MAKA PAKA", c.Name)
}
