package services

import (
	"context"

	"github.com/desertthunder/maka/internal/models"
)

// Service defines the read-only queries the presentation layers need from a movie catalog.
type Service interface {
	// SearchMovies returns the results of a free-text title search.
	SearchMovies(ctx context.Context, query string) ([]models.Movie, error)

	// Genres returns the catalog's full genre list.
	Genres(ctx context.Context) ([]models.Category, error)

	// DiscoverByGenre returns movies tagged with the given genre.
	DiscoverByGenre(ctx context.Context, genreID int) ([]models.Movie, error)

	// Name returns the name of the catalog (e.g., "TMDB")
	Name() string
}
