package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/maka/internal/shared"
)

// WatchedKey is the key the watched list is stored under.
const WatchedKey = "watchedMovies"

// WatchedStore is the persistence adapter for the watched list.
//
// Load returns an empty slice when nothing has been stored yet.
type WatchedStore interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, titles []string) error
}

// DecodeWatched validates and decodes a stored watched list.
//
// JSON null decodes to an empty list. Any other value that is not an array of strings yields [shared.ErrInvalidStoredValue].
func DecodeWatched(raw []byte) ([]string, error) {
	var titles []string
	if err := json.Unmarshal(raw, &titles); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidStoredValue, err)
	}
	if titles == nil {
		titles = []string{}
	}
	return titles, nil
}

// EncodeWatched serializes titles. A nil slice is written as an empty array.
func EncodeWatched(titles []string) ([]byte, error) {
	if titles == nil {
		titles = []string{}
	}
	data, err := json.Marshal(titles)
	if err != nil {
		return nil, fmt.Errorf("failed to encode watched list: %w", err)
	}
	return data, nil
}
