// TMDB implementation of [Service]
//
// Response types follow https://developer.themoviedb.org/reference
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/maka/internal/models"
	"github.com/desertthunder/maka/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	tmdbBaseURL = "https://api.themoviedb.org/3"

	searchMoviePath = "/search/movie"
	genreListPath   = "/genre/movie/list"
	discoverPath    = "/discover/movie"

	defaultTimeout = 15 * time.Second
)

// TMDBMovie is a movie entry in TMDB result lists.
type TMDBMovie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
	GenreIDs         []int   `json:"genre_ids"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	OriginalLanguage string  `json:"original_language"`
	Adult            bool    `json:"adult"`
}

// TMDBGenre is an entry of the genre list.
type TMDBGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TMDBMovieResults is the envelope for search and discover responses.
type TMDBMovieResults struct {
	Page         int         `json:"page"`
	Results      []TMDBMovie `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// TMDBGenreList is the envelope for the genre list response.
type TMDBGenreList struct {
	Genres []TMDBGenre `json:"genres"`
}

// TMDBError is the body TMDB sends with failed requests.
type TMDBError struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}

func (m TMDBMovie) toModel() models.Movie {
	movie := models.Movie{
		ID:          m.ID,
		Title:       m.Title,
		Overview:    m.Overview,
		ReleaseDate: m.ReleaseDate,
	}
	if m.PosterPath != nil {
		movie.PosterPath = *m.PosterPath
	}
	return movie
}

func (r TMDBMovieResults) toModels() []models.Movie {
	movies := make([]models.Movie, 0, len(r.Results))
	for _, m := range r.Results {
		movies = append(movies, m.toModel())
	}
	return movies
}

// TMDBOpts configures a [TMDBService].
type TMDBOpts struct {
	BaseURL     string       // defaults to the public v3 API
	APIKey      string       // v3 key, sent as api_key
	AccessToken string       // v4 read access token, sent as a bearer token
	Language    string       // optional language parameter
	RateLimit   float64      // requests per second, 0 disables pacing
	HTTPClient  *http.Client // base client, defaults to one with a 15s timeout
}

// TMDBService implements the [Service] interface for the TMDB API.
type TMDBService struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewTMDBService creates a TMDB catalog client.
//
// No credential validation happens here; a missing credential fails on first use.
func NewTMDBService(opts TMDBOpts) *TMDBService {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = tmdbBaseURL
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	if opts.AccessToken != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, client)
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.AccessToken, TokenType: "Bearer"})
		authed := oauth2.NewClient(ctx, src)
		authed.Timeout = client.Timeout
		client = authed
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &TMDBService{
		baseURL:    baseURL,
		apiKey:     opts.APIKey,
		language:   opts.Language,
		httpClient: client,
		limiter:    limiter,
	}
}

// NewTMDBServiceFromConfig builds a client from the [shared.TMDBConfig] section.
func NewTMDBServiceFromConfig(cfg shared.TMDBConfig, client *http.Client) *TMDBService {
	return NewTMDBService(TMDBOpts{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		AccessToken: cfg.AccessToken,
		Language:    cfg.Language,
		RateLimit:   cfg.RateLimit,
		HTTPClient:  client,
	})
}

// Name returns the name of the service.
func (s *TMDBService) Name() string {
	return "TMDB"
}

// SearchMovies searches movies by title.
func (s *TMDBService) SearchMovies(ctx context.Context, query string) ([]models.Movie, error) {
	var results TMDBMovieResults
	if err := s.get(ctx, searchMoviePath, url.Values{"query": {query}}, &results); err != nil {
		return nil, err
	}
	return results.toModels(), nil
}

// Genres lists movie genres.
func (s *TMDBService) Genres(ctx context.Context) ([]models.Category, error) {
	var list TMDBGenreList
	if err := s.get(ctx, genreListPath, nil, &list); err != nil {
		return nil, err
	}

	categories := make([]models.Category, 0, len(list.Genres))
	for _, g := range list.Genres {
		categories = append(categories, models.Category{ID: g.ID, Name: g.Name})
	}
	return categories, nil
}

// DiscoverByGenre lists the most popular movies tagged with genreID.
func (s *TMDBService) DiscoverByGenre(ctx context.Context, genreID int) ([]models.Movie, error) {
	params := url.Values{
		"with_genres": {strconv.Itoa(genreID)},
		"sort_by":     {"popularity.desc"},
	}

	var results TMDBMovieResults
	if err := s.get(ctx, discoverPath, params, &results); err != nil {
		return nil, err
	}
	return results.toModels(), nil
}

// buildURL joins path onto the base URL and adds the credential and language parameters.
func (s *TMDBService) buildURL(path string, params url.Values) string {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	if s.apiKey != "" {
		q.Set("api_key", s.apiKey)
	}
	if s.language != "" {
		q.Set("language", s.language)
	}

	u := s.baseURL + path
	if encoded := q.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

// get performs one GET request and decodes the JSON body into dst.
func (s *TMDBService) get(ctx context.Context, path string, params url.Values, dst any) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %v", shared.ErrAPIRequest, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.buildURL(path, params), nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", shared.ErrAPIRequest, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr TMDBError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.StatusMessage != "" {
			return fmt.Errorf("%w: %s returned status %d: %s", shared.ErrAPIRequest, path, resp.StatusCode, apiErr.StatusMessage)
		}
		return fmt.Errorf("%w: %s returned status %d", shared.ErrAPIRequest, path, resp.StatusCode)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: failed to decode %s response: %v", shared.ErrAPIRequest, path, err)
	}

	return nil
}
