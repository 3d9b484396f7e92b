// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/maka/internal/models"
)

// MockService is a test double for [services.Service].
//
// Unset funcs return empty results. Calls are counted per query kind.
type MockService struct {
	SearchFn   func(ctx context.Context, query string) ([]models.Movie, error)
	GenresFn   func(ctx context.Context) ([]models.Category, error)
	DiscoverFn func(ctx context.Context, genreID int) ([]models.Movie, error)

	mu            sync.Mutex
	SearchCalls   []string
	GenreCalls    int
	DiscoverCalls []int
}

func (m *MockService) SearchMovies(ctx context.Context, query string) ([]models.Movie, error) {
	m.mu.Lock()
	m.SearchCalls = append(m.SearchCalls, query)
	m.mu.Unlock()
	if m.SearchFn == nil {
		return []models.Movie{}, nil
	}
	return m.SearchFn(ctx, query)
}

func (m *MockService) Genres(ctx context.Context) ([]models.Category, error) {
	m.mu.Lock()
	m.GenreCalls++
	m.mu.Unlock()
	if m.GenresFn == nil {
		return []models.Category{}, nil
	}
	return m.GenresFn(ctx)
}

func (m *MockService) DiscoverByGenre(ctx context.Context, genreID int) ([]models.Movie, error) {
	m.mu.Lock()
	m.DiscoverCalls = append(m.DiscoverCalls, genreID)
	m.mu.Unlock()
	if m.DiscoverFn == nil {
		return []models.Movie{}, nil
	}
	return m.DiscoverFn(ctx, genreID)
}

func (m *MockService) Name() string { return "mock" }

// MemoryStore is an in-memory [repositories.WatchedStore].
type MemoryStore struct {
	mu      sync.Mutex
	Titles  []string
	LoadErr error
	SaveErr error
	Saves   int
}

func (s *MemoryStore) Load(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	return append([]string{}, s.Titles...), nil
}

func (s *MemoryStore) Save(ctx context.Context, titles []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Saves++
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Titles = append([]string{}, titles...)
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter succeeds for the first n writes and fails after that.
type LimitedWriter struct {
	remaining int
	w         io.Writer
}

func NewLimitedWriter(n int, w io.Writer) LimitedWriter {
	return LimitedWriter{remaining: n, w: w}
}

func (l *LimitedWriter) Write(p []byte) (int, error) {
	if l.remaining <= 0 {
		return 0, errors.New("write limit reached")
	}
	l.remaining--
	return l.w.Write(p)
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// Clock is a manually advanced clock for highlight expiry tests.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(t time.Time) *Clock { return &Clock{now: t} }

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
