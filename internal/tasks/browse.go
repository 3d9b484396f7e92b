package tasks

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/maka/internal/models"
	"github.com/desertthunder/maka/internal/services"
	"github.com/desertthunder/maka/internal/shared"
)

// Phase is the browse state machine's position.
type Phase int

const (
	Idle Phase = iota
	Searched
	BrowsingCategory
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Searched:
		return "searched"
	case BrowsingCategory:
		return "browsing_category"
	default:
		return ""
	}
}

// RequestKind distinguishes the two result-producing queries.
type RequestKind int

const (
	SearchRequest RequestKind = iota
	DiscoverRequest
)

func (k RequestKind) String() string {
	if k == DiscoverRequest {
		return "discover"
	}
	return "search"
}

// Request is a result query tagged with its initiation sequence.
type Request struct {
	Seq      uint64
	ID       string // correlates log lines for one request
	Kind     RequestKind
	Query    string
	Category models.Category
}

// Response carries a [Request]'s outcome back to [BrowseEngine.Apply].
type Response struct {
	Request
	Movies []models.Movie
	Err    error
}

// Snapshot is a copy of the browse state for rendering.
type Snapshot struct {
	Phase       Phase
	Query       string
	Results     []models.Movie
	Categories  []models.Category
	Selected    *models.Category
	ChooserOpen bool
	Loading     bool
}

// Heading is the selected category's label, or "" when no category is selected.
func (s Snapshot) Heading() string {
	if s.Selected == nil {
		return ""
	}
	return s.Selected.Heading()
}

// BrowseEngine is the search/browse state machine. It is safe for concurrent use.
type BrowseEngine struct {
	srv    services.Service
	logger *log.Logger

	mu               sync.Mutex
	issued           uint64
	phase            Phase
	query            string
	results          []models.Movie
	categories       []models.Category
	categoriesLoaded bool
	selected         *models.Category
	chooserOpen      bool
	loading          bool
}

// NewBrowseEngine creates an engine in the idle phase with the category chooser open.
func NewBrowseEngine(srv services.Service, logger *log.Logger) *BrowseEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &BrowseEngine{
		srv:         srv,
		logger:      logger,
		chooserOpen: true,
		results:     []models.Movie{},
	}
}

// BeginSearch starts a title search. An empty query is a no-op and returns ok=false.
func (e *BrowseEngine) BeginSearch(query string) (Request, bool) {
	if query == "" {
		return Request{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.query = query
	return e.issue(Request{Kind: SearchRequest, Query: query}), true
}

// BeginDiscover starts a discover-by-genre query.
//
// The chooser collapses and the category is stamped immediately, before any response arrives.
func (e *BrowseEngine) BeginDiscover(category models.Category) Request {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.chooserOpen = false
	selected := category
	e.selected = &selected
	return e.issue(Request{Kind: DiscoverRequest, Category: category})
}

// issue assigns the next sequence number. Callers hold mu.
func (e *BrowseEngine) issue(req Request) Request {
	e.issued++
	req.Seq = e.issued
	req.ID = shared.GenerateID()
	e.loading = true
	return req
}

// Fetch performs the catalog call for req. It does not touch engine state.
func (e *BrowseEngine) Fetch(ctx context.Context, req Request) Response {
	if e.srv == nil {
		return Response{Request: req, Err: fmt.Errorf("%w: catalog not configured", shared.ErrServiceUnavailable)}
	}

	e.logger.Debug("catalog request started", "kind", req.Kind, "seq", req.Seq, "request_id", req.ID)

	var (
		movies []models.Movie
		err    error
	)
	switch req.Kind {
	case DiscoverRequest:
		movies, err = e.srv.DiscoverByGenre(ctx, req.Category.ID)
	default:
		movies, err = e.srv.SearchMovies(ctx, req.Query)
	}
	return Response{Request: req, Movies: movies, Err: err}
}

// Apply folds resp into the state and reports whether it was applied.
//
// Responses older than the latest issued request are discarded. A failed response is logged and leaves the
// previous results in place.
func (e *BrowseEngine) Apply(resp Response) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if resp.Seq != e.issued {
		e.logger.Debug("discarding stale catalog response", "kind", resp.Kind, "seq", resp.Seq, "latest", e.issued, "request_id", resp.ID)
		return false
	}

	e.loading = false

	if resp.Err != nil {
		e.logger.Error("catalog request failed", "kind", resp.Kind, "seq", resp.Seq, "request_id", resp.ID, "error", resp.Err)
		return false
	}

	movies := resp.Movies
	if movies == nil {
		movies = []models.Movie{}
	}
	e.results = movies

	switch resp.Kind {
	case SearchRequest:
		e.phase = Searched
		e.chooserOpen = false
		e.selected = nil
	case DiscoverRequest:
		e.phase = BrowsingCategory
	}

	e.logger.Debug("catalog response applied", "kind", resp.Kind, "seq", resp.Seq, "results", len(movies), "request_id", resp.ID)
	return true
}

// IsLatest reports whether req is the most recently issued request.
func (e *BrowseEngine) IsLatest(req Request) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return req.Seq == e.issued
}

// Search runs a title search synchronously. Returns false when the query was empty, stale or failed.
func (e *BrowseEngine) Search(ctx context.Context, query string) (bool, error) {
	req, ok := e.BeginSearch(query)
	if !ok {
		return false, nil
	}
	resp := e.Fetch(ctx, req)
	return e.Apply(resp), resp.Err
}

// Discover runs a discover-by-genre query synchronously.
func (e *BrowseEngine) Discover(ctx context.Context, category models.Category) (bool, error) {
	resp := e.Fetch(ctx, e.BeginDiscover(category))
	return e.Apply(resp), resp.Err
}

// LoadCategories fetches the genre list once per engine. A failure is logged and can be retried.
func (e *BrowseEngine) LoadCategories(ctx context.Context) ([]models.Category, error) {
	e.mu.Lock()
	if e.categoriesLoaded {
		categories := slices.Clone(e.categories)
		e.mu.Unlock()
		return categories, nil
	}
	e.mu.Unlock()

	if e.srv == nil {
		return nil, fmt.Errorf("%w: catalog not configured", shared.ErrServiceUnavailable)
	}

	categories, err := e.srv.Genres(ctx)
	if err != nil {
		e.logger.Error("genre list request failed", "error", err)
		return nil, err
	}

	e.SetCategories(categories)
	return slices.Clone(categories), nil
}

// SetCategories stores a fetched genre list, for callers that fetched it themselves.
func (e *BrowseEngine) SetCategories(categories []models.Category) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.categories = slices.Clone(categories)
	e.categoriesLoaded = true
}

// FindCategory looks up a loaded category by numeric id or case-insensitive name.
func (e *BrowseEngine) FindCategory(idOrName string) (models.Category, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := strings.TrimSpace(idOrName)
	id, idErr := strconv.Atoi(key)
	for _, c := range e.categories {
		if (idErr == nil && c.ID == id) || strings.EqualFold(c.Name, key) {
			return c, nil
		}
	}
	return models.Category{}, fmt.Errorf("%w: %s", shared.ErrCategoryNotFound, idOrName)
}

// ToggleChooser flips the category chooser's expand/collapse flag.
func (e *BrowseEngine) ToggleChooser() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.chooserOpen = !e.chooserOpen
	return e.chooserOpen
}

// Snapshot returns a copy of the current state.
func (e *BrowseEngine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		Phase:       e.phase,
		Query:       e.query,
		Results:     slices.Clone(e.results),
		Categories:  slices.Clone(e.categories),
		ChooserOpen: e.chooserOpen,
		Loading:     e.loading,
	}
	if e.selected != nil {
		selected := *e.selected
		snap.Selected = &selected
	}
	return snap
}
