package server

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/maka/internal/shared"
	"github.com/desertthunder/maka/internal/tasks"
	"github.com/desertthunder/maka/internal/web"
)

// PageHandler serves the movie search page and its form actions.
//
// Every action applies one state transition and redirects to "/" (POST/redirect/GET). Invalid input and storage
// failures are stored as a flash message and shown on the next render. Catalog failures are only logged; the page
// keeps its previous results.
type PageHandler struct {
	engine   *tasks.BrowseEngine
	tracker  *tasks.WatchTracker
	renderer *web.Renderer
	logger   *log.Logger

	mu          sync.Mutex
	sidebarOpen bool
	flash       string
}

// PageHandlerOpts configures a [PageHandler].
type PageHandlerOpts struct {
	Engine  *tasks.BrowseEngine
	Tracker *tasks.WatchTracker
	Logger  *log.Logger
}

// NewPageHandler parses the page template.
func NewPageHandler(opts PageHandlerOpts) (*PageHandler, error) {
	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &PageHandler{
		engine:   opts.Engine,
		tracker:  opts.Tracker,
		renderer: renderer,
		logger:   opts.Logger,
	}, nil
}

// Register adds the page routes to r.
func (h *PageHandler) Register(r Router) {
	r.Handle(http.MethodGet, "/{$}", http.HandlerFunc(h.index))
	r.Handle(http.MethodPost, "/search", http.HandlerFunc(h.search))
	r.Handle(http.MethodPost, "/categories/{id}", http.HandlerFunc(h.discover))
	r.Handle(http.MethodPost, "/chooser", http.HandlerFunc(h.toggleChooser))
	r.Handle(http.MethodPost, "/watched", http.HandlerFunc(h.addWatched))
	r.Handle(http.MethodPost, "/watched/delete", http.HandlerFunc(h.removeWatched))
	r.Handle(http.MethodPost, "/watched/sort", http.HandlerFunc(h.sortWatched))
	r.Handle(http.MethodPost, "/sidebar", http.HandlerFunc(h.toggleSidebar))
}

func (h *PageHandler) index(w http.ResponseWriter, r *http.Request) {
	// A failed genre fetch renders without buttons and is retried on the next load.
	h.engine.LoadCategories(r.Context())

	h.mu.Lock()
	state := web.PageState{
		Snapshot:    h.engine.Snapshot(),
		Watched:     h.tracker.Titles(),
		JustAdded:   h.tracker.JustAdded,
		SidebarOpen: h.sidebarOpen,
		Error:       h.flash,
	}
	h.flash = ""
	h.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.renderer.Render(w, web.BuildPage(state)); err != nil {
		h.logger.Error("failed to render page", "error", err)
	}
}

func (h *PageHandler) search(w http.ResponseWriter, r *http.Request) {
	h.engine.Search(r.Context(), r.FormValue("query"))
	redirectHome(w, r)
}

func (h *PageHandler) discover(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := strconv.Atoi(id); err != nil {
		h.setFlash(fmt.Errorf("%w: category id %q", shared.ErrInvalidArgument, id))
		redirectHome(w, r)
		return
	}
	if _, err := h.engine.LoadCategories(r.Context()); err != nil {
		redirectHome(w, r)
		return
	}

	category, err := h.engine.FindCategory(id)
	if err != nil {
		h.setFlash(err)
		redirectHome(w, r)
		return
	}
	h.engine.Discover(r.Context(), category)
	redirectHome(w, r)
}

func (h *PageHandler) toggleChooser(w http.ResponseWriter, r *http.Request) {
	h.engine.ToggleChooser()
	redirectHome(w, r)
}

func (h *PageHandler) addWatched(w http.ResponseWriter, r *http.Request) {
	title := r.FormValue("title")
	if title == "" {
		h.setFlash(fmt.Errorf("%w: title", shared.ErrMissingArgument))
		redirectHome(w, r)
		return
	}

	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		h.setFlash(fmt.Errorf("%w: movie id %q", shared.ErrInvalidArgument, r.FormValue("id")))
		redirectHome(w, r)
		return
	}
	changed, err := h.tracker.Add(r.Context(), title, id)
	if err != nil {
		h.setFlash(err)
	}
	if changed {
		h.logger.Info("marked as watched", "title", title, "movie_id", id)
	}
	redirectHome(w, r)
}

func (h *PageHandler) removeWatched(w http.ResponseWriter, r *http.Request) {
	title := r.FormValue("title")
	if _, err := h.tracker.Remove(r.Context(), title); err != nil {
		h.setFlash(err)
	}
	redirectHome(w, r)
}

func (h *PageHandler) sortWatched(w http.ResponseWriter, r *http.Request) {
	if err := h.tracker.Sort(r.Context()); err != nil {
		h.setFlash(err)
	}
	redirectHome(w, r)
}

func (h *PageHandler) toggleSidebar(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.sidebarOpen = !h.sidebarOpen
	h.mu.Unlock()
	redirectHome(w, r)
}

func (h *PageHandler) setFlash(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.flash = err.Error()
}


func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HealthHandler reports liveness and the size of the watched list.
type HealthHandler struct {
	tracker *tasks.WatchTracker
}

func NewHealthHandler(tracker *tasks.WatchTracker) *HealthHandler {
	return &HealthHandler{tracker: tracker}
}

func (h *HealthHandler) Routes() []string {
	return []string{"GET /healthz"}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, err := shared.MarshalJSON(map[string]any{
		"status":  "ok",
		"watched": h.tracker.Len(),
	}, false)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// NewRouter assembles the page and health routes behind recovery and request logging.
func NewRouter(engine *tasks.BrowseEngine, tracker *tasks.WatchTracker, logger *log.Logger) (*BasicRouter, error) {
	page, err := NewPageHandler(PageHandlerOpts{Engine: engine, Tracker: tracker, Logger: logger})
	if err != nil {
		return nil, err
	}

	r := NewBasicRouter()
	r.Use(RequestLogger(logger), Recoverer(logger))
	page.Register(r)
	r.Handler(NewHealthHandler(tracker))
	return r, nil
}
