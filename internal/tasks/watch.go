package tasks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/maka/internal/models"
	"github.com/desertthunder/maka/internal/repositories"
	"github.com/desertthunder/maka/internal/shared"
)

// WatchTracker owns the watched list, its persistence adapter and the just-added highlight.
// It is safe for concurrent use.
type WatchTracker struct {
	store  repositories.WatchedStore
	logger *log.Logger
	now    func() time.Time

	mu        sync.Mutex
	list      *models.WatchedList
	highlight models.Highlight
}

// WatchTrackerOpts configures a [WatchTracker]. Store is required.
type WatchTrackerOpts struct {
	Store  repositories.WatchedStore
	Logger *log.Logger
	Now    func() time.Time // defaults to [time.Now]
}

// NewWatchTracker loads the persisted list once.
//
// A missing value starts empty. A value that fails validation also starts empty and is logged at warn level;
// it is overwritten by the next mutation.
func NewWatchTracker(ctx context.Context, opts WatchTrackerOpts) *WatchTracker {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	t := &WatchTracker{
		store:  opts.Store,
		logger: opts.Logger,
		now:    opts.Now,
		list:   models.NewWatchedList(),
	}

	titles, err := opts.Store.Load(ctx)
	switch {
	case errors.Is(err, shared.ErrInvalidStoredValue):
		t.logger.Warn("stored watched list is invalid, starting empty", "error", err)
	case err != nil:
		t.logger.Warn("failed to load watched list, starting empty", "error", err)
	default:
		t.list = models.NewWatchedList(titles...)
	}

	return t
}

// Add marks title as watched. When the title is new it is appended, id is highlighted for
// [models.JustAddedWindow] and the list is persisted. Returns whether the list changed.
func (t *WatchTracker) Add(ctx context.Context, title string, id int) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.list.Add(title) {
		return false, nil
	}
	t.highlight = models.NewHighlight(id, t.now())
	return true, t.persist(ctx)
}

// Remove unmarks title. Removing an absent title is a no-op.
func (t *WatchTracker) Remove(ctx context.Context, title string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.list.Remove(title) {
		return false, nil
	}
	return true, t.persist(ctx)
}

// Sort orders the list lexicographically and persists it. The insertion order is lost.
func (t *WatchTracker) Sort(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.list.Sort()
	return t.persist(ctx)
}

// persist overwrites the stored list. The in-memory list keeps the change even when the write fails. Callers hold mu.
func (t *WatchTracker) persist(ctx context.Context) error {
	if err := t.store.Save(ctx, t.list.Titles()); err != nil {
		t.logger.Error("failed to persist watched list", "error", err)
		return err
	}
	return nil
}

func (t *WatchTracker) Titles() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.list.Titles()
}

func (t *WatchTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.list.Len()
}

func (t *WatchTracker) Contains(title string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.list.Contains(title)
}

// JustAdded reports whether id is inside its highlight window right now.
func (t *WatchTracker) JustAdded(id int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.highlight.Active(id, t.now())
}

// Highlighting reports whether any highlight is still live. The TUI keeps its render tick running while true.
func (t *WatchTracker) Highlighting() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.highlight.Live(t.now())
}
