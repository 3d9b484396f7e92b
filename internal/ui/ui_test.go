package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/desertthunder/maka/internal/models"
	"github.com/desertthunder/maka/internal/shared"
	"github.com/desertthunder/maka/internal/tasks"
	tu "github.com/desertthunder/maka/internal/testing"
)

var inception = models.Movie{
	ID:          27205,
	Title:       "Inception",
	Overview:    "Cobb steals secrets from deep within the subconscious.",
	ReleaseDate: "2010-07-15",
	PosterPath:  "/inception.jpg",
}

type fixture struct {
	model   *Model
	srv     *tu.MockService
	store   *tu.MemoryStore
	clock   *tu.Clock
	tracker *tasks.WatchTracker
	engine  *tasks.BrowseEngine
}

func newFixture(t *testing.T, width int, titles ...string) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := shared.NewLogger(io.Discard)

	srv := &tu.MockService{
		SearchFn: func(ctx context.Context, q string) ([]models.Movie, error) {
			if q == "inception" {
				return []models.Movie{inception}, nil
			}
			return []models.Movie{{ID: 1, Title: q}}, nil
		},
		GenresFn: func(ctx context.Context) ([]models.Category, error) {
			return []models.Category{{ID: 28, Name: "Action"}, {ID: 35, Name: "Comedy"}}, nil
		},
		DiscoverFn: func(ctx context.Context, id int) ([]models.Movie, error) {
			return []models.Movie{{ID: 76341, Title: "Mad Max: Fury Road", ReleaseDate: "2015-05-13"}}, nil
		},
	}
	store := &tu.MemoryStore{Titles: titles}
	clock := tu.NewClock(time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC))

	engine := tasks.NewBrowseEngine(srv, logger)
	tracker := tasks.NewWatchTracker(ctx, tasks.WatchTrackerOpts{Store: store, Logger: logger, Now: clock.Now})
	m := NewModel(ctx, engine, tracker, logger)
	m.Update(tea.WindowSizeMsg{Width: width, Height: 40})

	return &fixture{model: m, srv: srv, store: store, clock: clock, tracker: tracker, engine: engine}
}

// run executes cmd and feeds the resulting application messages back into the model.
// Commands returned by those updates are not executed, so cursor blinks and render ticks never sleep.
func run(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			run(m, c)
		}
	case Msg:
		m.Update(msg)
	}
}

func press(m *Model, k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		msg = tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func search(f *fixture, query string) {
	f.model.input.SetValue(query)
	run(f.model, press(f.model, "enter"))
}

func TestModel(t *testing.T) {
	t.Run("Initial View", func(t *testing.T) {
		f := newFixture(t, 120)
		view := f.model.View()

		for _, want := range []string{"MAKA PAKA", searchPlaceholder, submitHint, "Watched Movies (0)", "Nothing watched yet."} {
			if !strings.Contains(view, want) {
				t.Errorf("expected view to contain %q", want)
			}
		}
		if f.model.Focus() != SearchPane {
			t.Errorf("expected search to start focused, got %v", f.model.Focus())
		}
	})

	t.Run("Init Loads Categories", func(t *testing.T) {
		f := newFixture(t, 120)
		run(f.model, f.model.Init())

		if got := len(f.engine.Snapshot().Categories); got != 2 {
			t.Fatalf("expected 2 categories, got %d", got)
		}
		view := f.model.View()
		if !strings.Contains(view, "Action") || !strings.Contains(view, "Comedy") {
			t.Errorf("expected category buttons in view:\n%s", view)
		}
	})

	t.Run("Category Load Failure Leaves View Unchanged", func(t *testing.T) {
		f := newFixture(t, 120)
		f.srv.GenresFn = func(ctx context.Context) ([]models.Category, error) {
			return nil, shared.ErrAPIRequest
		}
		before := f.model.View()
		run(f.model, f.model.loadCategories())

		if diff := cmp.Diff(before, f.model.View()); diff != "" {
			t.Errorf("view changed after a failed genre fetch (-before +after):\n%s", diff)
		}
		if strings.Contains(f.model.View(), "Error") {
			t.Error("expected no error message in view")
		}
	})

	t.Run("Search Scenario", func(t *testing.T) {
		f := newFixture(t, 120)
		f.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("inception")})
		run(f.model, press(f.model, "enter"))

		if diff := cmp.Diff([]string{"inception"}, f.srv.SearchCalls); diff != "" {
			t.Errorf("search calls mismatch (-want +got):\n%s", diff)
		}
		if f.model.Focus() != ResultsPane {
			t.Errorf("expected results to take focus, got %v", f.model.Focus())
		}
		view := f.model.View()
		for _, want := range []string{"Inception", "Release Date: 2010-07-15", "▸ Categories"} {
			if !strings.Contains(view, want) {
				t.Errorf("expected view to contain %q:\n%s", want, view)
			}
		}
	})

	t.Run("Empty Search Is A No-op", func(t *testing.T) {
		f := newFixture(t, 120)
		if cmd := press(f.model, "enter"); cmd != nil {
			t.Error("expected no command for an empty query")
		}
		if len(f.srv.SearchCalls) != 0 {
			t.Errorf("expected no catalog call, got %v", f.srv.SearchCalls)
		}
		if f.engine.Snapshot().Phase != tasks.Idle {
			t.Error("expected engine to stay idle")
		}
	})

	t.Run("Typing In Search Does Not Trigger Shortcuts", func(t *testing.T) {
		f := newFixture(t, 120)
		for _, k := range []string{"q", "c", "w"} {
			if isQuit(press(f.model, k)) {
				t.Fatalf("typing %q should not quit", k)
			}
		}
		if got := f.model.input.Value(); got != "qcw" {
			t.Errorf("expected typed text, got %q", got)
		}
		if !f.engine.Snapshot().ChooserOpen {
			t.Error("typing c should not toggle the chooser")
		}
	})

	t.Run("Mark Watched Highlights Until Expiry", func(t *testing.T) {
		f := newFixture(t, 120)
		search(f, "inception")

		cmd := press(f.model, "enter")
		if cmd == nil {
			t.Fatal("expected render tick to start")
		}
		if diff := cmp.Diff([]string{"Inception"}, f.store.Titles); diff != "" {
			t.Errorf("persisted titles mismatch (-want +got):\n%s", diff)
		}
		view := f.model.View()
		if !strings.Contains(view, addedBadge) {
			t.Errorf("expected just-added badge:\n%s", view)
		}
		if !strings.Contains(view, "Watched Movies (1)") {
			t.Errorf("expected sidebar count to update:\n%s", view)
		}

		if cmd := press(f.model, "enter"); cmd != nil {
			t.Error("duplicate add should not start another tick")
		}

		f.clock.Advance(time.Second)
		if _, cmd := f.model.Update(tickMsg()); cmd == nil {
			t.Error("expected tick to continue while highlight is live")
		}

		f.clock.Advance(time.Second)
		if _, cmd := f.model.Update(tickMsg()); cmd != nil {
			t.Error("expected tick to stop after expiry")
		}
		view = f.model.View()
		if strings.Contains(view, addedBadge) {
			t.Error("expected badge to clear after 2 seconds")
		}
		if !strings.Contains(view, "(watched)") {
			t.Error("expected watched marker on the result")
		}
	})

	t.Run("Category Scenario", func(t *testing.T) {
		f := newFixture(t, 120)
		run(f.model, f.model.Init())

		press(f.model, "tab")
		if f.model.Focus() != ChooserPane {
			t.Fatalf("expected chooser focus, got %v", f.model.Focus())
		}
		run(f.model, press(f.model, "enter"))

		if diff := cmp.Diff([]int{28}, f.srv.DiscoverCalls); diff != "" {
			t.Errorf("discover calls mismatch (-want +got):\n%s", diff)
		}
		view := f.model.View()
		for _, want := range []string{"Top Action Movies by MAKA PAKA", "Mad Max: Fury Road", "▸ Categories"} {
			if !strings.Contains(view, want) {
				t.Errorf("expected view to contain %q:\n%s", want, view)
			}
		}
		if f.model.Focus() != ResultsPane {
			t.Errorf("expected results focus, got %v", f.model.Focus())
		}
	})

	t.Run("Chooser Cursor", func(t *testing.T) {
		f := newFixture(t, 120)
		run(f.model, f.model.Init())
		press(f.model, "tab")
		press(f.model, "right")
		press(f.model, "right")
		run(f.model, press(f.model, "enter"))

		if got := f.engine.Snapshot().Heading(); got != "Top Comedy Movies by MAKA PAKA" {
			t.Errorf("expected cursor to clamp on the last category, got %q", got)
		}
	})

	t.Run("Stale Response Is Ignored", func(t *testing.T) {
		f := newFixture(t, 120)

		f.model.input.SetValue("slow")
		slow := press(f.model, "enter")
		f.model.input.SetValue("fast")
		fast := press(f.model, "enter")

		run(f.model, fast)
		run(f.model, slow)

		results := f.engine.Snapshot().Results
		if len(results) != 1 || results[0].Title != "fast" {
			t.Errorf("expected the last initiated search to win, got %+v", results)
		}
	})

	t.Run("Failed Search Keeps Previous Results", func(t *testing.T) {
		f := newFixture(t, 120)
		search(f, "inception")
		before := f.engine.Snapshot().Results

		f.srv.SearchFn = func(ctx context.Context, q string) ([]models.Movie, error) {
			return nil, errors.New("connection refused")
		}
		press(f.model, "shift+tab")
		search(f, "heat")

		if diff := cmp.Diff(before, f.engine.Snapshot().Results); diff != "" {
			t.Errorf("results changed after a failed search (-want +got):\n%s", diff)
		}
		view := f.model.View()
		if strings.Contains(view, "connection refused") || strings.Contains(view, "Error") {
			t.Errorf("expected no error message in view:\n%s", view)
		}
		if !strings.Contains(view, "Inception") {
			t.Errorf("expected previous results to stay visible:\n%s", view)
		}
	})

	t.Run("Save Failure Is Shown Until Next Save", func(t *testing.T) {
		f := newFixture(t, 120, "Zodiac", "Alien")
		search(f, "inception")
		f.store.SaveErr = errors.New("disk full")

		press(f.model, "enter")
		if !strings.Contains(f.model.View(), "Error: disk full") {
			t.Error("expected storage failure in view")
		}

		f.store.SaveErr = nil
		press(f.model, "tab")
		press(f.model, "s")
		if strings.Contains(f.model.View(), "disk full") {
			t.Error("expected storage failure to clear after a successful save")
		}
	})

	t.Run("Sidebar Sort And Delete", func(t *testing.T) {
		f := newFixture(t, 120, "Zodiac", "Alien")

		press(f.model, "shift+tab")
		if f.model.Focus() != SidebarPane {
			t.Fatalf("expected sidebar focus, got %v", f.model.Focus())
		}

		press(f.model, "s")
		if diff := cmp.Diff([]string{"Alien", "Zodiac"}, f.tracker.Titles()); diff != "" {
			t.Errorf("sorted titles mismatch (-want +got):\n%s", diff)
		}

		press(f.model, "d")
		if diff := cmp.Diff([]string{"Zodiac"}, f.store.Titles); diff != "" {
			t.Errorf("persisted titles mismatch (-want +got):\n%s", diff)
		}
		if !strings.Contains(f.model.View(), "Watched Movies (1)") {
			t.Error("expected sidebar count to update")
		}
	})

	t.Run("Narrow Viewport Hides Sidebar", func(t *testing.T) {
		f := newFixture(t, 80, "Heat")

		if strings.Contains(f.model.View(), "Watched Movies") {
			t.Error("expected sidebar hidden on a narrow viewport")
		}

		press(f.model, "esc")
		press(f.model, "w")
		if !strings.Contains(f.model.View(), "Watched Movies (1)") {
			t.Error("expected sidebar after toggling")
		}

		press(f.model, "w")
		if strings.Contains(f.model.View(), "Watched Movies") {
			t.Error("expected sidebar hidden after toggling back")
		}
	})

	t.Run("Focus Cycles Over Visible Panes", func(t *testing.T) {
		f := newFixture(t, 120)
		want := []Pane{ResultsPane, SidebarPane, SearchPane}
		for _, p := range want {
			press(f.model, "tab")
			if f.model.Focus() != p {
				t.Errorf("expected %v, got %v", p, f.model.Focus())
			}
		}
	})

	t.Run("Chooser Toggle", func(t *testing.T) {
		f := newFixture(t, 120)
		press(f.model, "esc")

		press(f.model, "c")
		if f.engine.Snapshot().ChooserOpen {
			t.Error("expected chooser to collapse")
		}
		press(f.model, "c")
		if !f.engine.Snapshot().ChooserOpen || f.model.Focus() != ChooserPane {
			t.Error("expected chooser to expand and take focus")
		}
	})

	t.Run("Quit", func(t *testing.T) {
		f := newFixture(t, 120)
		if !isQuit(press(f.model, "ctrl+c")) {
			t.Error("expected ctrl+c to quit from the search form")
		}
		press(f.model, "esc")
		if !isQuit(press(f.model, "q")) {
			t.Error("expected q to quit outside the search form")
		}
	})
}
