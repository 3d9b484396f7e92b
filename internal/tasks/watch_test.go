package tasks

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/desertthunder/maka/internal/repositories"
	"github.com/desertthunder/maka/internal/shared"
	tu "github.com/desertthunder/maka/internal/testing"
)

func newTracker(t *testing.T, store repositories.WatchedStore, clock *tu.Clock) *WatchTracker {
	t.Helper()
	return NewWatchTracker(context.Background(), WatchTrackerOpts{
		Store:  store,
		Logger: quietLogger(),
		Now:    clock.Now,
	})
}

func TestWatchTracker(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

	t.Run("Add New Title", func(t *testing.T) {
		store := &tu.MemoryStore{}
		clock := tu.NewClock(start)
		tracker := newTracker(t, store, clock)

		changed, err := tracker.Add(ctx, "Inception", 27205)
		if err != nil || !changed {
			t.Fatalf("expected add, got changed=%v err=%v", changed, err)
		}
		if diff := cmp.Diff([]string{"Inception"}, tracker.Titles()); diff != "" {
			t.Errorf("titles mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"Inception"}, store.Titles); diff != "" {
			t.Errorf("persisted titles mismatch (-want +got):\n%s", diff)
		}

		if !tracker.JustAdded(27205) {
			t.Error("expected just-added highlight")
		}
		clock.Advance(1500 * time.Millisecond)
		if !tracker.JustAdded(27205) || !tracker.Highlighting() {
			t.Error("expected highlight inside the window")
		}
		clock.Advance(500 * time.Millisecond)
		if tracker.JustAdded(27205) || tracker.Highlighting() {
			t.Error("expected highlight to clear after 2 seconds")
		}
	})

	t.Run("Add Duplicate Title", func(t *testing.T) {
		store := &tu.MemoryStore{Titles: []string{"Inception"}}
		tracker := newTracker(t, store, tu.NewClock(start))

		changed, err := tracker.Add(ctx, "Inception", 99)
		if err != nil || changed {
			t.Errorf("expected duplicate to be ignored, got changed=%v err=%v", changed, err)
		}
		if tracker.Len() != 1 {
			t.Errorf("expected one title, got %d", tracker.Len())
		}
		if tracker.JustAdded(99) {
			t.Error("duplicate add should not highlight")
		}
		if store.Saves != 0 {
			t.Errorf("expected no write, got %d", store.Saves)
		}
	})

	t.Run("Same Title Different Movie Collapses", func(t *testing.T) {
		tracker := newTracker(t, &tu.MemoryStore{}, tu.NewClock(start))
		tracker.Add(ctx, "The Thing", 1091)
		tracker.Add(ctx, "The Thing", 60935)

		if tracker.Len() != 1 {
			t.Errorf("expected titles to collapse, got %v", tracker.Titles())
		}
	})

	t.Run("Latest Add Owns Highlight", func(t *testing.T) {
		clock := tu.NewClock(start)
		tracker := newTracker(t, &tu.MemoryStore{}, clock)

		tracker.Add(ctx, "Heat", 1)
		clock.Advance(time.Second)
		tracker.Add(ctx, "Alien", 2)

		if tracker.JustAdded(1) {
			t.Error("expected earlier highlight to be replaced")
		}
		clock.Advance(1500 * time.Millisecond)
		if !tracker.JustAdded(2) {
			t.Error("expected window to run from the latest add")
		}
	})

	t.Run("Remove Is Idempotent", func(t *testing.T) {
		store := &tu.MemoryStore{Titles: []string{"Heat", "Alien"}}
		tracker := newTracker(t, store, tu.NewClock(start))

		if changed, _ := tracker.Remove(ctx, "Heat"); !changed {
			t.Error("expected first remove to change the list")
		}
		if changed, _ := tracker.Remove(ctx, "Heat"); changed {
			t.Error("expected second remove to be a no-op")
		}
		if tracker.Contains("Heat") {
			t.Error("expected Heat to be removed")
		}
		if diff := cmp.Diff([]string{"Alien"}, store.Titles); diff != "" {
			t.Errorf("persisted titles mismatch (-want +got):\n%s", diff)
		}
		if store.Saves != 1 {
			t.Errorf("expected one write, got %d", store.Saves)
		}
	})

	t.Run("Sort Is Idempotent And Persisted", func(t *testing.T) {
		store := &tu.MemoryStore{Titles: []string{"Zodiac", "alien", "Brazil"}}
		tracker := newTracker(t, store, tu.NewClock(start))

		if err := tracker.Sort(ctx); err != nil {
			t.Fatal(err)
		}
		once := tracker.Titles()
		if err := tracker.Sort(ctx); err != nil {
			t.Fatal(err)
		}

		want := []string{"Brazil", "Zodiac", "alien"}
		if diff := cmp.Diff(want, once); diff != "" {
			t.Errorf("sorted titles mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(once, tracker.Titles()); diff != "" {
			t.Errorf("second sort changed order:\n%s", diff)
		}
		if diff := cmp.Diff(want, store.Titles); diff != "" {
			t.Errorf("persisted order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Reload Scenario", func(t *testing.T) {
		db, err := shared.NewDatabase(":memory:")
		if err != nil {
			t.Fatal(err)
		}
		defer db.Close()
		if err := shared.RunMigrations(db); err != nil {
			t.Fatal(err)
		}
		store := repositories.NewSQLiteWatchedStore(repositories.NewKVRepository(db))

		first := newTracker(t, store, tu.NewClock(start))
		if _, err := first.Add(ctx, "Inception", 1); err != nil {
			t.Fatal(err)
		}

		restarted := newTracker(t, store, tu.NewClock(start))
		if diff := cmp.Diff([]string{"Inception"}, restarted.Titles()); diff != "" {
			t.Errorf("reloaded titles mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Malformed Stored Value", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		if err := afero.WriteFile(fsys, "/watched.json", []byte("{definitely not json"), 0644); err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		tracker := NewWatchTracker(ctx, WatchTrackerOpts{
			Store:  repositories.NewFileWatchedStore(fsys, "/watched.json"),
			Logger: shared.NewLogger(&buf),
		})

		if tracker.Len() != 0 {
			t.Errorf("expected empty list, got %v", tracker.Titles())
		}
		if !strings.Contains(buf.String(), "invalid") {
			t.Errorf("expected warning to be logged, got %s", buf.String())
		}

		if _, err := tracker.Add(ctx, "Heat", 1); err != nil {
			t.Fatal(err)
		}
		data, _ := afero.ReadFile(fsys, "/watched.json")
		if string(data) != `["Heat"]` {
			t.Errorf("expected corrupt value to be overwritten, got %s", data)
		}
	})

	t.Run("Load Failure Starts Empty", func(t *testing.T) {
		store := &tu.MemoryStore{LoadErr: shared.ErrStorage}
		tracker := newTracker(t, store, tu.NewClock(start))
		if tracker.Len() != 0 {
			t.Errorf("expected empty list, got %v", tracker.Titles())
		}
	})

	t.Run("Duplicates In Stored Value Collapse", func(t *testing.T) {
		store := &tu.MemoryStore{Titles: []string{"Heat", "Heat", "Alien"}}
		tracker := newTracker(t, store, tu.NewClock(start))
		if diff := cmp.Diff([]string{"Heat", "Alien"}, tracker.Titles()); diff != "" {
			t.Errorf("titles mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Save Failure Keeps In-Memory Change", func(t *testing.T) {
		store := &tu.MemoryStore{SaveErr: shared.ErrStorage}
		tracker := newTracker(t, store, tu.NewClock(start))

		changed, err := tracker.Add(ctx, "Heat", 1)
		if !changed || !errors.Is(err, shared.ErrStorage) {
			t.Errorf("expected change with storage error, got changed=%v err=%v", changed, err)
		}
		if !tracker.Contains("Heat") {
			t.Error("expected in-memory list to keep the title")
		}
	})
}
