package models

import (
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestMovie(t *testing.T) {
	t.Run("ReleaseLabel", func(t *testing.T) {
		if got := (Movie{}).ReleaseLabel(); got != "Unknown" {
			t.Errorf("expected Unknown, got %s", got)
		}
		if got := (Movie{ReleaseDate: "2010-07-15"}).ReleaseLabel(); got != "2010-07-15" {
			t.Errorf("expected release date, got %s", got)
		}
	})

	t.Run("OverviewText", func(t *testing.T) {
		if got := (Movie{}).OverviewText(); got != "No overview available." {
			t.Errorf("expected placeholder, got %s", got)
		}
	})

	t.Run("PosterURL", func(t *testing.T) {
		if got := (Movie{}).PosterURL(); got != "" {
			t.Errorf("expected empty poster URL, got %s", got)
		}

		m := Movie{PosterPath: "/abc.jpg"}
		if got := m.PosterURL(); got != "https://image.tmdb.org/t/p/w200/abc.jpg" {
			t.Errorf("unexpected poster URL: %s", got)
		}
	})
}

func TestCategoryHeading(t *testing.T) {
	c := Category{ID: 28, Name: "Action"}
	if got := c.Heading(); got != "Top Action Movies by MAKA PAKA" {
		t.Errorf("unexpected heading: %s", got)
	}
}

func TestWatchedList(t *testing.T) {
	t.Run("Add New Title", func(t *testing.T) {
		l := NewWatchedList()
		if !l.Add("Inception") {
			t.Fatal("expected list to change")
		}
		if diff := cmp.Diff([]string{"Inception"}, l.Titles()); diff != "" {
			t.Errorf("titles mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Add Duplicate Title", func(t *testing.T) {
		l := NewWatchedList("Inception", "Heat")
		if l.Add("Inception") {
			t.Error("expected duplicate add to be rejected")
		}
		if diff := cmp.Diff([]string{"Inception", "Heat"}, l.Titles()); diff != "" {
			t.Errorf("titles mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Constructor Collapses Duplicates", func(t *testing.T) {
		l := NewWatchedList("Heat", "Alien", "Heat")
		if diff := cmp.Diff([]string{"Heat", "Alien"}, l.Titles()); diff != "" {
			t.Errorf("titles mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Remove Is Idempotent", func(t *testing.T) {
		l := NewWatchedList("Heat", "Alien")
		if !l.Remove("Heat") {
			t.Error("expected first remove to report a change")
		}
		if l.Remove("Heat") {
			t.Error("expected second remove to be a no-op")
		}
		if l.Contains("Heat") {
			t.Error("expected Heat to be gone")
		}
		if l.Len() != 1 {
			t.Errorf("expected 1 title, got %d", l.Len())
		}
	})

	t.Run("Sort Is Idempotent", func(t *testing.T) {
		l := NewWatchedList("heat", "Alien", "Zodiac", "Brazil")
		l.Sort()
		once := l.Titles()
		l.Sort()

		if diff := cmp.Diff(once, l.Titles()); diff != "" {
			t.Errorf("second sort changed order (-once +twice):\n%s", diff)
		}
		if !slices.IsSorted(once) {
			t.Errorf("expected non-decreasing order, got %v", once)
		}
		if diff := cmp.Diff([]string{"Alien", "Brazil", "Zodiac", "heat"}, once); diff != "" {
			t.Errorf("expected case-sensitive order (-want +got):\n%s", diff)
		}
	})

	t.Run("Titles Returns Copy", func(t *testing.T) {
		l := NewWatchedList("Heat")
		titles := l.Titles()
		titles[0] = "Changed"
		if l.Titles()[0] != "Heat" {
			t.Error("mutating the returned slice should not affect the list")
		}
	})
}

func TestHighlight(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Zero Value Is Inactive", func(t *testing.T) {
		var h Highlight
		if h.Active(0, now) {
			t.Error("zero highlight should never be active")
		}
	})

	t.Run("Expires After Window", func(t *testing.T) {
		h := NewHighlight(42, now)

		if !h.Active(42, now) {
			t.Error("expected highlight to be active immediately")
		}
		if !h.Active(42, now.Add(1999*time.Millisecond)) {
			t.Error("expected highlight to be active inside the window")
		}
		if h.Active(42, now.Add(2*time.Second)) {
			t.Error("expected highlight to expire after 2 seconds")
		}
		if h.Active(7, now) {
			t.Error("expected other ids to be inactive")
		}
	})
}
