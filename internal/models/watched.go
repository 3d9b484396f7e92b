package models

import (
	"slices"
	"time"
)

// JustAddedWindow is how long a freshly watched movie stays highlighted.
const JustAddedWindow = 2 * time.Second

// WatchedList is an ordered set of movie titles.
//
// Two movies sharing a title collapse into one entry. Order is insertion order until [WatchedList.Sort] is called.
type WatchedList struct {
	titles []string
}

// NewWatchedList builds a list from titles, keeping the first occurrence of any duplicate.
func NewWatchedList(titles ...string) *WatchedList {
	l := &WatchedList{titles: make([]string, 0, len(titles))}
	for _, t := range titles {
		l.Add(t)
	}
	return l
}

// Add appends title when it is not already present and reports whether the list changed.
func (l *WatchedList) Add(title string) bool {
	if l.Contains(title) {
		return false
	}
	l.titles = append(l.titles, title)
	return true
}

// Remove drops title and reports whether it was present.
func (l *WatchedList) Remove(title string) bool {
	n := len(l.titles)
	l.titles = slices.DeleteFunc(l.titles, func(t string) bool { return t == title })
	return len(l.titles) != n
}

// Sort orders titles lexicographically (byte-wise, case-sensitive). The previous order is not kept.
func (l *WatchedList) Sort() {
	slices.Sort(l.titles)
}

func (l *WatchedList) Contains(title string) bool {
	return slices.Contains(l.titles, title)
}

func (l *WatchedList) Len() int { return len(l.titles) }

// Titles returns a copy of the titles in their current order.
func (l *WatchedList) Titles() []string {
	return slices.Clone(l.titles)
}

// Highlight marks one movie as "just added" until Expires.
//
// The zero value is inactive. There is no timer: callers compare against their clock on each render.
type Highlight struct {
	MovieID int
	Expires time.Time
}

// NewHighlight starts a [JustAddedWindow] highlight for id at now.
func NewHighlight(id int, now time.Time) Highlight {
	return Highlight{MovieID: id, Expires: now.Add(JustAddedWindow)}
}

// Live reports whether the highlight has not yet expired at now.
func (h Highlight) Live(now time.Time) bool {
	return now.Before(h.Expires)
}

// Active reports whether id is highlighted at now.
func (h Highlight) Active(id int, now time.Time) bool {
	return h.MovieID == id && h.Live(now)
}
