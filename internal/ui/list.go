package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/desertthunder/maka/internal/models"
)

const addedBadge = "✓ Added to watched"

var (
	_ list.Item         = movieItem{}
	_ list.Item         = watchedItem{}
	_ list.ItemDelegate = movieDelegate{}
)

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie models.Movie
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string       { return i.movie.Title }
func (i movieItem) Description() string {
	return fmt.Sprintf("Release Date: %s", i.movie.ReleaseLabel())
}

// watchedItem wraps a watched title to implement [list.Item].
type watchedItem struct {
	title string
}

func (i watchedItem) FilterValue() string { return i.title }
func (i watchedItem) Title() string       { return i.title }
func (i watchedItem) Description() string { return "" }

// movieDelegate renders a result as a title line, a release line and a one-line overview.
//
// Watched and just-added markers are looked up at render time so the highlight clears on the next frame after it
// expires without rebuilding the list.
type movieDelegate struct {
	watched   func(title string) bool
	justAdded func(id int) bool
}

func (d movieDelegate) Height() int                               { return 3 }
func (d movieDelegate) Spacing() int                              { return 1 }
func (d movieDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d movieDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(movieItem)
	if !ok {
		return
	}

	width := max(m.Width()-2, 10)
	cursor := "  "
	title := i.movie.Title
	if index == m.Index() {
		cursor = "> "
		title = styles.selected.Render(title)
	}

	var marker string
	switch {
	case d.justAdded != nil && d.justAdded(i.movie.ID):
		marker = " " + styles.ok.Render(addedBadge)
	case d.watched != nil && d.watched(i.movie.Title):
		marker = " " + styles.help.Render("(watched)")
	}

	lines := []string{
		cursor + title + marker,
		"  " + styles.help.Render(i.Description()),
		"  " + ansi.Truncate(i.movie.OverviewText(), width-2, "…"),
	}
	fmt.Fprint(w, strings.Join(lines, "\n"))
}

// newWatchedDelegate renders watched titles one per line.
func newWatchedDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	d.SetSpacing(0)
	return d
}

func movieItems(movies []models.Movie) []list.Item {
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		items[i] = movieItem{movie: m}
	}
	return items
}

func watchedItems(titles []string) []list.Item {
	items := make([]list.Item, len(titles))
	for i, title := range titles {
		items[i] = watchedItem{title: title}
	}
	return items
}
