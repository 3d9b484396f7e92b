// Package web renders the movie search page as server-side HTML.
//
// The page mirrors the TUI: a search form, the collapsible category chooser, the selected category heading, result
// cards with an "Add to Watched" action and the watched sidebar. Every control is a plain form POST; the server applies
// the transition and redirects back to "/", so the page works without JavaScript.
//
// The sidebar is hidden by CSS on narrow viewports unless it has been toggled open.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/desertthunder/maka/internal/models"
	"github.com/desertthunder/maka/internal/tasks"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	SearchPlaceholder = "Search for a movie..."
	SubmitHint        = "Maka Pakala"
	AddedBadge        = "✓ Added to watched"
)

// CategoryButton is one entry in the category chooser.
type CategoryButton struct {
	models.Category
	Selected bool
}

// ResultCard is one rendered search or discover result.
type ResultCard struct {
	models.Movie
	JustAdded bool
	Watched   bool
}

// PageData is everything the page template reads.
type PageData struct {
	Query       string
	Heading     string
	ChooserOpen bool
	Categories  []CategoryButton
	Browsed     bool // a search or discover has completed at least once
	Results     []ResultCard
	Watched     []string
	SidebarOpen bool
	Error       string

	Placeholder string
	SubmitHint  string
	AddedBadge  string
}

// PageState is the live state a page is built from.
type PageState struct {
	Snapshot    tasks.Snapshot
	Watched     []string
	JustAdded   func(id int) bool
	SidebarOpen bool
	Error       string
}

// BuildPage flattens live state into template data.
func BuildPage(state PageState) PageData {
	snap := state.Snapshot
	data := PageData{
		Query:       snap.Query,
		Heading:     snap.Heading(),
		ChooserOpen: snap.ChooserOpen,
		Browsed:     snap.Phase != tasks.Idle,
		Watched:     state.Watched,
		SidebarOpen: state.SidebarOpen,
		Error:       state.Error,
		Placeholder: SearchPlaceholder,
		SubmitHint:  SubmitHint,
		AddedBadge:  AddedBadge,
	}

	for _, c := range snap.Categories {
		data.Categories = append(data.Categories, CategoryButton{
			Category: c,
			Selected: snap.Selected != nil && snap.Selected.ID == c.ID,
		})
	}

	watched := make(map[string]bool, len(state.Watched))
	for _, title := range state.Watched {
		watched[title] = true
	}
	for _, m := range snap.Results {
		data.Results = append(data.Results, ResultCard{
			Movie:     m,
			JustAdded: state.JustAdded != nil && state.JustAdded(m.ID),
			Watched:   watched[m.Title],
		})
	}
	return data
}

// Renderer executes the embedded page template.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the full page.
func (r *Renderer) Render(w io.Writer, data PageData) error {
	if err := r.tmpl.ExecuteTemplate(w, "page.html", data); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}
