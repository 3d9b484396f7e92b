package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"

	"github.com/desertthunder/maka/internal/models"
	"github.com/desertthunder/maka/internal/shared"
	"github.com/desertthunder/maka/internal/tasks"
)

const (
	narrowWidth  = 100 // below this the sidebar is hidden unless toggled
	sidebarWidth = 34
	buttonWidth  = 20
	tickInterval = 250 * time.Millisecond

	searchPlaceholder = "Search for a movie..."
	submitHint        = "Maka Pakala"
)

// Pane identifies which part of the page has keyboard focus.
type Pane int

const (
	SearchPane Pane = iota
	ChooserPane
	ResultsPane
	SidebarPane
)

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	engine      *tasks.BrowseEngine
	tracker     *tasks.WatchTracker
	logger      *log.Logger
	width       int
	height      int
	focus       Pane
	input       textinput.Model
	results     list.Model
	watched     list.Model
	cursor      int
	showSidebar bool
	ticking     bool
	err         error
	help        help.Model
	keys        keyMap
}

// NewModel creates a new TUI model with the provided dependencies. The search form starts focused.
func NewModel(ctx context.Context, engine *tasks.BrowseEngine, tracker *tasks.WatchTracker, logger *log.Logger) *Model {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	input := textinput.New()
	input.Placeholder = searchPlaceholder
	input.CharLimit = 200
	input.Focus()

	results := list.New(nil, movieDelegate{watched: tracker.Contains, justAdded: tracker.JustAdded}, 0, 0)
	configureList(&results)
	results.SetShowTitle(false)

	watched := list.New(nil, newWatchedDelegate(), 0, 0)
	configureList(&watched)

	m := &Model{
		ctx:     ctx,
		engine:  engine,
		tracker: tracker,
		logger:  logger,
		focus:   SearchPane,
		input:   input,
		results: results,
		watched: watched,
		help:    help.New(),
		keys:    newKeyMap(),
	}
	m.refreshWatched()
	return m
}

func configureList(l *list.Model) {
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
}

// Init fetches the genre list for the category chooser.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadCategories())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgResultsFetched:
		resp, _ := msg.data.(tasks.Response)
		// Catalog failures are logged by the engine and leave the view as it was.
		if !m.engine.Apply(resp) {
			return m, nil
		}

		snap := m.engine.Snapshot()
		cmd := m.results.SetItems(movieItems(snap.Results))
		m.results.Select(0)
		if resp.Kind == tasks.SearchRequest || m.focus == ChooserPane {
			m.focus = ResultsPane
		}
		m.resize()
		return m, tea.Batch(cmd, m.syncFocus())

	case MsgCategoriesFetched:
		data, _ := msg.data.(struct {
			categories []models.Category
			err        error
		})
		if data.err != nil {
			return m, nil
		}
		m.cursor = min(m.cursor, max(len(data.categories)-1, 0))
		m.resize()
		return m, nil

	case MsgTick:
		if m.tracker.Highlighting() {
			return m, m.tick()
		}
		m.ticking = false
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.hardQuit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.next):
		m.cycleFocus(1)
		return m, m.syncFocus()
	case key.Matches(msg, m.keys.prev):
		m.cycleFocus(-1)
		return m, m.syncFocus()
	}

	if m.focus == SearchPane {
		return m.handleSearchKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		m.focus = SearchPane
		return m, m.syncFocus()
	case key.Matches(msg, m.keys.chooser):
		if m.engine.ToggleChooser() {
			m.focus = ChooserPane
		} else if m.focus == ChooserPane {
			m.focus = ResultsPane
		}
		m.resize()
		return m, nil
	case key.Matches(msg, m.keys.sidebar):
		m.showSidebar = !m.showSidebar
		if !m.sidebarVisible() && m.focus == SidebarPane {
			m.focus = ResultsPane
		}
		m.resize()
		return m, nil
	}

	switch m.focus {
	case ChooserPane:
		return m.handleChooserKeys(msg)
	case ResultsPane:
		return m.handleResultsKeys(msg)
	case SidebarPane:
		return m.handleSidebarKeys(msg)
	}
	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.enter):
		req, ok := m.engine.BeginSearch(m.input.Value())
		if !ok {
			return m, nil
		}
		return m, m.fetch(req)
	case key.Matches(msg, m.keys.back):
		m.focus = ResultsPane
		return m, m.syncFocus()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleChooserKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	categories := m.engine.Snapshot().Categories
	if len(categories) == 0 {
		return m, nil
	}

	cols := m.gridColumns()
	switch {
	case key.Matches(msg, m.keys.left):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keys.right):
		m.cursor = min(m.cursor+1, len(categories)-1)
	case key.Matches(msg, m.keys.up):
		if m.cursor-cols >= 0 {
			m.cursor -= cols
		}
	case key.Matches(msg, m.keys.down):
		if m.cursor+cols < len(categories) {
			m.cursor += cols
		}
	case key.Matches(msg, m.keys.enter):
		req := m.engine.BeginDiscover(categories[m.cursor])
		m.focus = ResultsPane
		m.resize()
		return m, m.fetch(req)
	}
	return m, nil
}

func (m *Model) handleResultsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.enter) {
		item, ok := m.results.SelectedItem().(movieItem)
		if !ok {
			return m, nil
		}

		// Storage errors stay on screen until the next watched-list action succeeds.
		changed, err := m.tracker.Add(m.ctx, item.movie.Title, item.movie.ID)
		m.err = err
		if !changed {
			return m, nil
		}
		m.logger.Info("marked as watched", "title", item.movie.Title, "movie_id", item.movie.ID)
		m.refreshWatched()
		return m, m.startTick()
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) handleSidebarKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.remove):
		item, ok := m.watched.SelectedItem().(watchedItem)
		if !ok {
			return m, nil
		}
		_, m.err = m.tracker.Remove(m.ctx, item.title)
		m.logger.Info("removed from watched", "title", item.title)
		m.refreshWatched()
		return m, nil
	case key.Matches(msg, m.keys.sort):
		m.err = m.tracker.Sort(m.ctx)
		m.logger.Debug("sorted watched list", "count", m.tracker.Len())
		m.refreshWatched()
		return m, nil
	}

	var cmd tea.Cmd
	m.watched, cmd = m.watched.Update(msg)
	return m, cmd
}

// panes lists the currently focusable panes in tab order.
func (m *Model) panes() []Pane {
	panes := []Pane{SearchPane}
	snap := m.engine.Snapshot()
	if snap.ChooserOpen && len(snap.Categories) > 0 {
		panes = append(panes, ChooserPane)
	}
	panes = append(panes, ResultsPane)
	if m.sidebarVisible() {
		panes = append(panes, SidebarPane)
	}
	return panes
}

func (m *Model) cycleFocus(dir int) {
	panes := m.panes()
	idx := 0
	for i, p := range panes {
		if p == m.focus {
			idx = i
			break
		}
	}
	m.focus = panes[(idx+dir+len(panes))%len(panes)]
}

// syncFocus moves the text cursor in or out of the search form.
func (m *Model) syncFocus() tea.Cmd {
	if m.focus == SearchPane {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

func (m *Model) refreshWatched() {
	titles := m.tracker.Titles()
	m.watched.SetItems(watchedItems(titles))
	m.watched.Title = fmt.Sprintf("Watched Movies (%d)", len(titles))
	if n := len(titles); n > 0 && m.watched.Index() >= n {
		m.watched.Select(n - 1)
	}
}

func (m *Model) sidebarVisible() bool {
	return m.width >= narrowWidth || m.showSidebar
}

func (m *Model) mainWidth() int {
	if m.sidebarVisible() {
		return max(m.width-sidebarWidth-1, 20)
	}
	return max(m.width, 20)
}

func (m *Model) gridColumns() int {
	return max((m.mainWidth()-2)/buttonWidth, 1)
}

func (m *Model) resize() {
	width := m.mainWidth()
	m.input.Width = max(width-lipgloss.Width(submitHint)-30, 10)

	header := lipgloss.Height(m.renderHeader(m.engine.Snapshot(), width))
	m.results.SetSize(width, max(m.height-header-2, 4))
	m.watched.SetSize(sidebarWidth-4, max(m.height-6, 4))
}

func (m *Model) fetch(req tasks.Request) tea.Cmd {
	return func() tea.Msg {
		return resultsFetchedMsg(m.engine.Fetch(m.ctx, req))
	}
}

func (m *Model) loadCategories() tea.Cmd {
	return func() tea.Msg {
		categories, err := m.engine.LoadCategories(m.ctx)
		return categoriesFetchedMsg(categories, err)
	}
}

// startTick starts the render tick unless one is already running.
func (m *Model) startTick() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return tickMsg() })
}

// View renders the page, with the sidebar beside the main column when it is visible.
func (m *Model) View() string {
	snap := m.engine.Snapshot()
	width := m.mainWidth()

	page := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(snap, width),
		m.renderResults(snap),
		m.renderHelp(),
	)
	if !m.sidebarVisible() {
		return page
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, page, " ", m.renderSidebar())
}

func (m *Model) renderHeader(snap tasks.Snapshot, width int) string {
	sections := []string{
		styles.title.Render("MAKA PAKA"),
		m.renderSearch(width),
		m.renderChooser(snap),
	}
	if heading := snap.Heading(); heading != "" {
		sections = append(sections, styles.heading.Render(heading))
	}
	switch {
	case m.err != nil:
		sections = append(sections, styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
	case snap.Loading:
		sections = append(sections, styles.warn.Render("Loading..."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderSearch(width int) string {
	hint := styles.button.Render("⏎ " + submitHint)
	panel := styles.panel
	if m.focus == SearchPane {
		hint = styles.buttonActive.Render("⏎ " + submitHint)
		panel = styles.panelFocused
	}
	return panel.Width(max(width-2, 10)).Render(m.input.View() + "  " + hint)
}

func (m *Model) renderChooser(snap tasks.Snapshot) string {
	if !snap.ChooserOpen {
		return styles.help.Render("▸ Categories (c to expand)")
	}
	if len(snap.Categories) == 0 {
		return styles.help.Render("▾ Categories: loading...")
	}

	cols := m.gridColumns()
	rows := []string{styles.help.Render("▾ Categories (c to collapse)")}
	var row []string
	for i, c := range snap.Categories {
		style := styles.button
		switch {
		case m.focus == ChooserPane && i == m.cursor:
			style = styles.buttonActive
		case snap.Selected != nil && snap.Selected.ID == c.ID:
			style = styles.selected.Padding(0, 1)
		}
		row = append(row, style.Width(buttonWidth).Render(ansi.Truncate(c.Name, buttonWidth-2, "…")))
		if len(row) == cols || i == len(snap.Categories)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderResults(snap tasks.Snapshot) string {
	if len(snap.Results) == 0 {
		if snap.Phase == tasks.Idle {
			return styles.help.Render("\nSearch for a title or pick a category to get started.")
		}
		return styles.help.Render("\nNo movies found.")
	}
	return m.results.View()
}

func (m *Model) renderSidebar() string {
	panel := styles.panel
	if m.focus == SidebarPane {
		panel = styles.panelFocused
	}

	body := m.watched.View()
	if len(m.watched.Items()) == 0 {
		body = lipgloss.JoinVertical(lipgloss.Left,
			styles.heading.Render(m.watched.Title),
			"",
			styles.help.Render("Nothing watched yet."),
		)
	}
	return panel.Width(sidebarWidth - 2).Render(body)
}

func (m *Model) renderHelp() string {
	var helpKeys []key.Binding
	switch m.focus {
	case SearchPane:
		submit := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", submitHint))
		helpKeys = []key.Binding{submit, m.keys.back, m.keys.next, m.keys.hardQuit}
	case ChooserPane:
		pick := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "browse"))
		helpKeys = []key.Binding{m.keys.left, m.keys.right, pick, m.keys.chooser, m.keys.next, m.keys.quit}
	case ResultsPane:
		mark := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "mark watched"))
		helpKeys = []key.Binding{m.keys.up, m.keys.down, mark, m.keys.search, m.keys.chooser, m.keys.sidebar, m.keys.quit}
	case SidebarPane:
		helpKeys = []key.Binding{m.keys.up, m.keys.down, m.keys.remove, m.keys.sort, m.keys.next, m.keys.quit}
	}
	return "\n" + m.help.ShortHelpView(helpKeys)
}

// Focus reports which pane has keyboard focus.
func (m *Model) Focus() Pane {
	return m.focus
}
