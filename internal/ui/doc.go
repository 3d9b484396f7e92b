// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI renders the movie search page as panes that take keyboard focus in turn:
//  1. Search form : a [textinput.Model] submitting title searches
//  2. Category chooser : a collapsible grid of genre buttons
//  3. Results : a [list.Model] of catalog results, enter marks a movie as watched
//  4. Sidebar : the watched list, with delete and sort
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Catalog requests run as commands and report back through [MsgResultsFetched]; the [tasks.BrowseEngine] discards
// responses that were superseded by a newer request. The just-added highlight is kept alive by a render tick that
// only runs while [tasks.WatchTracker.Highlighting] is true.
//
// Keyboard navigation uses vim-style bindings (hjkl, enter, tab, /, c, d, s, w, q) with contextual help displayed via
// charmbracelet/bubbles/help.
package ui
