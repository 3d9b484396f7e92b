package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/maka/internal/models"
	"github.com/desertthunder/maka/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgResultsFetched MsgKind = iota
	MsgCategoriesFetched
	MsgTick
)

// resultsFetchedMsg is the constructor for [MsgResultsFetched]
func resultsFetchedMsg(resp tasks.Response) Msg {
	return Msg{kind: MsgResultsFetched, data: resp}
}

// categoriesFetchedMsg is the constructor for [MsgCategoriesFetched]
func categoriesFetchedMsg(categories []models.Category, err error) Msg {
	return Msg{
		kind: MsgCategoriesFetched,
		data: struct {
			categories []models.Category
			err        error
		}{categories, err},
	}
}

// tickMsg is the constructor for [MsgTick]
func tickMsg() Msg {
	return Msg{kind: MsgTick}
}
