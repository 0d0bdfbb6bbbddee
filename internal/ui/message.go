package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/singme/internal/models"
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
	MsgRecommendationsLoaded MsgKind = iota
	MsgRandomPicked
	MsgVoted
)

type loaded struct {
	view ViewState
	recs []models.Recommendation
	err  error
}

type picked struct {
	rec *models.Recommendation
	err error
}

type voted struct {
	rec       models.Recommendation
	direction models.Direction
	evicted   bool
	err       error
}

// loadedMsg is the constructor for [MsgRecommendationsLoaded]
func loadedMsg(view ViewState, recs []models.Recommendation, err error) Msg {
	return Msg{kind: MsgRecommendationsLoaded, data: loaded{view: view, recs: recs, err: err}}
}

// pickedMsg is the constructor for [MsgRandomPicked]
func pickedMsg(rec *models.Recommendation, err error) Msg {
	return Msg{kind: MsgRandomPicked, data: picked{rec: rec, err: err}}
}

// votedMsg is the constructor for [MsgVoted]
func votedMsg(rec models.Recommendation, direction models.Direction, evicted bool, err error) Msg {
	return Msg{kind: MsgVoted, data: voted{rec: rec, direction: direction, evicted: evicted, err: err}}
}
