// Package ui implements an interactive terminal browser for recommendations using bubbletea's Elm architecture.
//
// The TUI has three views:
//  1. [AllView] : every recommendation, newest first
//  2. [TopView] : the highest scores, ties broken by ID
//  3. [RandomView] : a single score-weighted random pick
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving engine results as [Msg] values
// produced by commands, so the engine is never called on the render path.
//
// Voting acts on the selected row (or the current pick); a downvote that evicts a recommendation reloads the view
// and reports the eviction in the status line.
package ui
