// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

// RecommendRequested asks the pipeline for a recommendation.
type RecommendRequested struct {
	Query string
}

// TurnCompleted carries one pipeline result back to the model.
type TurnCompleted struct {
	Turn *domain.Turn
	Err  error
}

// IndexCompleted reports a finished (re)index.
type IndexCompleted struct {
	Count int
	Err   error

	// Watched is true when the dataset watcher triggered the reindex.
	Watched bool
}

// VoiceChanged reports the newly selected speech voice.
type VoiceChanged struct {
	Voice domain.Voice
}

// BooksLoaded carries the catalog titles.
type BooksLoaded struct {
	Titles []string
	Err    error
}

// SummaryLoaded carries the full summary of one book.
type SummaryLoaded struct {
	Title   string
	Summary string
	Err     error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewRecommend is the query input and recommendation view.
	ViewRecommend
	// ViewBooks browses the catalog.
	ViewBooks
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewRecommend:
		return "recommend"
	case ViewBooks:
		return "books"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
