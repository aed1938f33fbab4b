// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/kugarocks/markdown-finder/internal/core/domain"
)

// IndexChanged carries one applied file system change.
type IndexChanged struct {
	Event domain.IndexEvent
}

// WatchStopped is sent when the index event stream closes.
type WatchStopped struct{}

// Action identifies a result action.
type Action int

const (
	// ActionCopyPath copies the document path.
	ActionCopyPath Action = iota
	// ActionCopyContent copies the raw markdown.
	ActionCopyContent
	// ActionOpen opens the document externally.
	ActionOpen
	// ActionCopyCode copies one fenced code block.
	ActionCopyCode
)

// String returns a past-tense description used in the status bar.
func (a Action) String() string {
	switch a {
	case ActionCopyPath:
		return "copied path"
	case ActionCopyContent:
		return "copied content"
	case ActionOpen:
		return "opened"
	case ActionCopyCode:
		return "copied code block"
	default:
		return "unknown"
	}
}

// ActionCompleted reports the outcome of a result action.
type ActionCompleted struct {
	Action Action
	Path   string
	// Block is the zero-based code block for ActionCopyCode.
	Block int
	Err   error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
