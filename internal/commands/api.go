package commands

import (
	"github.com/bethropolis/tidelist/internal/core/history"
	"github.com/bethropolis/tidelist/internal/plugin"
	"github.com/bethropolis/tidelist/internal/theme"
)

// Registrar is where built-in commands are registered.
type Registrar interface {
	RegisterCommand(name string, cmdFunc plugin.CommandFunc) error
}

// ThemeAPI extends the commands functionality to support theme operations
type ThemeAPI interface {
	SetTheme(name string) error
	GetTheme() *theme.Theme
	ListThemes(pattern string) []string
	SetStatusMessage(format string, args ...any)
}

// HistoryAPI exposes the undo history and the persistence operations of the list.
type HistoryAPI interface {
	BeginCompound(undoable bool) error
	EndCompound() error
	Undo() (bool, error)
	Redo() (bool, error)
	ClearUndo() error
	HistoryGroups() []history.Group
	HistoryInfo() (cursor, depth int)

	SaveSnapshot(path string) error
	RestoreSnapshot(path string) error
	WriteList(path string) error
	RequestQuit(force bool)

	SetStatusMessage(format string, args ...any)
}

// FindAPI exposes regexp search and substitution over the entry texts.
type FindAPI interface {
	Search(pattern string) error
	FindNext(forward bool) error
	Substitute(pattern, replacement string, global bool) (int, error)
	ClearSearch()
	SetStatusMessage(format string, args ...any)
}
