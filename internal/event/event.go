// internal/event/event.go
package event

import (
	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/tidelist/internal/core/observable"
	"github.com/bethropolis/tidelist/internal/entry"
)

// Type identifies the kind of event.
type Type int

// Define specific event types.
const (
	TypeUnknown Type = iota

	// List Events
	TypeListChanged    // Fired once per change record the list emits
	TypeHistoryChanged // Fired after undo, redo, clearundo, compound end or restore
	TypeSelectionMoved // Fired when the selected row changes
	TypeSnapshotSaved  // Fired after a snapshot has been written to disk
	TypeModeChanged    // Fired when the input mode changes

	// Input Events (useful for plugins reacting to raw keys)
	TypeKeyPressed

	// Application Lifecycle Events
	TypeAppReady // Fired when the application is fully initialized
	TypeAppQuit  // Fired just before application termination begins

	TypeThemeChanged // Fired when the theme is changed
)

var typeNames = map[Type]string{
	TypeUnknown:        "unknown",
	TypeListChanged:    "list-changed",
	TypeHistoryChanged: "history-changed",
	TypeSelectionMoved: "selection-moved",
	TypeSnapshotSaved:  "snapshot-saved",
	TypeModeChanged:    "mode-changed",
	TypeKeyPressed:     "key-pressed",
	TypeAppReady:       "app-ready",
	TypeAppQuit:        "app-quit",
	TypeThemeChanged:   "theme-changed",
}

// String implements fmt.Stringer.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type // The kind of event
	Data any  // Payload carrying event-specific data
}

// --- Specific Event Data Structures ---

// ListChangedData carries one change record from the list.
type ListChangedData struct {
	Change observable.Change[entry.Entry]
	Len    int // Length after the change
}

// HistoryChangedData describes the history state after an operation.
type HistoryChangedData struct {
	Op      string // "undo", "redo", "clearundo", "end", "restore"
	Cursor  int
	Depth   int
	CanUndo bool
	CanRedo bool
}

// SelectionMovedData contains the new selected row.
type SelectionMovedData struct {
	Index int
}

// SnapshotSavedData contains the path a snapshot was written to.
type SnapshotSavedData struct {
	Path  string
	Bytes int
}

// ModeChangedData contains the new mode name.
type ModeChangedData struct {
	Mode string
}

// KeyPressedData contains the raw tcell key event.
type KeyPressedData struct {
	KeyEvent *tcell.EventKey
}

// ThemeChangedData contains the name of the active theme.
type ThemeChangedData struct {
	Name string
}

// AppQuitData could contain exit code or reason later.
type AppQuitData struct{}

// AppReadyData could contain initial config or state later.
type AppReadyData struct{}
