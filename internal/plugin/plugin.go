// internal/plugin/plugin.go
package plugin

import (
	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/tidelist/internal/entry"
	"github.com/bethropolis/tidelist/internal/event"
	"github.com/bethropolis/tidelist/internal/theme"
)

// CommandFunc defines the signature for commands registered by plugins.
// It takes arguments (e.g., from user input) and returns an error.
type CommandFunc func(args []string) error

// ListAPI defines the methods plugins can use to interact with the list.
// Except for RunOnMain, methods must be called from the main loop: inside a
// command, an event handler or a function passed to RunOnMain.
type ListAPI interface {
	// --- List Access ---
	Entries() []entry.Entry
	Entry(i int) (entry.Entry, error)
	Len() int
	Selected() int // -1 when the list is empty
	ListFilePath() string
	IsModified() bool

	// --- List Modification (recorded in the undo history) ---
	Append(e entry.Entry) error
	InsertAt(i int, e entry.Entry) error
	SetAt(i int, e entry.Entry) error
	RemoveAt(i int) (entry.Entry, error)
	ClearList() error
	// Transaction runs fn as one undo step, reverting it when fn fails.
	Transaction(fn func() error) error

	// --- History ---
	Undo() (bool, error)
	Redo() (bool, error)
	Snapshot() ([]byte, error)
	HistoryInfo() (cursor, depth int)

	// --- Event Bus Interaction ---
	DispatchEvent(eventType event.Type, data any)
	SubscribeEvent(eventType event.Type, handler event.Handler) event.SubscriptionID
	UnsubscribeEvent(id event.SubscriptionID) bool

	// --- Command Registration ---
	RegisterCommand(name string, cmdFunc CommandFunc) error

	// --- Status Bar ---
	SetStatusMessage(format string, args ...any)

	// --- Theme Access ---
	GetThemeStyle(styleName string) tcell.Style
	SetTheme(name string) error
	GetTheme() *theme.Theme
	ListThemes(pattern string) []string

	// --- Configuration ---
	GetPluginConfigValue(pluginName, key string) (any, bool)

	// --- Main loop ---
	// RunOnMain queues fn to run on the main loop. Safe from any goroutine.
	RunOnMain(fn func())
	RequestQuit(force bool)
}

// Plugin defines the interface that all plugins must implement.
type Plugin interface {
	// Name returns the unique identifier name of the plugin. It is also the
	// key of the plugin's [plugins.<name>] config table.
	Name() string

	// Initialize is called once when the plugin is loaded.
	// Used for setup, subscribing to events, registering commands.
	Initialize(api ListAPI) error

	// Shutdown is called once when the application is closing.
	Shutdown() error
}
