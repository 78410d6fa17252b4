// internal/app/app.go
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/tidelist/internal/clipboard"
	"github.com/bethropolis/tidelist/internal/commands"
	"github.com/bethropolis/tidelist/internal/config"
	"github.com/bethropolis/tidelist/internal/core/history"
	"github.com/bethropolis/tidelist/internal/core/observable"
	"github.com/bethropolis/tidelist/internal/core/vector"
	"github.com/bethropolis/tidelist/internal/entry"
	"github.com/bethropolis/tidelist/internal/event"
	"github.com/bethropolis/tidelist/internal/find"
	"github.com/bethropolis/tidelist/internal/highlighter"
	"github.com/bethropolis/tidelist/internal/highlighter/lang"
	"github.com/bethropolis/tidelist/internal/input"
	"github.com/bethropolis/tidelist/internal/logger"
	"github.com/bethropolis/tidelist/internal/modehandler"
	"github.com/bethropolis/tidelist/internal/plugin"
	"github.com/bethropolis/tidelist/internal/statusbar"
	"github.com/bethropolis/tidelist/internal/theme"
	"github.com/bethropolis/tidelist/internal/tui"
)

// App encapsulates the core components and main loop of the list shell.
// Everything except RunOnMain runs on the goroutine that called Run.
type App struct {
	cfg           *config.Config
	tuiManager    *tui.TUI
	list          *entry.List
	stash         *vector.Vector[entry.Entry]
	clipboard     *clipboard.Manager
	statusBar     *statusbar.StatusBar
	eventManager  *event.Manager
	pluginManager *plugin.Manager
	modeHandler   *modehandler.ModeHandler
	themeManager  *theme.Manager
	highlighter   *highlighter.Highlighter
	jsonLang      *lang.Language
	listAPI       *appListAPI
	finder        *find.Manager

	listPath string
	modified bool
	loading  bool // Suppresses the modified flag while the list file loads

	// View state
	selected      int // -1 when the list is empty
	top           int
	inspector     bool
	inspectorTop  int
	inspectorView *tui.InspectorView // Cached, nil when stale

	quitting     bool
	messageTimer *time.Timer
}

// NewApp creates and initializes a new application instance on a real terminal.
func NewApp(cfg *config.Config, listPath string) (*App, error) {
	themeManager := theme.NewManager(config.ThemesDir(), cfg.View.Theme)
	tuiManager, err := tui.New(themeManager.Current().GetStyle("Default"))
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}
	a, err := newApp(cfg, tuiManager, themeManager, listPath)
	if err != nil {
		tuiManager.Close()
		return nil, err
	}
	return a, nil
}

// newApp wires the components around an already initialized screen.
func newApp(cfg *config.Config, tuiManager *tui.TUI, themeManager *theme.Manager, listPath string) (*App, error) {
	list := entry.NewList(
		history.WithMaxDepth(cfg.History.MaxDepth),
		history.WithListenerPolicy(cfg.ListenerPolicy()),
	)

	highlighter.RegisterLanguages()

	statusBar := statusbar.New(statusbar.Config{MessageTimeout: config.MessageTimeout})
	eventManager := event.NewManager()

	a := &App{
		cfg:           cfg,
		tuiManager:    tuiManager,
		list:          list,
		stash:         vector.New[entry.Entry](),
		clipboard:     clipboard.NewManager(cfg.View.SystemClipboard),
		statusBar:     statusBar,
		eventManager:  eventManager,
		pluginManager: plugin.NewManager(),
		themeManager:  themeManager,
		highlighter:   highlighter.NewHighlighter(),
		jsonLang:      lang.Get("json"),
		listPath:      listPath,
		selected:      -1,
		inspector:     cfg.View.Inspector,
	}
	tuiManager.SetStyle(themeManager.Current().GetStyle("Default"))

	a.modeHandler = modehandler.New(modehandler.Config{
		Controller:     a,
		InputProcessor: input.NewInputProcessor(),
		EventManager:   eventManager,
		StatusBar:      statusBar,
	})
	a.listAPI = newListAPI(a)
	a.finder = find.NewManager(a.listAPI)

	// --- Subscribe Core Components (App level wiring) ---
	list.Subscribe(a.onListChange)
	a.subscribeAppEvents()

	// --- Load initial contents ---
	if listPath != "" {
		if err := a.loadList(listPath); err != nil {
			return nil, err
		}
	}
	if cfg.RestorePath != "" {
		if err := a.restoreSnapshot(cfg.RestorePath); err != nil {
			return nil, fmt.Errorf("restore '%s': %w", cfg.RestorePath, err)
		}
	}

	// --- Commands and plugins ---
	commands.RegisterAppCommands(a.listAPI, a.listAPI, a.listAPI, a.listAPI)
	if err := registerPlugins(a.pluginManager); err != nil {
		logger.Warnf("App: %v", err)
	}
	a.pluginManager.InitializePlugins(a.listAPI)

	return a, nil
}

// Run starts the application's main loop and blocks until quit.
func (a *App) Run() error {
	defer a.tuiManager.Close()
	defer a.pluginManager.ShutdownPlugins()
	defer a.stopMessageTimer()

	a.eventManager.Dispatch(event.TypeAppReady, event.AppReadyData{})
	a.setStatusMessage("tidelist - a add | u undo | U redo | : command | ESC quit")
	a.draw()

	for !a.quitting {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			break // Screen finalized
		}
		if a.handleEvent(ev) && !a.quitting {
			a.draw()
		}
	}

	a.eventManager.Dispatch(event.TypeAppQuit, event.AppQuitData{})
	if a.modified {
		logger.Warnf("App: Exited with unsaved changes.")
	}
	logger.Infof("App: Exiting application.")
	return nil
}

// handleEvent processes one terminal event and reports whether a redraw is needed.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.tuiManager.Sync()
		return true
	case *tcell.EventKey:
		return a.modeHandler.HandleKeyEvent(ev)
	case *tcell.EventInterrupt:
		if fn, ok := ev.Data().(func()); ok && fn != nil {
			fn()
		}
		return true
	}
	return false
}

// runOnMain posts fn to the main loop.
func (a *App) runOnMain(fn func()) {
	if fn == nil {
		return
	}
	if err := a.tuiManager.PostEvent(tcell.NewEventInterrupt(fn)); err != nil {
		logger.Warnf("App: dropping main loop task: %v", err)
	}
}

// requestRedraw wakes the main loop without running anything.
func (a *App) requestRedraw() {
	if err := a.tuiManager.PostEvent(tcell.NewEventInterrupt(nil)); err != nil {
		logger.DebugTagf("draw", "App: redraw request dropped: %v", err)
	}
}

// onListChange is the list listener: it tracks the modified flag, keeps the
// selection in range and bridges the change to the event manager.
func (a *App) onListChange(source *observable.Collection[entry.Entry], ch observable.Change[entry.Entry]) {
	if !a.loading {
		a.modified = true
	}
	a.inspectorView = nil
	a.clampSelection()
	if a.finder.Active() {
		a.finder.Refresh()
	}
	a.eventManager.Dispatch(event.TypeListChanged, event.ListChangedData{Change: ch, Len: source.Len()})
}

// historyChanged notifies subscribers after an operation that moved the
// history without necessarily changing the list.
func (a *App) historyChanged(op string) {
	a.inspectorView = nil
	a.eventManager.Dispatch(event.TypeHistoryChanged, event.HistoryChangedData{
		Op:      op,
		Cursor:  a.list.Cursor(),
		Depth:   a.list.Depth(),
		CanUndo: a.list.CanUndo(),
		CanRedo: a.list.CanRedo(),
	})
}

// setStatusMessage shows a temporary message and schedules the redraw that
// clears it.
func (a *App) setStatusMessage(format string, args ...any) {
	a.statusBar.SetTemporaryMessage(format, args...)
	a.scheduleMessageExpiry()
}

func (a *App) setStatusError(format string, args ...any) {
	a.statusBar.SetError(format, args...)
	a.scheduleMessageExpiry()
}

func (a *App) scheduleMessageExpiry() {
	a.stopMessageTimer()
	a.messageTimer = time.AfterFunc(config.MessageTimeout+50*time.Millisecond, a.requestRedraw)
}

func (a *App) stopMessageTimer() {
	if a.messageTimer != nil {
		a.messageTimer.Stop()
		a.messageTimer = nil
	}
}

// quitBlocker returns why quitting now would lose work, or "".
func (a *App) quitBlocker() string {
	switch {
	case a.list.InCompoundOperation():
		return "Compound operation open"
	case a.modified:
		return "Unsaved changes"
	default:
		return ""
	}
}

var errNoSelection = errors.New("list is empty")
