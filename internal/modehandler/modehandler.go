// internal/modehandler/modehandler.go
package modehandler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/tidelist/internal/entry"
	"github.com/bethropolis/tidelist/internal/event"
	"github.com/bethropolis/tidelist/internal/input"
	"github.com/bethropolis/tidelist/internal/logger"
	"github.com/bethropolis/tidelist/internal/plugin" // For CommandFunc type
	"github.com/bethropolis/tidelist/internal/statusbar"
)

// InputMode defines the different states for user input.
type InputMode int

const (
	ModeNormal  InputMode = iota
	ModePrompt            // Typing the text of an entry
	ModeCommand           // Typing a ":" command
)

// String returns the name shown in the status bar.
func (m InputMode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModePrompt:
		return "PROMPT"
	case ModeCommand:
		return "COMMAND"
	default:
		return "UNKNOWN"
	}
}

// Controller is what normal-mode actions operate on. The app implements it.
type Controller interface {
	MoveSelection(delta int)
	SelectFirst()
	SelectLast()
	PageSize() int
	SelectedEntry() (entry.Entry, bool)

	Append(text string) error
	InsertAtSelection(text string) error
	SetSelectedText(text string) error
	ToggleSelected() error
	RemoveSelected() error
	PopBack() error
	Clear() error
	SwapStash() error
	Yank() error
	Paste() error
	Undo() error
	Redo() error

	// Search selects the next entry matching pattern, FindNext repeats it.
	Search(pattern string) error
	FindNext(forward bool) error

	ToggleInspector()
	SaveSnapshot(path string) error

	// QuitBlocker returns why quitting now would lose work, or "".
	QuitBlocker() string
	Quit()
}

// ModeHandler manages input modes, command execution, and related state.
type ModeHandler struct {
	// Dependencies (references to components managed by App)
	ctl            Controller
	inputProcessor *input.InputProcessor
	eventManager   *event.Manager
	statusBar      *statusbar.StatusBar

	// Internal State
	currentMode      InputMode
	textBuffer       string // Prompt or command line being typed
	promptLabel      string
	onSubmit         func(text string) error
	commands         map[string]plugin.CommandFunc // Command registry
	forceQuitPending bool
}

// Config holds dependencies for the ModeHandler.
type Config struct {
	Controller     Controller
	InputProcessor *input.InputProcessor
	EventManager   *event.Manager
	StatusBar      *statusbar.StatusBar
}

// New creates a new ModeHandler.
func New(cfg Config) *ModeHandler {
	if cfg.Controller == nil || cfg.InputProcessor == nil || cfg.EventManager == nil || cfg.StatusBar == nil {
		// Programming error during setup
		panic("modehandler.New: Missing required dependencies in Config")
	}
	mh := &ModeHandler{
		ctl:            cfg.Controller,
		inputProcessor: cfg.InputProcessor,
		eventManager:   cfg.EventManager,
		statusBar:      cfg.StatusBar,
		currentMode:    ModeNormal,
		commands:       make(map[string]plugin.CommandFunc),
	}
	mh.statusBar.SetMode(ModeNormal.String())
	return mh
}

// HandleKeyEvent decides what to do based on current mode and key event.
// Returns true if the event resulted in an action requiring redraw.
func (mh *ModeHandler) HandleKeyEvent(ev *tcell.EventKey) bool {
	if mh.eventManager.Dispatch(event.TypeKeyPressed, event.KeyPressedData{KeyEvent: ev}) {
		return true // Consumed by a plugin
	}

	switch mh.currentMode {
	case ModeNormal:
		return mh.handleActionNormal(mh.inputProcessor.ProcessEvent(ev))
	case ModePrompt, ModeCommand:
		return mh.handleActionText(mh.inputProcessor.ProcessTextEvent(ev))
	default:
		logger.Warnf("ModeHandler: Unknown input mode: %v", mh.currentMode)
		return false
	}
}

// setMode switches mode and notifies the status bar and subscribers.
func (mh *ModeHandler) setMode(m InputMode) {
	if mh.currentMode == m {
		return
	}
	mh.currentMode = m
	mh.statusBar.SetMode(m.String())
	if m == ModeNormal {
		mh.statusBar.ClearPrompt()
	}
	logger.DebugTagf("mode", "ModeHandler: Entering %s mode", m)
	mh.eventManager.Dispatch(event.TypeModeChanged, event.ModeChangedData{Mode: m.String()})
}

// RegisterCommand adds a command to the registry.
func (mh *ModeHandler) RegisterCommand(name string, cmdFunc plugin.CommandFunc) error {
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if strings.ContainsAny(name, " \t") {
		return fmt.Errorf("command name '%s' contains whitespace", name)
	}
	if _, exists := mh.commands[name]; exists {
		return fmt.Errorf("command '%s' already registered", name)
	}
	mh.commands[name] = cmdFunc
	logger.DebugTagf("mode", "ModeHandler: Registered command ':%s'", name)
	return nil
}

// Commands returns the registered command names, sorted.
func (mh *ModeHandler) Commands() []string {
	names := make([]string, 0, len(mh.commands))
	for name := range mh.commands {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ExecuteCommand runs a command line such as "theme DevComfort Light"
// (without the leading ':').
func (mh *ModeHandler) ExecuteCommand(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	cmdName, args := parts[0], parts[1:]

	cmdFunc, exists := mh.commands[cmdName]
	if !exists {
		return fmt.Errorf("unknown command: %s", cmdName)
	}
	logger.Debugf("ModeHandler: Executing command ':%s' with args %v", cmdName, args)
	if err := cmdFunc(args); err != nil {
		return fmt.Errorf("%s: %w", cmdName, err)
	}
	return nil
}

// GetCurrentMode returns the current input mode.
func (mh *ModeHandler) GetCurrentMode() InputMode {
	return mh.currentMode
}

// GetTextBuffer returns what is being typed in prompt or command mode.
func (mh *ModeHandler) GetTextBuffer() string {
	if mh.currentMode == ModeNormal {
		return ""
	}
	return mh.textBuffer
}
