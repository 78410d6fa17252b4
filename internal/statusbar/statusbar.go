// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg" // For proper Unicode width calculation

	"github.com/bethropolis/tidelist/internal/theme"
)

// Config defines the behavior of the status bar.
type Config struct {
	MessageTimeout time.Duration
}

// DefaultConfig provides sensible defaults.
func DefaultConfig() Config {
	return Config{MessageTimeout: 4 * time.Second}
}

// HistoryInfo is the undo state shown on the right of the bar.
type HistoryInfo struct {
	Cursor   int // -1 when nothing can be undone
	Depth    int
	CanUndo  bool
	CanRedo  bool
	Compound bool // A compound operation is open
}

// StatusBar represents the UI component for the status line.
type StatusBar struct {
	config Config
	mu     sync.RWMutex
	now    func() time.Time

	// Content fields (updated by the app)
	filePath string
	modified bool
	count    int
	selected int
	history  HistoryInfo
	mode     string

	// prompt is the input line shown while a prompt or command is being typed
	prompt       string
	promptActive bool

	// Temporary message state
	tempMessage     string
	tempMessageTime time.Time
	tempIsError     bool
}

// New creates a new StatusBar with the given configuration.
func New(config Config) *StatusBar {
	return &StatusBar{
		config:  config,
		now:     time.Now,
		history: HistoryInfo{Cursor: -1},
	}
}

// SetFileInfo updates the list file shown in the status bar.
func (sb *StatusBar) SetFileInfo(path string, modified bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.filePath = path
	sb.modified = modified
}

// SetListInfo updates the entry count and the selected row (-1 for none).
func (sb *StatusBar) SetListInfo(count, selected int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.count = count
	sb.selected = selected
}

// SetHistory updates the undo state.
func (sb *StatusBar) SetHistory(h HistoryInfo) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.history = h
}

// SetMode updates the displayed input mode.
func (sb *StatusBar) SetMode(mode string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.mode = mode
}

// SetPrompt shows text as an input line until ClearPrompt is called.
func (sb *StatusBar) SetPrompt(text string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.prompt = text
	sb.promptActive = true
}

// ClearPrompt hides the input line.
func (sb *StatusBar) ClearPrompt() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.prompt = ""
	sb.promptActive = false
}

// SetTemporaryMessage displays a message for the configured duration.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...any) {
	sb.setMessage(false, format, args...)
}

// SetError displays a message in the error style.
func (sb *StatusBar) SetError(format string, args ...any) {
	sb.setMessage(true, format, args...)
}

func (sb *StatusBar) setMessage(isErr bool, format string, args ...any) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = sb.now()
	sb.tempIsError = isErr
}

// ResetTemporaryMessage clears any temporary message being displayed
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
}

// Message returns the active temporary message, or "" once it expired.
func (sb *StatusBar) Message() string {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.expireLocked()
	return sb.tempMessage
}

func (sb *StatusBar) expireLocked() {
	if !sb.tempMessageTime.IsZero() && sb.now().Sub(sb.tempMessageTime) > sb.config.MessageTimeout {
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
	}
}

type segment struct {
	text      string
	styleName string
}

// leftText builds the file and position part of the status line.
func (sb *StatusBar) leftText() string {
	name := sb.filePath
	if name == "" {
		name = "[No Name]"
	} else {
		name = filepath.Base(name)
	}
	if sb.modified {
		name += " [+]"
	}
	if sb.count == 0 {
		return fmt.Sprintf(" %s  empty", name)
	}
	return fmt.Sprintf(" %s  %d/%d", name, sb.selected+1, sb.count)
}

// rightSegments builds the history and mode part of the status line.
func (sb *StatusBar) rightSegments() []segment {
	h := sb.history
	undo, redo := "-", "-"
	if h.CanUndo {
		undo = "u"
	}
	if h.CanRedo {
		redo = "r"
	}
	segs := []segment{{fmt.Sprintf(" %s%s %d/%d ", undo, redo, h.Cursor+1, h.Depth), "StatusBar.history"}}
	if h.Compound {
		segs = append(segs, segment{" COMPOUND ", "StatusBar.compound"})
	}
	if sb.mode != "" {
		segs = append(segs, segment{" " + sb.mode + " ", "StatusBar.mode"})
	}
	return segs
}

// Draw renders the status bar on the last row of a width x height screen.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int, activeTheme *theme.Theme) {
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1 // Status bar is always the last line
	if activeTheme == nil {
		activeTheme = &theme.DevComfortDark
	}
	barStyle := activeTheme.GetStyle("StatusBar")

	sb.mu.Lock()
	sb.expireLocked()
	promptActive, prompt := sb.promptActive, sb.prompt
	message, isErr := sb.tempMessage, sb.tempIsError
	left := sb.leftText()
	right := sb.rightSegments()
	sb.mu.Unlock()

	// Fill background first
	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, barStyle)
	}

	switch {
	case promptActive:
		end := drawString(screen, 0, y, width, prompt, activeTheme.GetStyle("StatusBarPrompt"))
		if end < width {
			screen.ShowCursor(end, y)
		} else {
			screen.HideCursor()
		}
		return
	case message != "":
		style := activeTheme.GetStyle("StatusBarMessage")
		if isErr {
			style = activeTheme.GetStyle("StatusBarError")
		}
		drawString(screen, 0, y, width, " "+message, style)
		screen.HideCursor()
		return
	}
	screen.HideCursor()

	// Right-aligned segments first so the left text is the one that gets cut
	rightWidth := 0
	for _, s := range right {
		rightWidth += uniseg.StringWidth(s.text)
	}
	x := width - rightWidth
	if x < 0 {
		x = 0
	}
	for _, s := range right {
		x = drawString(screen, x, y, width, s.text, activeTheme.GetStyle(s.styleName))
	}
	drawString(screen, 0, y, max(width-rightWidth, 0), left, barStyle)
}

// drawString draws text from x up to maxX (exclusive) and returns the next x.
func drawString(screen tcell.Screen, x, y, maxX int, text string, style tcell.Style) int {
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusterWidth := gr.Width()
		if x+clusterWidth > maxX {
			break // Stop if cluster doesn't fit
		}
		runes := gr.Runes()
		if len(runes) > 0 && clusterWidth > 0 {
			screen.SetContent(x, y, runes[0], runes[1:], style)
		}
		x += clusterWidth
	}
	return x
}
