package app

import (
	"errors"
	"fmt"

	"github.com/bethropolis/tidelist/internal/clipboard"
	"github.com/bethropolis/tidelist/internal/entry"
	"github.com/bethropolis/tidelist/internal/event"
	"github.com/bethropolis/tidelist/internal/modehandler"
)

// Ensure App implements the controller the mode handler drives.
var _ modehandler.Controller = (*App)(nil)

// --- Selection ---

func (a *App) clampSelection() {
	n := a.list.Len()
	switch {
	case n == 0:
		a.selected = -1
	case a.selected < 0:
		a.selected = 0
	case a.selected >= n:
		a.selected = n - 1
	}
}

// selectIndex moves the selection to i (clamped) and announces the move.
func (a *App) selectIndex(i int) {
	prev := a.selected
	a.selected = i
	a.clampSelection()
	if a.selected != prev {
		a.eventManager.Dispatch(event.TypeSelectionMoved, event.SelectionMovedData{Index: a.selected})
	}
}

// MoveSelection moves the selection by delta rows.
func (a *App) MoveSelection(delta int) {
	if a.selected < 0 {
		return
	}
	a.selectIndex(a.selected + delta)
}

func (a *App) SelectFirst() { a.selectIndex(0) }

func (a *App) SelectLast() { a.selectIndex(a.list.Len() - 1) }

// Search sets the search pattern and selects the next matching entry.
// An empty pattern clears the search.
func (a *App) Search(pattern string) error {
	if err := a.finder.Search(pattern); err != nil {
		return err
	}
	if pattern == "" {
		return nil
	}
	return a.FindNext(true)
}

// FindNext selects the next (or previous) entry matching the last pattern.
func (a *App) FindNext(forward bool) error {
	idx, found, err := a.finder.FindNext(forward)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("pattern not found: %s", a.finder.Term())
	}
	if idx == a.selected {
		a.setStatusMessage("Only match: /%s", a.finder.Term())
	}
	a.selectIndex(idx)
	return nil
}

// PageSize returns the number of visible list rows.
func (a *App) PageSize() int {
	listRect, _, _ := a.layout()
	return max(listRect.H, 1)
}

// SelectedEntry returns the selected entry, false when the list is empty.
func (a *App) SelectedEntry() (entry.Entry, bool) {
	if a.selected < 0 {
		return entry.Entry{}, false
	}
	e, err := a.list.At(a.selected)
	if err != nil {
		return entry.Entry{}, false
	}
	return e, true
}

// --- List modification ---

// Append adds a parsed entry ("[x] text" marks it done) at the end.
func (a *App) Append(text string) error {
	i, err := a.list.PushBack(entry.Parse(text))
	if err != nil {
		return err
	}
	a.selectIndex(i)
	return nil
}

// InsertAtSelection inserts before the selected entry.
func (a *App) InsertAtSelection(text string) error {
	i := max(a.selected, 0)
	if err := a.list.Insert(i, entry.Parse(text)); err != nil {
		return err
	}
	a.selectIndex(i)
	return nil
}

// SetSelectedText replaces the text of the selected entry, keeping its state.
func (a *App) SetSelectedText(text string) error {
	e, ok := a.SelectedEntry()
	if !ok {
		return errNoSelection
	}
	e.Text = text
	return a.list.Set(a.selected, e)
}

func (a *App) ToggleSelected() error {
	e, ok := a.SelectedEntry()
	if !ok {
		return errNoSelection
	}
	return a.list.Set(a.selected, e.Toggled())
}

func (a *App) RemoveSelected() error {
	if a.selected < 0 {
		return errNoSelection
	}
	removed, err := a.list.Remove(a.selected)
	if err != nil {
		return err
	}
	a.setStatusMessage("Removed %q", removed.Text)
	return nil
}

// PopBack removes the last entry. An empty list is left alone.
func (a *App) PopBack() error {
	e, ok, err := a.list.PopBack()
	if err != nil {
		return err
	}
	if !ok {
		a.setStatusMessage("List is empty")
		return nil
	}
	a.setStatusMessage("Popped %q", e.Text)
	return nil
}

func (a *App) Clear() error {
	n := a.list.Len()
	if err := a.list.Clear(); err != nil {
		return err
	}
	a.setStatusMessage("Cleared %d entries", n)
	return nil
}

// SwapStash exchanges the list contents with the stash as one undoable change.
func (a *App) SwapStash() error {
	if err := a.list.Swap(a.stash); err != nil {
		return err
	}
	a.selectIndex(0)
	a.setStatusMessage("Swapped with stash (%d stashed)", a.stash.Len())
	return nil
}

func (a *App) Yank() error {
	e, ok := a.SelectedEntry()
	if !ok {
		return errNoSelection
	}
	a.clipboard.Yank(e)
	a.setStatusMessage("Yanked %q", e.Text)
	return nil
}

// Paste inserts the clipboard entry after the selection.
func (a *App) Paste() error {
	e, err := a.clipboard.Get()
	if errors.Is(err, clipboard.ErrEmpty) {
		a.setStatusMessage("Nothing to paste")
		return nil
	} else if err != nil {
		return err
	}
	i := a.selected + 1
	if err := a.list.Insert(i, e); err != nil {
		return err
	}
	a.selectIndex(i)
	return nil
}

// --- History ---

func (a *App) Undo() error {
	ok, err := a.undo()
	if err == nil && !ok {
		a.setStatusMessage("Already at oldest change")
	}
	return err
}

func (a *App) Redo() error {
	ok, err := a.redo()
	if err == nil && !ok {
		a.setStatusMessage("Already at newest change")
	}
	return err
}

func (a *App) undo() (bool, error) {
	ok, err := a.list.Undo()
	if ok {
		a.historyChanged("undo")
	}
	return ok, err
}

func (a *App) redo() (bool, error) {
	ok, err := a.list.Redo()
	if ok {
		a.historyChanged("redo")
	}
	return ok, err
}

// --- View / lifecycle ---

func (a *App) ToggleInspector() {
	a.inspector = !a.inspector
	a.inspectorView = nil
}

// SaveSnapshot writes the snapshot to path, or to the default location.
func (a *App) SaveSnapshot(path string) error {
	return a.saveSnapshot(path)
}

func (a *App) QuitBlocker() string {
	return a.quitBlocker()
}

// Quit stops the main loop after the current event.
func (a *App) Quit() {
	a.quitting = true
}
