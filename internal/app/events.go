package app

import (
	"github.com/bethropolis/tidelist/internal/event"
	"github.com/bethropolis/tidelist/internal/logger"
)

// subscribeAppEvents wires the app's own reactions to events.
func (a *App) subscribeAppEvents() {
	a.eventManager.Subscribe(event.TypeSnapshotSaved, a.handleSnapshotSavedForStatus)
	a.eventManager.Subscribe(event.TypeThemeChanged, a.handleThemeChanged)
	a.eventManager.Subscribe(event.TypeHistoryChanged, a.handleHistoryChangedForLog)
}

// handleSnapshotSavedForStatus reports where a snapshot went.
func (a *App) handleSnapshotSavedForStatus(e event.Event) bool {
	if data, ok := e.Data.(event.SnapshotSavedData); ok {
		a.setStatusMessage("Snapshot saved to %s (%d bytes)", data.Path, data.Bytes)
	}
	return false // Not consumed
}

// handleThemeChanged repaints the screen background with the new theme.
func (a *App) handleThemeChanged(event.Event) bool {
	a.tuiManager.SetStyle(a.themeManager.Current().GetStyle("Default"))
	a.inspectorView = nil
	return false
}

func (a *App) handleHistoryChangedForLog(e event.Event) bool {
	if data, ok := e.Data.(event.HistoryChangedData); ok {
		logger.DebugTagf("history", "App: %s, cursor=%d depth=%d undo=%v redo=%v",
			data.Op, data.Cursor, data.Depth, data.CanUndo, data.CanRedo)
	}
	return false
}
