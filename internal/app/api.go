// internal/app/api.go
package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/tidelist/internal/commands"
	"github.com/bethropolis/tidelist/internal/core/history"
	"github.com/bethropolis/tidelist/internal/entry"
	"github.com/bethropolis/tidelist/internal/event"
	"github.com/bethropolis/tidelist/internal/find"
	"github.com/bethropolis/tidelist/internal/logger"
	"github.com/bethropolis/tidelist/internal/plugin"
	"github.com/bethropolis/tidelist/internal/theme"
)

// Ensure appListAPI implements the interfaces plugins and commands use.
var (
	_ plugin.ListAPI      = (*appListAPI)(nil)
	_ commands.ThemeAPI   = (*appListAPI)(nil)
	_ commands.HistoryAPI = (*appListAPI)(nil)
	_ commands.Registrar  = (*appListAPI)(nil)
	_ commands.FindAPI    = (*appListAPI)(nil)
	_ find.ListInterface  = (*appListAPI)(nil)
)

// appListAPI provides the concrete implementation of the ListAPI interface.
type appListAPI struct {
	app *App // Reference back to the main application
}

func newListAPI(app *App) *appListAPI {
	return &appListAPI{app: app}
}

// --- List Access ---

func (api *appListAPI) Entries() []entry.Entry {
	return api.app.list.Items()
}

func (api *appListAPI) Entry(i int) (entry.Entry, error) {
	return api.app.list.At(i)
}

func (api *appListAPI) Len() int {
	return api.app.list.Len()
}

func (api *appListAPI) Selected() int {
	return api.app.selected
}

func (api *appListAPI) ListFilePath() string {
	return api.app.listPath
}

func (api *appListAPI) IsModified() bool {
	return api.app.modified
}

// --- List Modification ---

func (api *appListAPI) Append(e entry.Entry) error {
	_, err := api.app.list.PushBack(e)
	return err
}

func (api *appListAPI) InsertAt(i int, e entry.Entry) error {
	return api.app.list.Insert(i, e)
}

func (api *appListAPI) SetAt(i int, e entry.Entry) error {
	return api.app.list.Set(i, e)
}

func (api *appListAPI) RemoveAt(i int) (entry.Entry, error) {
	return api.app.list.Remove(i)
}

func (api *appListAPI) ClearList() error {
	return api.app.list.Clear()
}

func (api *appListAPI) Transaction(fn func() error) error {
	err := api.app.list.Transaction(fn)
	api.app.historyChanged("end")
	return err
}

// --- History ---

func (api *appListAPI) Undo() (bool, error) {
	return api.app.undo()
}

func (api *appListAPI) Redo() (bool, error) {
	return api.app.redo()
}

func (api *appListAPI) Snapshot() ([]byte, error) {
	return api.app.list.Snapshot()
}

func (api *appListAPI) HistoryInfo() (cursor, depth int) {
	return api.app.list.Cursor(), api.app.list.Depth()
}

func (api *appListAPI) HistoryGroups() []history.Group {
	return api.app.list.Groups()
}

func (api *appListAPI) BeginCompound(undoable bool) error {
	if err := api.app.list.BeginCompoundOperation(undoable); err != nil {
		return err
	}
	api.app.inspectorView = nil
	return nil
}

func (api *appListAPI) EndCompound() error {
	if err := api.app.list.EndCompoundOperation(); err != nil {
		return err
	}
	api.app.historyChanged("end")
	return nil
}

func (api *appListAPI) ClearUndo() error {
	if err := api.app.list.ClearUndo(); err != nil {
		return err
	}
	api.app.historyChanged("clearundo")
	return nil
}

func (api *appListAPI) SaveSnapshot(path string) error {
	return api.app.saveSnapshot(path)
}

func (api *appListAPI) RestoreSnapshot(path string) error {
	return api.app.restoreSnapshot(path)
}

func (api *appListAPI) WriteList(path string) error {
	return api.app.writeList(path)
}

// --- Search ---

func (api *appListAPI) Search(pattern string) error {
	return api.app.Search(pattern)
}

func (api *appListAPI) FindNext(forward bool) error {
	return api.app.FindNext(forward)
}

func (api *appListAPI) Substitute(pattern, replacement string, global bool) (int, error) {
	return api.app.finder.Replace(pattern, replacement, global)
}

func (api *appListAPI) ClearSearch() {
	api.app.finder.ClearHighlights()
}

// --- Event Bus Interaction ---

func (api *appListAPI) DispatchEvent(eventType event.Type, data any) {
	api.app.eventManager.Dispatch(eventType, data)
}

func (api *appListAPI) SubscribeEvent(eventType event.Type, handler event.Handler) event.SubscriptionID {
	return api.app.eventManager.Subscribe(eventType, handler)
}

func (api *appListAPI) UnsubscribeEvent(id event.SubscriptionID) bool {
	return api.app.eventManager.Unsubscribe(id)
}

// --- Command Registration ---

func (api *appListAPI) RegisterCommand(name string, cmdFunc plugin.CommandFunc) error {
	if api.app.modeHandler == nil {
		// This would be a programming error during setup
		return fmt.Errorf("internal error: API cannot access command registration")
	}
	return api.app.modeHandler.RegisterCommand(name, cmdFunc)
}

// --- Status Bar ---

func (api *appListAPI) SetStatusMessage(format string, args ...any) {
	api.app.setStatusMessage(format, args...)
}

// --- Theme Access ---

func (api *appListAPI) GetThemeStyle(styleName string) tcell.Style {
	return api.app.themeManager.Current().GetStyle(styleName)
}

// SetTheme sets the active theme by name
func (api *appListAPI) SetTheme(name string) error {
	if err := api.app.themeManager.SetTheme(name); err != nil {
		return err
	}
	current := api.app.themeManager.Current()
	api.app.eventManager.Dispatch(event.TypeThemeChanged, event.ThemeChangedData{Name: current.Name})
	logger.Debugf("Theme changed to '%s'", current.Name)
	return nil
}

func (api *appListAPI) GetTheme() *theme.Theme {
	return api.app.themeManager.Current()
}

func (api *appListAPI) ListThemes(pattern string) []string {
	return api.app.themeManager.ListThemes(pattern)
}

// --- Configuration ---

func (api *appListAPI) GetPluginConfigValue(pluginName, key string) (any, bool) {
	v, ok := api.app.cfg.Plugins[pluginName][key]
	return v, ok
}

// --- Main loop ---

func (api *appListAPI) RunOnMain(fn func()) {
	api.app.runOnMain(fn)
}

// RequestQuit signals the application to quit. Without force it refuses
// while work would be lost.
func (api *appListAPI) RequestQuit(force bool) {
	if !force {
		if reason := api.app.quitBlocker(); reason != "" {
			logger.Debugf("API: Quit requested, but blocked: %s", reason)
			api.app.setStatusError("%s (use :q! to force)", reason)
			return
		}
	}
	api.app.Quit()
}
