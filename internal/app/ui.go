package app

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/bethropolis/tidelist/internal/config"
	"github.com/bethropolis/tidelist/internal/logger"
	"github.com/bethropolis/tidelist/internal/statusbar"
	"github.com/bethropolis/tidelist/internal/tui"
)

// layout splits the screen into the list, inspector and status rows.
func (a *App) layout() (list, insp, status tui.Rect) {
	width, height := a.tuiManager.Size()
	return tui.Layout(width, height, a.cfg.View.StatusBarHeight, a.inspector, config.DefaultInspectorWidthPercent)
}

// draw clears the screen and redraws all components.
func (a *App) draw() {
	a.updateStatusBarContent()

	activeTheme := a.themeManager.Current()
	screen := a.tuiManager.GetScreen()
	width, height := a.tuiManager.Size()
	listRect, inspRect, _ := a.layout()

	logger.DebugTagf("draw", "draw: screen %dx%d, list %+v, inspector %+v", width, height, listRect, inspRect)

	a.tuiManager.Clear()

	a.top = tui.ScrollTop(a.top, a.selected, a.list.Len(), listRect.H, a.cfg.View.ScrollOff)
	tui.DrawList(a.tuiManager, listRect, tui.ListView{
		Entries:  a.list.Items(),
		Selected: a.selected,
		Top:      a.top,
		Matches:  a.finder.GetHighlights(),
	}, activeTheme)

	if !inspRect.Empty() {
		view := a.inspectorContent()
		a.inspectorTop = tui.ScrollTop(a.inspectorTop, view.CursorLine, len(view.Lines), inspRect.H-1, a.cfg.View.ScrollOff)
		view.Top = a.inspectorTop
		tui.DrawInspector(a.tuiManager, inspRect, *view, activeTheme)
	}

	a.statusBar.Draw(screen, width, height, activeTheme)
	a.tuiManager.Show()
}

// updateStatusBarContent pushes the current list state to the status bar.
func (a *App) updateStatusBarContent() {
	a.statusBar.SetFileInfo(a.listPath, a.modified)
	a.statusBar.SetListInfo(a.list.Len(), a.selected)
	a.statusBar.SetHistory(statusbar.HistoryInfo{
		Cursor:   a.list.Cursor(),
		Depth:    a.list.Depth(),
		CanUndo:  a.list.CanUndo(),
		CanRedo:  a.list.CanRedo(),
		Compound: a.list.InCompoundOperation(),
	})
}

// inspectorContent returns the highlighted snapshot shown in the
// inspector, rebuilding it when the list or history changed.
func (a *App) inspectorContent() *tui.InspectorView {
	if a.inspectorView != nil {
		return a.inspectorView
	}
	view := &tui.InspectorView{
		Title:      fmt.Sprintf("History %d/%d", a.list.Cursor()+1, a.list.Depth()),
		CursorLine: -1,
	}
	a.inspectorView = view

	doc, err := a.list.SnapshotIndent()
	if err != nil {
		view.Lines = []string{"(" + err.Error() + ")"}
		return view
	}
	view.Lines = strings.Split(strings.TrimRight(string(doc), "\n"), "\n")

	// Mark the group the cursor points at.
	if cursor := a.list.Cursor(); cursor >= 0 {
		if res := gjson.GetBytes(doc, fmt.Sprintf("groups.%d", cursor)); res.Index > 0 {
			view.CursorLine = bytes.Count(doc[:res.Index], []byte("\n"))
		}
	}

	if a.jsonLang != nil {
		highlights, err := a.highlighter.Highlight(context.Background(), doc, a.jsonLang)
		if err != nil {
			logger.Warnf("App: inspector highlighting failed: %v", err)
		} else {
			view.Highlights = highlights
		}
	}
	return view
}
