// internal/tui/drawing.go
package tui

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/bethropolis/tidelist/internal/entry"
	"github.com/bethropolis/tidelist/internal/highlighter"
	"github.com/bethropolis/tidelist/internal/logger"
	"github.com/bethropolis/tidelist/internal/theme"
)

const ellipsis = "…"

// Truncate shortens s to at most width terminal cells, ending in an
// ellipsis when something was cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}
	out := make([]byte, 0, len(s))
	used := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		w := gr.Width()
		if used+w > width-1 {
			break
		}
		out = append(out, gr.Str()...)
		used += w
	}
	return string(out) + ellipsis
}

// DrawText draws s at (x, y) clipped to maxX (exclusive), one grapheme
// cluster at a time, and returns the x after the last drawn cell.
func DrawText(s tcell.Screen, x, y, maxX int, text string, style tcell.Style) int {
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusterRunes := gr.Runes()
		clusterWidth := gr.Width()
		if clusterWidth == 0 {
			continue
		}
		if x+clusterWidth > maxX {
			break
		}
		mainRune := clusterRunes[0]
		if mainRune == '\t' {
			mainRune = ' '
		}
		s.SetContent(x, y, mainRune, clusterRunes[1:], style)
		// Fill remaining cells for wide characters
		for cw := 1; cw < clusterWidth; cw++ {
			s.SetContent(x+cw, y, ' ', nil, style)
		}
		x += clusterWidth
	}
	return x
}

// fillRow paints a whole row of r with style.
func fillRow(s tcell.Screen, r Rect, y int, style tcell.Style) {
	for x := r.X; x < r.X+r.W; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

// ListView is the state DrawList renders.
type ListView struct {
	Entries  []entry.Entry
	Selected int                // -1 when the list is empty
	Top      int                // First visible row
	Matches  highlighter.Result // Entry index -> search match spans, may be nil
}

// DrawList draws the entries into r: a right-aligned index gutter, the done
// marker and the entry text.
func DrawList(t *TUI, r Rect, view ListView, activeTheme *theme.Theme) {
	if r.Empty() {
		return
	}
	if activeTheme == nil {
		logger.Warnf("DrawList called with nil theme, using built-in default.")
		activeTheme = &theme.DevComfortDark
	}
	s := t.screen

	defaultStyle := activeTheme.GetStyle("Default")
	indexStyle := activeTheme.GetStyle("Index")
	markerStyle := activeTheme.GetStyle("Marker")
	doneStyle := activeTheme.GetStyle("Done")
	selectionStyle := activeTheme.GetStyle("Selection")

	count := len(view.Entries)
	if count == 0 {
		for y := r.Y; y < r.Y+r.H; y++ {
			fillRow(s, r, y, defaultStyle)
		}
		DrawText(s, r.X+1, r.Y, r.X+r.W, "(empty list, press a to add)", activeTheme.GetStyle("Empty"))
		return
	}

	// --- Calculate Gutter Width ---
	maxDigits := int(math.Log10(float64(count))) + 1
	gutterWidth := maxDigits + 1
	if gutterWidth+4 >= r.W {
		gutterWidth = 0 // Disable gutter if screen too narrow
	}

	for row := 0; row < r.H; row++ {
		y := r.Y + row
		idx := view.Top + row
		fillRow(s, r, y, defaultStyle)
		if idx < 0 || idx >= count {
			continue
		}
		e := view.Entries[idx]
		selected := idx == view.Selected

		x := r.X
		if gutterWidth > 0 {
			style := indexStyle
			if selected {
				style = style.Bold(true)
			}
			x = DrawText(s, x, y, r.X+gutterWidth, fmt.Sprintf("%*d ", maxDigits, idx+1), style)
		}

		mark, textStyle := "[ ] ", defaultStyle
		if e.Done {
			mark, textStyle = "[x] ", doneStyle
		}
		if selected {
			// Selection keeps its own colors, done entries stay struck through.
			textStyle = selectionStyle.StrikeThrough(e.Done)
			for fx := x; fx < r.X+r.W; fx++ {
				s.SetContent(fx, y, ' ', nil, selectionStyle)
			}
		}
		markStyle := markerStyle
		if selected {
			markStyle = selectionStyle
		}
		x = DrawText(s, x, y, r.X+r.W, mark, markStyle)
		text := Truncate(e.Text, r.X+r.W-x)
		if spans := view.Matches[idx]; len(spans) > 0 {
			drawSpans(s, x, y, r.X+r.W, text, spans, textStyle, func(base, span tcell.Style) tcell.Style {
				return span
			}, activeTheme)
			continue
		}
		DrawText(s, x, y, r.X+r.W, text, textStyle)
	}
}

// InspectorView is the state DrawInspector renders.
type InspectorView struct {
	Title      string
	Lines      []string
	Highlights highlighter.Result // Line -> styled spans, may be nil
	Top        int
	CursorLine int // Line marked with the cursor style, -1 for none
}

// DrawInspector draws a bordered, syntax-highlighted text pane into r.
func DrawInspector(t *TUI, r Rect, view InspectorView, activeTheme *theme.Theme) {
	if r.Empty() || r.W < 3 {
		return
	}
	s := t.screen
	baseStyle := activeTheme.GetStyle("Inspector")
	borderStyle := activeTheme.GetStyle("InspectorBorder")
	titleStyle := activeTheme.GetStyle("InspectorTitle")
	cursorStyle := activeTheme.GetStyle("InspectorCursor")

	for y := r.Y; y < r.Y+r.H; y++ {
		fillRow(s, r, y, baseStyle)
		s.SetContent(r.X, y, tcell.RuneVLine, nil, borderStyle)
	}
	DrawText(s, r.X+2, r.Y, r.X+r.W, Truncate(view.Title, r.W-2), titleStyle)

	textX := r.X + 2
	for row := 1; row < r.H; row++ {
		idx := view.Top + row - 1
		if idx < 0 || idx >= len(view.Lines) {
			break
		}
		y := r.Y + row
		lineStyle := baseStyle
		if idx == view.CursorLine {
			lineStyle = cursorStyle
			fillRow(s, Rect{X: r.X + 1, W: r.W - 1}, y, cursorStyle)
		}
		drawHighlightedLine(s, textX, y, r.X+r.W, view.Lines[idx], view.Highlights[idx], lineStyle, activeTheme)
	}
}

// drawHighlightedLine draws line with the foreground of syntax spans applied.
func drawHighlightedLine(s tcell.Screen, x, y, maxX int, line string, spans []highlighter.Span, base tcell.Style, activeTheme *theme.Theme) {
	drawSpans(s, x, y, maxX, line, spans, base, func(base, span tcell.Style) tcell.Style {
		fg, _, _ := span.Decompose()
		return base.Foreground(fg)
	}, activeTheme)
}

// drawSpans draws line with spans applied by rune column. merge combines the
// base style with the theme style of the span covering a cluster.
func drawSpans(s tcell.Screen, x, y, maxX int, line string, spans []highlighter.Span, base tcell.Style, merge func(base, span tcell.Style) tcell.Style, activeTheme *theme.Theme) {
	runeIndex := 0
	gr := uniseg.NewGraphemes(line)
	for gr.Next() {
		clusterRunes := gr.Runes()
		clusterWidth := gr.Width()
		if x+clusterWidth > maxX {
			return
		}

		style := base
		for _, sp := range spans {
			if runeIndex >= sp.StartCol && runeIndex < sp.EndCol {
				style = merge(base, activeTheme.GetStyle(sp.StyleName))
				break
			}
		}
		if clusterWidth > 0 {
			s.SetContent(x, y, clusterRunes[0], clusterRunes[1:], style)
			for cw := 1; cw < clusterWidth; cw++ {
				s.SetContent(x+cw, y, ' ', nil, style)
			}
		}
		x += clusterWidth
		runeIndex += len(clusterRunes)
	}
}
