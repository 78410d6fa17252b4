package tui

// Rect is a screen region.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether r has no drawable cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Layout splits a width x height screen into the list pane, the optional
// inspector pane on the right and the status bar rows at the bottom.
// inspectorPercent is the inspector's share of the width.
func Layout(width, height, statusHeight int, inspector bool, inspectorPercent int) (list, insp, status Rect) {
	if statusHeight > height {
		statusHeight = height
	}
	bodyH := height - statusHeight
	status = Rect{X: 0, Y: bodyH, W: width, H: statusHeight}
	list = Rect{X: 0, Y: 0, W: width, H: bodyH}

	if !inspector || width < 20 {
		return list, Rect{}, status
	}
	inspW := width * inspectorPercent / 100
	if inspW < 10 {
		inspW = 10
	}
	list.W = width - inspW
	insp = Rect{X: list.W, Y: 0, W: inspW, H: bodyH}
	return list, insp, status
}

// ScrollTop returns the first visible row so that selected stays at least
// scrollOff rows from either edge of a height-row view. top is the current
// first row and count the number of rows.
func ScrollTop(top, selected, count, height, scrollOff int) int {
	if height <= 0 || count <= 0 {
		return 0
	}

	// Effective scrolloff (cannot be larger than half the view height)
	if scrollOff*2 >= height {
		scrollOff = (height - 1) / 2
	}

	if selected < top+scrollOff {
		top = selected - scrollOff
	} else if selected >= top+height-scrollOff {
		top = selected - height + 1 + scrollOff
	}

	// Don't leave blank rows below the last entry
	if maxTop := count - height; top > maxTop {
		top = maxTop
	}
	return max(top, 0)
}
