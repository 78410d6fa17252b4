package modehandler

import (
	"github.com/bethropolis/tidelist/internal/input"
	"github.com/bethropolis/tidelist/internal/logger"
)

// handleActionNormal executes list actions in ModeNormal.
func (mh *ModeHandler) handleActionNormal(actionEvent input.ActionEvent) bool {
	action := actionEvent.Action
	var err error

	switch action {
	// --- Mode Switching ---
	case input.ActionEnterCommandMode:
		mh.startText(ModeCommand, ":", "", func(line string) error {
			return mh.ExecuteCommand(line)
		})

	case input.ActionAppend:
		mh.startText(ModePrompt, "add: ", "", mh.ctl.Append)
	case input.ActionInsert:
		mh.startText(ModePrompt, "insert: ", "", mh.ctl.InsertAtSelection)
	case input.ActionEdit:
		e, ok := mh.ctl.SelectedEntry()
		if !ok {
			mh.statusBar.SetTemporaryMessage("Nothing to edit")
			break
		}
		mh.startText(ModePrompt, "edit: ", e.Text, mh.ctl.SetSelectedText)

	// --- Quit/Snapshot ---
	case input.ActionQuit:
		if reason := mh.ctl.QuitBlocker(); reason != "" && !mh.forceQuitPending {
			mh.statusBar.SetTemporaryMessage("%s! Press ESC again or Ctrl+Q to force quit.", reason)
			mh.forceQuitPending = true
			return true
		}
		mh.ctl.Quit()
		return false
	case input.ActionForceQuit:
		mh.ctl.Quit()
		return false
	case input.ActionSnapshot:
		err = mh.ctl.SaveSnapshot("")

	// --- Movement ---
	case input.ActionMoveUp:
		mh.ctl.MoveSelection(-1)
	case input.ActionMoveDown:
		mh.ctl.MoveSelection(1)
	case input.ActionMovePageUp:
		mh.ctl.MoveSelection(-mh.ctl.PageSize())
	case input.ActionMovePageDown:
		mh.ctl.MoveSelection(mh.ctl.PageSize())
	case input.ActionMoveTop:
		mh.ctl.SelectFirst()
	case input.ActionMoveBottom:
		mh.ctl.SelectLast()

	// --- List Modification ---
	case input.ActionToggleDone:
		err = mh.ctl.ToggleSelected()
	case input.ActionRemove:
		err = mh.ctl.RemoveSelected()
	case input.ActionPopBack:
		err = mh.ctl.PopBack()
	case input.ActionClear:
		err = mh.ctl.Clear()
	case input.ActionSwapStash:
		err = mh.ctl.SwapStash()
	case input.ActionYank:
		err = mh.ctl.Yank()
	case input.ActionPaste:
		err = mh.ctl.Paste()

	// --- Search ---
	case input.ActionSearch:
		mh.startText(ModePrompt, "/", "", mh.ctl.Search)
	case input.ActionFindNext:
		err = mh.ctl.FindNext(true)
	case input.ActionFindPrev:
		err = mh.ctl.FindNext(false)

	// --- History ---
	case input.ActionUndo:
		err = mh.ctl.Undo()
	case input.ActionRedo:
		err = mh.ctl.Redo()

	case input.ActionToggleInspector:
		mh.ctl.ToggleInspector()

	default:
		return false
	}

	if err != nil {
		logger.Debugf("ModeHandler: %s failed: %v", action, err)
		mh.statusBar.SetError("%s: %v", action, err)
	}
	// Any other processed action cancels a pending force quit
	mh.forceQuitPending = false
	return true
}

// startText enters a text-entry mode with label shown before the typed
// text, initial as the starting text and submit called on Enter.
func (mh *ModeHandler) startText(m InputMode, label, initial string, submit func(string) error) {
	mh.promptLabel = label
	mh.textBuffer = initial
	mh.onSubmit = submit
	mh.setMode(m)
	mh.statusBar.SetPrompt(label + initial)
}
