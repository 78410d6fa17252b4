package modehandler

import (
	"unicode/utf8"

	"github.com/bethropolis/tidelist/internal/input"
	"github.com/bethropolis/tidelist/internal/logger"
)

// handleActionText handles actions while typing in ModePrompt or ModeCommand.
func (mh *ModeHandler) handleActionText(actionEvent input.ActionEvent) bool {
	switch actionEvent.Action {
	case input.ActionInsertRune:
		mh.textBuffer += string(actionEvent.Rune)

	case input.ActionDeleteCharBackward: // Backspace
		if mh.textBuffer == "" {
			mh.finishText()
			logger.DebugTagf("mode", "ModeHandler: Leaving %s via Backspace", mh.currentMode)
			return true
		}
		_, size := utf8.DecodeLastRuneInString(mh.textBuffer)
		mh.textBuffer = mh.textBuffer[:len(mh.textBuffer)-size]

	case input.ActionConfirm: // Enter: submit
		text, submit, mode := mh.textBuffer, mh.onSubmit, mh.currentMode
		mh.finishText()
		if mode == ModePrompt && text == "" {
			mh.statusBar.SetTemporaryMessage("Empty entry ignored")
			return true
		}
		if submit != nil {
			if err := submit(text); err != nil {
				mh.statusBar.SetError("%v", err)
			}
		}
		return true

	case input.ActionCancel: // Escape
		mh.finishText()
		logger.DebugTagf("mode", "ModeHandler: Canceled input")
		return true

	default:
		return false // Ignore other actions
	}

	mh.statusBar.SetPrompt(mh.promptLabel + mh.textBuffer)
	return true
}

// finishText clears text-entry state and returns to ModeNormal.
func (mh *ModeHandler) finishText() {
	mh.textBuffer = ""
	mh.promptLabel = ""
	mh.onSubmit = nil
	mh.setMode(ModeNormal)
}
