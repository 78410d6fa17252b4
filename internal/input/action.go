// internal/input/action.go
package input

// Action represents an operation requested by a key press.
type Action int

// Define the set of possible list actions.
const (
	// --- Meta Actions ---
	ActionUnknown Action = iota // Default/invalid action
	ActionQuit
	ActionForceQuit // Quit even while a compound operation is open
	ActionSnapshot  // Write the list and its history to the snapshot file

	// --- Selection Movement ---
	ActionMoveUp
	ActionMoveDown
	ActionMovePageUp
	ActionMovePageDown
	ActionMoveTop
	ActionMoveBottom

	// --- List Mutation ---
	ActionAppend     // Prompt for text, push back
	ActionInsert     // Prompt for text, insert at the selection
	ActionEdit       // Prompt with the selected text, set
	ActionToggleDone // Set the selected entry with Done flipped
	ActionRemove
	ActionPopBack
	ActionClear
	ActionSwapStash // Swap contents with the stash list
	ActionYank
	ActionPaste // Insert the yanked entry after the selection

	// --- Search ---
	ActionSearch   // Prompt for a regexp and jump to the next match
	ActionFindNext
	ActionFindPrev

	// --- History ---
	ActionUndo
	ActionRedo

	// --- View / Mode ---
	ActionToggleInspector
	ActionEnterCommandMode

	// --- Text Entry (prompt and command line) ---
	ActionInsertRune
	ActionDeleteCharBackward
	ActionConfirm
	ActionCancel
)

var actionNames = map[Action]string{
	ActionUnknown:            "unknown",
	ActionQuit:               "quit",
	ActionForceQuit:          "force-quit",
	ActionSnapshot:           "snapshot",
	ActionMoveUp:             "move-up",
	ActionMoveDown:           "move-down",
	ActionMovePageUp:         "page-up",
	ActionMovePageDown:       "page-down",
	ActionMoveTop:            "move-top",
	ActionMoveBottom:         "move-bottom",
	ActionAppend:             "append",
	ActionInsert:             "insert",
	ActionEdit:               "edit",
	ActionToggleDone:         "toggle-done",
	ActionRemove:             "remove",
	ActionPopBack:            "pop-back",
	ActionClear:              "clear",
	ActionSwapStash:          "swap-stash",
	ActionYank:               "yank",
	ActionPaste:              "paste",
	ActionSearch:             "search",
	ActionFindNext:           "find-next",
	ActionFindPrev:           "find-prev",
	ActionUndo:               "undo",
	ActionRedo:               "redo",
	ActionToggleInspector:    "toggle-inspector",
	ActionEnterCommandMode:   "command-mode",
	ActionInsertRune:         "insert-rune",
	ActionDeleteCharBackward: "delete-backward",
	ActionConfirm:            "confirm",
	ActionCancel:             "cancel",
}

// String implements fmt.Stringer.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ActionEvent represents a decoded input event resulting in an action.
type ActionEvent struct {
	Action Action
	Rune   rune // Used for ActionInsertRune
}
