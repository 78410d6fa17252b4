// internal/input/keymap.go
package input

import (
	"github.com/gdamore/tcell/v2"
)

// Keymap maps specific key events to actions.
type Keymap map[tcell.Key]Action        // For special keys (Enter, Arrows, etc.)
type RuneKeymap map[rune]Action         // For single-letter commands
type ModKeymap map[tcell.ModMask]Keymap // For keys combined with modifiers (Ctrl, Alt, Shift)

// InputProcessor translates tcell events into ActionEvents.
type InputProcessor struct {
	keymap     Keymap
	runeKeymap RuneKeymap
	modKeymap  ModKeymap
	textKeymap Keymap // Used while text is being typed
}

// NewInputProcessor creates a processor with default keybindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{
		keymap:     make(Keymap),
		runeKeymap: make(RuneKeymap),
		modKeymap:  make(ModKeymap),
		textKeymap: make(Keymap),
	}
	p.loadDefaultBindings()
	return p
}

// loadDefaultBindings sets up the initial key mappings.
func (p *InputProcessor) loadDefaultBindings() {
	// --- Simple Keys ---
	p.keymap[tcell.KeyUp] = ActionMoveUp
	p.keymap[tcell.KeyDown] = ActionMoveDown
	p.keymap[tcell.KeyPgUp] = ActionMovePageUp
	p.keymap[tcell.KeyPgDn] = ActionMovePageDown
	p.keymap[tcell.KeyHome] = ActionMoveTop
	p.keymap[tcell.KeyEnd] = ActionMoveBottom
	p.keymap[tcell.KeyDelete] = ActionRemove
	p.keymap[tcell.KeyEscape] = ActionQuit
	p.keymap[tcell.KeyCtrlC] = ActionQuit

	// --- Modifier Keys ---
	ctrlMap := make(Keymap)
	ctrlMap[tcell.KeyCtrlS] = ActionSnapshot
	ctrlMap[tcell.KeyCtrlR] = ActionRedo
	ctrlMap[tcell.KeyCtrlQ] = ActionForceQuit
	p.modKeymap[tcell.ModCtrl] = ctrlMap

	// --- Rune Mappings ---
	for r, a := range map[rune]Action{
		'j': ActionMoveDown,
		'k': ActionMoveUp,
		'g': ActionMoveTop,
		'G': ActionMoveBottom,
		'a': ActionAppend,
		'i': ActionInsert,
		'e': ActionEdit,
		' ': ActionToggleDone,
		'x': ActionToggleDone,
		'd': ActionRemove,
		'p': ActionPopBack,
		'C': ActionClear,
		's': ActionSwapStash,
		'u': ActionUndo,
		'U': ActionRedo,
		'y': ActionYank,
		'P': ActionPaste,
		'/': ActionSearch,
		'n': ActionFindNext,
		'N': ActionFindPrev,
		'h': ActionToggleInspector,
		':': ActionEnterCommandMode,
		'q': ActionQuit,
	} {
		p.runeKeymap[r] = a
	}

	// --- Text entry ---
	p.textKeymap[tcell.KeyEnter] = ActionConfirm
	p.textKeymap[tcell.KeyEscape] = ActionCancel
	p.textKeymap[tcell.KeyCtrlC] = ActionCancel
	p.textKeymap[tcell.KeyBackspace] = ActionDeleteCharBackward
	p.textKeymap[tcell.KeyBackspace2] = ActionDeleteCharBackward // Often used for Backspace
}

// ProcessEvent maps a key event in normal mode to an ActionEvent.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey) ActionEvent {
	key := ev.Key()
	mod := ev.Modifiers()

	// 1. Check Modifier + Key combinations
	if modKeyMap, ok := p.modKeymap[mod]; ok {
		if action, ok := modKeyMap[key]; ok {
			return ActionEvent{Action: action}
		}
	}
	// Ctrl+letter keys already imply Ctrl
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		if action, ok := p.modKeymap[tcell.ModCtrl][key]; ok {
			return ActionEvent{Action: action}
		}
		mod &^= tcell.ModCtrl
	}

	// 2. Check simple Key mappings
	if mod == tcell.ModNone || mod == tcell.ModShift {
		if action, ok := p.keymap[key]; ok {
			return ActionEvent{Action: action}
		}
	}

	// 3. Check Rune mappings. Shift is part of the rune already ('G', 'P').
	if key == tcell.KeyRune && mod&^tcell.ModShift == tcell.ModNone {
		if action, ok := p.runeKeymap[ev.Rune()]; ok {
			return ActionEvent{Action: action, Rune: ev.Rune()}
		}
	}

	// 4. No mapping found
	return ActionEvent{Action: ActionUnknown}
}

// ProcessTextEvent maps a key event while a prompt or command line is
// being typed. Printable runes become ActionInsertRune.
func (p *InputProcessor) ProcessTextEvent(ev *tcell.EventKey) ActionEvent {
	if action, ok := p.textKeymap[ev.Key()]; ok {
		return ActionEvent{Action: action}
	}
	if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) == 0 {
		return ActionEvent{Action: ActionInsertRune, Rune: ev.Rune()}
	}
	return ActionEvent{Action: ActionUnknown}
}
