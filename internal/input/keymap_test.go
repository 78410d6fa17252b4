package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestNormalBindings(t *testing.T) {
	p := NewInputProcessor()
	cases := map[*tcell.EventKey]Action{
		runeKey('j'): ActionMoveDown,
		runeKey('k'): ActionMoveUp,
		tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone):   ActionMoveUp,
		tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone): ActionMoveDown,
		runeKey('a'): ActionAppend,
		runeKey('i'): ActionInsert,
		runeKey('e'): ActionEdit,
		runeKey(' '): ActionToggleDone,
		runeKey('x'): ActionToggleDone,
		runeKey('d'): ActionRemove,
		runeKey('p'): ActionPopBack,
		runeKey('C'): ActionClear,
		runeKey('s'): ActionSwapStash,
		runeKey('u'): ActionUndo,
		runeKey('U'): ActionRedo,
		runeKey('y'): ActionYank,
		runeKey('P'): ActionPaste,
		runeKey('/'): ActionSearch,
		runeKey('n'): ActionFindNext,
		runeKey('N'): ActionFindPrev,
		runeKey('h'): ActionToggleInspector,
		runeKey(':'): ActionEnterCommandMode,
		runeKey('q'): ActionQuit,
		tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone): ActionQuit,
		tcell.NewEventKey(tcell.KeyCtrlR, 0, tcell.ModCtrl):  ActionRedo,
		tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl):  ActionSnapshot,
		tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModNone):  ActionSnapshot,
		runeKey('z'): ActionUnknown,
		tcell.NewEventKey(tcell.KeyRune, 'u', tcell.ModAlt): ActionUnknown,
	}
	for ev, want := range cases {
		assert.Equal(t, want, p.ProcessEvent(ev).Action, "key %s", ev.Name())
	}
}

func TestShiftedRunes(t *testing.T) {
	p := NewInputProcessor()
	ev := tcell.NewEventKey(tcell.KeyRune, 'G', tcell.ModShift)
	assert.Equal(t, ActionMoveBottom, p.ProcessEvent(ev).Action)
}

func TestTextBindings(t *testing.T) {
	p := NewInputProcessor()

	got := p.ProcessTextEvent(runeKey('q'))
	assert.Equal(t, ActionInsertRune, got.Action, "letters are typed, not commands")
	assert.Equal(t, 'q', got.Rune)

	assert.Equal(t, ActionConfirm, p.ProcessTextEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)).Action)
	assert.Equal(t, ActionCancel, p.ProcessTextEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)).Action)
	assert.Equal(t, ActionDeleteCharBackward, p.ProcessTextEvent(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone)).Action)
	assert.Equal(t, ActionUnknown, p.ProcessTextEvent(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone)).Action)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "swap-stash", ActionSwapStash.String())
	assert.Equal(t, "unknown", Action(-1).String())
}
