package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/tidelist/internal/config"
	"github.com/bethropolis/tidelist/internal/entry"
	"github.com/bethropolis/tidelist/internal/event"
	"github.com/bethropolis/tidelist/internal/modehandler"
	"github.com/bethropolis/tidelist/internal/theme"
	"github.com/bethropolis/tidelist/internal/tui"
)

func newTestApp(t *testing.T, listPath string, mutate ...func(*config.Config)) *App {
	t.Helper()
	cfg := config.NewDefaultConfig()
	for _, m := range mutate {
		m(cfg)
	}
	sim := tcell.NewSimulationScreen("UTF-8")
	tu, err := tui.NewWithScreen(sim, tcell.StyleDefault)
	require.NoError(t, err)
	sim.SetSize(80, 12)
	t.Cleanup(tu.Close)

	a, err := newApp(cfg, tu, theme.NewManager(t.TempDir(), cfg.View.Theme), listPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		a.stopMessageTimer()
		a.pluginManager.ShutdownPlugins()
	})
	return a
}

func (a *App) keys(t *testing.T, keys string) {
	t.Helper()
	for _, r := range keys {
		switch r {
		case '\n':
			a.handleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
		case '\x1b':
			a.handleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
		default:
			a.handleEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
		}
	}
}

func (a *App) texts() []string {
	var out []string
	for _, e := range a.list.Items() {
		out = append(out, e.String())
	}
	return out
}

func screenRow(a *App, y int) string {
	s := a.tuiManager.GetScreen()
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

func TestEditingThroughKeys(t *testing.T) {
	a := newTestApp(t, "")

	a.keys(t, "amilk\naeggs\n")
	assert.Equal(t, []string{"[ ] milk", "[ ] eggs"}, a.texts())
	assert.Equal(t, 1, a.selected)

	a.keys(t, "k x")
	assert.Equal(t, []string{"[ ] milk", "[ ] eggs"}, a.texts(), "toggled twice")
	a.keys(t, "x")
	assert.Equal(t, "[x] milk", a.texts()[0])

	a.keys(t, "ibread\n")
	assert.Equal(t, []string{"[ ] bread", "[x] milk", "[ ] eggs"}, a.texts())

	a.keys(t, "e")
	assert.Equal(t, modehandler.ModePrompt, a.modeHandler.GetCurrentMode())
	assert.Equal(t, "bread", a.modeHandler.GetTextBuffer())
	a.keys(t, "s\n")
	assert.Equal(t, "[ ] breads", a.texts()[0])

	a.keys(t, "uu")
	assert.Equal(t, []string{"[x] milk", "[ ] eggs"}, a.texts())
	a.keys(t, "U")
	assert.Equal(t, []string{"[ ] bread", "[x] milk", "[ ] eggs"}, a.texts())

	a.keys(t, "Gd")
	assert.Equal(t, []string{"[ ] bread", "[x] milk"}, a.texts())
	assert.Equal(t, 1, a.selected, "selection clamped after remove")

	a.keys(t, "gyGP")
	assert.Equal(t, []string{"[ ] bread", "[x] milk", "[ ] bread"}, a.texts())

	a.keys(t, "pC")
	assert.Empty(t, a.texts())
	assert.Equal(t, -1, a.selected)
	a.keys(t, "u")
	assert.Len(t, a.texts(), 2)
}

func TestSwapStash(t *testing.T) {
	a := newTestApp(t, "")
	a.keys(t, "aone\natwo\n")

	a.keys(t, "s")
	assert.Empty(t, a.texts())
	assert.Equal(t, 2, a.stash.Len())

	a.keys(t, "athree\ns")
	assert.Equal(t, []string{"[ ] one", "[ ] two"}, a.texts())
	assert.Equal(t, 1, a.stash.Len())

	a.keys(t, "u")
	assert.Equal(t, []string{"[ ] three"}, a.texts())
}

func TestCompoundThroughCommands(t *testing.T) {
	a := newTestApp(t, "")

	a.keys(t, ":begin\naone\natwo\n")
	assert.True(t, a.list.InCompoundOperation())
	assert.Equal(t, "Compound operation open", a.QuitBlocker())

	a.keys(t, ":end\n")
	assert.Equal(t, 1, a.list.Depth())
	a.keys(t, "u")
	assert.Empty(t, a.texts())
}

func TestSearchAndSubstitute(t *testing.T) {
	a := newTestApp(t, "")
	a.keys(t, "amilk\naeggs\naoat milk\n")
	require.Equal(t, 2, a.selected)

	a.keys(t, "/milk\n")
	assert.Equal(t, 0, a.selected)
	a.keys(t, "n")
	assert.Equal(t, 2, a.selected)
	a.keys(t, "N")
	assert.Equal(t, 0, a.selected)
	assert.Len(t, a.finder.GetHighlights(), 2)

	a.keys(t, "/bread\n")
	assert.Equal(t, "pattern not found: bread", a.statusBar.Message())
	assert.Equal(t, 0, a.selected)

	a.keys(t, ":find mi.k\n:s /milk/cream/\n")
	assert.Equal(t, []string{"[ ] cream", "[ ] eggs", "[ ] oat cream"}, a.texts())
	assert.Equal(t, "Replaced 2 occurrence(s)", a.statusBar.Message())
	assert.Empty(t, a.finder.GetHighlights(), "highlights follow list changes")

	a.keys(t, "u")
	assert.Equal(t, []string{"[ ] milk", "[ ] eggs", "[ ] oat milk"}, a.texts(), "substitution is one undo step")
	assert.Len(t, a.finder.GetHighlights(), 2)

	a.keys(t, ":noh\n")
	assert.False(t, a.finder.Active())
	a.draw()
	assert.Equal(t, "1 [ ] milk", screenRow(a, 0))
}

func TestUnknownCommandShowsError(t *testing.T) {
	a := newTestApp(t, "")
	a.keys(t, ":frobnicate\n")
	assert.Equal(t, "unknown command: frobnicate", a.statusBar.Message())
	assert.Equal(t, modehandler.ModeNormal, a.modeHandler.GetCurrentMode())
}

func TestPluginCommands(t *testing.T) {
	a := newTestApp(t, "")
	a.keys(t, "aa b\n")

	a.keys(t, ":count\n")
	assert.Equal(t, "Entries: 1, Done: 0, Open: 1, Words: 2", a.statusBar.Message())

	a.keys(t, `:lua list.push("c") list.toggle(1)`+"\n")
	assert.Equal(t, []string{"[x] a b", "[ ] c"}, a.texts())
	a.keys(t, "u")
	assert.Equal(t, []string{"[ ] a b"}, a.texts(), "script is one undo step")
}

func TestListFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.txt")
	require.NoError(t, os.WriteFile(path, []byte("[x] milk\n\neggs\n"), 0o644))

	a := newTestApp(t, path)
	assert.Equal(t, []string{"[x] milk", "[ ] eggs"}, a.texts())
	assert.False(t, a.modified)
	assert.False(t, a.list.CanUndo(), "loading is not undoable")
	assert.Equal(t, 0, a.selected)

	a.keys(t, "abread\n")
	assert.Equal(t, "Unsaved changes", a.QuitBlocker())
	a.keys(t, ":w\n")
	assert.False(t, a.modified)
	assert.Empty(t, a.QuitBlocker())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[x] milk\n[ ] eggs\n[ ] bread\n", string(data))
}

func TestMissingListFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.txt")
	a := newTestApp(t, path)
	assert.Empty(t, a.texts())
	require.NoError(t, a.writeList(""))
	assert.FileExists(t, path)
}

func TestWriteWithoutNameFails(t *testing.T) {
	a := newTestApp(t, "")
	assert.Error(t, a.writeList(""))
}

func TestSnapshotAndRestore(t *testing.T) {
	dir := t.TempDir()
	snap := filepath.Join(dir, "snap.json")
	a := newTestApp(t, "")

	var saved []event.SnapshotSavedData
	a.eventManager.Subscribe(event.TypeSnapshotSaved, func(e event.Event) bool {
		saved = append(saved, e.Data.(event.SnapshotSavedData))
		return false
	})

	a.keys(t, "aone\natwo\nu")
	a.keys(t, ":snapshot "+snap+"\n")
	require.Len(t, saved, 1)
	assert.Equal(t, snap, saved[0].Path)

	b := newTestApp(t, "", func(c *config.Config) { c.RestorePath = snap })
	assert.Equal(t, []string{"[ ] one"}, b.texts())
	assert.Equal(t, 0, b.list.Cursor())
	assert.True(t, b.list.CanRedo())
	b.keys(t, "U")
	assert.Equal(t, []string{"[ ] one", "[ ] two"}, b.texts())

	a.keys(t, "C:restore "+snap+"\n")
	assert.Equal(t, []string{"[ ] one"}, a.texts())
}

func TestQuitHandling(t *testing.T) {
	a := newTestApp(t, "")
	a.keys(t, "aone\n")

	a.keys(t, ":q\n")
	assert.False(t, a.quitting)
	assert.Contains(t, a.statusBar.Message(), "Unsaved changes")

	a.keys(t, "\x1b")
	assert.False(t, a.quitting, "first ESC warns")
	a.keys(t, "\x1b")
	assert.True(t, a.quitting)
}

func TestForceQuitCommand(t *testing.T) {
	a := newTestApp(t, "")
	a.keys(t, "aone\n:q!\n")
	assert.True(t, a.quitting)
}

func TestDrawListAndStatus(t *testing.T) {
	a := newTestApp(t, "")
	a.keys(t, "amilk\naeggs\n")
	a.draw()

	assert.Contains(t, screenRow(a, 0), "[ ] milk")
	assert.Contains(t, screenRow(a, 1), "[ ] eggs")
	_, h := a.tuiManager.Size()
	status := screenRow(a, h-1)
	assert.NotEmpty(t, status)
}

func TestInspector(t *testing.T) {
	a := newTestApp(t, "", func(c *config.Config) { c.View.Inspector = true })
	a.keys(t, "aone\natwo\n")

	view := a.inspectorContent()
	assert.Equal(t, "History 2/2", view.Title)
	require.GreaterOrEqual(t, view.CursorLine, 0)
	assert.Contains(t, view.Lines[view.CursorLine], "[")
	assert.NotEmpty(t, view.Highlights)
	assert.Same(t, view, a.inspectorContent(), "cached until something changes")

	a.keys(t, "u")
	view = a.inspectorContent()
	assert.Equal(t, "History 1/2", view.Title)

	a.keys(t, ":begin\n")
	assert.Contains(t, a.inspectorContent().Lines[0], "compound")

	a.keys(t, ":end\nh")
	assert.False(t, a.inspector)
	a.draw()
}

func TestThemeCommandChangesStyle(t *testing.T) {
	a := newTestApp(t, "")
	var names []string
	a.eventManager.Subscribe(event.TypeThemeChanged, func(e event.Event) bool {
		names = append(names, e.Data.(event.ThemeChangedData).Name)
		return false
	})
	a.keys(t, ":theme devcomfort light\n")
	assert.Equal(t, "DevComfort Light", a.themeManager.Current().Name)
	assert.Equal(t, []string{"DevComfort Light"}, names)
}

func TestListChangesAreBridged(t *testing.T) {
	a := newTestApp(t, "")
	var lens []int
	var ops []string
	a.eventManager.Subscribe(event.TypeListChanged, func(e event.Event) bool {
		lens = append(lens, e.Data.(event.ListChangedData).Len)
		return false
	})
	a.eventManager.Subscribe(event.TypeHistoryChanged, func(e event.Event) bool {
		ops = append(ops, e.Data.(event.HistoryChangedData).Op)
		return false
	})

	a.keys(t, "aone\natwo\nuU:clearundo\n")
	assert.Equal(t, []int{1, 2, 1, 2}, lens)
	assert.Equal(t, []string{"undo", "redo", "clearundo"}, ops)
}

func TestRunOnMain(t *testing.T) {
	a := newTestApp(t, "")
	ran := make(chan struct{})
	go a.listAPI.RunOnMain(func() {
		_ = a.listAPI.Append(entry.New("from goroutine"))
		close(ran)
	})

	for {
		ev := a.tuiManager.PollEvent()
		require.NotNil(t, ev)
		a.handleEvent(ev)
		if intr, ok := ev.(*tcell.EventInterrupt); ok && intr.Data() != nil {
			break
		}
	}
	<-ran
	assert.Equal(t, []string{"[ ] from goroutine"}, a.texts())
}
