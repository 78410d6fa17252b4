package commands

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/tidelist/internal/core/history"
	"github.com/bethropolis/tidelist/internal/entry"
	"github.com/bethropolis/tidelist/internal/find"
	"github.com/bethropolis/tidelist/internal/plugin"
	"github.com/bethropolis/tidelist/internal/theme"
)

type registry map[string]plugin.CommandFunc

func (r registry) RegisterCommand(name string, fn plugin.CommandFunc) error {
	if _, ok := r[name]; ok {
		return fmt.Errorf("command '%s' already registered", name)
	}
	r[name] = fn
	return nil
}

func (r registry) run(t *testing.T, name string, args ...string) error {
	t.Helper()
	fn, ok := r[name]
	require.True(t, ok, "command %s not registered", name)
	return fn(args)
}

// fakeApp backs the APIs with a real list, theme and find manager.
type fakeApp struct {
	list     *entry.List
	themes   *theme.Manager
	finder   *find.Manager
	selected int
	message  string

	snapshots []string
	restored  []string
	written   []string
	quit      []bool
}

func newFakeApp(t *testing.T) *fakeApp {
	t.Helper()
	f := &fakeApp{
		list:     entry.NewList(),
		themes:   theme.NewManager(t.TempDir(), ""),
		selected: -1,
	}
	f.finder = find.NewManager(f)
	return f
}

func (f *fakeApp) SetStatusMessage(format string, args ...any) {
	f.message = fmt.Sprintf(format, args...)
}

func (f *fakeApp) SetTheme(name string) error { return f.themes.SetTheme(name) }
func (f *fakeApp) GetTheme() *theme.Theme { return f.themes.Current() }
func (f *fakeApp) ListThemes(pattern string) []string { return f.themes.ListThemes(pattern) }
func (f *fakeApp) BeginCompound(undoable bool) error { return f.list.BeginCompoundOperation(undoable) }
func (f *fakeApp) EndCompound() error { return f.list.EndCompoundOperation() }
func (f *fakeApp) Undo() (bool, error) { return f.list.Undo() }
func (f *fakeApp) Redo() (bool, error) { return f.list.Redo() }
func (f *fakeApp) ClearUndo() error { return f.list.ClearUndo() }
func (f *fakeApp) HistoryGroups() []history.Group { return f.list.Groups() }
func (f *fakeApp) HistoryInfo() (int, int) { return f.list.Cursor(), f.list.Depth() }
func (f *fakeApp) SaveSnapshot(path string) error { f.snapshots = append(f.snapshots, path); return nil }
func (f *fakeApp) RestoreSnapshot(path string) error { f.restored = append(f.restored, path); return nil }
func (f *fakeApp) WriteList(path string) error { f.written = append(f.written, path); return nil }
func (f *fakeApp) RequestQuit(force bool) { f.quit = append(f.quit, force) }

func (f *fakeApp) Entries() []entry.Entry { return f.list.Items() }
func (f *fakeApp) Selected() int { return f.selected }
func (f *fakeApp) SetAt(i int, e entry.Entry) error { return f.list.Set(i, e) }
func (f *fakeApp) Transaction(fn func() error) error { return f.list.Transaction(fn) }
func (f *fakeApp) ClearSearch() { f.finder.ClearHighlights() }

func (f *fakeApp) Search(pattern string) error {
	if err := f.finder.Search(pattern); err != nil {
		return err
	}
	return f.FindNext(true)
}

func (f *fakeApp) FindNext(forward bool) error {
	idx, found, err := f.finder.FindNext(forward)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("pattern not found: %s", f.finder.Term())
	}
	f.selected = idx
	return nil
}

func (f *fakeApp) Substitute(pattern, replacement string, global bool) (int, error) {
	return f.finder.Replace(pattern, replacement, global)
}

func setup(t *testing.T) (*fakeApp, registry) {
	t.Helper()
	f := newFakeApp(t)
	reg := registry{}
	RegisterAppCommands(reg, f, f, f)
	return f, reg
}

func (f *fakeApp) push(t *testing.T, texts ...string) {
	t.Helper()
	for _, s := range texts {
		_, err := f.list.PushBack(entry.New(s))
		require.NoError(t, err)
	}
}

func texts(l *entry.List) []string {
	var out []string
	for _, e := range l.Items() {
		out = append(out, e.Text)
	}
	return out
}

func TestThemeCommands(t *testing.T) {
	f, reg := setup(t)

	require.NoError(t, reg.run(t, "theme"))
	assert.Equal(t, "Current theme: DevComfort Dark", f.message)

	require.NoError(t, reg.run(t, "theme", "devcomfort", "light"))
	assert.Equal(t, "DevComfort Light", f.GetTheme().Name)
	assert.Equal(t, "Theme set to: DevComfort Light", f.message)

	err := reg.run(t, "theme", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DevComfort Dark, DevComfort Light")

	require.NoError(t, reg.run(t, "themes", "*light"))
	assert.Equal(t, "Available themes: DevComfort Light", f.message)
	assert.Error(t, reg.run(t, "themes", "solar*"))
}

func TestUndoRedoCounts(t *testing.T) {
	f, reg := setup(t)
	f.push(t, "a", "b", "c")

	require.NoError(t, reg.run(t, "undo", "2"))
	assert.Equal(t, []string{"a"}, texts(f.list))
	assert.Equal(t, "Undid 2 change(s)", f.message)

	require.NoError(t, reg.run(t, "redo", "10"))
	assert.Equal(t, []string{"a", "b", "c"}, texts(f.list))
	assert.Equal(t, "Redid 2 change(s)", f.message)

	require.NoError(t, reg.run(t, "redo"))
	assert.Equal(t, "Nothing to redo", f.message)

	assert.Error(t, reg.run(t, "undo", "zero"))
	assert.Error(t, reg.run(t, "undo", "0"))
}

func TestCompoundCommands(t *testing.T) {
	f, reg := setup(t)

	require.NoError(t, reg.run(t, "begin"))
	f.push(t, "a", "b")
	require.NoError(t, reg.run(t, "end"))
	assert.Equal(t, 1, f.list.Depth())

	require.NoError(t, reg.run(t, "begin", "noundo"))
	f.push(t, "hidden")
	require.NoError(t, reg.run(t, "end"))
	assert.Equal(t, 1, f.list.Depth(), "unrecorded span adds no group")
	assert.Equal(t, 3, f.list.Len())

	assert.ErrorIs(t, reg.run(t, "end"), history.ErrNoCompoundOperation)
	assert.Error(t, reg.run(t, "begin", "sometimes"))
}

func TestHistoryCommand(t *testing.T) {
	f, reg := setup(t)

	require.NoError(t, reg.run(t, "history"))
	assert.Equal(t, "History is empty", f.message)

	f.push(t, "milk", "eggs", "oat milk")
	require.NoError(t, reg.run(t, "history"))
	assert.Contains(t, f.message, "History 3/3, last: insert @2")

	require.NoError(t, reg.run(t, "history", "*MILK*"))
	assert.Contains(t, f.message, "2 match(es): #1 insert @0")
	assert.Contains(t, f.message, "#3 insert @2")

	assert.Error(t, reg.run(t, "history", "*bread*"))

	require.NoError(t, reg.run(t, "clearundo"))
	assert.Equal(t, 0, f.list.Depth())
	assert.Equal(t, 3, f.list.Len())
}

func TestPersistenceAndQuitCommands(t *testing.T) {
	f, reg := setup(t)

	require.NoError(t, reg.run(t, "snapshot"))
	require.NoError(t, reg.run(t, "snapshot", "/tmp/my", "snap.json"))
	assert.Equal(t, []string{"", "/tmp/my snap.json"}, f.snapshots)

	assert.Error(t, reg.run(t, "restore"))
	require.NoError(t, reg.run(t, "restore", "a.json"))
	assert.Equal(t, []string{"a.json"}, f.restored)

	require.NoError(t, reg.run(t, "w", "list.txt"))
	require.NoError(t, reg.run(t, "q"))
	require.NoError(t, reg.run(t, "q!"))
	require.NoError(t, reg.run(t, "wq"))
	assert.Equal(t, []string{"list.txt", ""}, f.written)
	assert.Equal(t, []bool{false, true, false}, f.quit)
}

func TestFindCommands(t *testing.T) {
	f, reg := setup(t)
	f.push(t, "milk", "eggs", "oat milk")

	assert.ErrorIs(t, reg.run(t, "find"), find.ErrNoPattern)

	require.NoError(t, reg.run(t, "find", "mi.k"))
	assert.Equal(t, 0, f.selected)
	require.NoError(t, reg.run(t, "find"))
	assert.Equal(t, 2, f.selected)
	require.NoError(t, reg.run(t, "find"))
	assert.Equal(t, 0, f.selected, "search wraps around")

	assert.Error(t, reg.run(t, "find", "bread"))
	assert.Error(t, reg.run(t, "find", "("))

	require.NoError(t, reg.run(t, "noh"))
	assert.False(t, f.finder.HasHighlights())
}

func TestSubstituteCommand(t *testing.T) {
	f, reg := setup(t)
	f.push(t, "milk milk", "eggs", "oat milk")
	depth := f.list.Depth()

	require.NoError(t, reg.run(t, "s", "/milk/cream/"))
	assert.Equal(t, []string{"cream milk", "eggs", "oat cream"}, texts(f.list))
	assert.Equal(t, "Replaced 2 occurrence(s)", f.message)
	assert.Equal(t, depth+1, f.list.Depth(), "one undo step")

	require.NoError(t, reg.run(t, "s", "/(\\w+) (milk)/$2", "$1/g"))
	assert.Equal(t, []string{"milk cream", "eggs", "oat cream"}, texts(f.list))

	require.NoError(t, reg.run(t, "s", "/bread/toast/"))
	assert.Equal(t, "Pattern not found: bread", f.message)

	assert.Error(t, reg.run(t, "s", "milk"))
	assert.Error(t, reg.run(t, "s", "//x/"))

	ok, err := f.list.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = f.list.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"milk milk", "eggs", "oat milk"}, texts(f.list))
}

func TestDuplicateRegistrationIsLogged(t *testing.T) {
	f := newFakeApp(t)
	reg := registry{}
	RegisterThemeCommands(reg, f)
	assert.NotPanics(t, func() { RegisterThemeCommands(reg, f) })
	assert.Len(t, reg, 2)
}
