package luascript

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/tidelist/internal/entry"
	"github.com/bethropolis/tidelist/internal/plugin"
)

// listAPI backs the plugin API with a real undoable list.
type listAPI struct {
	plugin.ListAPI
	list     *entry.List
	config   map[string]any
	commands map[string]plugin.CommandFunc
	message  string
}

func newListAPI(t *testing.T, config map[string]any, texts ...string) *listAPI {
	t.Helper()
	api := &listAPI{list: entry.NewList(), config: config, commands: map[string]plugin.CommandFunc{}}
	for _, s := range texts {
		_, err := api.list.PushBack(entry.New(s))
		require.NoError(t, err)
	}
	require.NoError(t, api.list.ClearUndo())
	return api
}

func (a *listAPI) Entries() []entry.Entry { return a.list.Items() }
func (a *listAPI) Entry(i int) (entry.Entry, error) { return a.list.At(i) }
func (a *listAPI) Len() int { return a.list.Len() }
func (a *listAPI) Selected() int { return a.list.Len() - 1 }
func (a *listAPI) InsertAt(i int, e entry.Entry) error { return a.list.Insert(i, e) }
func (a *listAPI) SetAt(i int, e entry.Entry) error { return a.list.Set(i, e) }
func (a *listAPI) RemoveAt(i int) (entry.Entry, error) { return a.list.Remove(i) }
func (a *listAPI) ClearList() error { return a.list.Clear() }
func (a *listAPI) Transaction(fn func() error) error { return a.list.Transaction(fn) }

func (a *listAPI) Append(e entry.Entry) error {
	_, err := a.list.PushBack(e)
	return err
}

func (a *listAPI) GetPluginConfigValue(_, key string) (any, bool) {
	v, ok := a.config[key]
	return v, ok
}

func (a *listAPI) RegisterCommand(name string, fn plugin.CommandFunc) error {
	a.commands[name] = fn
	return nil
}

func (a *listAPI) SetStatusMessage(format string, args ...any) {
	a.message = fmt.Sprintf(format, args...)
}

func texts(l *entry.List) []string {
	var out []string
	for _, e := range l.Items() {
		out = append(out, e.String())
	}
	return out
}

func setup(t *testing.T, config map[string]any, texts ...string) (*LuaScript, *listAPI) {
	t.Helper()
	api := newListAPI(t, config, texts...)
	p := New().(*LuaScript)
	require.NoError(t, p.Initialize(api))
	t.Cleanup(func() { p.Shutdown() })
	return p, api
}

func TestScriptIsOneUndoStep(t *testing.T) {
	p, api := setup(t, nil, "milk")

	require.NoError(t, p.Run(`
		list.push("eggs")
		list.insert(1, "bread", true)
		list.toggle(3)
		list.set(2, "oat milk")
	`))
	assert.Equal(t, []string{"[x] bread", "[ ] oat milk", "[x] eggs"}, texts(api.list))
	assert.Equal(t, 1, api.list.Depth())

	ok, err := api.list.Undo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"[ ] milk"}, texts(api.list))
}

func TestFailingScriptRollsBack(t *testing.T) {
	p, api := setup(t, nil, "a", "b")

	err := p.Run(`list.remove(1); list.get(5)`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
	assert.NotContains(t, err.Error(), "\n", "traceback is dropped")
	assert.Equal(t, []string{"[ ] a", "[ ] b"}, texts(api.list))
	assert.Equal(t, 0, api.list.Depth())
}

func TestQueriesAndMessage(t *testing.T) {
	p, api := setup(t, nil, "a b", "c")

	require.NoError(t, p.Run(`
		local words = 0
		for _, item in ipairs(list.items()) do
			for _ in string.gmatch(item.text, "%S+") do words = words + 1 end
		end
		local text, done = list.get(list.selected())
		message("%d entries, %d words, last %s done=%s", list.len(), words, text, tostring(done))
	`))
	assert.Equal(t, "2 entries, 3 words, last c done=false", api.message)
}

func TestSandbox(t *testing.T) {
	p, _ := setup(t, nil)
	for _, code := range []string{`os.exit(1)`, `io.write("x")`, `dofile("x")`, `require("os")`} {
		assert.Error(t, p.Run(code), code)
	}
}

func TestTimeout(t *testing.T) {
	p, api := setup(t, map[string]any{"timeout": "50ms"}, "a")
	start := time.Now()
	err := p.Run(`list.push("b"); while true do end`)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, []string{"[ ] a"}, texts(api.list))
}

func TestCommandsAndInitScript(t *testing.T) {
	dir := t.TempDir()
	initPath := filepath.Join(dir, "init.lua")
	require.NoError(t, os.WriteFile(initPath, []byte(`list.push("from init")`), 0o644))

	_, api := setup(t, map[string]any{"init": initPath})
	assert.Equal(t, []string{"[ ] from init"}, texts(api.list))

	require.NoError(t, api.commands["lua"]([]string{`list.clear()`}))
	assert.Empty(t, texts(api.list))
	assert.Error(t, api.commands["lua"](nil))
	assert.Error(t, api.commands["luafile"]([]string{filepath.Join(dir, "missing.lua")}))
}

func TestRunAfterShutdown(t *testing.T) {
	p, _ := setup(t, nil)
	require.NoError(t, p.Shutdown())
	assert.ErrorIs(t, p.Run(`list.len()`), ErrClosed)
}
