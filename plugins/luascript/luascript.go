// Package luascript adds a :lua command that runs Lua code against the list.
//
// Scripts see a global "list" table with 1-based indexes:
//
//	list.len()                  number of entries
//	list.selected()             selected index, 0 when the list is empty
//	list.get(i)                 text, done
//	list.items()                array of {text=..., done=...}
//	list.push(text [, done])
//	list.insert(i, text [, done])
//	list.set(i, text [, done])  done keeps its value when omitted
//	list.toggle(i)
//	list.remove(i)              returns the removed text
//	list.clear()
//
// and message(fmt, ...) to write to the status bar. Each run is one undo
// step; a script that raises an error leaves the list unchanged.
package luascript

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/bethropolis/tidelist/internal/entry"
	"github.com/bethropolis/tidelist/internal/logger"
	"github.com/bethropolis/tidelist/internal/plugin"
)

// Ensure LuaScript implements plugin.Plugin
var _ plugin.Plugin = (*LuaScript)(nil)

const defaultTimeout = 2 * time.Second

// ErrClosed is returned when a script runs after Shutdown.
var ErrClosed = errors.New("lua state is closed")

// LuaScript runs Lua snippets inside a single undo step.
type LuaScript struct {
	api     plugin.ListAPI
	L       *lua.LState
	timeout time.Duration
}

// New creates a new instance of the LuaScript plugin.
func New() plugin.Plugin {
	return &LuaScript{timeout: defaultTimeout}
}

// Name returns the unique name of the plugin.
func (p *LuaScript) Name() string {
	return "luascript"
}

// Initialize creates the Lua state, runs the optional init script and
// registers :lua and :luafile.
func (p *LuaScript) Initialize(api plugin.ListAPI) error {
	p.api = api
	if v, ok := api.GetPluginConfigValue(p.Name(), "timeout"); ok {
		if s, isStr := v.(string); isStr {
			if d, err := time.ParseDuration(s); err == nil && d > 0 {
				p.timeout = d
			} else {
				logger.Warnf("%s: Invalid 'timeout' config ('%s'), using default (%v)", p.Name(), s, p.timeout)
			}
		}
	}

	p.L = newState()
	p.installAPI()

	if v, ok := api.GetPluginConfigValue(p.Name(), "init"); ok {
		if path, isStr := v.(string); isStr && path != "" {
			if err := p.RunFile(path); err != nil {
				logger.Errorf("%s: init script '%s' failed: %v", p.Name(), path, err)
			}
		}
	}

	if err := api.RegisterCommand("lua", func(args []string) error {
		if len(args) == 0 {
			return errors.New("usage: lua <code>")
		}
		return p.Run(strings.Join(args, " "))
	}); err != nil {
		return fmt.Errorf("failed to register 'lua' command: %w", err)
	}
	if err := api.RegisterCommand("luafile", func(args []string) error {
		if len(args) == 0 {
			return errors.New("usage: luafile <path>")
		}
		return p.RunFile(strings.Join(args, " "))
	}); err != nil {
		return fmt.Errorf("failed to register 'luafile' command: %w", err)
	}
	logger.Infof("%s initialized. Timeout: %v", p.Name(), p.timeout)
	return nil
}

// Shutdown closes the Lua state.
func (p *LuaScript) Shutdown() error {
	if p.L != nil {
		p.L.Close()
		p.L = nil
	}
	return nil
}

// newState creates a Lua state with only the safe standard libraries.
func newState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "print"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// Run executes code as one undo step.
func (p *LuaScript) Run(code string) error {
	return p.exec(func(L *lua.LState) error { return L.DoString(code) })
}

// RunFile reads and executes a script file as one undo step.
func (p *LuaScript) RunFile(path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return p.Run(string(code))
}

func (p *LuaScript) exec(fn func(L *lua.LState) error) error {
	if p.L == nil {
		return ErrClosed
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	p.L.SetContext(ctx)
	defer p.L.RemoveContext()

	return p.api.Transaction(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("lua panic: %v", r)
			}
		}()
		if err := fn(p.L); err != nil {
			return scriptError(err)
		}
		return nil
	})
}

// scriptError keeps only the first line of a Lua error; the rest is a
// stack traceback.
func scriptError(err error) error {
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil {
		msg, _, _ := strings.Cut(apiErr.Object.String(), "\n")
		return errors.New(msg)
	}
	return err
}

// --- Lua API ---

func (p *LuaScript) installAPI() {
	L := p.L
	list := L.NewTable()
	L.SetFuncs(list, map[string]lua.LGFunction{
		"len":      p.luaLen,
		"selected": p.luaSelected,
		"get":      p.luaGet,
		"items":    p.luaItems,
		"push":     p.luaPush,
		"insert":   p.luaInsert,
		"set":      p.luaSet,
		"toggle":   p.luaToggle,
		"remove":   p.luaRemove,
		"clear":    p.luaClear,
	})
	L.SetGlobal("list", list)
	L.SetGlobal("message", L.NewFunction(p.luaMessage))
}

// index converts the 1-based Lua argument n to a list index.
func (p *LuaScript) index(L *lua.LState, n int) int {
	return L.CheckInt(n) - 1
}

func (p *LuaScript) check(L *lua.LState, err error) {
	if err != nil {
		L.RaiseError("%v", err)
	}
}

func (p *LuaScript) entryArgs(L *lua.LState, n int) entry.Entry {
	e := entry.New(L.CheckString(n))
	e.Done = L.OptBool(n+1, false)
	return e
}

func (p *LuaScript) luaLen(L *lua.LState) int {
	L.Push(lua.LNumber(p.api.Len()))
	return 1
}

func (p *LuaScript) luaSelected(L *lua.LState) int {
	L.Push(lua.LNumber(p.api.Selected() + 1))
	return 1
}

func (p *LuaScript) luaGet(L *lua.LState) int {
	e, err := p.api.Entry(p.index(L, 1))
	p.check(L, err)
	L.Push(lua.LString(e.Text))
	L.Push(lua.LBool(e.Done))
	return 2
}

func (p *LuaScript) luaItems(L *lua.LState) int {
	t := L.NewTable()
	for _, e := range p.api.Entries() {
		item := L.NewTable()
		item.RawSetString("text", lua.LString(e.Text))
		item.RawSetString("done", lua.LBool(e.Done))
		t.Append(item)
	}
	L.Push(t)
	return 1
}

func (p *LuaScript) luaPush(L *lua.LState) int {
	p.check(L, p.api.Append(p.entryArgs(L, 1)))
	return 0
}

func (p *LuaScript) luaInsert(L *lua.LState) int {
	i := p.index(L, 1)
	p.check(L, p.api.InsertAt(i, p.entryArgs(L, 2)))
	return 0
}

func (p *LuaScript) luaSet(L *lua.LState) int {
	i := p.index(L, 1)
	e, err := p.api.Entry(i)
	p.check(L, err)
	e.Text = L.CheckString(2)
	if L.GetTop() >= 3 {
		e.Done = L.CheckBool(3)
	}
	p.check(L, p.api.SetAt(i, e))
	return 0
}

func (p *LuaScript) luaToggle(L *lua.LState) int {
	i := p.index(L, 1)
	e, err := p.api.Entry(i)
	p.check(L, err)
	p.check(L, p.api.SetAt(i, e.Toggled()))
	return 0
}

func (p *LuaScript) luaRemove(L *lua.LState) int {
	e, err := p.api.RemoveAt(p.index(L, 1))
	p.check(L, err)
	L.Push(lua.LString(e.Text))
	return 1
}

func (p *LuaScript) luaClear(L *lua.LState) int {
	p.check(L, p.api.ClearList())
	return 0
}

// luaMessage is message(fmt, ...). Integral numbers are passed as integers,
// everything else as strings.
func (p *LuaScript) luaMessage(L *lua.LState) int {
	format := L.CheckString(1)
	args := make([]any, 0, L.GetTop()-1)
	for i := 2; i <= L.GetTop(); i++ {
		switch v := L.Get(i).(type) {
		case lua.LNumber:
			if float64(v) == float64(int64(v)) {
				args = append(args, int64(v))
			} else {
				args = append(args, float64(v))
			}
		default:
			args = append(args, v.String())
		}
	}
	p.api.SetStatusMessage(format, args...)
	return 0
}
