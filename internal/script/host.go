package script

import (
	"encoding/json"
	"os"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	lua "github.com/yuin/gopher-lua"

	"github.com/etudehq/etude/internal/app"
	"github.com/etudehq/etude/internal/selection"
)

// Host runs Lua against one app.
type Host struct {
	app *app.App
}

// NewHost creates a host for the given app.
func NewHost(a *app.App) *Host {
	return &Host{app: a}
}

// Run executes Lua source with the etude module preloaded.
func (h *Host) Run(source string) error {
	L := lua.NewState()
	defer L.Close()

	L.PreloadModule("etude", h.loader)
	if err := L.DoString(source); err != nil {
		return fault.Wrap(err, fmsg.With("script failed"))
	}
	return nil
}

// RunFile executes a Lua script from disk.
func (h *Host) RunFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fault.Wrap(err, fmsg.With("reading script"))
	}
	return h.Run(string(src))
}

// loader builds the etude module table.
func (h *Host) loader(L *lua.LState) int {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"score":       h.luaScore,
		"selection":   h.luaSelection,
		"dispatch":    h.luaDispatch,
		"undo":        h.luaUndo,
		"redo":        h.luaRedo,
		"navigate":    h.luaNavigate,
		"transaction": h.luaTransaction,
	})
	L.Push(mod)
	return 1
}

// luaScore pushes the current score as a plain table snapshot.
func (h *Host) luaScore(L *lua.LState) int {
	L.Push(toLua(L, snapshot(h.app.Score())))
	return 1
}

// luaSelection pushes the current selection snapshot.
func (h *Host) luaSelection(L *lua.LState) int {
	L.Push(toLua(L, snapshot(h.app.Selection.State())))
	return 1
}

// luaDispatch builds and dispatches a command: dispatch(type, payload)
// returns whether the command applied; an unknown type raises.
func (h *Host) luaDispatch(L *lua.LState) int {
	typ := L.CheckString(1)
	payload := L.OptTable(2, L.NewTable())

	cmd, err := buildCommand(typ, payload)
	if err != nil {
		L.RaiseError("dispatch: %v", err)
		return 0
	}
	L.Push(lua.LBool(h.app.Commands.Dispatch(cmd)))
	return 1
}

func (h *Host) luaUndo(L *lua.LState) int {
	L.Push(lua.LBool(h.app.Commands.Undo()))
	return 1
}

func (h *Host) luaRedo(L *lua.LState) int {
	L.Push(lua.LBool(h.app.Commands.Redo()))
	return 1
}

// luaNavigate steps the cursor: navigate("left"|"right"|"up"|"down").
func (h *Host) luaNavigate(L *lua.LState) int {
	var d selection.Direction
	switch L.CheckString(1) {
	case "left":
		d = selection.Left
	case "right":
		d = selection.Right
	case "up":
		d = selection.Up
	case "down":
		d = selection.Down
	default:
		L.RaiseError("navigate: unknown direction %q", L.CheckString(1))
		return 0
	}
	L.Push(lua.LBool(h.app.Navigate(d)))
	return 1
}

// luaTransaction runs fn inside a transaction, rolling back when the
// function raises.
func (h *Host) luaTransaction(L *lua.LState) int {
	fn := L.CheckFunction(1)

	h.app.Commands.BeginTransaction("script")
	err := L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	if err != nil {
		h.app.Commands.Rollback()
		L.RaiseError("transaction: %v", err)
		return 0
	}
	h.app.Commands.Commit()
	return 0
}

// snapshot round-trips a value through JSON so scripts see the same
// shape as the serialized document.
func snapshot(v interface{}) interface{} {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// toLua converts a JSON-shaped Go value into a Lua value.
func toLua(L *lua.LState, v interface{}) lua.LValue {
	switch t := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(t)
	case float64:
		return lua.LNumber(t)
	case string:
		return lua.LString(t)
	case []interface{}:
		tbl := L.NewTable()
		for i, item := range t {
			tbl.RawSetInt(i+1, toLua(L, item))
		}
		return tbl
	case map[string]interface{}:
		tbl := L.NewTable()
		for k, item := range t {
			tbl.RawSetString(k, toLua(L, item))
		}
		return tbl
	default:
		return lua.LNil
	}
}
