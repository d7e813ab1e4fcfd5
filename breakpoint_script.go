package spectrum

import (
	lua "github.com/yuin/gopher-lua"
)

// ScriptedBreakpoint pairs a MARKS breakpoint address with a Lua
// expression; the breakpoint only raises breakpoint_hit when the
// expression evaluates truthy against the machine's register state at
// the moment PC reaches it.
type ScriptedBreakpoint struct {
	Addr uint16
	Expr string
}

// ScriptEngine evaluates conditional-breakpoint expressions. Each
// evaluation runs in its own short-lived *lua.LState seeded with the
// current register snapshot as globals (pc, sp, a, f, b, c, d, e, h, l,
// bc, de, hl, af, ix, iy, ticks) — cheap enough for a handful of
// breakpoints per frame and avoids any state leaking between instructions.
type ScriptEngine struct {
	conditions map[uint16]string
}

// NewScriptEngine returns an engine with no conditions installed.
func NewScriptEngine() *ScriptEngine {
	return &ScriptEngine{conditions: make(map[uint16]string)}
}

// SetCondition attaches a Lua boolean expression to addr. An empty expr
// removes the condition, making the breakpoint unconditional again.
func (se *ScriptEngine) SetCondition(addr uint16, expr string) {
	if expr == "" {
		delete(se.conditions, addr)
		return
	}
	se.conditions[addr] = expr
}

// ClearCondition removes any condition attached to addr.
func (se *ScriptEngine) ClearCondition(addr uint16) {
	delete(se.conditions, addr)
}

// Evaluate reports whether addr's breakpoint should fire given img. An
// address with no registered condition always evaluates true
// (unconditional breakpoint). A script error is treated as false rather
// than propagated, so a bad expression silently never fires instead of
// taking down the run loop.
func (se *ScriptEngine) Evaluate(addr uint16, img StateImage) bool {
	expr, ok := se.conditions[addr]
	if !ok {
		return true
	}

	L := lua.NewState()
	defer L.Close()

	L.SetGlobal("pc", lua.LNumber(img.PC))
	L.SetGlobal("sp", lua.LNumber(img.SP))
	L.SetGlobal("bc", lua.LNumber(img.BC))
	L.SetGlobal("de", lua.LNumber(img.DE))
	L.SetGlobal("hl", lua.LNumber(img.HL))
	L.SetGlobal("af", lua.LNumber(img.AF))
	L.SetGlobal("ix", lua.LNumber(img.IX))
	L.SetGlobal("iy", lua.LNumber(img.IY))
	L.SetGlobal("a", lua.LNumber(img.AF>>8))
	L.SetGlobal("f", lua.LNumber(img.AF&0xFF))
	L.SetGlobal("b", lua.LNumber(img.BC>>8))
	L.SetGlobal("c", lua.LNumber(img.BC&0xFF))
	L.SetGlobal("d", lua.LNumber(img.DE>>8))
	L.SetGlobal("e", lua.LNumber(img.DE&0xFF))
	L.SetGlobal("h", lua.LNumber(img.HL>>8))
	L.SetGlobal("l", lua.LNumber(img.HL&0xFF))
	L.SetGlobal("ticks", lua.LNumber(img.TicksSinceInt))

	if err := L.DoString("__result = (" + expr + ")"); err != nil {
		return false
	}
	result := L.GetGlobal("__result")
	return lua.LVAsBool(result)
}
