package hook

import (
	lua "github.com/yuin/gopher-lua"
)

// NewLuaHandler adapts a registered Lua function into a Handler: the
// event's payload is marshaled to a Lua table and passed as the
// function's sole argument, and the function's first return value
// (coerced to a boolean; absent or non-boolean is treated as true) is
// the veto decision; a Lua runtime error vetoes. L is not safe for concurrent use by more than one
// handler at a time — callers that register Lua handlers from multiple
// hook names sharing one L must serialize Fire calls themselves, the
// same constraint the teacher's plugin sandbox documents for a single
// LState.
func NewLuaHandler(L *lua.LState, fn *lua.LFunction) Handler {
	return func(event Event) bool {
		table := L.NewTable()
		table.RawSetString("name", lua.LString(event.Name))
		table.RawSetString("payload", payloadToLua(L, event.Payload))

		L.Push(fn)
		L.Push(table)
		if err := L.PCall(1, 1, nil); err != nil {
			return false
		}

		ret := L.Get(-1)
		L.Pop(1)

		if ret == lua.LNil {
			return true
		}
		b, ok := ret.(lua.LBool)
		if !ok {
			return true
		}
		return bool(b)
	}
}

// payloadToLua marshals the common Go shapes a hook payload takes
// (primitive values, string maps, string slices) into a Lua value,
// falling back to a one-field table wrapping v's string form for
// anything else so a handler can at least observe that an event fired.
func payloadToLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case map[string]string:
		t := L.NewTable()
		for k, s := range val {
			t.RawSetString(k, lua.LString(s))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		for k, s := range val {
			t.RawSetString(k, payloadToLua(L, s))
		}
		return t
	case []string:
		t := L.NewTable()
		for i, s := range val {
			t.RawSetInt(i+1, lua.LString(s))
		}
		return t
	default:
		t := L.NewTable()
		t.RawSetString("value", lua.LString(toDisplayString(val)))
		return t
	}
}

func toDisplayString(v any) string {
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return "<unrepresentable>"
}
