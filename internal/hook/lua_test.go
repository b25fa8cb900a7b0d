package hook

import (
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestLuaHandlerReceivesPayloadAndVetoes(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoString(`
		function on_before_delete(event)
			return event.payload.confirm == "yes"
		end
	`); err != nil {
		t.Fatal(err)
	}
	fn := L.GetGlobal("on_before_delete").(*lua.LFunction)

	r := NewRegistry()
	r.Register("before_delete", NewLuaHandler(L, fn))

	if vetoed := r.Fire("before_delete", map[string]string{"confirm": "no"}); !vetoed {
		t.Fatal("expected the Lua handler to veto when confirm != yes")
	}
	if vetoed := r.Fire("before_delete", map[string]string{"confirm": "yes"}); vetoed {
		t.Fatal("expected the Lua handler to allow when confirm == yes")
	}
}

func TestLuaHandlerErrorVetoes(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoString(`function broken(event) error("boom") end`); err != nil {
		t.Fatal(err)
	}
	fn := L.GetGlobal("broken").(*lua.LFunction)

	r := NewRegistry()
	r.Register("before_insert", NewLuaHandler(L, fn))

	if vetoed := r.Fire("before_insert", nil); !vetoed {
		t.Fatal("expected a Lua runtime error to veto rather than panic")
	}
}
