package hook

import "testing"

func TestFireRunsHandlersInOrder(t *testing.T) {
	r := NewRegistry()
	var order []string

	r.Register("before_insert", func(Event) bool {
		order = append(order, "first")
		return true
	})
	r.Register("before_insert", func(Event) bool {
		order = append(order, "second")
		return true
	})

	if vetoed := r.Fire("before_insert", nil); vetoed {
		t.Fatal("expected no veto")
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("unexpected order %v", order)
	}
}

func TestFireStopsAtFirstVeto(t *testing.T) {
	r := NewRegistry()
	var ran []string

	r.Register("before_delete", func(Event) bool {
		ran = append(ran, "a")
		return false
	})
	r.Register("before_delete", func(Event) bool {
		ran = append(ran, "b")
		return true
	})

	if vetoed := r.Fire("before_delete", nil); !vetoed {
		t.Fatal("expected veto")
	}
	if len(ran) != 1 || ran[0] != "a" {
		t.Fatalf("expected only the first handler to run, got %v", ran)
	}
}

func TestFireWithNoHandlersIsNotVetoed(t *testing.T) {
	r := NewRegistry()
	if vetoed := r.Fire("cursor_moved", nil); vetoed {
		t.Fatal("expected no veto with zero handlers")
	}
}

func TestUnregisterRemovesHandler(t *testing.T) {
	r := NewRegistry()
	id, err := r.Register("after_insert", func(Event) bool { return true })
	if err != nil {
		t.Fatal(err)
	}
	if r.Count("after_insert") != 1 {
		t.Fatalf("expected 1 handler, got %d", r.Count("after_insert"))
	}
	if !r.Unregister(id) {
		t.Fatal("expected Unregister to report success")
	}
	if r.Count("after_insert") != 0 {
		t.Fatalf("expected 0 handlers after unregister, got %d", r.Count("after_insert"))
	}
}

func TestRegisterDuringFireIsForbidden(t *testing.T) {
	r := NewRegistry()
	var registerErr error

	r.Register("after_file_open", func(Event) bool {
		_, registerErr = r.Register("after_file_open", func(Event) bool { return true })
		return true
	})

	r.Fire("after_file_open", nil)

	if registerErr != ErrRegisterDuringFire {
		t.Fatalf("expected ErrRegisterDuringFire, got %v", registerErr)
	}
}

func TestPayloadIsPassedThrough(t *testing.T) {
	r := NewRegistry()
	type payload struct{ Buffer int }

	var got Event
	r.Register("lsp_status_clicked", func(e Event) bool {
		got = e
		return true
	})

	r.Fire("lsp_status_clicked", payload{Buffer: 7})

	p, ok := got.Payload.(payload)
	if !ok || p.Buffer != 7 {
		t.Fatalf("unexpected payload %#v", got.Payload)
	}
	if got.Name != "lsp_status_clicked" {
		t.Fatalf("unexpected name %q", got.Name)
	}
}
