package eventlog

// Hook names fired by the core, per the plugin hook surface: Insert
// and Delete fire both; MoveCursor fires only the after-hook; every
// other event fires none.
const (
	HookBeforeInsert = "before_insert"
	HookAfterInsert  = "after_insert"
	HookBeforeDelete = "before_delete"
	HookAfterDelete  = "after_delete"
	HookCursorMoved  = "cursor_moved"
)

// HookRunner fires named hooks around event application. FireBefore
// returns false to veto the event (meaningful only for before-hooks);
// FireAfter's return value is ignored.
type HookRunner interface {
	FireBefore(name string, event Event) bool
	FireAfter(name string, event Event)
}

// hookNamer is implemented by the handful of event variants that
// participate in the hook protocol at all (Insert, Delete,
// MoveCursor). Events that don't implement it fire no hooks.
type hookNamer interface {
	hookNames() (before, after string)
}

func (Insert) hookNames() (string, string)     { return HookBeforeInsert, HookAfterInsert }
func (Delete) hookNames() (string, string)     { return HookBeforeDelete, HookAfterDelete }
func (MoveCursor) hookNames() (string, string) { return "", HookCursorMoved }

// noopHooks fires nothing and never vetoes; used when a caller applies
// events without plugin hooks wired up (e.g. replaying a session log
// on restore, or in tests).
type noopHooks struct{}

func (noopHooks) FireBefore(string, Event) bool { return true }
func (noopHooks) FireAfter(string, Event)       {}
