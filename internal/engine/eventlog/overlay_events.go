package eventlog

import "github.com/glyphedit/core/internal/engine/state"

// AddOverlay records an overlay added to Namespace; Invert is
// RemoveOverlay for the assigned id. ResultID is populated by Apply.
type AddOverlay struct {
	Namespace string
	Start     ByteOffset
	End       ByteOffset
	Style     string
	Priority  state.OverlayPriority
	ResultID  uint64
}

func (e *AddOverlay) Apply(target *state.State) error {
	e.ResultID = target.AddOverlay(e.Namespace, e.Start, e.End, e.Style, e.Priority)
	return nil
}

func (e *AddOverlay) Invert() Event {
	return &RemoveOverlay{Namespace: e.Namespace, ID: e.ResultID}
}

// RemoveOverlay records a single overlay removed by id; Invert
// restores it verbatim (same id) via Removed, filled in by Apply.
type RemoveOverlay struct {
	Namespace string
	ID        uint64
	Removed   state.Overlay
}

func (e *RemoveOverlay) Apply(target *state.State) error {
	if o, ok := target.RemoveOverlay(e.Namespace, e.ID); ok {
		e.Removed = o
	}
	return nil
}

func (e *RemoveOverlay) Invert() Event {
	return &RestoreOverlay{Overlay: e.Removed}
}

// RestoreOverlay re-inserts an overlay previously displaced by
// RemoveOverlay, RemoveOverlaysInRange, ClearOverlays, or
// ClearNamespace. It exists purely as the inverse side of those
// events and is never constructed directly by a caller.
type RestoreOverlay struct {
	Overlay state.Overlay
}

func (e *RestoreOverlay) Apply(target *state.State) error {
	target.RestoreOverlay(e.Overlay)
	return nil
}

func (e *RestoreOverlay) Invert() Event {
	return &RemoveOverlay{Namespace: e.Overlay.Namespace, ID: e.Overlay.ID}
}

// RemoveOverlaysInRange records every overlay in Namespace overlapping
// [Start, End) at the time it was applied; Invert restores all of
// them.
type RemoveOverlaysInRange struct {
	Namespace string
	Start     ByteOffset
	End       ByteOffset
	Removed   []state.Overlay
}

func (e *RemoveOverlaysInRange) Apply(target *state.State) error {
	e.Removed = target.RemoveOverlaysInRange(e.Namespace, e.Start, e.End)
	return nil
}

func (e *RemoveOverlaysInRange) Invert() Event {
	return &RestoreOverlays{Overlays: e.Removed}
}

// RestoreOverlays re-inserts a batch of overlays displaced by
// RemoveOverlaysInRange or ClearOverlays.
type RestoreOverlays struct {
	Overlays []state.Overlay
}

func (e *RestoreOverlays) Apply(target *state.State) error {
	target.RestoreOverlays(e.Overlays)
	return nil
}

func (e *RestoreOverlays) Invert() Event {
	ns := ""
	if len(e.Overlays) > 0 {
		ns = e.Overlays[0].Namespace
	}
	ids := make(map[string][]uint64)
	for _, o := range e.Overlays {
		ids[o.Namespace] = append(ids[o.Namespace], o.ID)
	}
	_ = ns
	return &removeMany{ids: ids}
}

// removeMany is the private inverse of RestoreOverlays: removing a
// specific, already-known set of ids rather than a range query, since
// a range re-query after further edits could sweep in unrelated
// overlays that happened to land in the same byte span.
type removeMany struct {
	ids     map[string][]uint64
	removed []state.Overlay
}

func (e *removeMany) Apply(target *state.State) error {
	e.removed = nil
	for ns, ids := range e.ids {
		for _, id := range ids {
			if o, ok := target.RemoveOverlay(ns, id); ok {
				e.removed = append(e.removed, o)
			}
		}
	}
	return nil
}

func (e *removeMany) Invert() Event {
	return &RestoreOverlays{Overlays: e.removed}
}

// ClearOverlays records the entire overlay set across every namespace
// at the time it was applied; Invert restores it all.
type ClearOverlays struct {
	Removed map[string][]state.Overlay
}

func (e *ClearOverlays) Apply(target *state.State) error {
	e.Removed = target.ClearOverlays()
	return nil
}

func (e *ClearOverlays) Invert() Event {
	return &RestoreClearedOverlays{Removed: e.Removed}
}

// RestoreClearedOverlays is the inverse of ClearOverlays.
type RestoreClearedOverlays struct {
	Removed map[string][]state.Overlay
}

func (e *RestoreClearedOverlays) Apply(target *state.State) error {
	target.RestoreClearedOverlays(e.Removed)
	return nil
}

func (e *RestoreClearedOverlays) Invert() Event {
	removed := make(map[string][]uint64)
	for ns, list := range e.Removed {
		for _, o := range list {
			removed[ns] = append(removed[ns], o.ID)
		}
	}
	return &removeMany{ids: removed}
}

// ClearNamespace records every overlay, virtual-text marker, and text
// property belonging to Namespace at the time it was applied; Invert
// restores all three stores.
type ClearNamespace struct {
	Namespace string
	Removed   state.NamespaceSnapshot
}

func (e *ClearNamespace) Apply(target *state.State) error {
	e.Removed = target.ClearNamespace(e.Namespace)
	return nil
}

func (e *ClearNamespace) Invert() Event {
	return &RestoreNamespace{Removed: e.Removed}
}

// RestoreNamespace is the inverse of ClearNamespace.
type RestoreNamespace struct {
	Removed state.NamespaceSnapshot
}

func (e *RestoreNamespace) Apply(target *state.State) error {
	target.RestoreNamespace(e.Removed)
	return nil
}

func (e *RestoreNamespace) Invert() Event {
	ns := ""
	if len(e.Removed.Overlays) > 0 {
		ns = e.Removed.Overlays[0].Namespace
	} else if len(e.Removed.VText) > 0 {
		ns = e.Removed.VText[0].Namespace
	} else if len(e.Removed.Props) > 0 {
		ns = e.Removed.Props[0].Namespace
	}
	return &ClearNamespace{Namespace: ns}
}
