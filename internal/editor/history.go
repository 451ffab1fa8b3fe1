// Package editor holds the client-session state of the plan editor: a
// bounded undo/redo stack of full-state snapshots plus the session registry
// that keeps one stack per interactive editing session.
package editor

import "rackplan-backend/internal/model"

// DefaultDepth is how many snapshots a history keeps before evicting the
// oldest.
const DefaultDepth = 50

// Snapshot is the full editor state after one committed local edit.
type Snapshot struct {
	Elements []model.FloorPlanElement `json:"elements"`
	Racks    []model.Rack             `json:"racks"`
}

// clone deep-copies the snapshot so later edits to the live state cannot
// reach back into stored history entries.
func (s Snapshot) clone() Snapshot {
	out := Snapshot{
		Elements: make([]model.FloorPlanElement, len(s.Elements)),
		Racks:    make([]model.Rack, len(s.Racks)),
	}
	for i, e := range s.Elements {
		if e.Properties != nil {
			e.Properties = append(e.Properties[:0:0], e.Properties...)
		}
		e.FloorPlan = model.FloorPlan{}
		out.Elements[i] = e
	}
	for i, r := range s.Racks {
		r.FloorPlan = model.FloorPlan{}
		r.Equipment = nil
		out.Racks[i] = r
	}
	return out
}

// History is a bounded stack of snapshots with a cursor. It belongs to one
// editing session and is not safe for concurrent use; the owning session
// serializes access.
type History struct {
	entries []Snapshot
	cursor  int
	depth   int
}

// NewHistory creates a history bounded to depth entries. Non-positive depth
// falls back to DefaultDepth.
func NewHistory(depth int) *History {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &History{cursor: -1, depth: depth}
}

// Push records the state resulting from one discrete edit. Anything after
// the cursor (the redo future) is discarded, then the oldest entry is
// evicted if the stack would exceed its bound. Callers push once per
// completed gesture, not per intermediate frame.
func (h *History) Push(elements []model.FloorPlanElement, racks []model.Rack) {
	snap := Snapshot{Elements: elements, Racks: racks}.clone()

	h.entries = append(h.entries[:h.cursor+1], snap)
	h.cursor = len(h.entries) - 1

	if len(h.entries) > h.depth {
		overflow := len(h.entries) - h.depth
		h.entries = append([]Snapshot(nil), h.entries[overflow:]...)
		h.cursor -= overflow
	}
}

// Undo steps the cursor back and returns the snapshot now under it. At the
// first entry it is a no-op and returns ok=false.
func (h *History) Undo() (Snapshot, bool) {
	if h.cursor <= 0 {
		return Snapshot{}, false
	}
	h.cursor--
	return h.entries[h.cursor].clone(), true
}

// Redo steps the cursor forward and returns that snapshot. At the last entry
// it is a no-op and returns ok=false.
func (h *History) Redo() (Snapshot, bool) {
	if h.cursor >= len(h.entries)-1 {
		return Snapshot{}, false
	}
	h.cursor++
	return h.entries[h.cursor].clone(), true
}

// CanUndo reports whether Undo would move the cursor.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether Redo would move the cursor.
func (h *History) CanRedo() bool { return h.cursor < len(h.entries)-1 }

// Len returns how many snapshots the history currently holds.
func (h *History) Len() int { return len(h.entries) }

// Current returns the snapshot under the cursor, if any.
func (h *History) Current() (Snapshot, bool) {
	if h.cursor < 0 {
		return Snapshot{}, false
	}
	return h.entries[h.cursor].clone(), true
}
