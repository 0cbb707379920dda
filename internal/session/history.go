package session

import (
	"reflect"

	"github.com/piwi3910/sheetsmith/internal/model"
)

const maxHistoryDepth = 50

// Source identifies where a layer mutation originated. Replay mutations
// (issued by undo/redo restoring a snapshot) are never re-recorded, so the
// history stream only grows from genuine user and algorithm actions.
type Source int

const (
	SourceUser Source = iota
	SourceReplay
)

// Entry is one immutable snapshot of the layer collection with a
// monotonic sequence position.
type Entry struct {
	Seq    int
	Layers []model.Layer
}

// History is a linear undo/redo stack of layer snapshots with a cursor.
// Recording past the cursor discards the redo tail; the list is capped at
// the 50 most recent entries, oldest dropped first.
type History struct {
	entries []Entry
	cursor  int
	seq     int
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Record appends a snapshot of layers at the cursor. Replay-sourced calls
// are no-ops, as are calls where the state matches the entry at the
// cursor. Reports whether an entry was actually recorded.
func (h *History) Record(layers []model.Layer, src Source) bool {
	if src == SourceReplay {
		return false
	}
	if len(h.entries) > 0 && reflect.DeepEqual(h.entries[h.cursor].Layers, layers) {
		return false
	}

	if len(h.entries) > 0 {
		h.entries = h.entries[:h.cursor+1]
	}
	h.seq++
	h.entries = append(h.entries, Entry{Seq: h.seq, Layers: model.CloneLayers(layers)})
	h.cursor = len(h.entries) - 1

	if len(h.entries) > maxHistoryDepth {
		drop := len(h.entries) - maxHistoryDepth
		h.entries = h.entries[drop:]
		h.cursor -= drop
	}
	return true
}

// Undo steps the cursor back and returns the snapshot to restore. The
// boundary case is a no-op, not an error.
func (h *History) Undo() ([]model.Layer, bool) {
	if h.cursor == 0 || len(h.entries) == 0 {
		return nil, false
	}
	h.cursor--
	return model.CloneLayers(h.entries[h.cursor].Layers), true
}

// Redo steps the cursor forward and returns the snapshot to restore.
func (h *History) Redo() ([]model.Layer, bool) {
	if len(h.entries) == 0 || h.cursor >= len(h.entries)-1 {
		return nil, false
	}
	h.cursor++
	return model.CloneLayers(h.entries[h.cursor].Layers), true
}

// CanUndo reports whether an undo step is available.
func (h *History) CanUndo() bool {
	return h.cursor > 0
}

// CanRedo reports whether a redo step is available.
func (h *History) CanRedo() bool {
	return len(h.entries) > 0 && h.cursor < len(h.entries)-1
}

// Len returns the number of retained entries.
func (h *History) Len() int {
	return len(h.entries)
}
