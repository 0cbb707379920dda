package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/sheetsmith/internal/model"
)

func layersWithText(text string) []model.Layer {
	l := model.NewTextLayer("sheet", text, model.Point{}, model.Size{Width: 2, Height: 1})
	l.ID = "fixed" // deterministic snapshots for equality checks
	return []model.Layer{l}
}

func TestHistory_RecordAndUndoRedo(t *testing.T) {
	h := NewHistory()
	require.True(t, h.Record(layersWithText("one"), SourceUser))
	require.True(t, h.Record(layersWithText("two"), SourceUser))
	require.True(t, h.Record(layersWithText("three"), SourceUser))

	snap, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, "two", snap[0].Text.Text)

	snap, ok = h.Undo()
	require.True(t, ok)
	assert.Equal(t, "one", snap[0].Text.Text)

	snap, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, "two", snap[0].Text.Text)
}

func TestHistory_UndoAtBoundaryIsNoop(t *testing.T) {
	h := NewHistory()
	_, ok := h.Undo()
	assert.False(t, ok)

	h.Record(layersWithText("only"), SourceUser)
	_, ok = h.Undo()
	assert.False(t, ok, "single entry leaves nothing to undo")
	_, ok = h.Redo()
	assert.False(t, ok)
}

func TestHistory_ReplayIsNotRecorded(t *testing.T) {
	h := NewHistory()
	h.Record(layersWithText("one"), SourceUser)
	assert.False(t, h.Record(layersWithText("two"), SourceReplay))
	assert.Equal(t, 1, h.Len())
}

func TestHistory_UnchangedStateIsNotRecorded(t *testing.T) {
	h := NewHistory()
	h.Record(layersWithText("same"), SourceUser)
	assert.False(t, h.Record(layersWithText("same"), SourceUser))
	assert.Equal(t, 1, h.Len())
}

func TestHistory_RecordDiscardsRedoTail(t *testing.T) {
	h := NewHistory()
	h.Record(layersWithText("one"), SourceUser)
	h.Record(layersWithText("two"), SourceUser)
	h.Record(layersWithText("three"), SourceUser)

	_, ok := h.Undo()
	require.True(t, ok)
	require.True(t, h.CanRedo())

	h.Record(layersWithText("fork"), SourceUser)
	assert.False(t, h.CanRedo(), "a new recording discards the redo tail")

	snap, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, "two", snap[0].Text.Text)
}

func TestHistory_CappedAtFiftyEntries(t *testing.T) {
	h := NewHistory()
	for i := 0; i < 55; i++ {
		require.True(t, h.Record(layersWithText(fmt.Sprintf("state-%d", i)), SourceUser))
	}
	assert.Equal(t, 50, h.Len())

	// Walk all the way back: the oldest retained entry is state-5, the
	// first five having been evicted.
	var last []model.Layer
	for {
		snap, ok := h.Undo()
		if !ok {
			break
		}
		last = snap
	}
	require.NotNil(t, last)
	assert.Equal(t, "state-5", last[0].Text.Text)
}

func TestHistory_UndoRedoRoundTripRestoresExactState(t *testing.T) {
	h := NewHistory()
	states := [][]model.Layer{
		layersWithText("a"), layersWithText("b"), layersWithText("c"), layersWithText("d"),
	}
	for _, s := range states {
		h.Record(s, SourceUser)
	}
	want := states[len(states)-1]

	const n = 3
	for i := 0; i < n; i++ {
		_, ok := h.Undo()
		require.True(t, ok)
	}
	var got []model.Layer
	for i := 0; i < n; i++ {
		snap, ok := h.Redo()
		require.True(t, ok)
		got = snap
	}
	assert.Equal(t, want, got, "undo x N then redo x N must restore the exact state")
}
