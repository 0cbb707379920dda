// Package session implements the single-editor editing session for one
// sheet: the ordered layer collection, the undo/redo history, and the
// mutation entry points that route external image-processing calls.
package session

import (
	"errors"
	"fmt"

	"github.com/piwi3910/sheetsmith/internal/model"
)

var (
	ErrLayerNotFound   = errors.New("layer not found")
	ErrLayerLocked     = errors.New("layer is locked")
	ErrLayerProcessing = errors.New("layer has an outstanding processing call")
	ErrNotImageLayer   = errors.New("layer is not an image layer")
)

// LayerStore is the ordered, mutable collection of layers for one sheet.
// It enforces the structural invariants: z-indexes are unique within the
// sheet, locked layers reject geometry edits, and image DPI info is
// recomputed on every size-affecting mutation.
type LayerStore struct {
	sheetID string
	layers  []model.Layer
	nextZ   int
}

// NewLayerStore creates an empty store for the given sheet.
func NewLayerStore(sheetID string) *LayerStore {
	return &LayerStore{sheetID: sheetID, nextZ: 1}
}

// Add appends a layer, assigning it the next unique z-index.
func (s *LayerStore) Add(l model.Layer) model.Layer {
	l.SheetID = s.sheetID
	l.ZIndex = s.nextZ
	s.nextZ++
	s.layers = append(s.layers, l)
	return l
}

// Get returns a copy of the layer with the given id.
func (s *LayerStore) Get(id string) (model.Layer, error) {
	for _, l := range s.layers {
		if l.ID == id {
			return l.Clone(), nil
		}
	}
	return model.Layer{}, fmt.Errorf("%w: %s", ErrLayerNotFound, id)
}

// Remove deletes the layer with the given id. Locked layers cannot be
// removed.
func (s *LayerStore) Remove(id string) error {
	for i, l := range s.layers {
		if l.ID == id {
			if l.Locked {
				return fmt.Errorf("%w: %s", ErrLayerLocked, id)
			}
			s.layers = append(s.layers[:i], s.layers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrLayerNotFound, id)
}

// Clear removes all layers (canvas reset).
func (s *LayerStore) Clear() {
	s.layers = nil
}

// Len returns the number of layers.
func (s *LayerStore) Len() int {
	return len(s.layers)
}

// Layers returns a deep copy of the layer collection in z order.
func (s *LayerStore) Layers() []model.Layer {
	return model.CloneLayers(s.layers)
}

// Replace swaps the entire collection for the given layers. Used by
// undo/redo restore; the store takes its own deep copy. The z-index
// counter advances past the highest restored index so later additions
// stay unique.
func (s *LayerStore) Replace(layers []model.Layer) {
	s.layers = model.CloneLayers(layers)
	for _, l := range s.layers {
		if l.ZIndex >= s.nextZ {
			s.nextZ = l.ZIndex + 1
		}
	}
}

// mutate applies fn to the layer with the given id. Locked layers reject
// geometry mutations unless the caller opts out of the check.
func (s *LayerStore) mutate(id string, checkLock bool, fn func(*model.Layer)) error {
	for i := range s.layers {
		if s.layers[i].ID != id {
			continue
		}
		if checkLock && s.layers[i].Locked {
			return fmt.Errorf("%w: %s", ErrLayerLocked, id)
		}
		fn(&s.layers[i])
		return nil
	}
	return fmt.Errorf("%w: %s", ErrLayerNotFound, id)
}

// Move repositions a layer.
func (s *LayerStore) Move(id string, pos model.Point) error {
	return s.mutate(id, true, func(l *model.Layer) { l.Position = pos })
}

// Resize changes a layer's rendered size, refreshing DPI info for images.
func (s *LayerStore) Resize(id string, size model.Size) error {
	return s.mutate(id, true, func(l *model.Layer) { l.SetSize(size) })
}

// Rotate sets a layer's rotation, normalized into [0, 360).
func (s *LayerStore) Rotate(id string, degrees float64) error {
	return s.mutate(id, true, func(l *model.Layer) { l.SetRotation(degrees) })
}

// SetOpacity sets a layer's opacity, clamped to [0, 1].
func (s *LayerStore) SetOpacity(id string, opacity float64) error {
	if opacity < 0 {
		opacity = 0
	} else if opacity > 1 {
		opacity = 1
	}
	return s.mutate(id, true, func(l *model.Layer) { l.Opacity = opacity })
}

// SetVisible toggles a layer's visibility.
func (s *LayerStore) SetVisible(id string, visible bool) error {
	return s.mutate(id, false, func(l *model.Layer) { l.Visible = visible })
}

// SetLocked toggles a layer's lock flag. Lock changes are allowed on
// locked layers, otherwise a layer could never be unlocked.
func (s *LayerStore) SetLocked(id string, locked bool) error {
	return s.mutate(id, false, func(l *model.Layer) { l.Locked = locked })
}

// BringToFront assigns the layer the highest z-index on the sheet.
func (s *LayerStore) BringToFront(id string) error {
	return s.mutate(id, false, func(l *model.Layer) {
		l.ZIndex = s.nextZ
		s.nextZ++
	})
}
