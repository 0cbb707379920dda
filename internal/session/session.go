package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/piwi3910/sheetsmith/internal/engine"
	"github.com/piwi3910/sheetsmith/internal/model"
	"github.com/piwi3910/sheetsmith/internal/services"
)

// PendingImage is the one-shot image token handed in via navigation (an
// upload finishing while the editor opens). It is read-and-cleared exactly
// once; there is no "already processed" flag to forget to reset.
type PendingImage struct {
	URL         string
	PixelWidth  int
	PixelHeight int
}

// Session is the single active editing session for one sheet. It owns the
// layer store and history exclusively; every mutation flows through it so
// the history stream, the processing guards, and the dirty notification
// stay consistent.
type Session struct {
	mu        sync.Mutex
	sheet     model.Sheet
	store     *LayerStore
	history   *History
	generator services.Generator
	enhancer  services.Enhancer

	processing map[string]bool
	pending    *PendingImage
	viewport   model.Viewport

	// onCommit fires after every recorded mutation; the persistence
	// gateway hooks it to flip the save status to unsaved.
	onCommit func()
}

// Option configures a Session.
type Option func(*Session)

// WithGenerator wires the AI image generation collaborator.
func WithGenerator(g services.Generator) Option {
	return func(s *Session) { s.generator = g }
}

// WithEnhancer wires the image enhancement collaborator.
func WithEnhancer(e services.Enhancer) Option {
	return func(s *Session) { s.enhancer = e }
}

// New creates a session for the given sheet. The empty layer state is
// recorded as the first history entry so the very first edit can be
// undone.
func New(sheet model.Sheet, opts ...Option) *Session {
	s := &Session{
		sheet:      sheet,
		store:      NewLayerStore(sheet.ID),
		history:    NewHistory(),
		processing: make(map[string]bool),
		viewport:   model.Viewport{Scale: 1},
	}
	for _, o := range opts {
		o(s)
	}
	s.history.Record(s.store.Layers(), SourceUser)
	return s
}

// OnCommit registers the callback fired after each recorded mutation.
func (s *Session) OnCommit(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onCommit = fn
}

// Sheet returns the sheet this session edits.
func (s *Session) Sheet() model.Sheet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sheet
}

// Layers returns a deep copy of the current layer collection.
func (s *Session) Layers() []model.Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Layers()
}

// Layer returns a copy of one layer by id.
func (s *Session) Layer(id string) (model.Layer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Get(id)
}

// Viewport returns the current editing surface state.
func (s *Session) Viewport() model.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

// SetViewport stores the editing surface state for the next save.
func (s *Session) SetViewport(v model.Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = v
}

// commit records the current layer state and fires the dirty callback.
// Replay commits skip recording but still notify, since the layer state
// changed and needs saving.
func (s *Session) commit(src Source) {
	recorded := s.history.Record(s.store.Layers(), src)
	if (recorded || src == SourceReplay) && s.onCommit != nil {
		s.onCommit()
	}
}

// guard rejects mutations on layers with an outstanding processing call.
func (s *Session) guard(layerID string) error {
	if s.processing[layerID] {
		return fmt.Errorf("%w: %s", ErrLayerProcessing, layerID)
	}
	return nil
}

// Restore replaces the layer collection from a decoded save payload and
// re-seeds the history baseline at the restored state.
func (s *Session) Restore(layers []model.Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Replace(layers)
	s.history = NewHistory()
	s.history.Record(s.store.Layers(), SourceUser)
}

// defaultImportDpi sizes an imported image on the canvas: an image lands
// at the good-tier resolution unless it must shrink to fit the sheet.
const defaultImportDpi = 150

// SetPendingImage stages the one-shot incoming image token.
func (s *Session) SetPendingImage(p PendingImage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &p
}

// ImportPendingImage consumes the pending image token and adds it as an
// image layer at the sheet origin, sized at the import DPI and shrunk to
// fit the sheet. The token clears on the first call; later calls report
// false and add nothing.
func (s *Session) ImportPendingImage() (model.Layer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return model.Layer{}, false
	}
	p := *s.pending
	s.pending = nil

	size := model.Size{
		Width:  float64(p.PixelWidth) / defaultImportDpi,
		Height: float64(p.PixelHeight) / defaultImportDpi,
	}
	if scale := fitScale(size, s.sheet); scale < 1 {
		size.Width *= scale
		size.Height *= scale
	}
	l := s.store.Add(model.NewImageLayer(s.sheet.ID, p.URL, p.PixelWidth, p.PixelHeight, model.Point{}, size))
	s.commit(SourceUser)
	return l, true
}

// fitScale returns the factor that shrinks size onto the sheet, or 1 when
// it already fits.
func fitScale(size model.Size, sheet model.Sheet) float64 {
	scale := 1.0
	if size.Width > 0 && size.Width*scale > sheet.WidthInches {
		scale = sheet.WidthInches / size.Width
	}
	if size.Height > 0 && size.Height*scale > sheet.HeightInches {
		scale = sheet.HeightInches / size.Height
	}
	return scale
}

// AddImageLayer creates an image layer from an uploaded source.
func (s *Session) AddImageLayer(sourceURL string, pixelW, pixelH int, pos model.Point, size model.Size) model.Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.store.Add(model.NewImageLayer(s.sheet.ID, sourceURL, pixelW, pixelH, pos, size))
	s.commit(SourceUser)
	return l
}

// AddTextLayer creates a text layer.
func (s *Session) AddTextLayer(text string, pos model.Point, size model.Size) model.Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.store.Add(model.NewTextLayer(s.sheet.ID, text, pos, size))
	s.commit(SourceUser)
	return l
}

// AddShapeLayer creates a shape layer.
func (s *Session) AddShapeLayer(shapeKind string, pos model.Point, size model.Size) model.Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.store.Add(model.NewShapeLayer(s.sheet.ID, shapeKind, pos, size))
	s.commit(SourceUser)
	return l
}

// MoveLayer repositions a layer.
func (s *Session) MoveLayer(id string, pos model.Point) error {
	return s.mutateLayer(id, func() error { return s.store.Move(id, pos) })
}

// ResizeLayer changes a layer's rendered size.
func (s *Session) ResizeLayer(id string, size model.Size) error {
	return s.mutateLayer(id, func() error { return s.store.Resize(id, size) })
}

// RotateLayer sets a layer's rotation.
func (s *Session) RotateLayer(id string, degrees float64) error {
	return s.mutateLayer(id, func() error { return s.store.Rotate(id, degrees) })
}

// SetLayerOpacity sets a layer's opacity.
func (s *Session) SetLayerOpacity(id string, opacity float64) error {
	return s.mutateLayer(id, func() error { return s.store.SetOpacity(id, opacity) })
}

// SetLayerVisible toggles a layer's visibility.
func (s *Session) SetLayerVisible(id string, visible bool) error {
	return s.mutateLayer(id, func() error { return s.store.SetVisible(id, visible) })
}

// SetLayerLocked toggles a layer's lock flag.
func (s *Session) SetLayerLocked(id string, locked bool) error {
	return s.mutateLayer(id, func() error { return s.store.SetLocked(id, locked) })
}

// BringLayerToFront raises a layer to the top of the z order.
func (s *Session) BringLayerToFront(id string) error {
	return s.mutateLayer(id, func() error { return s.store.BringToFront(id) })
}

// RemoveLayer deletes a layer.
func (s *Session) RemoveLayer(id string) error {
	return s.mutateLayer(id, func() error { return s.store.Remove(id) })
}

func (s *Session) mutateLayer(id string, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(id); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	s.commit(SourceUser)
	return nil
}

// ResetCanvas clears all layers.
func (s *Session) ResetCanvas() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Clear()
	s.commit(SourceUser)
}

// Undo restores the previous history snapshot. Returns false at the
// boundary; that is a no-op, not an error.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.store.Replace(snap)
	s.commit(SourceReplay)
	return true
}

// Redo restores the next history snapshot.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.store.Replace(snap)
	s.commit(SourceReplay)
	return true
}

// AutoNest runs the shelf packer over the unlocked layers and commits the
// new positions. Locked layers are not handed to the packer and keep
// their positions, as do unplaced layers; unplaced ids are reported in
// the result.
func (s *Session) AutoNest(padding float64) engine.NestResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	layers := s.store.Layers()
	items := make([]engine.NestItem, 0, len(layers))
	for _, l := range layers {
		if l.Locked {
			continue
		}
		items = append(items, engine.NestItem{
			ID:       l.ID,
			Width:    l.Size.Width,
			Height:   l.Size.Height,
			Rotation: l.RotationDegrees,
		})
	}

	result := engine.Nest(s.sheet.WidthInches, s.sheet.HeightInches, items, padding)
	changed := false
	for _, p := range result.Placements {
		err := s.store.mutate(p.ID, true, func(l *model.Layer) {
			l.Position = model.Point{X: p.X, Y: p.Y}
			l.SetRotation(p.Rotation)
		})
		if err == nil {
			changed = true
		}
	}
	if changed {
		s.commit(SourceUser)
	}
	return result
}

// SmartFill duplicates the seed layer into the remaining free area. The
// fill never moves existing layers; it only proposes and adds copies. An
// empty result means no candidate position was found.
func (s *Session) SmartFill(seedID string, padding float64) ([]model.Layer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seed, err := s.store.Get(seedID)
	if err != nil {
		return nil, err
	}

	layers := s.store.Layers()
	occupied := make([]model.Rect, len(layers))
	for i, l := range layers {
		occupied[i] = l.Bounds()
	}

	origins := engine.Fill(s.sheet.WidthInches, s.sheet.HeightInches, occupied,
		seed.Size, padding)
	if len(origins) == 0 {
		return nil, nil
	}

	added := make([]model.Layer, 0, len(origins))
	for _, origin := range origins {
		added = append(added, s.addClone(seed, origin))
	}
	s.commit(SourceUser)
	return added, nil
}

// addClone adds a duplicate of seed at origin with a fresh id.
func (s *Session) addClone(seed model.Layer, origin model.Point) model.Layer {
	var fresh model.Layer
	switch seed.Kind {
	case model.LayerKindImage:
		fresh = model.NewImageLayer(s.sheet.ID, seed.Image.SourceURL,
			seed.Image.OriginalPixelWidth, seed.Image.OriginalPixelHeight, origin, seed.Size)
		fresh.Image.ProcessedURL = seed.Image.ProcessedURL
	case model.LayerKindText:
		fresh = model.NewTextLayer(s.sheet.ID, seed.Text.Text, origin, seed.Size)
		*fresh.Text = *seed.Text
	default:
		fresh = model.NewShapeLayer(s.sheet.ID, seed.Shape.ShapeKind, origin, seed.Size)
		*fresh.Shape = *seed.Shape
	}
	fresh.RotationDegrees = seed.RotationDegrees
	fresh.Opacity = seed.Opacity
	return s.store.Add(fresh)
}

// GenerateImageLayer asks the generation collaborator for an image and
// adds it as a new layer. On failure no partial layer is created.
func (s *Session) GenerateImageLayer(ctx context.Context, prompt, style string, pos model.Point, size model.Size) (model.Layer, error) {
	s.mu.Lock()
	gen := s.generator
	s.mu.Unlock()
	if gen == nil {
		return model.Layer{}, fmt.Errorf("no image generator configured")
	}

	res, err := gen.Generate(ctx, services.GenerateRequest{Prompt: prompt, Style: style})
	if err != nil {
		return model.Layer{}, fmt.Errorf("image generation failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.store.Add(model.NewImageLayer(s.sheet.ID, res.ImageURL, res.PixelWidth, res.PixelHeight, pos, size))
	s.commit(SourceUser)
	return l, nil
}

// RemoveBackground runs background removal on an image layer. The layer is
// marked processing for the duration; geometry edits are rejected until
// the call resolves.
func (s *Session) RemoveBackground(ctx context.Context, layerID string) error {
	return s.enhanceLayer(ctx, layerID, func(ctx context.Context, url string) (services.EnhanceResult, error) {
		return s.enhancer.RemoveBackground(ctx, url)
	})
}

// EnhanceLayer runs the general enhancement pass on an image layer.
func (s *Session) EnhanceLayer(ctx context.Context, layerID string) error {
	return s.enhanceLayer(ctx, layerID, func(ctx context.Context, url string) (services.EnhanceResult, error) {
		return s.enhancer.Enhance(ctx, url)
	})
}

// UpscaleLayer upscales an image layer. On success the original pixel
// dimensions are multiplied by the applied factor the service reports and
// the DPI info is recomputed.
func (s *Session) UpscaleLayer(ctx context.Context, layerID string, factor float64) error {
	return s.enhanceLayer(ctx, layerID, func(ctx context.Context, url string) (services.EnhanceResult, error) {
		return s.enhancer.Upscale(ctx, url, factor)
	})
}

// enhanceLayer runs one collaborator call against an image layer. The
// layer state is only written on success; failures leave it untouched.
func (s *Session) enhanceLayer(ctx context.Context, layerID string, call func(context.Context, string) (services.EnhanceResult, error)) error {
	s.mu.Lock()
	if s.enhancer == nil {
		s.mu.Unlock()
		return fmt.Errorf("no image enhancer configured")
	}
	if err := s.guard(layerID); err != nil {
		s.mu.Unlock()
		return err
	}
	layer, err := s.store.Get(layerID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if layer.Image == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotImageLayer, layerID)
	}
	url := layer.Image.SourceURL
	if layer.Image.ProcessedURL != "" {
		url = layer.Image.ProcessedURL
	}
	s.processing[layerID] = true
	s.mu.Unlock()

	res, callErr := call(ctx, url)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.processing, layerID)
	if callErr != nil {
		return fmt.Errorf("image processing failed: %w", callErr)
	}

	err = s.store.mutate(layerID, false, func(l *model.Layer) {
		l.Image.ProcessedURL = res.ProcessedURL
		if res.AppliedFactor > 0 {
			l.Image.OriginalPixelWidth = int(float64(l.Image.OriginalPixelWidth) * res.AppliedFactor)
			l.Image.OriginalPixelHeight = int(float64(l.Image.OriginalPixelHeight) * res.AppliedFactor)
		}
		l.RefreshDpi()
	})
	if err != nil {
		return err
	}
	s.commit(SourceUser)
	return nil
}
