package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/piwi3910/sheetsmith/internal/checkout"
	"github.com/piwi3910/sheetsmith/internal/model"
	"github.com/piwi3910/sheetsmith/internal/project"
	"github.com/piwi3910/sheetsmith/internal/session"
)

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondErr(w http.ResponseWriter, status int, err error) {
	respond(w, status, map[string]string{"error": err.Error()})
}

// errStatus maps domain errors onto HTTP status codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrLayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrLayerLocked),
		errors.Is(err, session.ErrLayerProcessing),
		errors.Is(err, project.ErrSaveInProgress):
		return http.StatusConflict
	case errors.Is(err, session.ErrNotImageLayer):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, model.Presets())
}

func (s *Server) handleCreateSheet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PrintType    model.PrintType `json:"print_type"`
		HeightInches float64         `json:"height_inches"`
		Name         string          `json:"name"`

		// An upload finishing during navigation rides along as a
		// one-shot token and materializes when the editor opens.
		PendingImage *struct {
			URL         string `json:"url"`
			PixelWidth  int    `json:"pixel_width"`
			PixelHeight int    `json:"pixel_height"`
		} `json:"pending_image,omitempty"`
	}
	if err := decode(r, &req); err != nil {
		respondErr(w, http.StatusBadRequest, err)
		return
	}
	sheet, err := model.NewSheet(req.PrintType, req.HeightInches, req.Name)
	if err != nil {
		respondErr(w, http.StatusBadRequest, err)
		return
	}
	st := s.openSession(sheet)
	if req.PendingImage != nil {
		st.session.SetPendingImage(session.PendingImage{
			URL:         req.PendingImage.URL,
			PixelWidth:  req.PendingImage.PixelWidth,
			PixelHeight: req.PendingImage.PixelHeight,
		})
	}
	respond(w, http.StatusCreated, map[string]any{
		"sheet_id":      sheet.ID,
		"width_inches":  sheet.WidthInches,
		"height_inches": sheet.HeightInches,
	})
}

func (s *Server) handleGetSheet(w http.ResponseWriter, r *http.Request) {
	st, err := s.lookup(r.Context(), chi.URLParam(r, "sheetID"))
	if err != nil {
		respondErr(w, http.StatusNotFound, err)
		return
	}
	st.session.ImportPendingImage()
	respond(w, http.StatusOK, map[string]any{
		"sheet":  st.session.Sheet(),
		"layers": st.session.Layers(),
	})
}

func (s *Server) handleAddLayer(w http.ResponseWriter, r *http.Request) {
	st, err := s.lookup(r.Context(), chi.URLParam(r, "sheetID"))
	if err != nil {
		respondErr(w, http.StatusNotFound, err)
		return
	}
	var req struct {
		Kind        model.LayerKind `json:"kind"`
		Position    model.Point     `json:"position"`
		Size        model.Size      `json:"size"`
		SourceURL   string          `json:"source_url,omitempty"`
		PixelWidth  int             `json:"pixel_width,omitempty"`
		PixelHeight int             `json:"pixel_height,omitempty"`
		Text        string          `json:"text,omitempty"`
		ShapeKind   string          `json:"shape_kind,omitempty"`
	}
	if err := decode(r, &req); err != nil {
		respondErr(w, http.StatusBadRequest, err)
		return
	}

	var layer model.Layer
	switch req.Kind {
	case model.LayerKindImage:
		layer = st.session.AddImageLayer(req.SourceURL, req.PixelWidth, req.PixelHeight, req.Position, req.Size)
	case model.LayerKindText:
		layer = st.session.AddTextLayer(req.Text, req.Position, req.Size)
	case model.LayerKindShape:
		layer = st.session.AddShapeLayer(req.ShapeKind, req.Position, req.Size)
	default:
		respondErr(w, http.StatusBadRequest, errors.New("unknown layer kind"))
		return
	}
	respond(w, http.StatusCreated, layer)
}

func (s *Server) handlePatchLayer(w http.ResponseWriter, r *http.Request) {
	st, err := s.lookup(r.Context(), chi.URLParam(r, "sheetID"))
	if err != nil {
		respondErr(w, http.StatusNotFound, err)
		return
	}
	layerID := chi.URLParam(r, "layerID")

	var req struct {
		Position     *model.Point `json:"position,omitempty"`
		Size         *model.Size  `json:"size,omitempty"`
		Rotation     *float64     `json:"rotation,omitempty"`
		Opacity      *float64     `json:"opacity,omitempty"`
		Visible      *bool        `json:"visible,omitempty"`
		Locked       *bool        `json:"locked,omitempty"`
		BringToFront bool         `json:"bring_to_front,omitempty"`
	}
	if err := decode(r, &req); err != nil {
		respondErr(w, http.StatusBadRequest, err)
		return
	}

	apply := func(err error) bool {
		if err != nil {
			respondErr(w, errStatus(err), err)
			return false
		}
		return true
	}
	if req.Position != nil && !apply(st.session.MoveLayer(layerID, *req.Position)) {
		return
	}
	if req.Size != nil && !apply(st.session.ResizeLayer(layerID, *req.Size)) {
		return
	}
	if req.Rotation != nil && !apply(st.session.RotateLayer(layerID, *req.Rotation)) {
		return
	}
	if req.Opacity != nil && !apply(st.session.SetLayerOpacity(layerID, *req.Opacity)) {
		return
	}
	if req.Visible != nil && !apply(st.session.SetLayerVisible(layerID, *req.Visible)) {
		return
	}
	if req.Locked != nil && !apply(st.session.SetLayerLocked(layerID, *req.Locked)) {
		return
	}
	if req.BringToFront && !apply(st.session.BringLayerToFront(layerID)) {
		return
	}

	layer, err := st.session.Layer(layerID)
	if err != nil {
		respondErr(w, errStatus(err), err)
		return
	}
	respond(w, http.StatusOK, layer)
}

func (s *Server) handleDeleteLayer(w http.ResponseWriter, r *http.Request) {
	st, err := s.lookup(r.Context(), chi.URLParam(r, "sheetID"))
	if err != nil {
		respondErr(w, http.StatusNotFound, err)
		return
	}
	if err := st.session.RemoveLayer(chi.URLParam(r, "layerID")); err != nil {
		respondErr(w, errStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	st, err := s.lookup(r.Context(), chi.URLParam(r, "sheetID"))
	if err != nil {
		respondErr(w, http.StatusNotFound, err)
		return
	}
	var req struct {
		Prompt   string      `json:"prompt"`
		Style    string      `json:"style"`
		Position model.Point `json:"position"`
		Size     model.Size  `json:"size"`
	}
	if err := decode(r, &req); err != nil {
		respondErr(w, http.StatusBadRequest, err)
		return
	}
	layer, err := st.session.GenerateImageLayer(r.Context(), req.Prompt, req.Style, req.Position, req.Size)
	if err != nil {
		respondErr(w, http.StatusBadGateway, err)
		return
	}
	respond(w, http.StatusCreated, layer)
}

func (s *Server) handleRemoveBackground(w http.ResponseWriter, r *http.Request) {
	s.enhanceHandler(w, r, func(st *editorState, layerID string) error {
		return st.session.RemoveBackground(r.Context(), layerID)
	})
}

func (s *Server) handleEnhance(w http.ResponseWriter, r *http.Request) {
	s.enhanceHandler(w, r, func(st *editorState, layerID string) error {
		return st.session.EnhanceLayer(r.Context(), layerID)
	})
}

func (s *Server) handleUpscale(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Factor float64 `json:"factor"`
	}
	if err := decode(r, &req); err != nil {
		respondErr(w, http.StatusBadRequest, err)
		return
	}
	if req.Factor <= 1 {
		respondErr(w, http.StatusBadRequest, errors.New("upscale factor must be greater than 1"))
		return
	}
	s.enhanceHandler(w, r, func(st *editorState, layerID string) error {
		return st.session.UpscaleLayer(r.Context(), layerID, req.Factor)
	})
}

func (s *Server) enhanceHandler(w http.ResponseWriter, r *http.Request, fn func(*editorState, string) error) {
	st, err := s.lookup(r.Context(), chi.URLParam(r, "sheetID"))
	if err != nil {
		respondErr(w, http.StatusNotFound, err)
		return
	}
	layerID := chi.URLParam(r, "layerID")
	if err := fn(st, layerID); err != nil {
		respondErr(w, errStatus(err), err)
		return
	}
	layer, err := st.session.Layer(layerID)
	if err != nil {
		respondErr(w, errStatus(err), err)
		return
	}
	respond(w, http.StatusOK, layer)
}

func (s *Server) handleNest(w http.ResponseWriter, r *http.Request) {
	st, err := s.lookup(r.Context(), chi.URLParam(r, "sheetID"))
	if err != nil {
		respondErr(w, http.StatusNotFound, err)
		return
	}
	var req struct {
		Padding float64 `json:"padding"`
	}
	if err := decode(r, &req); err != nil {
		respondErr(w, http.StatusBadRequest, err)
		return
	}
	result := st.session.AutoNest(req.Padding)
	respond(w, http.StatusOK, map[string]any{
		"placed":   len(result.Placements),
		"unplaced": result.Unplaced,
		"layers":   st.session.Layers(),
	})
}

func (s *Server) handleFill(w http.ResponseWriter, r *http.Request) {
	st, err := s.lookup(r.Context(), chi.URLParam(r, "sheetID"))
	if err != nil {
		respondErr(w, http.StatusNotFound, err)
		return
	}
	var req struct {
		SeedID  string  `json:"seed_id"`
		Padding float64 `json:"padding"`
	}
	if err := decode(r, &req); err != nil {
		respondErr(w, http.StatusBadRequest, err)
		return
	}
	added, err := st.session.SmartFill(req.SeedID, req.Padding)
	if err != nil {
		respondErr(w, errStatus(err), err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"added": added})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.historyHandler(w, r, func(st *editorState) bool { return st.session.Undo() })
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.historyHandler(w, r, func(st *editorState) bool { return st.session.Redo() })
}

func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request, step func(*editorState) bool) {
	st, err := s.lookup(r.Context(), chi.URLParam(r, "sheetID"))
	if err != nil {
		respondErr(w, http.StatusNotFound, err)
		return
	}
	applied := step(st)
	respond(w, http.StatusOK, map[string]any{
		"applied": applied,
		"layers":  st.session.Layers(),
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	st, err := s.lookup(r.Context(), chi.URLParam(r, "sheetID"))
	if err != nil {
		respondErr(w, http.StatusNotFound, err)
		return
	}
	st.session.ResetCanvas()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	st, err := s.lookup(r.Context(), chi.URLParam(r, "sheetID"))
	if err != nil {
		respondErr(w, http.StatusNotFound, err)
		return
	}
	p, err := s.buildPayload(st.session)
	if err != nil {
		respondErr(w, http.StatusInternalServerError, err)
		return
	}
	if err := st.gateway.Save(r.Context(), p); err != nil {
		respondErr(w, errStatus(err), err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"status": st.gateway.Status()})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.lookup(r.Context(), chi.URLParam(r, "sheetID"))
	if err != nil {
		respondErr(w, http.StatusNotFound, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"status": st.gateway.Status()})
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	st, err := s.lookup(r.Context(), chi.URLParam(r, "sheetID"))
	if err != nil {
		respondErr(w, http.StatusNotFound, err)
		return
	}
	var req struct {
		ConfirmWarnings bool   `json:"confirm_warnings"`
		Cutlines        bool   `json:"cutlines"`
		Mirror          bool   `json:"mirror"`
		ThumbnailURL    string `json:"thumbnail_url"`
	}
	if err := decode(r, &req); err != nil {
		respondErr(w, http.StatusBadRequest, err)
		return
	}

	item, err := checkout.Compile(st.session.Sheet(), st.session.Layers(), checkout.Options{
		ConfirmWarnings: req.ConfirmWarnings,
		Cutlines:        req.Cutlines,
		Mirror:          req.Mirror,
		ThumbnailURL:    req.ThumbnailURL,
	})
	if err != nil {
		var qerr *checkout.QualityError
		if errors.As(err, &qerr) {
			respond(w, http.StatusConflict, map[string]any{
				"error":   qerr.Error(),
				"danger":  qerr.Danger,
				"warning": qerr.Warning,
			})
			return
		}
		respondErr(w, http.StatusBadRequest, err)
		return
	}
	respond(w, http.StatusOK, item)
}
