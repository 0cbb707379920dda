// Package api exposes the editing session over HTTP: sheet creation,
// layer mutation, layout passes, undo/redo, persistence, and the checkout
// hand-off. One session per sheet is kept in memory; the autosave loop for
// a sheet runs for the life of its session.
package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/piwi3910/sheetsmith/internal/model"
	"github.com/piwi3910/sheetsmith/internal/project"
	"github.com/piwi3910/sheetsmith/internal/services"
	"github.com/piwi3910/sheetsmith/internal/session"
	"github.com/piwi3910/sheetsmith/internal/thumbnail"
)

// editorState bundles one sheet's session with its persistence gateway
// and the cancel handle for its autosave loop.
type editorState struct {
	session *session.Session
	gateway *project.Gateway
	cancel  context.CancelFunc
}

// Server hosts the editing sessions.
type Server struct {
	mu       sync.Mutex
	sessions map[string]*editorState

	store     project.Store
	logger    *log.Logger
	generator services.Generator
	enhancer  services.Enhancer

	autosaveTick    time.Duration
	minSaveInterval time.Duration
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithCollaborators wires the image generation and enhancement backends.
func WithCollaborators(g services.Generator, e services.Enhancer) ServerOption {
	return func(s *Server) {
		s.generator = g
		s.enhancer = e
	}
}

// WithAutosaveTiming overrides the autosave tick and minimum interval.
func WithAutosaveTiming(tick, minInterval time.Duration) ServerOption {
	return func(s *Server) {
		s.autosaveTick = tick
		s.minSaveInterval = minInterval
	}
}

// NewServer creates a server persisting through the given store.
func NewServer(store project.Store, logger *log.Logger, opts ...ServerOption) *Server {
	s := &Server{
		sessions:        make(map[string]*editorState),
		store:           store,
		logger:          logger,
		autosaveTick:    project.DefaultAutosaveTick,
		minSaveInterval: project.DefaultMinSaveInterval,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/sheets", func(r chi.Router) {
		r.Post("/", s.handleCreateSheet)
		r.Get("/presets", s.handlePresets)

		r.Route("/{sheetID}", func(r chi.Router) {
			r.Get("/", s.handleGetSheet)
			r.Post("/layers", s.handleAddLayer)
			r.Patch("/layers/{layerID}", s.handlePatchLayer)
			r.Delete("/layers/{layerID}", s.handleDeleteLayer)
			r.Post("/layers/{layerID}/remove-background", s.handleRemoveBackground)
			r.Post("/layers/{layerID}/upscale", s.handleUpscale)
			r.Post("/layers/{layerID}/enhance", s.handleEnhance)
			r.Post("/generate", s.handleGenerate)
			r.Post("/nest", s.handleNest)
			r.Post("/fill", s.handleFill)
			r.Post("/undo", s.handleUndo)
			r.Post("/redo", s.handleRedo)
			r.Post("/reset", s.handleReset)
			r.Post("/save", s.handleSave)
			r.Get("/status", s.handleStatus)
			r.Post("/checkout", s.handleCheckout)
		})
	})
	return r
}

// openSession returns the live session for the sheet, creating it and
// starting its autosave loop if none exists.
func (s *Server) openSession(sheet model.Sheet) *editorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openSessionLocked(sheet)
}

func (s *Server) openSessionLocked(sheet model.Sheet) *editorState {
	if st, ok := s.sessions[sheet.ID]; ok {
		return st
	}

	sess := session.New(sheet,
		session.WithGenerator(s.generator),
		session.WithEnhancer(s.enhancer),
	)
	gw := project.NewGateway(s.store, s.logger,
		project.WithAutosaveTick(s.autosaveTick),
		project.WithMinSaveInterval(s.minSaveInterval),
	)
	sess.OnCommit(gw.MarkUnsaved)

	ctx, cancel := context.WithCancel(context.Background())
	st := &editorState{session: sess, gateway: gw, cancel: cancel}
	go gw.RunAutosave(ctx, func() (project.Payload, error) {
		return s.buildPayload(sess)
	})

	s.sessions[sheet.ID] = st
	return st
}

// lookup returns the live session for a sheet id, reviving it from the
// store if a save file exists. The lock is held across the load so
// concurrent requests for the same sheet share one session and one
// autosave loop.
func (s *Server) lookup(ctx context.Context, sheetID string) (*editorState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sessions[sheetID]; ok {
		return st, nil
	}

	p, err := s.store.Load(ctx, sheetID)
	if err != nil {
		return nil, fmt.Errorf("sheet %s not found", sheetID)
	}
	sheet, layers, viewport := project.Decode(p)
	st := s.openSessionLocked(sheet)
	st.session.Restore(layers)
	st.session.SetViewport(viewport)
	return st, nil
}

// buildPayload snapshots the session into a save payload, including the
// rendered thumbnail.
func (s *Server) buildPayload(sess *session.Session) (project.Payload, error) {
	sheet := sess.Sheet()
	layers := sess.Layers()
	thumb, err := thumbnail.RenderBase64(sheet, layers)
	if err != nil {
		return project.Payload{}, err
	}
	return project.Encode(sheet, layers, sess.Viewport(), thumb), nil
}

// Close stops all autosave loops.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.sessions {
		st.cancel()
	}
}
