package project

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// SaveStatus is the gateway's save state machine.
type SaveStatus string

const (
	StatusSaved   SaveStatus = "saved"
	StatusSaving  SaveStatus = "saving"
	StatusUnsaved SaveStatus = "unsaved"
)

// ErrSaveInProgress rejects a manual save while another save request is
// outstanding. Overlap is prevented by checking status, not by holding a
// lock across the request.
var ErrSaveInProgress = errors.New("save already in progress")

// Autosave timing defaults.
const (
	DefaultAutosaveTick    = 5 * time.Second
	DefaultMinSaveInterval = 30 * time.Second
)

// Gateway governs when a sheet's canvas state is written to the store.
// Committed mutations flip the status to unsaved; manual saves surface
// errors to the caller; autosave retries silently on later ticks.
type Gateway struct {
	mu        sync.Mutex
	store     Store
	status    SaveStatus
	dirty     bool // mutation committed while a save was writing
	lastSaved time.Time

	tick        time.Duration
	minInterval time.Duration
	logger      *log.Logger
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithAutosaveTick overrides the autosave check interval.
func WithAutosaveTick(d time.Duration) GatewayOption {
	return func(g *Gateway) { g.tick = d }
}

// WithMinSaveInterval overrides the minimum spacing between autosaves.
func WithMinSaveInterval(d time.Duration) GatewayOption {
	return func(g *Gateway) { g.minInterval = d }
}

// NewGateway creates a gateway in the saved state.
func NewGateway(store Store, logger *log.Logger, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		store:       store,
		status:      StatusSaved,
		tick:        DefaultAutosaveTick,
		minInterval: DefaultMinSaveInterval,
		logger:      logger,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Status returns the current save status.
func (g *Gateway) Status() SaveStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// MarkUnsaved records that a layer or geometry mutation was committed.
// It is the transition hook sessions fire after every commit. A mutation
// arriving while a save is writing postdates the payload on the wire, so
// it is held as a dirty mark and the save finishes unsaved.
func (g *Gateway) MarkUnsaved() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.status == StatusSaving {
		g.dirty = true
		return
	}
	g.status = StatusUnsaved
}

// Save performs a manual save. Failures are surfaced to the caller and
// the status reverts to unsaved so the user can retry explicitly.
func (g *Gateway) Save(ctx context.Context, p Payload) error {
	g.mu.Lock()
	if g.status == StatusSaving {
		g.mu.Unlock()
		return ErrSaveInProgress
	}
	g.status = StatusSaving
	g.mu.Unlock()

	if err := g.store.Save(ctx, p); err != nil {
		g.finish(StatusUnsaved)
		return fmt.Errorf("saving sheet %s: %w", p.Sheet.ID, err)
	}
	g.finish(StatusSaved)
	return nil
}

func (g *Gateway) finish(s SaveStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s == StatusSaved {
		g.lastSaved = time.Now()
		if g.dirty {
			s = StatusUnsaved
		}
	}
	g.dirty = false
	g.status = s
}

// autosaveEligible atomically checks and claims an autosave slot.
func (g *Gateway) autosaveEligible() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.status != StatusUnsaved {
		return false
	}
	if !g.lastSaved.IsZero() && time.Since(g.lastSaved) < g.minInterval {
		return false
	}
	g.status = StatusSaving
	return true
}

// RunAutosave runs the periodic autosave loop until ctx is done. Each tick
// saves only if the state is unsaved and the minimum interval since the
// last successful save has elapsed. Failures are logged and swallowed;
// the next eligible tick retries.
func (g *Gateway) RunAutosave(ctx context.Context, payload func() (Payload, error)) {
	ticker := time.NewTicker(g.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !g.autosaveEligible() {
				continue
			}
			p, err := payload()
			if err != nil {
				g.finish(StatusUnsaved)
				g.logf("autosave skipped: %v", err)
				continue
			}
			if err := g.store.Save(ctx, p); err != nil {
				g.finish(StatusUnsaved)
				g.logf("autosave failed for sheet %s: %v", p.Sheet.ID, err)
				continue
			}
			g.finish(StatusSaved)
		}
	}
}

func (g *Gateway) logf(format string, args ...any) {
	if g.logger != nil {
		g.logger.Warnf(format, args...)
	}
}
