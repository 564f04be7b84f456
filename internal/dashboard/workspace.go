package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Workspace is the state of one dashboard page load. Generation feeds the
// history through the refresh counter.
type Workspace struct {
	ID        string
	Owner     string
	Products  *Products
	Generator *Generator
	History   *History

	mu       sync.Mutex
	refresh  int
	lastSeen time.Time
}

func newWorkspace(owner string, b Backend, logger *slog.Logger, now time.Time) *Workspace {
	ws := &Workspace{
		ID:       uuid.NewString(),
		Owner:    owner,
		Products: NewProducts(b, logger),
		History:  NewHistory(b, logger),
		lastSeen: now,
	}
	ws.Generator = NewGenerator(b, logger, ws.markGenerated)
	return ws
}

// markGenerated is the generator's success signal.
func (ws *Workspace) markGenerated() {
	ws.mu.Lock()
	ws.refresh++
	ws.mu.Unlock()
}

// Refresh is the number of successful generations in this view.
func (ws *Workspace) Refresh() int {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.refresh
}

// Mount loads what the dashboard shows on first render.
func (ws *Workspace) Mount(ctx context.Context) error {
	if err := ws.Products.Sync(ctx, ws.Owner); err != nil {
		return err
	}
	return ws.SyncHistory(ctx)
}

// SyncHistory brings the history up to date with the refresh counter.
func (ws *Workspace) SyncHistory(ctx context.Context) error {
	return ws.History.Sync(ctx, ws.Owner, ws.Refresh())
}

func (ws *Workspace) touch(now time.Time) {
	ws.mu.Lock()
	ws.lastSeen = now
	ws.mu.Unlock()
}

func (ws *Workspace) idleSince() time.Time {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.lastSeen
}

// Registry keeps the open workspaces. Workspaces idle for longer than ttl
// are evicted by Sweep.
type Registry struct {
	mu      sync.Mutex
	views   map[string]*Workspace
	backend Backend
	logger  *slog.Logger
	ttl     time.Duration
	now     func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(b Backend, ttl time.Duration, logger *slog.Logger) *Registry {
	return &Registry{
		views:   make(map[string]*Workspace),
		backend: b,
		logger:  logger,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Open creates the workspace of a new page load for owner.
func (r *Registry) Open(owner string) *Workspace {
	ws := newWorkspace(owner, r.backend, r.logger, r.now())
	r.mu.Lock()
	r.views[ws.ID] = ws
	r.mu.Unlock()
	return ws
}

// Get returns the workspace id if it exists and belongs to owner.
func (r *Registry) Get(id, owner string) (*Workspace, bool) {
	r.mu.Lock()
	ws, ok := r.views[id]
	r.mu.Unlock()
	if !ok || ws.Owner != owner {
		return nil, false
	}
	ws.touch(r.now())
	return ws, true
}

// Drop removes a workspace.
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	delete(r.views, id)
	r.mu.Unlock()
}

// DropOwner removes every workspace of owner, as on logout.
func (r *Registry) DropOwner(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, ws := range r.views {
		if ws.Owner == owner {
			delete(r.views, id)
		}
	}
}

// Len is the number of open workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Sweep evicts idle workspaces and returns how many were removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, ws := range r.views {
		if ws.idleSince().Before(cutoff) {
			delete(r.views, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Debug("Evicted idle workspaces", "count", n, "open", r.Len())
			}
		}
	}
}
