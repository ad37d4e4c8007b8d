// internal/app/features/dashboard/pages.go
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/pantaucorona/internal/app/features/comparison"
	"github.com/dalemusser/pantaucorona/internal/app/features/summary"
	casestatsstore "github.com/dalemusser/pantaucorona/internal/app/store/casestats"
	"github.com/dalemusser/pantaucorona/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Page is one mounted dashboard: a summary view and a comparison table
// that live until the visitor reloads or the page is evicted.
type Page struct {
	ID         string
	Summary    *summary.View
	Comparison *comparison.View

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	lastSeen time.Time
}

// Context is cancelled when the page is evicted or the registry closes.
// Fetches issued on behalf of the page use it.
func (p *Page) Context() context.Context { return p.ctx }

func (p *Page) touch(now time.Time) {
	p.mu.Lock()
	p.lastSeen = now
	p.mu.Unlock()
}

func (p *Page) idleSince() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSeen
}

func (p *Page) close() {
	p.cancel()
	p.Summary.Close()
	p.Comparison.Close()
}

// PageConfig is shared by every page a Registry mounts.
type PageConfig struct {
	HomeCountry string
	Countries   []models.CountryEntry
	Policy      summary.ApplyPolicy
}

// Registry keeps mounted pages in memory, keyed by page ID.
type Registry struct {
	fetch casestatsstore.Fetcher
	cfg   PageConfig
	log   *zap.Logger
	now   func() time.Time

	mu     sync.Mutex
	pages  map[string]*Page
	closed bool
}

// NewRegistry builds an empty registry.
func NewRegistry(fetch casestatsstore.Fetcher, cfg PageConfig, logger *zap.Logger) *Registry {
	return &Registry{
		fetch: fetch,
		cfg:   cfg,
		log:   logger,
		now:   time.Now,
		pages: make(map[string]*Page),
	}
}

// Mount creates and registers a page, then mounts both views, which
// starts their first fetches. global is the initial summary scope.
func (g *Registry) Mount(global bool) *Page {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()
	logger := g.log.With(zap.String("page_id", id))

	p := &Page{
		ID: id,
		Summary: summary.NewView(g.fetch, summary.Config{
			HomeCountry: g.cfg.HomeCountry,
			Global:      global,
			Policy:      g.cfg.Policy,
		}, logger),
		Comparison: comparison.NewView(g.fetch, g.cfg.Countries, logger),
		ctx:        ctx,
		cancel:     cancel,
		lastSeen:   g.now(),
	}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		cancel()
		return p
	}
	g.pages[id] = p
	g.mu.Unlock()

	p.Summary.Mount(ctx)
	p.Comparison.Mount(ctx)
	logger.Debug("page mounted", zap.Bool("global", global))
	return p
}

// Get returns the page with id and marks it as recently used.
func (g *Registry) Get(id string) (*Page, bool) {
	if id == "" {
		return nil, false
	}
	g.mu.Lock()
	p, ok := g.pages[id]
	g.mu.Unlock()
	if ok {
		p.touch(g.now())
	}
	return p, ok
}

// Remove unregisters a page and cancels its in-flight fetches.
func (g *Registry) Remove(id string) bool {
	g.mu.Lock()
	p, ok := g.pages[id]
	delete(g.pages, id)
	g.mu.Unlock()
	if ok {
		p.close()
	}
	return ok
}

// Len reports how many pages are mounted.
func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pages)
}

// Sweep evicts pages unused for longer than idle and returns how many
// were removed.
func (g *Registry) Sweep(idle time.Duration) int {
	cutoff := g.now().Add(-idle)

	g.mu.Lock()
	var stale []*Page
	for id, p := range g.pages {
		if p.idleSince().Before(cutoff) {
			stale = append(stale, p)
			delete(g.pages, id)
		}
	}
	g.mu.Unlock()

	for _, p := range stale {
		p.close()
	}
	return len(stale)
}

// Close evicts every page. Pages mounted afterwards are never registered.
func (g *Registry) Close() {
	g.mu.Lock()
	g.closed = true
	pages := g.pages
	g.pages = make(map[string]*Page)
	g.mu.Unlock()

	for _, p := range pages {
		p.close()
	}
}
