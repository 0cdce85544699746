package posts

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pontodeaula/pontoaula/internal/api"
)

// PageSize is the fixed number of posts shown per page.
const PageSize = 9

// Fallback error texts, shared with the legacy web client.
const (
	errLoadPosts   = "Erro ao buscar posts"
	errLoadFilters = "Erro ao carregar filtros"
)

// Source feeds the paginator: an unfiltered snapshot for the filter
// dropdowns and a filtered page fetch for display.
type Source interface {
	Snapshot(ctx context.Context) ([]Post, error)
	Page(ctx context.Context, params SearchParams, page, limit int) ([]Post, error)
}

// Paginator orchestrates filter state, the page cursor and look-ahead
// next-page detection. Every page fetch requests PageSize+1 items; a
// response longer than PageSize means another page exists, and only the
// first PageSize items are kept for display.
//
// Displayed posts, page and hasNextPage always change together, and a
// generation counter discards fetches that complete after a newer one
// has started, so a stale slow response never overwrites a newer page.
type Paginator struct {
	source Source

	mu            sync.Mutex
	generation    uint64
	posts         []Post
	filterOptions []Post
	filters       SearchParams
	page          int
	hasNextPage   bool
	loading       bool
	errMessage    string
}

// NewPaginator builds a paginator over source. State is empty until
// Initialize runs.
func NewPaginator(source Source) *Paginator {
	return &Paginator{source: source, page: 1}
}

// Initialize concurrently loads the unfiltered filter-options snapshot
// and the first page. A failed snapshot fetch surfaces an error message
// but never blocks or invalidates the page fetch.
func (p *Paginator) Initialize(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		snapshot, err := p.source.Snapshot(ctx)
		if err != nil {
			p.setError(api.ErrorMessage(err, errLoadFilters))
			return nil
		}
		p.mu.Lock()
		p.filterOptions = snapshot
		p.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		p.fetchPage(ctx, 1, SearchParams{})
		return nil
	})
	_ = g.Wait()
}

// Search replaces the filters and fetches page one. Caller-supplied
// pagination cannot leak in: SearchParams carries no page or limit.
func (p *Paginator) Search(ctx context.Context, params SearchParams) {
	p.fetchPage(ctx, 1, params)
}

// NextPage fetches the following page with the current filters. A
// no-op when no next page was detected.
func (p *Paginator) NextPage(ctx context.Context) {
	p.mu.Lock()
	if !p.hasNextPage {
		p.mu.Unlock()
		return
	}
	target, filters := p.page+1, p.filters
	p.mu.Unlock()
	p.fetchPage(ctx, target, filters)
}

// PrevPage fetches the preceding page with the current filters. A
// no-op on page one.
func (p *Paginator) PrevPage(ctx context.Context) {
	p.mu.Lock()
	if p.page <= 1 {
		p.mu.Unlock()
		return
	}
	target, filters := p.page-1, p.filters
	p.mu.Unlock()
	p.fetchPage(ctx, target, filters)
}

func (p *Paginator) fetchPage(ctx context.Context, target int, filters SearchParams) {
	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.loading = true
	p.errMessage = ""
	p.mu.Unlock()

	items, err := p.source.Page(ctx, filters, target, PageSize+1)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		// A newer fetch superseded this one; drop the result.
		return
	}
	p.loading = false
	if err != nil {
		// Keep the last successful page on a failed refresh.
		p.errMessage = api.ErrorMessage(err, errLoadPosts)
		return
	}
	p.hasNextPage = len(items) > PageSize
	if len(items) > PageSize {
		items = items[:PageSize]
	}
	p.posts = items
	p.page = target
	p.filters = filters
}

func (p *Paginator) setError(message string) {
	p.mu.Lock()
	p.errMessage = message
	p.mu.Unlock()
}

// Posts returns the current display page.
func (p *Paginator) Posts() []Post {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Post, len(p.posts))
	copy(out, p.posts)
	return out
}

// FilterOptions returns the unfiltered snapshot backing the filter
// dropdowns. Never used for display.
func (p *Paginator) FilterOptions() []Post {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Post, len(p.filterOptions))
	copy(out, p.filterOptions)
	return out
}

// Options derives the selectable filter values from the snapshot.
func (p *Paginator) Options() Options {
	return DeriveOptions(p.FilterOptions())
}

// Filters returns the active filter set.
func (p *Paginator) Filters() SearchParams {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filters
}

// HasActiveFilters reports whether any filter deviates from default.
func (p *Paginator) HasActiveFilters() bool {
	return p.Filters().Active()
}

// Page returns the current page number, starting at one.
func (p *Paginator) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// HasNextPage reports whether the look-ahead saw another page.
func (p *Paginator) HasNextPage() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasNextPage
}

// Loading reports whether a fetch is in flight.
func (p *Paginator) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Err returns the user-facing message of the last failed fetch, or "".
func (p *Paginator) Err() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errMessage
}
