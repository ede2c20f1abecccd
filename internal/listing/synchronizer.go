// Package listing keeps a page of breweries in step with the user's
// pagination, search and sort choices.
//
// A Synchronizer re-fetches exactly when it is mounted, when the page number
// or sort direction changes, or when the search form is submitted or reset.
// Editing the search text on its own never issues a request.
package listing

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"brewery-catalog/internal/catalog"
	"brewery-catalog/internal/model"
	"brewery-catalog/internal/parse"
)

// Fetcher is the part of the catalog client the synchronizer needs.
type Fetcher interface {
	List(ctx context.Context, q catalog.ListQuery) ([]model.Brewery, error)
}

// State is a point-in-time copy of what the list view should render.
type State struct {
	Page        int
	Search      string
	Sort        model.SortDirection
	Breweries   []model.Brewery
	HasNextPage bool
	Loading     bool
	// Alert holds the message of the last failed fetch until it is dismissed.
	Alert   string
	Mounted bool
}

// HasPrevPage reports whether the previous-page control should be enabled.
func (s State) HasPrevPage() bool {
	return s.Page > 1
}

// Synchronizer owns the list view state. It is safe for concurrent use.
type Synchronizer struct {
	fetcher Fetcher
	logger  *zap.Logger

	mu         sync.Mutex
	page       int
	search     string
	sort       model.SortDirection
	breweries  []model.Brewery
	hasNext    bool
	loading    bool
	alert      string
	mounted    bool
	generation uint64
}

// NewSynchronizer creates a synchronizer on page 1, sorted ascending, with an
// empty search.
func NewSynchronizer(fetcher Fetcher, logger *zap.Logger) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synchronizer{
		fetcher:   fetcher,
		logger:    logger,
		page:      1,
		sort:      model.SortAsc,
		breweries: []model.Brewery{},
	}
}

// Mount performs the initial fetch. Later calls do nothing.
func (s *Synchronizer) Mount(ctx context.Context) error {
	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		return nil
	}
	return s.fetchLocked(ctx)
}

// SetSearchText updates the search text without fetching.
func (s *Synchronizer) SetSearchText(text string) {
	s.mu.Lock()
	s.search = text
	s.mu.Unlock()
}

// Submit applies the current search text starting from page 1.
func (s *Synchronizer) Submit(ctx context.Context) error {
	s.mu.Lock()
	s.page = 1
	return s.fetchLocked(ctx)
}

// Reset clears the search text and returns to the unfiltered first page.
func (s *Synchronizer) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.search = ""
	s.page = 1
	return s.fetchLocked(ctx)
}

// NextPage advances one page when the current page is full.
func (s *Synchronizer) NextPage(ctx context.Context) error {
	s.mu.Lock()
	if !s.hasNext {
		s.mu.Unlock()
		return nil
	}
	s.page++
	return s.fetchLocked(ctx)
}

// PrevPage goes back one page. It never goes below page 1.
func (s *Synchronizer) PrevPage(ctx context.Context) error {
	s.mu.Lock()
	if s.page <= 1 {
		s.mu.Unlock()
		return nil
	}
	s.page--
	return s.fetchLocked(ctx)
}

// GoToPage jumps to page n, clamped to 1.
func (s *Synchronizer) GoToPage(ctx context.Context, n int) error {
	if n < 1 {
		n = 1
	}
	s.mu.Lock()
	if s.mounted && n == s.page {
		s.mu.Unlock()
		return nil
	}
	s.page = n
	return s.fetchLocked(ctx)
}

// SetSort changes the sort direction and re-fetches if it differs.
func (s *Synchronizer) SetSort(ctx context.Context, dir model.SortDirection) error {
	if dir != model.SortDesc {
		dir = model.SortAsc
	}
	s.mu.Lock()
	if s.mounted && dir == s.sort {
		s.mu.Unlock()
		return nil
	}
	s.sort = dir
	return s.fetchLocked(ctx)
}

// DismissAlert clears the pending alert.
func (s *Synchronizer) DismissAlert() {
	s.mu.Lock()
	s.alert = ""
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (s *Synchronizer) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	breweries := make([]model.Brewery, len(s.breweries))
	copy(breweries, s.breweries)
	return State{
		Page:        s.page,
		Search:      s.search,
		Sort:        s.sort,
		Breweries:   breweries,
		HasNextPage: s.hasNext,
		Loading:     s.loading,
		Alert:       s.alert,
		Mounted:     s.mounted,
	}
}

// fetchLocked must be called with s.mu held; it releases the lock while the
// request is in flight. Only the most recently issued fetch may update the
// records.
func (s *Synchronizer) fetchLocked(ctx context.Context) error {
	s.mounted = true
	s.generation++
	gen := s.generation
	q := catalog.ListQuery{
		Page:    s.page,
		PerPage: catalog.PageSize,
		Query:   parse.Search(s.search),
		Sort:    s.sort,
	}
	s.loading = true
	s.mu.Unlock()

	breweries, err := s.fetcher.List(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.Debug("discarding superseded listing response",
			zap.Uint64("generation", gen), zap.Uint64("latest", s.generation))
		return nil
	}
	s.loading = false

	if err != nil {
		s.logger.Warn("failed to fetch breweries",
			zap.Int("page", q.Page), zap.String("query", q.Query), zap.Error(err))
		s.alert = err.Error()
		return err
	}

	if breweries == nil {
		breweries = []model.Brewery{}
	}
	s.breweries = breweries
	s.hasNext = len(breweries) == catalog.PageSize
	return nil
}
