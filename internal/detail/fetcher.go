package detail

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"brewery-catalog/internal/catalog"
	"brewery-catalog/internal/model"
)

// Getter is the part of the catalog client the detail view needs.
type Getter interface {
	Get(ctx context.Context, id string) (*model.Brewery, error)
}

// State is what the detail view renders.
type State struct {
	ID       string
	Brewery  *model.Brewery
	NotFound bool
	Loading  bool
	Alert    string
}

// Fetcher loads one brewery, once per identifier.
type Fetcher struct {
	getter Getter
	logger *zap.Logger

	mu      sync.Mutex
	id      string
	started bool
	state   State
}

// NewFetcher creates a detail fetcher.
func NewFetcher(getter Getter, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{getter: getter, logger: logger}
}

// Load fetches the brewery for id unless it was already requested. ErrNotFound
// ends up as NotFound; other failures raise the alert. Loading is cleared on
// every path. When a newer id was loaded while this one was in flight, the
// result is dropped and the newer id's state is returned.
func (f *Fetcher) Load(ctx context.Context, id string) (State, error) {
	f.mu.Lock()
	if f.started && f.id == id {
		st := f.state
		f.mu.Unlock()
		return st, nil
	}
	f.id = id
	f.started = true
	f.state = State{ID: id, Loading: true}
	f.mu.Unlock()

	b, err := f.getter.Get(ctx, id)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.id != id {
		return f.state, nil
	}

	f.state.Loading = false
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		f.state.NotFound = true
		err = nil
	case err != nil:
		f.logger.Warn("failed to fetch brewery", zap.String("id", id), zap.Error(err))
		f.state.Alert = err.Error()
	case b == nil:
		f.state.NotFound = true
	default:
		f.state.Brewery = b
	}
	return f.state, err
}

// Snapshot returns the current state.
func (f *Fetcher) Snapshot() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// DismissAlert clears a pending alert.
func (f *Fetcher) DismissAlert() {
	f.mu.Lock()
	f.state.Alert = ""
	f.mu.Unlock()
}
