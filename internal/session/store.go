package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"brewery-catalog/internal/listing"
)

// Store keeps one list synchronizer per browser session in memory. Idle
// sessions expire after the configured TTL.
type Store struct {
	cache   *cache.Cache
	ttl     time.Duration
	fetcher listing.Fetcher
	logger  *zap.Logger
}

// NewStore creates a session store. A cleanupInterval of zero disables the
// background janitor.
func NewStore(fetcher listing.Fetcher, ttl, cleanupInterval time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		cache:   cache.New(ttl, cleanupInterval),
		ttl:     ttl,
		fetcher: fetcher,
		logger:  logger,
	}
	s.cache.OnEvicted(func(id string, _ interface{}) {
		s.logger.Debug("session expired", zap.String("session", id))
	})
	return s
}

// NewID returns a fresh random session identifier.
func NewID() string {
	return uuid.NewString()
}

// Get returns the synchronizer for id, creating it when the session is new or
// has expired. Every lookup extends the session's lifetime. The second return
// value reports whether the session was created by this call.
func (s *Store) Get(id string) (*listing.Synchronizer, bool) {
	if v, found := s.cache.Get(id); found {
		syncer := v.(*listing.Synchronizer)
		s.cache.Set(id, syncer, s.ttl)
		return syncer, false
	}

	syncer := listing.NewSynchronizer(s.fetcher, s.logger.With(zap.String("session", id)))
	// Add fails when a concurrent request created the session first.
	if err := s.cache.Add(id, syncer, s.ttl); err != nil {
		if v, found := s.cache.Get(id); found {
			return v.(*listing.Synchronizer), false
		}
		s.cache.Set(id, syncer, s.ttl)
	}
	return syncer, true
}

// Delete drops a session.
func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}
