// Package lexicon maintains the term → spoken-form table used to rewrite
// script text before synthesis, and applies it to text.
package lexicon

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"
)

// Term maps a written token or phrase to how it should be spoken.
type Term struct {
	Term   string
	Spoken string
}

// Snapshot is an immutable view of the lexicon at one fetch. It is replaced
// wholesale on refresh, never mutated, so concurrent pipelines can hold a
// reference for the duration of a run.
type Snapshot struct {
	Terms     []Term
	FetchedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the snapshot's TTL has elapsed at the given time.
func (s *Snapshot) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// FetchFunc retrieves the current term set from the external source.
type FetchFunc func(ctx context.Context) ([]Term, error)

// Store holds the current lexicon snapshot with single-flight refresh.
// The clock and fetch function are injected so staleness and refresh
// behavior are testable without real time or network.
type Store struct {
	fetch FetchFunc
	ttl   time.Duration
	clock func() time.Time

	mu       sync.RWMutex
	snapshot *Snapshot

	group singleflight.Group
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the store's time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// NewStore creates a lexicon store. The fetch function is called lazily on
// the first Get and again whenever the TTL has elapsed.
func NewStore(fetch FetchFunc, ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		fetch: fetch,
		ttl:   ttl,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the current snapshot, refreshing first if none exists or the
// TTL has elapsed. When a refresh fails but a previous snapshot is held,
// the stale snapshot is returned so callers keep working until the source
// recovers; the error is surfaced only when there is nothing to serve.
func (s *Store) Get(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()

	if snap != nil && !snap.Expired(s.clock()) {
		return snap, nil
	}

	fresh, err := s.Refresh(ctx)
	if err != nil {
		if snap != nil {
			log.Warn("lexicon refresh failed, serving stale snapshot",
				"error", err, "fetched_at", snap.FetchedAt)
			return snap, nil
		}
		return nil, err
	}
	return fresh, nil
}

// Refresh unconditionally fetches a new term set and replaces the stored
// snapshot. Concurrent callers share a single in-flight fetch. On failure
// the previous snapshot is left untouched.
func (s *Store) Refresh(ctx context.Context) (*Snapshot, error) {
	// The fetch is shared by every caller of the same flight; it must not
	// die with whichever caller happened to start it.
	fetchCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do("refresh", func() (interface{}, error) {
		terms, err := s.fetch(fetchCtx)
		if err != nil {
			return nil, fmt.Errorf("lexicon fetch: %w", err)
		}

		now := s.clock()
		snap := &Snapshot{
			Terms:     terms,
			FetchedAt: now,
			ExpiresAt: now.Add(s.ttl),
		}

		s.mu.Lock()
		s.snapshot = snap
		s.mu.Unlock()

		log.Debug("lexicon refreshed", "terms", len(terms), "expires_at", snap.ExpiresAt)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Invalidate marks the current snapshot as expired so the next Get
// refreshes. Used by the file watcher when the source changes on disk.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot != nil {
		s.snapshot = &Snapshot{
			Terms:     s.snapshot.Terms,
			FetchedAt: s.snapshot.FetchedAt,
			ExpiresAt: s.clock(),
		}
	}
}

// Current returns the held snapshot without triggering a refresh, or nil.
func (s *Store) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}
