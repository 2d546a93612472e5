// Package snapshot holds the dashboard's only shared state: the rows from
// the most recent successful fetch plus freshness metadata.
//
// A Store has one writer (the refresh loop's completion handler) and any
// number of readers (renderers). Writers are serialized; readers load an
// immutable Snapshot through an atomic pointer and never block.
package snapshot

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot is a committed view of the store. Rows and Columns are shared
// between readers and must be treated as read-only.
type Snapshot struct {
	Rows    []Row
	Columns []string

	// FetchedAt is when Rows were fetched. Zero until the first success.
	FetchedAt time.Time
	// LastAttempt is when the most recent fetch (success or failure) finished.
	LastAttempt time.Time

	Stale     bool
	LastError string

	// Generation increments on every committed update.
	Generation uint64
}

// Empty reports whether no successful fetch has been committed yet.
func (s Snapshot) Empty() bool {
	return s.FetchedAt.IsZero()
}

// Age returns how old the data is relative to now. Zero when empty.
func (s Snapshot) Age(now time.Time) time.Duration {
	if s.FetchedAt.IsZero() {
		return 0
	}
	age := now.Sub(s.FetchedAt)
	if age < 0 {
		return 0
	}
	return age
}

// Store owns the current Snapshot.
type Store struct {
	mu      sync.Mutex // serializes writers
	current atomic.Pointer[Snapshot]
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used to stamp updates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(&Snapshot{})
	return s
}

// Read returns the latest committed snapshot.
func (s *Store) Read() Snapshot {
	return *s.current.Load()
}

// Update commits the outcome of one fetch and returns the new snapshot.
//
// On success the rows are replaced, staleness and the last error are
// cleared. On failure the previous rows and FetchedAt are kept, the
// snapshot is marked stale and LastError records err.
func (s *Store) Update(rows []Row, err error) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.current.Load()
	now := s.now()

	next := &Snapshot{
		Rows:        prev.Rows,
		Columns:     prev.Columns,
		FetchedAt:   prev.FetchedAt,
		LastAttempt: now,
		Generation:  prev.Generation + 1,
	}

	if err != nil {
		next.Stale = true
		next.LastError = err.Error()
	} else {
		next.Rows = clone(rows)
		if next.Rows == nil {
			next.Rows = []Row{}
		}
		next.Columns = unionColumns(next.Rows)
		next.FetchedAt = now
	}

	s.current.Store(next)
	return *next
}
