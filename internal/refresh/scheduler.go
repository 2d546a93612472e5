// Package refresh drives the poll loop: one fetch at a time, a tick per
// interval, and an event for every tick and every committed update.
package refresh

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/pollboard/internal/logger"
	"github.com/rileyhilliard/pollboard/internal/snapshot"
)

// DefaultInterval is used when New is given a non-positive interval.
const DefaultInterval = 10 * time.Second

// FetchFunc performs one bounded fetch.
type FetchFunc func(ctx context.Context) ([]snapshot.Row, error)

// State is what the loop is doing right now.
type State int32

const (
	StateIdle State = iota
	StateWaiting
	StateFetching
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaiting:
		return "waiting"
	case StateFetching:
		return "fetching"
	default:
		return "unknown"
	}
}

// EventKind distinguishes re-render ticks from data updates.
type EventKind int

const (
	// EventTick fires once per interval so relative times can be redrawn.
	EventTick EventKind = iota
	// EventUpdated fires after a fetch outcome has been committed to the store.
	EventUpdated
)

func (k EventKind) String() string {
	if k == EventUpdated {
		return "updated"
	}
	return "tick"
}

// Event is delivered to listeners from the loop goroutine.
type Event struct {
	Kind     EventKind
	Tick     uint64
	Snapshot snapshot.Snapshot
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the scheduler's logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Scheduler) {
		s.log = log
	}
}

// WithListener registers fn for every Event. Listeners run on the loop
// goroutine and must not block.
func WithListener(fn func(Event)) Option {
	return func(s *Scheduler) {
		s.listeners = append(s.listeners, fn)
	}
}

// Scheduler owns the refresh loop for one store.
type Scheduler struct {
	fetch    FetchFunc
	store    *snapshot.Store
	interval time.Duration
	log      logger.Logger

	mu        sync.RWMutex
	listeners []func(Event)

	trigger chan struct{}
	running atomic.Bool
	state   atomic.Int32
	ticks   atomic.Uint64
	fetches atomic.Uint64
}

// New creates a scheduler that commits fetch results into store.
func New(fetch FetchFunc, store *snapshot.Store, interval time.Duration, opts ...Option) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Scheduler{
		fetch:    fetch,
		store:    store,
		interval: interval,
		log:      logger.Noop(),
		trigger:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe adds a listener after construction.
func (s *Scheduler) Subscribe(fn func(Event)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Interval returns the tick period.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Ticks returns how many ticks have fired.
func (s *Scheduler) Ticks() uint64 { return s.ticks.Load() }

// Fetches returns how many fetches have been started.
func (s *Scheduler) Fetches() uint64 { return s.fetches.Load() }

// State returns the loop's current state.
func (s *Scheduler) State() State { return State(s.state.Load()) }

// Trigger asks for a fetch outside the tick schedule. If a fetch is in
// flight the request is folded into the one that follows it.
func (s *Scheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

type result struct {
	rows []snapshot.Row
	err  error
}

// Run fetches immediately, then once per interval, until ctx is done.
// Ticks that land while a fetch is in flight collapse into a single fetch
// started as soon as the current one completes. Run waits for the
// in-flight fetch before returning; its result is discarded.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("refresh loop is already running")
	}
	defer s.running.Store(false)

	done := make(chan result, 1)
	inFlight := false
	pending := false

	start := func() {
		inFlight = true
		n := s.fetches.Add(1)
		s.state.Store(int32(StateFetching))
		s.log.Debug("fetch #%d started", n)
		go func() {
			rows, err := s.fetch(ctx)
			done <- result{rows: rows, err: err}
		}()
	}

	request := func() {
		if ctx.Err() != nil {
			return
		}
		if inFlight {
			pending = true
			return
		}
		start()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	start()

	for {
		select {
		case <-ctx.Done():
			if inFlight {
				<-done
			}
			s.state.Store(int32(StateIdle))
			s.log.Debug("refresh loop stopped after %d ticks", s.ticks.Load())
			return nil

		case <-ticker.C:
			if ctx.Err() != nil {
				// A tick raced with cancellation; the next iteration returns.
				continue
			}
			n := s.ticks.Add(1)
			s.emit(Event{Kind: EventTick, Tick: n, Snapshot: s.store.Read()})
			request()

		case <-s.trigger:
			request()

		case r := <-done:
			inFlight = false
			if ctx.Err() != nil {
				// Shutting down; the next iteration returns.
				continue
			}
			s.commit(r)
			if pending && ctx.Err() == nil {
				pending = false
				start()
			} else {
				s.state.Store(int32(StateWaiting))
			}
		}
	}
}

func (s *Scheduler) commit(r result) {
	prev := s.store.Read()
	snap := s.store.Update(r.rows, r.err)

	switch {
	case r.err != nil && prev.Stale:
		s.log.Debug("fetch still failing: %v", r.err)
	case r.err != nil:
		s.log.Warn("fetch failed, keeping %d stale rows: %v", len(snap.Rows), r.err)
	case prev.Stale:
		s.log.Info("fetch recovered with %d rows", len(snap.Rows))
	default:
		s.log.Debug("committed generation %d with %d rows", snap.Generation, len(snap.Rows))
	}

	s.emit(Event{Kind: EventUpdated, Tick: s.ticks.Load(), Snapshot: snap})
}

func (s *Scheduler) emit(ev Event) {
	s.mu.RLock()
	listeners := s.listeners
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(ev)
	}
}
