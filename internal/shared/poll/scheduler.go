// Package poll runs one periodic fetch loop per market domain. Each
// scheduler re-invokes its domain's orchestrator on a fixed cadence,
// keeps the last successful snapshot, and skips ticks that would overlap
// an in-flight fetch.
package poll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"dashboard_backend/internal/shared/quote"
)

// ErrNoSnapshot is returned when no fetch has succeeded yet and an
// on-demand fetch could not run.
var ErrNoSnapshot = errors.New("no snapshot available")

// FetchFunc is the domain orchestrator invocation the scheduler drives.
type FetchFunc func(ctx context.Context, watchlist []quote.WatchItem) (quote.DomainSnapshot, error)

// Scheduler polls one domain. On (re)configuration it triggers one
// immediate fetch and re-arms the periodic timer; at most one fetch is
// in flight at a time and overlapping timer ticks are skipped, never
// queued. A reconfiguration that lands while a fetch is in flight is not
// lost: the running cycle's result is discarded as superseded and one
// fetch for the new watch-list follows as soon as it completes. A failed
// cycle keeps the previous successful snapshot.
type Scheduler struct {
	domain   string
	interval time.Duration
	fetch    FetchFunc

	cron     *cron.Cron
	inFlight atomic.Bool

	mu        sync.Mutex
	entryID   cron.EntryID
	hasEntry  bool
	watchlist []quote.WatchItem
	last      *quote.DomainSnapshot
	gen       uint64 // bumped on every Reconfigure; stale results are dropped
	pending   bool   // a Reconfigure-triggered fetch is owed
}

// NewScheduler creates a stopped scheduler for one domain.
func NewScheduler(domain string, interval time.Duration, fetch FetchFunc) *Scheduler {
	s := &Scheduler{
		domain:   domain,
		interval: interval,
		fetch:    fetch,
		cron:     cron.New(),
	}
	s.cron.Start()
	return s
}

// Reconfigure replaces the watch-list, clears any previous timer,
// triggers one immediate fetch, and re-arms the periodic timer. An empty
// watch-list clears the timer and publishes an empty snapshot without
// fetching.
func (s *Scheduler) Reconfigure(watchlist []quote.WatchItem) {
	s.mu.Lock()

	if s.hasEntry {
		s.cron.Remove(s.entryID)
		s.hasEntry = false
	}

	s.watchlist = make([]quote.WatchItem, len(watchlist))
	copy(s.watchlist, watchlist)
	s.gen++

	if len(watchlist) == 0 {
		s.last = &quote.DomainSnapshot{Tickers: []quote.TickerSnapshot{}}
		s.pending = false
		s.mu.Unlock()
		slog.Info("polling cleared", "domain", s.domain)
		return
	}
	s.pending = true

	id, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), s.tick)
	if err != nil {
		// interval is a constant duration; AddFunc cannot fail on it
		s.mu.Unlock()
		slog.Error("failed to arm polling timer", "domain", s.domain, "error", err)
		return
	}
	s.entryID = id
	s.hasEntry = true
	s.mu.Unlock()

	slog.Info("polling configured", "domain", s.domain, "interval", s.interval, "items", len(watchlist))
	go s.tick()
}

// Stop clears the timer. Idempotent; an in-flight fetch is not aborted,
// only its successor ticks.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.hasEntry {
		s.cron.Remove(s.entryID)
		s.hasEntry = false
	}
	s.mu.Unlock()
	s.cron.Stop()
}

// tick runs polling cycles until no reconfiguration is owed. When the
// previous cycle is still running the call returns immediately; an owed
// Reconfigure fetch is picked up by the running tick instead.
func (s *Scheduler) tick() {
	if !s.inFlight.CompareAndSwap(false, true) {
		slog.Debug("tick skipped, fetch in flight", "domain", s.domain)
		return
	}
	defer s.inFlight.Store(false)

	for {
		s.mu.Lock()
		s.pending = false
		gen := s.gen
		watchlist := s.watchlist
		s.mu.Unlock()

		s.runCycle(gen, watchlist)

		s.mu.Lock()
		again := s.pending
		s.mu.Unlock()
		if !again {
			return
		}
	}
}

// runCycle performs one fetch and publishes the snapshot unless a
// Reconfigure superseded it while it was in flight.
func (s *Scheduler) runCycle(gen uint64, watchlist []quote.WatchItem) {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	snap, err := s.fetch(ctx, watchlist)
	if err != nil {
		// Fatal cycle: the previous successful snapshot stays visible
		slog.Warn("polling cycle failed", "domain", s.domain, "error", err)
		return
	}

	s.mu.Lock()
	if gen == s.gen {
		s.last = &snap
	}
	s.mu.Unlock()
}

// Current returns the last successful snapshot. When none exists yet it
// fetches once on demand; if that is impossible (a fetch is already in
// flight) it returns ErrNoSnapshot.
func (s *Scheduler) Current(ctx context.Context) (quote.DomainSnapshot, error) {
	s.mu.Lock()
	last := s.last
	gen := s.gen
	watchlist := s.watchlist
	s.mu.Unlock()

	if last != nil {
		return *last, nil
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return quote.DomainSnapshot{}, ErrNoSnapshot
	}
	defer s.inFlight.Store(false)

	snap, err := s.fetch(ctx, watchlist)
	if err != nil {
		return quote.DomainSnapshot{}, err
	}

	s.mu.Lock()
	if gen == s.gen {
		s.last = &snap
	}
	s.mu.Unlock()
	return snap, nil
}
