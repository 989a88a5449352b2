// Package debounce coalesces rapid keystrokes into a single delayed
// search call per domain. The state machine is Idle -> Pending (on
// keystroke) -> Searching (after the delay elapses with no further
// keystrokes) -> Idle (on result arrival). Every keystroke restarts the
// delay and invalidates anything pending or in flight: later keystrokes
// always win, regardless of network completion order.
package debounce

import (
	"context"
	"sync"
	"time"
)

// SearchFunc issues the domain's search call once the delay elapses.
type SearchFunc[T any] func(ctx context.Context, query string) (T, error)

// DeliverFunc receives a non-stale result. It is never called for a
// request whose keystroke has been superseded.
type DeliverFunc[T any] func(query string, result T, err error)

// Debouncer drives one domain's typeahead. Safe for concurrent use.
type Debouncer[T any] struct {
	ctx     context.Context
	delay   time.Duration
	minLen  int
	search  SearchFunc[T]
	deliver DeliverFunc[T]

	mu    sync.Mutex
	timer *time.Timer
	token uint64
}

// New creates a Debouncer. Queries shorter than minLen (in runes) skip
// the delay and deliver an empty result immediately, with no search
// call.
func New[T any](ctx context.Context, delay time.Duration, minLen int, search SearchFunc[T], deliver DeliverFunc[T]) *Debouncer[T] {
	return &Debouncer[T]{
		ctx:     ctx,
		delay:   delay,
		minLen:  minLen,
		search:  search,
		deliver: deliver,
	}
}

// Keystroke registers a new query value. It restarts the pending delay
// and invalidates any previously pending transition and any in-flight
// search.
func (d *Debouncer[T]) Keystroke(query string) {
	d.mu.Lock()
	d.token++
	tok := d.token
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if len([]rune(query)) < d.minLen {
		d.mu.Unlock()
		// Straight to Idle: empty result, no delay, no network call
		var empty T
		d.deliver(query, empty, nil)
		return
	}

	d.timer = time.AfterFunc(d.delay, func() { d.fire(tok, query) })
	d.mu.Unlock()
}

// Cancel invalidates anything pending or in flight without delivering.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	d.token++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
}

// fire transitions Pending -> Searching for token tok. The result is
// delivered only if tok is still the latest issued token when the call
// resolves.
func (d *Debouncer[T]) fire(tok uint64, query string) {
	d.mu.Lock()
	current := tok == d.token
	d.mu.Unlock()
	if !current {
		return
	}

	result, err := d.search(d.ctx, query)

	d.mu.Lock()
	current = tok == d.token
	d.mu.Unlock()
	if !current {
		// Superseded while in flight: discard
		return
	}
	d.deliver(query, result, err)
}
