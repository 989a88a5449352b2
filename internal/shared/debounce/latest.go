package debounce

import "sync"

// Latest stores the most recent delivered result for one domain's
// typeahead, so the transport layer can serve it independently of the
// keystroke that produced it.
type Latest[T any] struct {
	mu     sync.RWMutex
	query  string
	result T
	err    error
}

// Deliver stores a result. Shaped to be used directly as a DeliverFunc.
func (l *Latest[T]) Deliver(query string, result T, err error) {
	l.mu.Lock()
	l.query = query
	l.result = result
	l.err = err
	l.mu.Unlock()
}

// Get returns the most recently delivered query and result.
func (l *Latest[T]) Get() (string, T, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.query, l.result, l.err
}
