// Package usecase implements the settings synchronization layer: the
// single source of truth for the user's watch-lists and weather
// location, reconciled between the local cache and the remote profile
// store at session boundaries.
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"dashboard_backend/internal/shared/quote"
)

// Seeds applied when a slot was never configured on this device.
var (
	DefaultStocks   = []string{"005930", "000660", "035420"}
	DefaultCoins    = []string{"KRW-BTC", "KRW-ETH", "KRW-XRP", "KRW-SOL"}
	DefaultLocation = quote.Location{Lat: 37.5665, Lon: 126.9780, Name: "서울"}
)

// defaultRemoteTimeout bounds the detached best-effort remote upserts.
const defaultRemoteTimeout = 5 * time.Second

// ChangeFunc is notified after a watch-list changes, with the new list
// in display order. Used to re-arm the domain's polling scheduler.
type ChangeFunc func(domain ListDomain, watchlist []quote.WatchItem)

// SyncManager owns the in-memory watch-lists and the active weather
// location. It is the sole writer of both the local cache and the
// remote store; polling schedulers only ever consume the in-memory
// snapshot through WatchItems.
type SyncManager struct {
	remote RemoteStore
	cache  LocalCache

	remoteTimeout time.Duration

	mu       sync.Mutex
	stocks   []string
	coins    []string
	location quote.Location
	userID   uint // 0 means no active session
	onChange ChangeFunc

	// tracks detached remote writes so Close can drain them
	writes sync.WaitGroup
}

// NewSyncManager creates a manager with no active session. Call
// Bootstrap before serving requests.
func NewSyncManager(remote RemoteStore, cache LocalCache) *SyncManager {
	return &SyncManager{
		remote:        remote,
		cache:         cache,
		remoteTimeout: defaultRemoteTimeout,
	}
}

// OnChange registers the watch-list change hook. Must be called before
// Bootstrap.
func (m *SyncManager) OnChange(fn ChangeFunc) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// Bootstrap loads the watch-lists and location from the local cache,
// seeding defaults for slots that were never written. The remote store
// is not consulted until a session starts.
func (m *SyncManager) Bootstrap(ctx context.Context) error {
	stocks, err := m.loadSlot(ctx, DomainStocks, DefaultStocks)
	if err != nil {
		return err
	}
	coins, err := m.loadSlot(ctx, DomainCoins, DefaultCoins)
	if err != nil {
		return err
	}

	loc, err := m.cache.GetLocation(ctx)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			return err
		}
		loc = &DefaultLocation
	}

	m.mu.Lock()
	m.stocks = stocks
	m.coins = coins
	m.location = *loc
	m.mu.Unlock()

	m.notify(DomainStocks, stocks)
	m.notify(DomainCoins, coins)
	return nil
}

// loadSlot reads one watch-list slot, writing the seed back on a miss
// so the next start is stable.
func (m *SyncManager) loadSlot(ctx context.Context, domain ListDomain, seed []string) ([]string, error) {
	list, err := m.cache.GetList(ctx, domain)
	if err == nil {
		return list, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		return nil, err
	}
	list = slices.Clone(seed)
	if err := m.cache.SetList(ctx, domain, list); err != nil {
		return nil, err
	}
	return list, nil
}

// OnLogin reconciles both watch-lists against the remote store and
// marks the session active. Policy per list: a present, non-empty
// remote list is authoritative and overwrites memory and the local
// cache; an absent or empty remote list never erases local state —
// instead a non-empty local list is pushed to the remote once
// (migration) and remains the adopted value.
func (m *SyncManager) OnLogin(ctx context.Context, userID uint) error {
	settings, err := m.remote.Get(ctx, userID)
	if err != nil && !errors.Is(err, ErrSettingsNotFound) {
		return err
	}

	var remoteStocks, remoteCoins []string
	if settings != nil {
		remoteStocks = settings.Stocks
		remoteCoins = settings.Coins
	}

	m.mu.Lock()
	m.userID = userID
	localStocks := slices.Clone(m.stocks)
	localCoins := slices.Clone(m.coins)
	m.mu.Unlock()

	stocks, err := m.reconcile(ctx, DomainStocks, userID, remoteStocks, localStocks)
	if err != nil {
		return err
	}
	coins, err := m.reconcile(ctx, DomainCoins, userID, remoteCoins, localCoins)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.stocks = stocks
	m.coins = coins
	m.mu.Unlock()

	m.notify(DomainStocks, stocks)
	m.notify(DomainCoins, coins)
	slog.Info("settings reconciled", "userID", userID,
		"stocks", len(stocks), "coins", len(coins))
	return nil
}

// reconcile applies the merge policy for one list and returns the
// adopted value.
func (m *SyncManager) reconcile(ctx context.Context, domain ListDomain, userID uint, remote, local []string) ([]string, error) {
	if len(remote) > 0 {
		if err := m.cache.SetList(ctx, domain, remote); err != nil {
			return nil, err
		}
		return slices.Clone(remote), nil
	}
	// Remote absent or empty: keep local, and migrate it upward once
	// when there is something to migrate.
	if len(local) > 0 {
		if err := m.upsertRemote(ctx, domain, userID, local); err != nil {
			slog.Warn("settings migration failed", "domain", domain, "error", err)
		}
	}
	return local, nil
}

// OnLogout ends the session. Watch-lists keep their current in-memory
// value, which already matches the local cache; the remote store is no
// longer consulted or written.
func (m *SyncManager) OnLogout() {
	m.mu.Lock()
	m.userID = 0
	m.mu.Unlock()
}

// WatchItems returns the current watch-list for a domain as watch
// items in display order. Display names are resolved downstream by the
// providers.
func (m *SyncManager) WatchItems(domain ListDomain) []quote.WatchItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return toWatchItems(m.listLocked(domain))
}

// AddItem appends a symbol to a watch-list. Memory and the local cache
// are updated synchronously; with an active session a detached
// best-effort upsert is issued to the remote store, and its failure is
// logged and dropped.
func (m *SyncManager) AddItem(ctx context.Context, domain ListDomain, id string) ([]quote.WatchItem, error) {
	return m.mutate(ctx, domain, func(list []string) ([]string, error) {
		if slices.Contains(list, id) {
			return nil, ErrDuplicateItem
		}
		return append(list, id), nil
	})
}

// RemoveItem removes a symbol from a watch-list, with the same write
// propagation as AddItem.
func (m *SyncManager) RemoveItem(ctx context.Context, domain ListDomain, id string) ([]quote.WatchItem, error) {
	return m.mutate(ctx, domain, func(list []string) ([]string, error) {
		idx := slices.Index(list, id)
		if idx < 0 {
			return nil, ErrItemNotFound
		}
		return slices.Delete(list, idx, idx+1), nil
	})
}

func (m *SyncManager) mutate(ctx context.Context, domain ListDomain, apply func([]string) ([]string, error)) ([]quote.WatchItem, error) {
	m.mu.Lock()
	next, err := apply(slices.Clone(m.listLocked(domain)))
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}

	// Cache first: memory must not adopt a list the local cache rejected,
	// or the two diverge until the next bootstrap.
	if err := m.cache.SetList(ctx, domain, next); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	m.setListLocked(domain, next)
	userID := m.userID
	m.mu.Unlock()

	if userID != 0 {
		m.writes.Add(1)
		go func() {
			defer m.writes.Done()
			ctx, cancel := context.WithTimeout(context.Background(), m.remoteTimeout)
			defer cancel()
			if err := m.upsertRemote(ctx, domain, userID, next); err != nil {
				slog.Warn("remote settings write dropped", "domain", domain, "error", err)
			}
		}()
	}

	m.notify(domain, next)
	return toWatchItems(next), nil
}

// Location returns the active weather location.
func (m *SyncManager) Location() quote.Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.location
}

// SetLocation updates the active weather location in memory and the
// local cache. Location is a device preference and is never pushed to
// the remote store.
func (m *SyncManager) SetLocation(ctx context.Context, loc quote.Location) error {
	if err := m.cache.SetLocation(ctx, loc); err != nil {
		return err
	}
	m.mu.Lock()
	m.location = loc
	m.mu.Unlock()
	return nil
}

// Close waits for detached remote writes to finish. Intended for
// shutdown and tests.
func (m *SyncManager) Close() {
	m.writes.Wait()
}

func (m *SyncManager) upsertRemote(ctx context.Context, domain ListDomain, userID uint, list []string) error {
	switch domain {
	case DomainCoins:
		return m.remote.UpsertCoins(ctx, userID, list)
	default:
		return m.remote.UpsertStocks(ctx, userID, list)
	}
}

func (m *SyncManager) listLocked(domain ListDomain) []string {
	if domain == DomainCoins {
		return m.coins
	}
	return m.stocks
}

func (m *SyncManager) setListLocked(domain ListDomain, list []string) {
	if domain == DomainCoins {
		m.coins = list
	} else {
		m.stocks = list
	}
}

func (m *SyncManager) notify(domain ListDomain, list []string) {
	m.mu.Lock()
	fn := m.onChange
	m.mu.Unlock()
	if fn != nil {
		fn(domain, toWatchItems(list))
	}
}

func toWatchItems(ids []string) []quote.WatchItem {
	items := make([]quote.WatchItem, len(ids))
	for i, id := range ids {
		items[i] = quote.WatchItem{ID: id}
	}
	return items
}
