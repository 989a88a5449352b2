// Package usecase implements the aggregation orchestrator for the coin
// domain.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"dashboard_backend/internal/shared/quote"
)

// CoinGateway abstracts the coin source adapter. Interface defined by
// the consumer.
type CoinGateway interface {
	// FetchQuotes fetches the whole watch-list in one batch call; its
	// failure is fatal for the cycle.
	FetchQuotes(ctx context.Context, ids []string, names map[string]string) ([]quote.TickerSnapshot, error)
	// FetchMarketNames returns the market code to display-name map.
	FetchMarketNames(ctx context.Context) (map[string]string, error)
	// FetchChart fetches daily closes oldest-first, empty on failure.
	FetchChart(ctx context.Context, id string) []float64
	// Search returns ranked candidates for a query.
	Search(ctx context.Context, query string) ([]quote.SearchCandidate, error)
}

// CoinUsecase orchestrates the batch ticker fetch and per-item charts.
// The market name map is fetched once and cached for the process
// lifetime; name resolution failures degrade to symbol names.
type CoinUsecase struct {
	gw CoinGateway

	mu    sync.Mutex
	names map[string]string
}

// NewCoinUsecase creates a new CoinUsecase.
func NewCoinUsecase(gw CoinGateway) *CoinUsecase {
	return &CoinUsecase{gw: gw}
}

// marketNames returns the cached display-name map, fetching it on first
// use. A fetch failure is recoverable: symbols stand in for names until
// the next attempt.
func (u *CoinUsecase) marketNames(ctx context.Context) map[string]string {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.names != nil {
		return u.names
	}
	names, err := u.gw.FetchMarketNames(ctx)
	if err != nil {
		slog.Warn("coin market names fetch failed", "error", err)
		return map[string]string{}
	}
	u.names = names
	return names
}

// FetchAll fetches one snapshot per watch item in watch-list order. The
// batch ticker call failing fails the operation atomically; individual
// chart failures degrade to an empty chart.
func (u *CoinUsecase) FetchAll(ctx context.Context, watchlist []quote.WatchItem) (quote.DomainSnapshot, error) {
	ids := make([]string, len(watchlist))
	for i, item := range watchlist {
		ids[i] = item.ID
	}

	fetched, err := u.gw.FetchQuotes(ctx, ids, u.marketNames(ctx))
	if err != nil {
		return quote.DomainSnapshot{}, fmt.Errorf("%w: %w", quote.ErrPrimaryAggregate, err)
	}

	var wg sync.WaitGroup
	for i := range fetched {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fetched[i].Chart = u.gw.FetchChart(ctx, fetched[i].ID)
		}(i)
	}
	wg.Wait()

	byID := make(map[string]quote.TickerSnapshot, len(fetched))
	for _, s := range fetched {
		byID[s.ID] = s
	}
	tickers := make([]quote.TickerSnapshot, 0, len(watchlist))
	for _, item := range watchlist {
		if s, ok := byID[item.ID]; ok {
			tickers = append(tickers, s)
		}
	}

	return quote.DomainSnapshot{Tickers: tickers}, nil
}

// Search proxies the adapter search.
func (u *CoinUsecase) Search(ctx context.Context, query string) ([]quote.SearchCandidate, error) {
	return u.gw.Search(ctx, query)
}
