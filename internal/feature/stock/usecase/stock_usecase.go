// Package usecase implements the aggregation orchestrator for the stock
// domain: market indices plus per-item quotes and charts, assembled in
// watch-list order.
package usecase

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"dashboard_backend/internal/shared/quote"
)

// indexNames are the fixed primary aggregate of the stock domain. Either
// quote failing aborts the whole cycle.
var indexNames = [...]string{"KOSPI", "KOSDAQ"}

// StockGateway abstracts the stock source adapter. Following Go
// convention the interface is defined by the consumer (usecase), not the
// provider (adapter).
type StockGateway interface {
	// FetchIndex fetches the current quote of a fixed market index.
	FetchIndex(ctx context.Context, name string) (quote.IndexSnapshot, error)
	// FetchQuotes fetches quotes for the given codes; failed codes are
	// omitted, never fatal.
	FetchQuotes(ctx context.Context, ids []string) ([]quote.TickerSnapshot, error)
	// FetchChart fetches daily closes oldest-first, empty on failure.
	FetchChart(ctx context.Context, id string) []float64
	// Search returns ranked candidates for a query.
	Search(ctx context.Context, query string) ([]quote.SearchCandidate, error)
}

// StockUsecase orchestrates concurrent index and per-item fetches.
type StockUsecase struct {
	gw StockGateway
}

// NewStockUsecase creates a new StockUsecase.
func NewStockUsecase(gw StockGateway) *StockUsecase {
	return &StockUsecase{gw: gw}
}

// FetchAll fetches the indices and one snapshot per watch item. The
// index calls and the per-item batch run concurrently; charts are filled
// in as a second concurrent phase once quote data is available. Output
// order always equals watch-list order regardless of completion order;
// items whose quote failed are omitted. An index failure fails the whole
// operation.
func (u *StockUsecase) FetchAll(ctx context.Context, watchlist []quote.WatchItem) (quote.DomainSnapshot, error) {
	g, gctx := errgroup.WithContext(ctx)

	indices := make([]quote.IndexSnapshot, len(indexNames))
	for i, name := range indexNames {
		i, name := i, name
		g.Go(func() error {
			idx, err := u.gw.FetchIndex(gctx, name)
			if err != nil {
				return fmt.Errorf("%w: %w", quote.ErrPrimaryAggregate, err)
			}
			indices[i] = idx
			return nil
		})
	}

	ids := make([]string, len(watchlist))
	for i, item := range watchlist {
		ids[i] = item.ID
	}

	var fetched []quote.TickerSnapshot
	g.Go(func() error {
		snaps, err := u.gw.FetchQuotes(gctx, ids)
		if err != nil {
			return fmt.Errorf("%w: %w", quote.ErrPrimaryAggregate, err)
		}
		fetched = snaps
		return nil
	})

	if err := g.Wait(); err != nil {
		return quote.DomainSnapshot{}, err
	}

	// Second phase: per-item charts, concurrently, merged by id. A chart
	// failure leaves the item with an empty chart.
	var wg sync.WaitGroup
	for i := range fetched {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fetched[i].Chart = u.gw.FetchChart(ctx, fetched[i].ID)
		}(i)
	}
	wg.Wait()

	// Re-key into watch-list order; completion order never leaks out.
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

	return quote.DomainSnapshot{Indices: indices, Tickers: tickers}, nil
}

// Search proxies the adapter search.
func (u *StockUsecase) Search(ctx context.Context, query string) ([]quote.SearchCandidate, error) {
	return u.gw.Search(ctx, query)
}
