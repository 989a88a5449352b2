package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard_backend/internal/shared/debounce"
	"dashboard_backend/internal/shared/poll"
	"dashboard_backend/internal/shared/quote"
)

// mockSnapshotSource is a mock implementation of SnapshotSource.
type mockSnapshotSource struct {
	CurrentFunc func(ctx context.Context) (quote.DomainSnapshot, error)
}

func (m *mockSnapshotSource) Current(ctx context.Context) (quote.DomainSnapshot, error) {
	if m.CurrentFunc != nil {
		return m.CurrentFunc(ctx)
	}
	return quote.DomainSnapshot{}, poll.ErrNoSnapshot
}

// mockSearcher is a mock implementation of Searcher.
type mockSearcher struct {
	SearchFunc func(ctx context.Context, query string) ([]quote.SearchCandidate, error)
}

func (m *mockSearcher) Search(ctx context.Context, query string) ([]quote.SearchCandidate, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return nil, nil
}

func get(t *testing.T, handler gin.HandlerFunc, path, target string) *httptest.ResponseRecorder {
	t.Helper()

	router := gin.New()
	router.GET(path, handler)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestStockHandler_Snapshot(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("serves the cached snapshot", func(t *testing.T) {
		snapshots := &mockSnapshotSource{
			CurrentFunc: func(ctx context.Context) (quote.DomainSnapshot, error) {
				return quote.DomainSnapshot{
					Indices: []quote.IndexSnapshot{{Name: "KOSPI", Price: "2,634.15"}},
					Tickers: []quote.TickerSnapshot{{
						ID:          "005930",
						DisplayName: "삼성전자",
						Price:       "71,200",
						ChangeRatio: decimal.RequireFromString("0.42"),
						Status:      quote.StatusRising,
					}},
				}, nil
			},
		}
		h := NewStockHandler(snapshots, &mockSearcher{}, nil, nil)

		w := get(t, h.Snapshot, "/stocks", "/stocks")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "005930")
		assert.Contains(t, w.Body.String(), "KOSPI")
	})

	t.Run("503 before the first fetch could run", func(t *testing.T) {
		h := NewStockHandler(&mockSnapshotSource{}, &mockSearcher{}, nil, nil)

		w := get(t, h.Snapshot, "/stocks", "/stocks")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("502 when the upstream fetch failed with nothing cached", func(t *testing.T) {
		snapshots := &mockSnapshotSource{
			CurrentFunc: func(ctx context.Context) (quote.DomainSnapshot, error) {
				return quote.DomainSnapshot{}, fmt.Errorf("%w: index fetch", quote.ErrPrimaryAggregate)
			},
		}
		h := NewStockHandler(snapshots, &mockSearcher{}, nil, nil)

		w := get(t, h.Snapshot, "/stocks", "/stocks")

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestStockHandler_Search(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("passes the query through", func(t *testing.T) {
		searcher := &mockSearcher{
			SearchFunc: func(ctx context.Context, query string) ([]quote.SearchCandidate, error) {
				assert.Equal(t, "삼성", query)
				return []quote.SearchCandidate{{ID: "005930", DisplayName: "삼성전자", Category: "stock"}}, nil
			},
		}
		h := NewStockHandler(&mockSnapshotSource{}, searcher, nil, nil)

		w := get(t, h.Search, "/stocks/search", "/stocks/search?q=%EC%82%BC%EC%84%B1")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "005930")
	})

	t.Run("empty result is an empty array, not null", func(t *testing.T) {
		h := NewStockHandler(&mockSnapshotSource{}, &mockSearcher{}, nil, nil)

		w := get(t, h.Search, "/stocks/search", "/stocks/search?q=zz")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"items":[]}`, w.Body.String())
	})

	t.Run("upstream failure maps to 502", func(t *testing.T) {
		searcher := &mockSearcher{
			SearchFunc: func(ctx context.Context, query string) ([]quote.SearchCandidate, error) {
				return nil, errors.New("gateway timeout")
			},
		}
		h := NewStockHandler(&mockSnapshotSource{}, searcher, nil, nil)

		w := get(t, h.Search, "/stocks/search", "/stocks/search?q=abc")

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestStockHandler_Typeahead(t *testing.T) {
	gin.SetMode(gin.TestMode)

	searcher := &mockSearcher{
		SearchFunc: func(ctx context.Context, query string) ([]quote.SearchCandidate, error) {
			return []quote.SearchCandidate{{ID: "005930", DisplayName: "삼성전자", Category: "stock"}}, nil
		},
	}
	latest := &debounce.Latest[[]quote.SearchCandidate]{}
	deb := debounce.New(context.Background(), 5*time.Millisecond, 1, searcher.Search, latest.Deliver)
	h := NewStockHandler(&mockSnapshotSource{}, searcher, deb, latest)

	w := get(t, h.Keystroke, "/stocks/search/keystroke", "/stocks/search/keystroke?q=%EC%82%BC%EC%84%B1")
	assert.Equal(t, http.StatusAccepted, w.Code)

	// The coalesced search resolves after the debounce delay.
	require.Eventually(t, func() bool {
		_, results, err := latest.Get()
		return err == nil && len(results) == 1
	}, time.Second, 2*time.Millisecond)

	w = get(t, h.TypeaheadResult, "/stocks/search/latest", "/stocks/search/latest")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "005930")
	assert.Contains(t, w.Body.String(), "삼성")
}
