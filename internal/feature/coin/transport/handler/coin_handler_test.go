package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard_backend/internal/shared/poll"
	"dashboard_backend/internal/shared/quote"
)

type mockSnapshotSource struct {
	CurrentFunc func(ctx context.Context) (quote.DomainSnapshot, error)
}

func (m *mockSnapshotSource) Current(ctx context.Context) (quote.DomainSnapshot, error) {
	if m.CurrentFunc != nil {
		return m.CurrentFunc(ctx)
	}
	return quote.DomainSnapshot{}, poll.ErrNoSnapshot
}

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

func TestCoinHandler_Snapshot(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("serves the cached snapshot", func(t *testing.T) {
		snapshots := &mockSnapshotSource{
			CurrentFunc: func(ctx context.Context) (quote.DomainSnapshot, error) {
				return quote.DomainSnapshot{
					Tickers: []quote.TickerSnapshot{{
						ID:          "KRW-BTC",
						DisplayName: "비트코인",
						Price:       "93,215,000",
						ChangeRatio: decimal.RequireFromString("1.31"),
						Status:      quote.StatusRising,
					}},
				}, nil
			},
		}
		h := NewCoinHandler(snapshots, &mockSearcher{}, nil, nil)

		w := get(t, h.Snapshot, "/coins", "/coins")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "KRW-BTC")
	})

	t.Run("503 before the first fetch could run", func(t *testing.T) {
		h := NewCoinHandler(&mockSnapshotSource{}, &mockSearcher{}, nil, nil)

		w := get(t, h.Snapshot, "/coins", "/coins")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("502 when the batch fetch failed with nothing cached", func(t *testing.T) {
		snapshots := &mockSnapshotSource{
			CurrentFunc: func(ctx context.Context) (quote.DomainSnapshot, error) {
				return quote.DomainSnapshot{}, fmt.Errorf("%w: ticker batch", quote.ErrPrimaryAggregate)
			},
		}
		h := NewCoinHandler(snapshots, &mockSearcher{}, nil, nil)

		w := get(t, h.Snapshot, "/coins", "/coins")

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestCoinHandler_Search(t *testing.T) {
	gin.SetMode(gin.TestMode)

	searcher := &mockSearcher{
		SearchFunc: func(ctx context.Context, query string) ([]quote.SearchCandidate, error) {
			assert.Equal(t, "비트", query)
			return []quote.SearchCandidate{{ID: "KRW-BTC", DisplayName: "비트코인", Category: "coin"}}, nil
		},
	}
	h := NewCoinHandler(&mockSnapshotSource{}, searcher, nil, nil)

	w := get(t, h.Search, "/coins/search", "/coins/search?q=%EB%B9%84%ED%8A%B8")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "KRW-BTC")
}
