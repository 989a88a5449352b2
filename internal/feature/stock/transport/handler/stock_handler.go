// Package handler provides the HTTP handlers for the stock feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dashboard_backend/internal/api"
	"dashboard_backend/internal/shared/debounce"
	"dashboard_backend/internal/shared/poll"
	"dashboard_backend/internal/shared/quote"
)

// SnapshotSource serves the domain's latest polled snapshot.
type SnapshotSource interface {
	Current(ctx context.Context) (quote.DomainSnapshot, error)
}

// Searcher runs the domain's free-text instrument search.
type Searcher interface {
	Search(ctx context.Context, query string) ([]quote.SearchCandidate, error)
}

// StockHandler handles HTTP requests for the stock widget.
type StockHandler struct {
	snapshots SnapshotSource
	searcher  Searcher
	typeahead *debounce.Debouncer[[]quote.SearchCandidate]
	latest    *debounce.Latest[[]quote.SearchCandidate]
}

// NewStockHandler creates a StockHandler. The typeahead debouncer and
// its result store may be nil when the interactive path is not mounted.
func NewStockHandler(snapshots SnapshotSource, searcher Searcher, typeahead *debounce.Debouncer[[]quote.SearchCandidate], latest *debounce.Latest[[]quote.SearchCandidate]) *StockHandler {
	return &StockHandler{
		snapshots: snapshots,
		searcher:  searcher,
		typeahead: typeahead,
		latest:    latest,
	}
}

// Snapshot serves the last polled domain snapshot. 502 means the very
// first fetch failed and there is nothing cached yet; 503 means no
// fetch could run at all.
func (h *StockHandler) Snapshot(c *gin.Context) {
	snap, err := h.snapshots.Current(c.Request.Context())
	if err != nil {
		slog.Warn("stock snapshot unavailable", "error", err)
		if errors.Is(err, poll.ErrNoSnapshot) {
			c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: "snapshot not ready"})
			return
		}
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "upstream fetch failed"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Search serves the direct (non-debounced) search path.
func (h *StockHandler) Search(c *gin.Context) {
	results, err := h.searcher.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		slog.Warn("stock search failed", "query", c.Query("q"), "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "search failed"})
		return
	}
	if results == nil {
		results = []quote.SearchCandidate{}
	}
	c.JSON(http.StatusOK, gin.H{"items": results})
}

// Keystroke feeds the typeahead debouncer. The call returns
// immediately; the coalesced search result lands in the latest-result
// store once the delay elapses without further keystrokes.
func (h *StockHandler) Keystroke(c *gin.Context) {
	h.typeahead.Keystroke(c.Query("q"))
	c.JSON(http.StatusAccepted, api.MessageResponse{Message: "ok"})
}

// TypeaheadResult serves the most recent delivered typeahead result.
func (h *StockHandler) TypeaheadResult(c *gin.Context) {
	query, results, err := h.latest.Get()
	if err != nil {
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "search failed"})
		return
	}
	if results == nil {
		results = []quote.SearchCandidate{}
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "items": results})
}
