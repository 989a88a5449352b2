// Package handler provides the HTTP handlers for the coin feature.
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

// Searcher runs the domain's free-text market search.
type Searcher interface {
	Search(ctx context.Context, query string) ([]quote.SearchCandidate, error)
}

// CoinHandler handles HTTP requests for the coin widget.
type CoinHandler struct {
	snapshots SnapshotSource
	searcher  Searcher
	typeahead *debounce.Debouncer[[]quote.SearchCandidate]
	latest    *debounce.Latest[[]quote.SearchCandidate]
}

// NewCoinHandler creates a CoinHandler.
func NewCoinHandler(snapshots SnapshotSource, searcher Searcher, typeahead *debounce.Debouncer[[]quote.SearchCandidate], latest *debounce.Latest[[]quote.SearchCandidate]) *CoinHandler {
	return &CoinHandler{
		snapshots: snapshots,
		searcher:  searcher,
		typeahead: typeahead,
		latest:    latest,
	}
}

// Snapshot serves the last polled domain snapshot.
func (h *CoinHandler) Snapshot(c *gin.Context) {
	snap, err := h.snapshots.Current(c.Request.Context())
	if err != nil {
		slog.Warn("coin snapshot unavailable", "error", err)
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
func (h *CoinHandler) Search(c *gin.Context) {
	results, err := h.searcher.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		slog.Warn("coin search failed", "query", c.Query("q"), "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "search failed"})
		return
	}
	if results == nil {
		results = []quote.SearchCandidate{}
	}
	c.JSON(http.StatusOK, gin.H{"items": results})
}

// Keystroke feeds the typeahead debouncer.
func (h *CoinHandler) Keystroke(c *gin.Context) {
	h.typeahead.Keystroke(c.Query("q"))
	c.JSON(http.StatusAccepted, api.MessageResponse{Message: "ok"})
}

// TypeaheadResult serves the most recent delivered typeahead result.
func (h *CoinHandler) TypeaheadResult(c *gin.Context) {
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
