// Package handler provides the HTTP handlers for watch-list and
// location mutations.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dashboard_backend/internal/api"
	"dashboard_backend/internal/feature/settings/usecase"
	"dashboard_backend/internal/shared/quote"
)

// SettingsManager defines the mutations the handler needs from the
// sync manager.
type SettingsManager interface {
	AddItem(ctx context.Context, domain usecase.ListDomain, id string) ([]quote.WatchItem, error)
	RemoveItem(ctx context.Context, domain usecase.ListDomain, id string) ([]quote.WatchItem, error)
	SetLocation(ctx context.Context, loc quote.Location) error
}

// addItemReq is the request body for watch-list additions.
type addItemReq struct {
	ID string `json:"id" binding:"required"`
}

// locationReq is the request body for location updates.
type locationReq struct {
	Lat  float64 `json:"lat" binding:"required"`
	Lon  float64 `json:"lon" binding:"required"`
	Name string  `json:"name" binding:"required"`
}

// SettingsHandler handles HTTP requests for user settings mutations.
type SettingsHandler struct {
	settings SettingsManager
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(settings SettingsManager) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// AddItem appends a symbol to the :domain watch-list.
func (h *SettingsHandler) AddItem(c *gin.Context) {
	domain, err := usecase.ParseListDomain(c.Param("domain"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "unknown watch-list domain"})
		return
	}
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	items, err := h.settings.AddItem(c.Request.Context(), domain, req.ID)
	if err != nil {
		if errors.Is(err, usecase.ErrDuplicateItem) {
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "already on watch-list"})
			return
		}
		slog.Error("watch-list add failed", "domain", domain, "id", req.ID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// RemoveItem removes a symbol from the :domain watch-list.
func (h *SettingsHandler) RemoveItem(c *gin.Context) {
	domain, err := usecase.ParseListDomain(c.Param("domain"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "unknown watch-list domain"})
		return
	}

	items, err := h.settings.RemoveItem(c.Request.Context(), domain, c.Param("id"))
	if err != nil {
		if errors.Is(err, usecase.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "not on watch-list"})
			return
		}
		slog.Error("watch-list remove failed", "domain", domain, "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// SetLocation replaces the active weather location.
func (h *SettingsHandler) SetLocation(c *gin.Context) {
	var req locationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	loc := quote.Location{Lat: req.Lat, Lon: req.Lon, Name: req.Name}
	if err := h.settings.SetLocation(c.Request.Context(), loc); err != nil {
		slog.Error("location update failed", "name", req.Name, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "update failed"})
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "ok"})
}
