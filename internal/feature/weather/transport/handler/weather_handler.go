// Package handler provides the HTTP handlers for the weather feature.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dashboard_backend/internal/api"
	"dashboard_backend/internal/feature/weather/domain/entity"
	"dashboard_backend/internal/shared/debounce"
	"dashboard_backend/internal/shared/quote"
)

// WeatherUsecase defines the weather operations the handler needs.
type WeatherUsecase interface {
	Report(ctx context.Context, loc *quote.Location) (*entity.WeatherReport, error)
	SearchLocations(ctx context.Context, query string) ([]entity.LocationCandidate, error)
}

// LocationSource exposes the active weather location, owned by the
// settings layer.
type LocationSource interface {
	Location() quote.Location
}

// WeatherHandler handles HTTP requests for the weather widget.
type WeatherHandler struct {
	weather   WeatherUsecase
	location  LocationSource
	typeahead *debounce.Debouncer[[]entity.LocationCandidate]
	latest    *debounce.Latest[[]entity.LocationCandidate]
}

// NewWeatherHandler creates a WeatherHandler. The typeahead debouncer
// and its result store may be nil when the interactive path is not
// mounted.
func NewWeatherHandler(weather WeatherUsecase, location LocationSource, typeahead *debounce.Debouncer[[]entity.LocationCandidate], latest *debounce.Latest[[]entity.LocationCandidate]) *WeatherHandler {
	return &WeatherHandler{
		weather:   weather,
		location:  location,
		typeahead: typeahead,
		latest:    latest,
	}
}

// Report serves the current conditions and the daily forecast for the
// active location. Weather has no polling cache; failure of either
// upstream call is fatal for the request.
func (h *WeatherHandler) Report(c *gin.Context) {
	loc := h.location.Location()
	report, err := h.weather.Report(c.Request.Context(), &loc)
	if err != nil {
		slog.Warn("weather fetch failed", "location", loc.Name, "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "weather fetch failed"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// SearchLocations serves geocoding search for the location picker.
func (h *WeatherHandler) SearchLocations(c *gin.Context) {
	results, err := h.weather.SearchLocations(c.Request.Context(), c.Query("q"))
	if err != nil {
		slog.Warn("location search failed", "query", c.Query("q"), "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "search failed"})
		return
	}
	if results == nil {
		results = []entity.LocationCandidate{}
	}
	c.JSON(http.StatusOK, gin.H{"items": results})
}

// Keystroke feeds the location typeahead debouncer.
func (h *WeatherHandler) Keystroke(c *gin.Context) {
	h.typeahead.Keystroke(c.Query("q"))
	c.JSON(http.StatusAccepted, api.MessageResponse{Message: "ok"})
}

// TypeaheadResult serves the most recent delivered typeahead result.
func (h *WeatherHandler) TypeaheadResult(c *gin.Context) {
	query, results, err := h.latest.Get()
	if err != nil {
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "search failed"})
		return
	}
	if results == nil {
		results = []entity.LocationCandidate{}
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "items": results})
}
