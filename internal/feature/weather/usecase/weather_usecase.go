// Package usecase implements the weather domain logic: current
// conditions and forecast for the active location, with a fixed default
// when no location is configured.
package usecase

import (
	"context"
	"log/slog"

	"dashboard_backend/internal/feature/weather/domain/entity"
	"dashboard_backend/internal/shared/quote"
)

// DefaultLocation is used when no location is configured or geolocation
// is unavailable.
var DefaultLocation = quote.Location{Lat: 37.5665, Lon: 126.9780, Name: "서울"}

// WeatherGateway abstracts the weather source adapter.
type WeatherGateway interface {
	FetchCurrentAndForecast(ctx context.Context, lat, lon float64) (*entity.WeatherReport, error)
	SearchLocations(ctx context.Context, query string) ([]entity.LocationCandidate, error)
}

// WeatherUsecase serves weather reports for the session's active
// location.
type WeatherUsecase struct {
	gw WeatherGateway
}

// NewWeatherUsecase creates a new WeatherUsecase.
func NewWeatherUsecase(gw WeatherGateway) *WeatherUsecase {
	return &WeatherUsecase{gw: gw}
}

// Report fetches current weather and forecast for loc. A nil loc falls
// back to DefaultLocation; the fetch itself is the domain's primary
// aggregate and its failure is fatal for the cycle.
func (u *WeatherUsecase) Report(ctx context.Context, loc *quote.Location) (*entity.WeatherReport, error) {
	if loc == nil {
		l := DefaultLocation
		loc = &l
		slog.Debug("no active location, using default", "name", l.Name)
	}
	return u.gw.FetchCurrentAndForecast(ctx, loc.Lat, loc.Lon)
}

// SearchLocations proxies the geocoding search.
func (u *WeatherUsecase) SearchLocations(ctx context.Context, query string) ([]entity.LocationCandidate, error) {
	return u.gw.SearchLocations(ctx, query)
}
