// Package router wires the HTTP routes to their feature handlers.
package router

import (
	"github.com/gin-gonic/gin"

	authhandler "dashboard_backend/internal/feature/auth/transport/handler"
	coinhandler "dashboard_backend/internal/feature/coin/transport/handler"
	settingshandler "dashboard_backend/internal/feature/settings/transport/handler"
	stockhandler "dashboard_backend/internal/feature/stock/transport/handler"
	weatherhandler "dashboard_backend/internal/feature/weather/transport/handler"
	"dashboard_backend/internal/platform/http/handler"
	jwtmw "dashboard_backend/internal/platform/jwt"
)

// NewRouter assembles the gin engine. Widget reads are public; session
// and settings mutations require a JWT.
func NewRouter(
	auth *authhandler.AuthHandler,
	stock *stockhandler.StockHandler,
	coin *coinhandler.CoinHandler,
	weather *weatherhandler.WeatherHandler,
	settings *settingshandler.SettingsHandler,
) *gin.Engine {
	r := gin.Default()

	// Liveness probe
	r.GET("/healthz", handler.Health)

	// Session endpoints
	r.POST("/signup", auth.Signup)
	r.POST("/login", auth.Login)

	// Widget snapshots, served from the polling schedulers
	r.GET("/stocks", stock.Snapshot)
	r.GET("/coins", coin.Snapshot)
	r.GET("/weather", weather.Report)

	// Direct search
	r.GET("/stocks/search", stock.Search)
	r.GET("/coins/search", coin.Search)
	r.GET("/locations/search", weather.SearchLocations)

	// Debounced typeahead
	r.POST("/stocks/search/keystroke", stock.Keystroke)
	r.GET("/stocks/search/latest", stock.TypeaheadResult)
	r.POST("/coins/search/keystroke", coin.Keystroke)
	r.GET("/coins/search/latest", coin.TypeaheadResult)
	r.POST("/locations/search/keystroke", weather.Keystroke)
	r.GET("/locations/search/latest", weather.TypeaheadResult)

	// Routes below require a valid JWT
	protected := r.Group("/")
	protected.Use(jwtmw.AuthRequired())
	{
		protected.POST("/logout", auth.Logout)
		protected.GET("/me", auth.Me)
		protected.POST("/watchlist/:domain", settings.AddItem)
		protected.DELETE("/watchlist/:domain/:id", settings.RemoveItem)
		protected.PUT("/location", settings.SetLocation)
	}

	return r
}
