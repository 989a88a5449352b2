package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"dashboard_backend/internal/app/router"
	authadapters "dashboard_backend/internal/feature/auth/adapters"
	authhandler "dashboard_backend/internal/feature/auth/transport/handler"
	authusecase "dashboard_backend/internal/feature/auth/usecase"
	"dashboard_backend/internal/feature/coin/adapter/upbit"
	coinhandler "dashboard_backend/internal/feature/coin/transport/handler"
	coinusecase "dashboard_backend/internal/feature/coin/usecase"
	settingsadapters "dashboard_backend/internal/feature/settings/adapters"
	settingshandler "dashboard_backend/internal/feature/settings/transport/handler"
	settingsusecase "dashboard_backend/internal/feature/settings/usecase"
	"dashboard_backend/internal/feature/stock/adapter/naver"
	stockhandler "dashboard_backend/internal/feature/stock/transport/handler"
	stockusecase "dashboard_backend/internal/feature/stock/usecase"
	"dashboard_backend/internal/feature/weather/adapter/openweather"
	weatherentity "dashboard_backend/internal/feature/weather/domain/entity"
	weatherhandler "dashboard_backend/internal/feature/weather/transport/handler"
	weatherusecase "dashboard_backend/internal/feature/weather/usecase"
	platformdb "dashboard_backend/internal/platform/db"
	platformhttp "dashboard_backend/internal/platform/http"
	jwtmw "dashboard_backend/internal/platform/jwt"
	platformredis "dashboard_backend/internal/platform/redis"
	"dashboard_backend/internal/shared/debounce"
	"dashboard_backend/internal/shared/poll"
	"dashboard_backend/internal/shared/quote"
)

const (
	stockPollInterval = 60 * time.Second
	coinPollInterval  = 30 * time.Second

	stockSearchDelay       = 500 * time.Millisecond
	coinSearchDelay        = 300 * time.Millisecond
	locationSearchDelay    = 500 * time.Millisecond
	stockSearchMinChars    = 1
	coinSearchMinChars     = 1
	locationSearchMinChars = 2

	tokenLifetime = 24 * time.Hour
)

func main() {
	// .env is optional; real deployments use actual environment variables.
	_ = godotenv.Load()

	// Stores
	db := platformdb.OpenDB()
	rdb, err := platformredis.NewRedisClient()
	if err != nil {
		// Redis holds the device-local settings slots; without it the
		// dashboard has no durable configuration.
		log.Fatal("redis unavailable: ", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			slog.Error("failed to close redis client", "error", err)
		}
	}()

	// Market-data adapters
	naverCfg := naver.LoadConfig()
	stockGateway := naver.NewClient(naverCfg, platformhttp.NewHTTPClient(naverCfg.Timeout))

	upbitCfg := upbit.LoadConfig()
	coinGateway := upbit.NewClient(upbitCfg, platformhttp.NewHTTPClient(upbitCfg.Timeout))

	weatherCfg := openweather.LoadConfig()
	weatherGateway, err := openweather.NewClient(weatherCfg, platformhttp.NewHTTPClient(weatherCfg.Timeout))
	if err != nil {
		// A missing API key is a startup configuration error, not
		// something to retry at request time.
		log.Fatal("weather adapter: ", err)
	}

	// Usecases
	stockUC := stockusecase.NewStockUsecase(stockGateway)
	coinUC := coinusecase.NewCoinUsecase(coinGateway)
	weatherUC := weatherusecase.NewWeatherUsecase(weatherGateway)

	userRepo := authadapters.NewUserGorm(db)
	jwtSecret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if jwtSecret == "" {
		slog.Warn("JWT_SECRET is not set, set a strong secret in production")
	}
	authUC := authusecase.NewAuthUsecase(userRepo, jwtmw.NewGenerator(jwtSecret, tokenLifetime))

	// Settings sync manager: sole writer of both stores
	syncManager := settingsusecase.NewSyncManager(
		settingsadapters.NewSettingsGorm(db),
		settingsadapters.NewSettingsRedis(rdb),
	)

	// Polling schedulers, one per market domain
	stockSched := poll.NewScheduler("stock", stockPollInterval, stockUC.FetchAll)
	coinSched := poll.NewScheduler("coin", coinPollInterval, coinUC.FetchAll)
	defer stockSched.Stop()
	defer coinSched.Stop()

	syncManager.OnChange(func(domain settingsusecase.ListDomain, watchlist []quote.WatchItem) {
		switch domain {
		case settingsusecase.DomainCoins:
			coinSched.Reconfigure(watchlist)
		default:
			stockSched.Reconfigure(watchlist)
		}
	})
	if err := syncManager.Bootstrap(context.Background()); err != nil {
		log.Fatal("settings bootstrap: ", err)
	}
	defer syncManager.Close()

	// Typeahead debouncers
	stockLatest := &debounce.Latest[[]quote.SearchCandidate]{}
	stockTypeahead := debounce.New(context.Background(), stockSearchDelay, stockSearchMinChars,
		stockUC.Search, stockLatest.Deliver)
	coinLatest := &debounce.Latest[[]quote.SearchCandidate]{}
	coinTypeahead := debounce.New(context.Background(), coinSearchDelay, coinSearchMinChars,
		coinUC.Search, coinLatest.Deliver)
	locationLatest := &debounce.Latest[[]weatherentity.LocationCandidate]{}
	locationTypeahead := debounce.New(context.Background(), locationSearchDelay, locationSearchMinChars,
		weatherUC.SearchLocations, locationLatest.Deliver)

	// Handlers
	authH := authhandler.NewAuthHandler(authUC, syncManager)
	stockH := stockhandler.NewStockHandler(stockSched, stockUC, stockTypeahead, stockLatest)
	coinH := coinhandler.NewCoinHandler(coinSched, coinUC, coinTypeahead, coinLatest)
	weatherH := weatherhandler.NewWeatherHandler(weatherUC, syncManager, locationTypeahead, locationLatest)
	settingsH := settingshandler.NewSettingsHandler(syncManager)

	r := router.NewRouter(authH, stockH, coinH, weatherH, settingsH)

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
