package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"storefront/internal/catalog"
	"storefront/internal/http/handlers"
	"storefront/internal/http/httpapi"
	"storefront/internal/infra"
	"storefront/internal/infra/geoip"
	"storefront/internal/middleware"
	"storefront/internal/paypal"
	"storefront/internal/printify"
	"storefront/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	pool, err := infra.NewDBPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer pool.Close()
	runner := infra.NewSQLRunner(pool, logger)

	// The allowlist falls back to process memory when Redis is absent, which
	// is fine for single-instance development.
	var kv catalog.KV
	if cfg.RedisURL != "" {
		redisKV, err := catalog.NewRedisKV(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		defer redisKV.Close()
		kv = redisKV
	} else {
		logger.Warn().Msg("REDIS_URL not set, allowlist is in-memory only")
		kv = catalog.NewMemoryKV()
	}

	var geo middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable")
	} else if resolver != nil {
		defer resolver.Close()
		geo = resolver.CountryCode
	}

	files, err := storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL, cfg.LocalSigningSecret)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure local storage")
	}

	app := &handlers.App{
		Logger: logger,
		SQL:    runner,
		Printify: printify.NewClient(printify.Options{
			Token:          cfg.PrintifyAPIToken,
			ShopID:         cfg.PrintifyStoreID,
			BaseURL:        cfg.PrintifyBaseURL,
			RequestTimeout: cfg.PrintifyTimeout,
			Logger:         &logger,
		}),
		PayPal: paypal.NewClient(paypal.Options{
			ClientID:     cfg.PayPalClientID,
			ClientSecret: cfg.PayPalClientSecret,
			Mode:         cfg.PayPalMode,
		}),
		Allowlist:     catalog.NewAllowlist(kv),
		Files:         files,
		Geo:           geo,
		AdminToken:    cfg.AdminToken,
		SecureCookies: cfg.AppEnv != "development",
	}

	router := httpapi.NewRouter(app, cfg, logger)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
