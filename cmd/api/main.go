package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/cache"
	"server/internal/generation"
	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/middleware"
	"server/internal/providers/openai"
	"server/internal/usage"
	"server/internal/ws"
)

func main() {
	// Muat .env (opsional)
	_ = godotenv.Load()

	cfg := infra.LoadConfig()
	logger := infra.NewLogger(cfg.AppEnv)

	// Provider client. With no real key a placeholder keeps the client
	// constructible; the gateway refuses generation until a key is set.
	apiKey := cfg.OpenAIAPIKey
	if !cfg.APIConfigured() {
		apiKey = infra.PlaceholderAPIKey
		logger.Warn().Msg("OPENAI_API_KEY is not set; generation requests will be refused")
	}
	client, err := openai.NewClient(openai.Options{
		APIKey:       apiKey,
		BaseURL:      cfg.OpenAIBaseURL,
		Organization: cfg.OpenAIOrg,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build provider client")
	}

	// Cache store: Postgres when a DATABASE_URL is present, in-memory otherwise.
	ctx := context.Background()
	var store cache.Store = cache.NewMemory(cfg.CacheTTL)
	if cfg.DatabaseURL != "" {
		dbpool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer dbpool.Close()
		store = cache.NewPostgres(dbpool, logger, cfg.CacheTTL)
	}
	if n := store.Sweep(ctx); n > 0 {
		logger.Info().Int("expired", n).Msg("swept expired cache entries")
	}

	var tracker usage.Tracker = usage.Noop{}
	if cfg.EnableUsageTracking {
		tracker = usage.NewCounter()
	}

	svc := generation.NewService(generation.Config{
		Model:        cfg.Model,
		ImageModel:   cfg.ImageModel,
		ImageSize:    cfg.ImageSize,
		ImageQuality: cfg.ImageQuality,
		MaxTokens:    cfg.MaxTokens,
		Temperature:  cfg.Temperature,
		CacheEnabled: cfg.EnableCaching,
		CacheTTL:     cfg.CacheTTL,
	}, client, client, store, tracker, logger)

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable; connect logging degrades")
	}

	gateway := ws.NewGateway(ws.Options{
		Generator:     svc,
		Logger:        logger,
		ImageEnabled:  cfg.EnableImageGeneration,
		APIConfigured: cfg.APIConfigured(),
		Country:       countryLookup(resolver),
	})

	app := handlers.NewApp(cfg, logger, store, tracker)
	router := httpapi.NewRouter(app, gateway.Handle, logger)
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

func countryLookup(resolver geoip.CountryResolver) middleware.CountryLookup {
	if resolver == nil {
		return nil
	}
	return resolver.CountryCode
}
