package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "hotel_booking/internal/adapters/http_server"
	"hotel_booking/internal/adapters/localcache"
	"hotel_booking/internal/adapters/observability"
	redisad "hotel_booking/internal/adapters/redis"
	"hotel_booking/internal/adapters/security"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/shared"
	"hotel_booking/internal/storage"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("store init failed")
	}
	defer backend.Close()

	cache, cacheReady, closeCache := openCache(ctx, cfg)
	defer closeCache()

	// deps
	store := backend.Store
	tokens := security.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	avail := app.NewAvailabilityChecker(store, store)
	handlers := &server.Handlers{
		Auth:          app.NewAuthService(store, security.NewBcryptHasher(0), tokens),
		Search:        app.NewSearchService(store, store, avail, cfg.SearchWorkers, cfg.FeaturedCities),
		Avail:         avail,
		Bookings:      app.NewBookingService(store, avail, cfg.CancelCutoff),
		Catalog:       app.NewCatalogService(store, cache),
		Q:             app.NewQueryService(store, cache, cfg.CacheTTL),
		Tokens:        tokens,
		AuthRateRPS:   cfg.AuthRateRPS,
		AuthRateBurst: cfg.AuthRateBurst,

		TrustedProxies: cfg.TrustedProxies,
		Ready: func(ctx context.Context) error {
			if err := backend.Ping(ctx); err != nil {
				return err
			}
			return cacheReady(ctx)
		},
	}

	// http
	srv := server.New(cfg.RequestTimeout)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(handlers)
	observability.Serve(cfg.MetricsAddr, reg)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.StoreBackend).Str("cache", cfg.CacheBackend).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// openCache returns the configured read cache, or nil when caching is off.
func openCache(ctx context.Context, cfg shared.Config) (domain.Cache, func(context.Context) error, func()) {
	noop := func(context.Context) error { return nil }
	switch cfg.CacheBackend {
	case "redis":
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			// reads fall through to the store until redis comes back
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable at startup")
		}
		return rc, rc.Ping, func() { _ = rc.Close() }
	case "memory", "local":
		lc := localcache.New(10_000)
		return lc, noop, lc.Stop
	case "none", "":
		return nil, noop, func() {}
	default:
		log.Warn().Str("backend", cfg.CacheBackend).Msg("unknown CACHE_BACKEND; caching disabled")
		return nil, noop, func() {}
	}
}
