package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	jwttoken "malkhana/internal/jwt_token"
	"malkhana/internal/platform/config"
	"malkhana/internal/platform/httpserver"
	"malkhana/internal/platform/logger"
	"malkhana/internal/platform/middleware"
	"malkhana/internal/platform/postgres"
	"malkhana/internal/registry"
	registrymetrics "malkhana/internal/registry/metrics"
	registryservice "malkhana/internal/registry/service"
	registrystore "malkhana/internal/registry/store"
	"malkhana/internal/shelf"
	shelfservice "malkhana/internal/shelf/service"
	shelfstore "malkhana/internal/shelf/store"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		items   registryservice.ItemStore
		shelves shelfservice.ShelfStore
	)
	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}
		items = registrystore.NewPostgres(pool)
		shelves = shelfstore.NewPostgres(pool)
	} else {
		log.Warn("no database configured, using in-memory stores")
		items = registrystore.NewInMemory()
		shelves = shelfstore.NewInMemory()
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "malkhana")

	shelfService := shelf.NewService(shelves, shelfservice.WithLogger(log))
	registryService := registry.NewService(items, shelves,
		registryservice.WithLogger(log),
		registryservice.WithMetrics(registrymetrics.New()),
	)

	registryHandler := registry.NewHandler(registryService, log)
	shelfHandler := shelf.NewHandler(shelfService, log)

	router := chi.NewRouter()
	router.Use(middleware.RequestID, middleware.RequestTime)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtService, log))
		registryHandler.Register(r)
		shelfHandler.Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting malkhana server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
