package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"entity-graph/backend/internal/api"
	"entity-graph/backend/internal/dataset"
	"entity-graph/backend/internal/graph"
	"entity-graph/backend/internal/metrics"
	"entity-graph/backend/pkg/config"
	"entity-graph/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting HTTP API server...", zap.String("env", cfg.Env))

	// Load the dataset once; nothing is served without it
	var opts []dataset.Option
	if cfg.DatasetSheet != "" {
		opts = append(opts, dataset.WithSheet(cfg.DatasetSheet))
	}
	store, err := dataset.Load(cfg.DatasetPath, opts...)
	if err != nil {
		log.Fatal("Failed to load dataset", zap.Error(err))
	}

	srv := newServer(cfg, store, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server started", zap.String("addr", srv.Addr), zap.Int("records", store.Len()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		// Graceful shutdown
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		return
	}

	log.Info("Server exited")
}

// newServer wires the deriver, router and metrics around a loaded store
func newServer(cfg *config.Config, store *dataset.Store, log *zap.Logger) *http.Server {
	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
		m.SetDatasetRecords(store.Len())
	}

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.RouterConfig{
		Handler:        api.NewHandler(graph.NewDeriver(store)),
		Logger:         log,
		Metrics:        m,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}
