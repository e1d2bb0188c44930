package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wareflow/backend-go/internal/api"
	"github.com/wareflow/backend-go/internal/cache"
	"github.com/wareflow/backend-go/internal/config"
	"github.com/wareflow/backend-go/internal/repository"
	"github.com/wareflow/backend-go/internal/repository/memory"
	"github.com/wareflow/backend-go/internal/repository/postgres"
	"github.com/wareflow/backend-go/internal/seed"
	"github.com/wareflow/backend-go/internal/service"
	"github.com/wareflow/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	repos, err := buildStore(cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	summaryCache, err := cache.NewSummaryCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		summaryCache = nil
	}

	simService := service.NewSimulationService(repos, cfg.Sim, summaryCache)

	router := api.NewRouter(&api.Services{SimulationService: simService}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// buildStore selects Postgres when configured, otherwise a seeded
// in-memory warehouse so the API is usable out of the box.
func buildStore(cfg *config.Config) (*repository.Store, error) {
	if cfg.Database.Enabled {
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(context.Background(), db); err != nil {
			return nil, err
		}
		return postgres.NewStore(db), nil
	}

	seedVal := cfg.Sim.Seed
	if seedVal == 0 {
		seedVal = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seedVal))
	now := time.Now()

	st := memory.NewStore(cfg.Sim.WarehouseCapacity, cfg.Sim.InitialGasPrice)
	ds := seed.Generate(rng, now, cfg.Sim.WarehouseCapacity)
	if err := seed.Populate(context.Background(), st, ds, rng, now); err != nil {
		return nil, err
	}
	logger.Log.Info().
		Int("products", len(ds.Products)).
		Int("trucks", len(ds.Trucks)).
		Int("stores", len(ds.Stores)).
		Msg("Seeded in-memory warehouse")
	return st.Bundle(), nil
}
