package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"digital-liver/internal/adapters/primary/http/handlers"
	"digital-liver/internal/adapters/primary/http/middleware"
	"digital-liver/internal/adapters/secondary/memory"
	"digital-liver/internal/adapters/secondary/pdf"
	"digital-liver/internal/adapters/secondary/postgres"
	"digital-liver/internal/config"
	"digital-liver/internal/core/chem"
	ports "digital-liver/internal/core/ports/output"
	"digital-liver/internal/core/services"
	"digital-liver/internal/core/simulation"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// Model inputs
	kinetics, err := simulation.LoadKinetics(cfg.Simulation.KineticsFile)
	if err != nil {
		log.Fatalf("load kinetics: %v", err)
	}
	catalog, err := chem.LoadCatalog(cfg.Simulation.AlertsCatalog)
	if err != nil {
		log.Fatalf("load alert catalog: %v", err)
	}
	log.WithFields(log.Fields{
		"kinetics_profile": cfg.Simulation.KineticsFile,
		"alerts":           len(catalog.Alerts),
	}).Info("model loaded")

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Secondary Adapters (Output Ports)
	runRepo, closeRunLog := openRunLog(cfg)
	defer closeRunLog()
	renderer := pdf.NewRenderer()

	// Core Services (Application Layer)
	simulator := simulation.NewSimulator(kinetics, cfg.Simulation.Substeps)
	simSvc := services.NewSimulationService(catalog, simulator, runRepo, services.SimulationOptions{
		MaxCompounds: cfg.Simulation.MaxCompounds,
		Workers:      cfg.Simulation.Workers,
	})
	reportSvc := services.NewReportService(renderer)

	retentionSvc := services.NewRetentionService(runRepo, cfg.RunLog.Retention)
	if err := retentionSvc.Start(cfg.RunLog.SweepSchedule); err != nil {
		log.Fatalf("start run log retention: %v", err)
	}
	defer retentionSvc.Stop()

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(simSvc, reportSvc, cfg.Simulation.Points)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	h.RegisterWebRoutes(router)
	api := router.Group("/api/v1/digital-liver")
	h.RegisterRoutes(api)

	// Health check with run log ping
	router.GET("/healthz", func(c *gin.Context) {
		if err := runRepo.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

// openRunLog returns the PostgreSQL run log when enabled, otherwise an
// in-memory one.
func openRunLog(cfg *config.Config) (ports.RunRepository, func()) {
	if !cfg.Database.Enabled {
		log.WithField("capacity", cfg.RunLog.MemoryCapacity).Info("database disabled, using in-memory run log")
		return memory.NewRunRepository(cfg.RunLog.MemoryCapacity), func() {}
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("parse db config: %v", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Fatalf("create db pool: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping db: %v", err)
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("%v", err)
	}
	log.Info("database connection established")

	return postgres.NewRunRepository(pool), pool.Close
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
