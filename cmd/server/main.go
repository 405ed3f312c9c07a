package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tripwripp/booking-backend/internal/app"
	"github.com/tripwripp/booking-backend/internal/config"
	"github.com/tripwripp/booking-backend/internal/db"
	"github.com/tripwripp/booking-backend/internal/sweeper"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Connect DB when a DSN is configured; otherwise run on the in-memory
	// stores (bookings are lost on restart).
	var pool *pgxpool.Pool
	if cfg.DBDSN != "" {
		pool, err = db.NewPool(ctx, cfg.DBDSN)
		if err != nil {
			log.Fatalf("failed to connect to db: %v", err)
		}
		defer pool.Close()
	} else {
		log.Println("DB_DSN not set, running with in-memory stores")
	}

	// Init components
	container, err := app.NewContainer(app.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		DBPool:         pool,
		OpsJWTSecret:   cfg.OpsJWTSecret,
		OpsTokenTTL:    cfg.OpsTokenTTL,
		HoldTTLDefault: cfg.HoldTTLDefault,
		HoldTTLMax:     cfg.HoldTTLMax,
		StoragePath:    cfg.StoragePath,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})
	if err != nil {
		log.Fatalf("failed to init application: %v", err)
	}

	// Background sweeper: reclaims expired holds and marks departed trips.
	sw := sweeper.New(container.ReservationService, container.TripService, cfg.SweepInterval)
	go sw.Run(ctx)

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	// Run server in separate goroutine
	go func() {
		log.Printf("server running on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	log.Println("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	log.Println("server exited gracefully")
}
