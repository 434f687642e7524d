package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"roadtrip-planner-web/internal/adapters/genie"
	"roadtrip-planner-web/internal/adapters/progress"
	"roadtrip-planner-web/internal/adapters/session"
	"roadtrip-planner-web/internal/api"
	"roadtrip-planner-web/internal/api/handlers"
	"roadtrip-planner-web/internal/config"
	"roadtrip-planner-web/internal/platform/obs"
	"roadtrip-planner-web/internal/ports"
	"roadtrip-planner-web/internal/present"
	"roadtrip-planner-web/internal/services"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

const sweepInterval = 10 * time.Minute

// main is the application composition root.
// It wires concrete adapters (engine client, session store) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := genie.NewClient(cfg.GenieAPIURL, cfg.RequestTimeout)
	if err != nil {
		log.Fatal(err)
	}

	store, kind, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	obs.RegisterDefault()

	policy := services.DefaultRetryPolicy()
	policy.RetryDelay = cfg.RetryDelay
	policy.QuotaDelay = cfg.QuotaDelay

	// One guard so a generation and a refinement never write the same slot at once.
	guard := services.NewSlotGuard()
	broker := progress.NewBroker()
	images := present.NewImageTracker(cfg.SessionTTL)
	go images.RunSweeper(ctx, sweepInterval)

	pages, err := handlers.NewPages()
	if err != nil {
		log.Fatal(err)
	}

	router := api.NewRouter(api.Deps{
		Orchestrator: services.NewOrchestrator(engine, store, guard, policy, services.WithNotifier(broker)),
		Refiner:      services.NewRefiner(engine, store, guard),
		Store:        store,
		StoreKind:    kind,
		Images:       images,
		Broker:       broker,
		Pages:        pages,
		Config:       cfg,
	})

	// WriteTimeout leaves room for every attempt plus both backoffs.
	writeTimeout := time.Duration(policy.MaxAttempts())*cfg.RequestTimeout + 2*max(cfg.RetryDelay, cfg.QuotaDelay) + 10*time.Second
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening addr=:%s engine=%s session_store=%s", cfg.Port, cfg.GenieAPIURL, kind)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutdown signal received; shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

// openStore picks Redis when REDIS_URL is set and the in-process store otherwise.
func openStore(ctx context.Context, cfg config.Config) (ports.SessionStore, string, func(), error) {
	if cfg.RedisURL != "" {
		rs, err := session.NewRedisStore(ctx, cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return nil, "", nil, fmt.Errorf("open session store: %w", err)
		}
		return rs, "redis", func() {
			if err := rs.Close(); err != nil {
				log.Printf("close redis: %v", err)
			}
		}, nil
	}

	ms := session.NewMemoryStore(cfg.SessionTTL)
	go ms.RunSweeper(ctx, sweepInterval)
	return ms, "memory", func() {}, nil
}
