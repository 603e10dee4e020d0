// talentbridge-offers-service
//
// Job-offer allocation and lifecycle engine.
// Exposes a REST API used by the Gateway to implement:
//   - allocateOffers(jobId)            — send offers up to remaining capacity
//   - respondToOffer(offerId, decision) — accept/reject with capacity re-check
//   - getJobCapacity(jobId)            — openings / accepted / remaining
//   - applyToJob / setApplicationStatus — employer review pipeline
//   - contact verification             — TTL codes backing offer deliverability
//
// Publishes EVENT_OFFER_SENT and EVENT_VERIFY_CODE to Redis for the
// Gateway's mailer. A cron sweeper retries undelivered notifications and
// expires offers past their job deadline.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"talentbridge/offers-service/internal/applications"
	"talentbridge/offers-service/internal/config"
	"talentbridge/offers-service/internal/db"
	"talentbridge/offers-service/internal/notify"
	"talentbridge/offers-service/internal/offers"
	"talentbridge/offers-service/internal/scheduler"
	"talentbridge/offers-service/internal/verify"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	_ = godotenv.Load() // optional .env for local development

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[offers-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[offers-service] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[offers-service] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[offers-service] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[offers-service] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[offers-service] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[offers-service] Redis connected ✓")

	// ── Services ─────────────────────────────────────────────────────────────
	notifier := notify.NewRedisNotifier(rdb)
	offerSvc := offers.NewService(pool, notifier)
	appSvc := applications.NewService(pool)
	verifySvc := verify.NewService(pool, rdb, notifier,
		time.Duration(cfg.VerifyTTLMinutes)*time.Minute)

	// ── Sweeper ──────────────────────────────────────────────────────────────
	sweeper := scheduler.New(pool, notifier, cfg.SweepIntervalMinutes)
	if err := sweeper.Start(ctx); err != nil {
		log.Fatalf("[offers-service] Sweeper: %v", err)
	}
	defer sweeper.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	offers.NewHandler(offerSvc).RegisterRoutes(mux)
	applications.NewHandler(appSvc).RegisterRoutes(mux)
	verify.NewHandler(verifySvc).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[offers-service] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[offers-service] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[offers-service] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[offers-service] Shutdown error: %v", err)
	}
	log.Println("[offers-service] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "offers-service",
		"version": version,
	})
}
