package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"adgenius-server/modules/adgen"
	"adgenius-server/modules/common/config"
	"adgenius-server/modules/common/events"
	"adgenius-server/modules/common/gemini"
	"adgenius-server/modules/common/redis"
	"adgenius-server/modules/dashboard"
	"adgenius-server/modules/session"
)

// enableCORS adds permissive CORS headers
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// healthCheck - GET /health
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "adgenius-server",
	})
}

func main() {
	// Load environment
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Gemini client (starts without a key)
	client := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiCopyModel, cfg.GeminiImageModel)

	// Batch events (only when Redis is configured)
	var publisher events.Publisher = events.NoopPublisher{}
	rdb, err := redis.Connect(ctx, cfg)
	if err != nil {
		log.Printf("⚠️  Redis unavailable, batch events disabled: %v", err)
	} else if rdb != nil {
		defer rdb.Close()
		publisher = events.NewRedisPublisher(rdb, cfg.EventsChannel)
		log.Printf("📣 Publishing batch events on %s", cfg.EventsChannel)
	}

	service := adgen.NewService(adgen.NewFlow(client, cfg.GenerationCost, cfg.ChargeEmptyBatches), publisher)

	manager := session.NewManager(func() *adgen.Store {
		return adgen.NewSeededStore(cfg.InitialCredits, cfg.SeedMockCreatives)
	}, session.Options{
		EmptyGrace:  cfg.SessionEmptyGrace,
		MaxAge:      cfg.SessionMaxAge,
		IdleTimeout: cfg.SessionIdleTimeout,
	})

	// Start cleanup routines
	manager.StartCleanupRoutine(ctx.Done())

	renderer, err := dashboard.NewRenderer()
	if err != nil {
		log.Fatalf("❌ Failed to parse templates: %v", err)
	}

	// Router
	r := mux.NewRouter()
	r.Use(enableCORS)

	r.HandleFunc("/health", healthCheck).Methods("GET")
	session.NewHandler(manager, service).RegisterRoutes(r)
	adgen.NewHandler(service, manager, cfg.WebPQuality).RegisterRoutes(r)
	dashboard.NewHandler(renderer, service, manager).RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("🚀 AdGenius server starting on port %s", cfg.Port)
	log.Printf("🖥️  Dashboard: http://localhost:%s/", cfg.Port)
	log.Printf("📡 WebSocket endpoint: ws://localhost:%s/ws", cfg.Port)
	log.Printf("❤️  Health check: http://localhost:%s/health", cfg.Port)
	log.Printf("📊 Metrics: http://localhost:%s/metrics", cfg.Port)
	log.Printf("🧹 Admin cleanup: http://localhost:%s/admin/cleanup", cfg.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("🛑 Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️  Graceful shutdown failed: %v", err)
	}
}
