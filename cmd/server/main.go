// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/sovereignai/assistant-api/internal/config"
	"github.com/sovereignai/assistant-api/internal/domain"
	"github.com/sovereignai/assistant-api/internal/handlers"
	"github.com/sovereignai/assistant-api/internal/middleware"
	"github.com/sovereignai/assistant-api/internal/ratelimit"
	"github.com/sovereignai/assistant-api/internal/repository/assistant"
	"github.com/sovereignai/assistant-api/internal/repository/message"
	"github.com/sovereignai/assistant-api/internal/repository/thread"
	"github.com/sovereignai/assistant-api/internal/services"
	"github.com/sovereignai/assistant-api/internal/services/inference"
	"github.com/sovereignai/assistant-api/internal/services/run"
	"github.com/sovereignai/assistant-api/internal/services/state"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-API-Key")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// newEngine selects the inference backend from configuration. The mock
// backend keeps the service fully operable without network access.
func newEngine(cfg *config.Config) (inference.Engine, error) {
	if cfg.InferenceBackend == "http" {
		engineConfig := inference.DefaultConfig()
		engineConfig.BaseURL = cfg.InferenceBaseURL
		engineConfig.APIKey = cfg.InferenceAPIKey
		engineConfig.ConnectTimeout = time.Duration(cfg.InferenceConnectTimeout) * time.Second
		engineConfig.ReadTimeout = time.Duration(cfg.InferenceReadTimeout) * time.Second
		return inference.NewOpenAIEngine(engineConfig)
	}
	return inference.NewMockEngine(0, 10*time.Millisecond, 50*time.Millisecond), nil
}

func main() {
	cfg := config.Load()
	logger := services.NewLogger("assistant-api", cfg.Environment, cfg.LogLevel)

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	// SQLite ships with foreign key enforcement off; the cascade constraints
	// on our schema depend on it.
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		log.Fatalf("DB Pragma Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.Assistant{}, &domain.Thread{}, &domain.Message{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	assistantRepo := assistant.NewAssistantRepository(db)
	threadRepo := thread.NewThreadRepository(db)
	messageRepo := message.NewMessageRepository(db)

	// --- Services ---
	stateManager, err := state.NewManager(db, assistantRepo, threadRepo, messageRepo, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize State Manager: %v", err)
	}

	engine, err := newEngine(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Inference Engine: %v", err)
	}

	orchestrator, err := run.NewOrchestrator(stateManager, engine, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Run Orchestrator: %v", err)
	}

	// --- Handlers ---
	assistantHandler := handlers.NewAssistantHandler(stateManager)
	threadHandler := handlers.NewThreadHandler(stateManager)
	runHandler := handlers.NewRunHandler(orchestrator)
	healthHandler := handlers.NewHealthHandler(db, engine)

	// --- Rate Limiters ---
	apiLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultAPIConfig())
	defer apiLimiter.Close()
	runLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.RunConfig())
	defer runLimiter.Close()

	// --- Router Setup ---
	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	// --- Public Routes ---
	r.HandleFunc("/health", healthHandler.Check).Methods("GET")

	// --- Protected API Routes ---
	api := r.PathPrefix("/v1").Subrouter()
	api.Use(middleware.NewAPIKeyMiddleware(cfg.APIKey))
	api.Use(middleware.RateLimitMiddleware(apiLimiter, "api"))

	api.HandleFunc("/assistants", assistantHandler.Create).Methods("POST")
	api.HandleFunc("/assistants", assistantHandler.List).Methods("GET")
	api.HandleFunc("/assistants/{id}", assistantHandler.Get).Methods("GET")
	api.HandleFunc("/assistants/{id}", assistantHandler.Update).Methods("POST")
	api.HandleFunc("/assistants/{id}", assistantHandler.Delete).Methods("DELETE")

	api.HandleFunc("/threads", threadHandler.Create).Methods("POST")
	api.HandleFunc("/threads", threadHandler.List).Methods("GET")
	api.HandleFunc("/threads/{id}", threadHandler.Get).Methods("GET")
	api.HandleFunc("/threads/{id}", threadHandler.Update).Methods("POST")
	api.HandleFunc("/threads/{id}", threadHandler.Delete).Methods("DELETE")
	api.HandleFunc("/threads/{id}/messages", threadHandler.CreateMessage).Methods("POST")
	api.HandleFunc("/threads/{id}/messages", threadHandler.ListMessages).Methods("GET")

	runs := api.PathPrefix("/threads/{id}/runs").Subrouter()
	runs.Use(middleware.RateLimitMiddleware(runLimiter, "runs"))
	runs.HandleFunc("", runHandler.Create).Methods("POST")

	// --- Server Configuration ---
	port := ":8080"
	if cfg.ServerPort != "" {
		port = ":" + cfg.ServerPort
	}
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	logger.Info("server starting",
		"port", port,
		"database", cfg.DatabasePath,
		"inference_backend", cfg.InferenceBackend,
	)

	// --- Start Server in Goroutine ---
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	logger.Info("server stopped")
}
