package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-vision-backend/internal/api"
	"ai-vision-backend/internal/config"
	"ai-vision-backend/internal/handlers"
	"ai-vision-backend/internal/llm"
	"ai-vision-backend/internal/services"
	"ai-vision-backend/internal/store/memory"
)

func main() {
	log.Println("Starting AI Vision Backend...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	// 2. Initialize Dependencies (Store, Gateway, Services, Handlers)
	// History is in-memory only and lives for the process lifetime.
	memStore := memory.NewMemoryStore()
	log.Println("In-memory conversation store initialized.")

	gateway := llm.NewClient(cfg.LlamaAPIKey, cfg.LlamaAPIURL, cfg.LlamaModel, cfg.LLMTimeout)
	log.Println("LLM gateway client initialized.")

	analysisService := services.NewAnalysisService(memStore, gateway)
	log.Println("AnalysisService initialized.")
	historyService := services.NewHistoryService(memStore)
	log.Println("HistoryService initialized.")

	analysisHandler := handlers.NewAnalysisHandlers(analysisService)
	log.Println("AnalysisHandler initialized.")
	historyHandler := handlers.NewHistoryHandlers(historyService)
	log.Println("HistoryHandler initialized.")

	// 3. Setup Router & Inject Dependencies
	routerDeps := api.RouterDependencies{
		AnalysisHandler: analysisHandler,
		HistoryHandler:  historyHandler,
		Config:          cfg,
	}
	router := api.NewRouter(routerDeps)
	log.Println("HTTP router configured.")

	// 4. Configure and Start HTTP Server
	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
		// The analyze path waits on the remote model, so the write
		// timeout must cover the LLM timeout plus overhead.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Channel to listen for OS signals for graceful shutdown
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	// Run server in a goroutine so it doesn't block
	go func() {
		log.Printf("Server starting and listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Could not listen on %s: %v\n", cfg.HTTPPort, err)
		}
		log.Println("Server listener routine stopped.")
	}()

	// Wait for interrupt signal
	<-stopChan
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: Server graceful shutdown failed: %v", err)
	}

	log.Println("Server shutdown complete.")
}
