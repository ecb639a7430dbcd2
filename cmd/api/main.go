package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/questforge/questforge/internal/config"
	"github.com/questforge/questforge/internal/engine"
	"github.com/questforge/questforge/internal/handlers"
	"github.com/questforge/questforge/internal/images"
	"github.com/questforge/questforge/internal/logger"
	"github.com/questforge/questforge/internal/middleware"
	"github.com/questforge/questforge/internal/services"
	"github.com/questforge/questforge/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting QuestForge API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName)

	var llmService services.LLMService
	switch strings.ToLower(cfg.LLMProvider) {
	case "ollama":
		svc, err := services.NewOllamaService(cfg.OllamaURL, cfg.ModelName, log)
		if err != nil {
			log.Error("Failed to create Ollama service", "error", err, "url", cfg.OllamaURL)
			os.Exit(1)
		}
		llmService = svc
		log.Info("Using Ollama LLM provider")
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Error("OpenAI API key is required when using openai provider")
			os.Exit(1)
		}
		llmService = services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ModelName, log)
		log.Info("Using OpenAI LLM provider")
	default:
		log.Error("Invalid LLM provider specified", "provider", cfg.LLMProvider, "supported", []string{"ollama", "openai"})
		os.Exit(1)
	}

	store := storage.NewRedisStorage(cfg.RedisURL, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	// Pulling a missing model can take a while on first boot.
	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer initCancel()
	if err := llmService.InitModel(initCtx, cfg.ModelName); err != nil {
		log.Error("Failed to initialize LLM model", "error", err, "model", cfg.ModelName)
		os.Exit(1)
	}

	eng := engine.New(llmService, store, engine.Config{
		MaxScenes:         cfg.MaxScenes,
		StartingHP:        cfg.StartingHP,
		InventoryCapacity: cfg.InventoryCapacity,
		ContentRating:     cfg.ContentRating,
	}, log)

	if cfg.ComfyUIAddress != "" {
		cache, err := images.NewCache(cfg.StaticDir, log)
		if err != nil {
			log.Error("Failed to prepare image cache", "error", err, "dir", cfg.StaticDir)
			os.Exit(1)
		}
		eng = eng.WithImages(services.NewComfyUIService(cfg.ComfyUIAddress, log), cache, cfg.ImageModel)
		log.Info("Illustration pipeline enabled", "comfyui", cfg.ComfyUIAddress, "model", cfg.ImageModel)
	}

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, log)
	mux.Handle("/health", healthHandler)

	scenariosHandler := handlers.NewScenariosHandler(eng, log)
	mux.Handle("/v1/scenarios", scenariosHandler)

	sessionsHandler := handlers.NewSessionsHandler(eng, store, log)
	mux.Handle("/v1/sessions", sessionsHandler)
	mux.Handle("/v1/sessions/", sessionsHandler)

	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // scenario generation is slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
