package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"intervue/internal/config"
	"intervue/internal/extract"
	"intervue/internal/handlers"
	"intervue/internal/interview"
	"intervue/internal/jobs"
	"intervue/internal/llm"
	_ "intervue/internal/llm/gemini"
	"intervue/internal/metrics"
	"intervue/internal/prompts"
	"intervue/internal/routers"
	"intervue/internal/storage"
)

func registerRoutes(router *chi.Mux, interviewHandler *handlers.InterviewHandler, dashboardHandler *handlers.DashboardHandler, healthHandler *handlers.HealthHandler) {
	routers.HealthRoutes(router, healthHandler)
	routers.InterviewRoutes(router, interviewHandler)
	routers.DashboardRoutes(router, dashboardHandler)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded",
		zap.String("provider", cfg.Provider),
		zap.String("sqlite_path", cfg.SQLitePath))

	// prompt manager
	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
	}

	// AI provider based on configuration
	aiProvider, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		logger.Fatal("Failed to initialize AI provider", zap.Error(err))
	}

	// durable store for the active session and the archive
	store, err := storage.Open(cfg.SQLitePath)
	if err != nil {
		logger.Fatal("Failed to open session store", zap.Error(err))
	}

	// interview manager restores any unfinished session from the store
	manager, err := interview.NewManager(store, aiProvider, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize interview manager", zap.Error(err))
	}

	// message dispatcher loop
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	defer stopDispatcher()
	go manager.Run(dispatcherCtx)

	extractor := extract.NewDocumentExtractor()

	interviewHandler := handlers.NewInterviewHandler(manager, aiProvider, extractor, logger)
	dashboardHandler := handlers.NewDashboardHandler(store, logger)
	healthHandler := handlers.NewHealthHandler(aiProvider, promptManager, store, cfg)

	// archive exporter job
	exporterConfig := &jobs.ExporterConfig{
		Schedule:      getEnv("ARCHIVE_EXPORT_SCHEDULE", "0 2 * * *"),
		ExportDir:     getEnv("ARCHIVE_EXPORT_DIR", "./exports"),
		ExportEnabled: getEnv("ARCHIVE_EXPORT_ENABLED", "false") == "true",
	}
	exporterJob := jobs.NewArchiveExporterJob(store, exporterConfig)
	if exporterConfig.ExportEnabled {
		if err := exporterJob.Start(); err != nil {
			logger.Error("Failed to start archive exporter job", zap.Error(err))
		} else {
			logger.Info("Archive exporter job started", zap.String("schedule", exporterConfig.Schedule))
		}
	}

	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{getEnv("CORS_ORIGIN", "http://localhost:5173")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware())

	registerRoutes(router, interviewHandler, dashboardHandler, healthHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port

	// http server with timeouts
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// starting server in a goroutine
	go func() {
		logger.Info("Interview service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Interview service shutting down...")

	exporterJob.Stop()
	stopDispatcher()

	// graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("Interview service exited")
}
