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

	"github.com/phanicodella/talentsync/internal/config"
	"github.com/phanicodella/talentsync/internal/handlers"
	"github.com/phanicodella/talentsync/internal/interview"
	"github.com/phanicodella/talentsync/internal/jobs"
	"github.com/phanicodella/talentsync/internal/llm"
	_ "github.com/phanicodella/talentsync/internal/llm/openai"
	"github.com/phanicodella/talentsync/internal/metrics"
	"github.com/phanicodella/talentsync/internal/notify"
	"github.com/phanicodella/talentsync/internal/report"
	"github.com/phanicodella/talentsync/internal/repositories/mongo"
	"github.com/phanicodella/talentsync/internal/rooms"
	"github.com/phanicodella/talentsync/internal/routers"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("model", cfg.OpenAI.Model))

	// document store
	mongoClient, err := mongo.NewClient(context.Background(), cfg.Mongo)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	repo, err := mongo.NewInterviewRepo(mongoClient)
	if err != nil {
		logger.Fatal("Failed to initialize interview repository", zap.Error(err))
	}

	// external capability clients
	roomClient := rooms.NewClient(cfg.Daily, logger)
	provider, err := llm.NewProvider("openai", cfg)
	if err != nil {
		logger.Fatal("Failed to initialize AI provider", zap.Error(err))
	}

	controller := interview.NewController(repo, roomClient, provider, logger)
	renderer := report.NewRenderer()
	mailer := notify.NewMailer(cfg.SMTP, logger)

	interviewHandler := handlers.NewInterviewHandler(controller, renderer, mailer, cfg.IsDevelopment(), logger)
	healthHandler := handlers.NewHealthHandler(mongoClient)

	// stale-room reaper
	reaperJob := jobs.NewRoomReaperJob(repo, roomClient, cfg.Reaper, logger)
	if err := reaperJob.Start(); err != nil {
		logger.Error("Failed to start room reaper job", zap.Error(err))
	}

	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware)

	routers.HealthRoutes(router, healthHandler)
	routers.InterviewRoutes(router, interviewHandler, cfg.JWTSecret)

	serverAddr := ":" + cfg.Port

	// http server with timeouts
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
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

	reaperJob.Stop()

	// graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	if err := mongoClient.Disconnect(ctx); err != nil {
		logger.Error("failed to disconnect from MongoDB", zap.Error(err))
	}

	logger.Info("Interview service exited")
}
