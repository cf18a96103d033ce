package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/chensoul/interview-guide/internal/config"
	"github.com/chensoul/interview-guide/internal/events"
	"github.com/chensoul/interview-guide/internal/export"
	"github.com/chensoul/interview-guide/internal/export/pdf"
	"github.com/chensoul/interview-guide/internal/grading"
	"github.com/chensoul/interview-guide/internal/handlers"
	"github.com/chensoul/interview-guide/internal/history"
	"github.com/chensoul/interview-guide/internal/jobs"
	"github.com/chensoul/interview-guide/internal/llm"
	_ "github.com/chensoul/interview-guide/internal/llm/gemini"
	"github.com/chensoul/interview-guide/internal/metrics"
	"github.com/chensoul/interview-guide/internal/prompts"
	"github.com/chensoul/interview-guide/internal/questions"
	questionsmongo "github.com/chensoul/interview-guide/internal/questions/mongo"
	"github.com/chensoul/interview-guide/internal/routers"
	"github.com/chensoul/interview-guide/internal/session"
	"github.com/chensoul/interview-guide/internal/store"
)

func registerRoutes(router *chi.Mux, sessionHandler *handlers.SessionHandler, answerHandler *handlers.AnswerHandler, reportHandler *handlers.ReportHandler, healthHandler *handlers.HealthHandler) {
	routers.HealthRoutes(router, healthHandler)
	routers.InterviewRoutes(router, sessionHandler, answerHandler, reportHandler)
}

// initStore picks the session store from configuration. Postgres and
// sqlite share the gorm store; memory is for local runs without a file.
func initStore(cfg *config.Config) (store.SessionStore, error) {
	switch cfg.StoreDriver {
	case "postgres":
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return store.NewGormStore(db)
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite at %s: %w", cfg.SQLitePath, err)
		}
		return store.NewGormStore(db)
	default:
		return store.NewMemStore(), nil
	}
}

func initQuestionSource(ctx context.Context, cfg *config.Config) (questions.Source, error) {
	if cfg.QuestionSource == "mongo" {
		return questionsmongo.NewSource(ctx)
	}
	return questions.NewStaticSource()
}

// newRenderer builds the PDF renderer, downloading chromium first when
// PLAYWRIGHT_INSTALL is set. Deployments that bake the browser into the
// image leave it unset.
func newRenderer(logger *zap.Logger) export.Renderer {
	if os.Getenv("PLAYWRIGHT_INSTALL") == "true" {
		logger.Info("Installing chromium for PDF export")
		if err := pdf.Install(); err != nil {
			logger.Error("Failed to install chromium, PDF export may be unavailable", zap.Error(err))
		}
	}
	return pdf.NewRenderer()
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
		zap.String("store", cfg.StoreDriver),
		zap.String("questions", cfg.QuestionSource))

	// prompt manager
	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
	}

	// grading provider based on configuration
	provider, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		logger.Fatal("Failed to initialize grading provider", zap.Error(err))
	}

	sessionStore, err := initStore(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize session store", zap.Error(err))
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 15*time.Second)
	questionSource, err := initQuestionSource(startupCtx, cfg)
	cancelStartup()
	if err != nil {
		logger.Fatal("Failed to initialize question source", zap.Error(err))
	}

	manager := session.NewManager(sessionStore, questionSource, logger)

	// Optional completion events over redis pub/sub.
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("Invalid REDIS_URL", zap.Error(err))
		}
		rdb := redis.NewClient(opts)
		manager.SetPublisher(events.NewRedisPublisher(rdb, logger))
		logger.Info("Completion events enabled", zap.String("channel", events.InterviewCompletedChannel))
	}

	evaluator := grading.NewEvaluator(provider, promptManager, manager, logger)
	historyService := history.NewService(manager, newRenderer(logger), logger)

	sessionHandler := handlers.NewSessionHandler(manager, logger)
	answerHandler := handlers.NewAnswerHandler(evaluator, logger)
	reportHandler := handlers.NewReportHandler(manager, historyService, logger)
	healthHandler := handlers.NewHealthHandler(provider, promptManager, sessionStore, cfg)

	// Idle-session reaper.
	reaperJob := jobs.NewSessionReaperJob(manager, sessionStore, &jobs.ReaperConfig{
		Schedule: cfg.ReaperSchedule,
		MaxIdle:  cfg.SessionMaxIdle,
		Enabled:  cfg.ReaperEnabled,
	})
	if err := reaperJob.Start(); err != nil {
		logger.Error("Failed to start session reaper", zap.Error(err))
	}

	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(chimiddleware.RequestID, chimiddleware.RealIP, chimiddleware.Logger, chimiddleware.Recoverer, chimiddleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware("interview"))
	router.Handle("/metrics", metrics.Handler())

	registerRoutes(router, sessionHandler, answerHandler, reportHandler, healthHandler)

	serverAddr := ":" + cfg.Port

	// http server with timeouts
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
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

	logger.Info("Interview service exited")
}
