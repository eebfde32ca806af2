package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/johnquangdev/memory-care/docs"
	pkgvalidator "github.com/johnquangdev/memory-care/pkg/validator"

	"github.com/johnquangdev/memory-care/internal/adapter/handler"
	"github.com/johnquangdev/memory-care/internal/adapter/repository"
	"github.com/johnquangdev/memory-care/internal/infrastructure/cache"
	"github.com/johnquangdev/memory-care/internal/infrastructure/database"
	httpmw "github.com/johnquangdev/memory-care/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/memory-care/internal/infrastructure/storage"
	recordinguse "github.com/johnquangdev/memory-care/internal/usecase/recording"
	speechuse "github.com/johnquangdev/memory-care/internal/usecase/speech"
	pkgai "github.com/johnquangdev/memory-care/pkg/ai"
	"github.com/johnquangdev/memory-care/pkg/config"
	"github.com/johnquangdev/memory-care/pkg/jwt"
	"github.com/johnquangdev/memory-care/pkg/speechmetrics"
)

// @title           Memory Care API
// @version         1.0
// @description     Speech recordings, linguistic metrics and baseline reports for cognitive health monitoring

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Cookie"},
		AllowCredentials: true,
	}))

	log.Println("🔧 Initializing dependencies...")
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Production deployments manage schema with cmd/migrate
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db, cfg.Database.Migrations); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; run cmd/migrate to update the schema")
	}

	dependencies := map[string]handler.Pinger{
		"database": handler.PingFunc(func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
	}

	// Report cache: Redis when configured, in-memory otherwise
	var reportCache cache.Cache
	if cfg.Redis.Host != "" {
		log.Println("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(initCtx, cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		reportCache = cache.NewRedisCache(redisClient)
		dependencies["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	} else {
		log.Println("⚠️  REDIS_HOST is empty, using in-memory report cache")
		memoryStore := cache.NewMemoryStore()
		defer memoryStore.Close()
		reportCache = memoryStore
	}

	// Initialize object storage
	log.Println("🗄️  Connecting to object storage...")
	minioClient, err := storage.NewMinIOClient(initCtx, &cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	dependencies["storage"] = minioClient

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	recordingRepo := repository.NewRecordingRepository(db)
	jobRepo := repository.NewAnalysisJobRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)

	// Initialize AI clients
	log.Println("🤖 Initializing AI components...")
	var transcriber recordinguse.Transcriber
	if cfg.Assembly.APIKey != "" {
		transcriber = pkgai.NewAssemblyAIClient(cfg.Assembly)
	} else {
		log.Println("⚠️  ASSEMBLYAI_API_KEY is empty, uploads will stay pending")
	}

	var journal recordinguse.JournalWriter
	if groqClient := pkgai.NewGroqClient(cfg.Groq); groqClient.Enabled() {
		journal = groqClient
	} else {
		log.Println("⚠️  GROQ_API_KEY is empty, conversation journals are disabled")
	}

	analyzer := speechmetrics.New(cfg.Metrics.Thresholds())

	// Initialize services
	speechService := speechuse.NewService(recordingRepo, analyzer, reportCache, cfg.Cache.ReportTTL, logger)
	recordingService := recordinguse.NewService(
		recordingRepo,
		jobRepo,
		transcriptRepo,
		minioClient,
		transcriber,
		journal,
		analyzer,
		cfg,
		logger,
	)

	// Initialize JWT manager
	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.Issuer, cfg.JWT.AccessExpiry)
	authEchoMW := httpmw.EchoAuth(jwtManager)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(
		cfg,
		logger,
		handler.NewSpeechHandler(speechService, logger),
		handler.NewRecordingHandler(recordingService, logger),
		handler.NewWebhookHandler(recordingService, logger),
		authEchoMW,
		dependencies,
	)
	router.Setup(e)

	// Start background workers
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	if cfg.Worker.Enabled {
		log.Println("👷 Starting analysis workers...")
		if err := recordingService.StartWorkerPool(workerCtx); err != nil {
			log.Fatalf("Failed to start worker pool: %v", err)
		}
	}

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("❌ Server forced to shutdown", zap.Error(err))
	}

	if cfg.Worker.Enabled {
		if err := recordingService.StopWorkerPool(); err != nil {
			logger.Warn("failed to stop worker pool", zap.Error(err))
		}
	}

	log.Println("✅ Server stopped gracefully")
}
