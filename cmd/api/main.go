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

	pkgvalidator "github.com/DIZ-admin/meeting-minutes-generator-v2/pkg/validator"

	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/adapter/handler"
	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/adapter/repository"
	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/infrastructure/cache"
	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/infrastructure/database"
	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/infrastructure/storage"
	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/usecase/pipeline"
	pkgai "github.com/DIZ-admin/meeting-minutes-generator-v2/pkg/ai"
	"github.com/DIZ-admin/meeting-minutes-generator-v2/pkg/config"
	"github.com/DIZ-admin/meeting-minutes-generator-v2/pkg/progress"
	"github.com/DIZ-admin/meeting-minutes-generator-v2/pkg/tokenizer"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

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

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run migrations only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Running migrations (development only) ...")
		if err := database.AutoMigrate(db, "migrations"); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	runRepo := repository.NewRunRepository(db, logger)
	protocolRepo := repository.NewProtocolRepository(db)

	// Initialize object storage for protocol exports (optional)
	var artifacts pipeline.ArtifactStore
	if cfg.Storage.Endpoint != "" {
		log.Println("🗄️  Connecting to object storage...")
		minioClient, err := storage.NewMinIOClient(&cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to connect to object storage: %v", err)
		}
		artifacts = minioClient
	} else {
		log.Println("🗄️  Object storage not configured; protocol exports disabled")
	}

	// Initialize AI components
	log.Println("🤖 Initializing AI components...")
	responseCache := cache.NewMemoryStore()
	llmClient := pkgai.NewLLMClient(&cfg.LLM, responseCache)

	var transcriber *pkgai.Transcriber
	if cfg.AssemblyAI.APIKey != "" {
		transcriber = pkgai.NewTranscriber(&cfg.AssemblyAI, logger)
	}

	// Token counter with heuristic fallback when BPE files are
	// unavailable (e.g. offline environments).
	var counter tokenizer.Counter
	counter, err = tokenizer.NewTiktokenCounter(cfg.Pipeline.TokenEncoding)
	if err != nil {
		log.Printf("⚠️  Falling back to heuristic token counting: %v", err)
		counter = tokenizer.HeuristicCounter{}
	}

	// Assemble the pipeline
	log.Println("🧪 Assembling pipeline...")
	chunker := pipeline.NewChunker(counter, cfg.Pipeline.ChunkTokens, cfg.Pipeline.OverlapTokens, logger)
	extractor := pipeline.NewExtractor(llmClient, cfg.Pipeline.MaxAttempts, cfg.Pipeline.CallTimeout, logger)
	merger := pipeline.NewMerger(llmClient, pipeline.DefaultSimilarityThreshold, logger)
	refiner, err := pipeline.NewRefiner(llmClient, cfg.Pipeline.MaxAttempts, cfg.Pipeline.CallTimeout, logger)
	if err != nil {
		log.Fatalf("Failed to initialize refiner: %v", err)
	}

	sink := progress.MultiSink{progress.NewLogSink(logger), runRepo}
	coordinator := pipeline.NewCoordinator(chunker, extractor, merger, refiner, sink, cfg.Pipeline.MaxConcurrentExtractions, logger)
	pipelineService := pipeline.NewService(coordinator, runRepo, protocolRepo, artifacts, cfg.Pipeline.DefaultLanguage, logger)

	// Initialize protocol handler
	log.Println("🚀 Initializing protocol handler...")
	protocolHandler := handler.NewProtocolHandler(pipelineService, transcriber, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, protocolHandler)
	router.Setup(e)

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
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
