package main

import (
	"context"
	"log"

	"realty-insights-backend/config"
	"realty-insights-backend/handlers"
	"realty-insights-backend/repository"
	"realty-insights-backend/service"
	"realty-insights-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

func main() {
	// Load .env file from project root (relative to cmd/server/)
	// Try current directory first, then project root
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found, using environment variables")
		}
	}

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Initialize database connections (optional)
	var (
		queryLogRepo *repository.QueryLogRepository
		snapshotRepo *repository.SnapshotRepository
	)
	if cfg.DatabaseURL != "" {
		db, err := initPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to initialize Postgres:", err)
		}
		defer db.Close()

		queryLogRepo = repository.NewQueryLogRepository(db)
		snapshotRepo = repository.NewSnapshotRepository(db)
	} else {
		log.Println("Warning: DATABASE_URL not set, query history and snapshot records are disabled")
	}

	// Initialize storage
	var fileStorage storage.Storage
	if cfg.StorageNeeded() {
		fileStorage, err = storage.NewStorage(cfg.ToStorageConfig())
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		log.Println("Storage initialized")
	}

	// Initialize sheet source
	var source service.SheetSource
	switch cfg.SheetSource {
	case config.SourceStorage:
		source = service.NewStorageSource(fileStorage, cfg.SheetObjectPath)
	default:
		source = service.NewHTTPSource(cfg.SheetCSVURL, cfg.HTTPTimeout())
	}
	log.Printf("Sheet source: %s", source.Describe())

	// Initialize services
	var snapshotService *service.SnapshotService
	var cacheOpts []service.DatasetCacheOption
	if cfg.SnapshotArchive {
		archive, err := storage.NewZstdStorage(fileStorage, cfg.SnapshotZstdLevel)
		if err != nil {
			log.Fatalf("Failed to initialize snapshot archive: %v", err)
		}
		defer archive.Close()

		// A nil *SnapshotRepository must not become a non-nil interface
		if snapshotRepo != nil {
			snapshotService = service.NewSnapshotService(archive, snapshotRepo)
		} else {
			snapshotService = service.NewSnapshotService(archive, nil)
		}
		cacheOpts = append(cacheOpts, service.CacheWithArchiver(snapshotService))
	} else if snapshotRepo != nil {
		snapshotService = service.NewSnapshotService(nil, snapshotRepo)
	}

	datasetCache := service.NewDatasetCache(source, cacheOpts...)

	analysisOpts := []service.AnalysisServiceOption{
		service.WithDatasetProvider(datasetCache),
	}
	if queryLogRepo != nil {
		analysisOpts = append(analysisOpts, service.WithQueryLogRepository(queryLogRepo))
	}

	if cfg.GeminiAPIKey != "" {
		geminiClient, err := initGemini(cfg.GeminiAPIKey)
		if err != nil {
			log.Fatal("Failed to initialize Gemini:", err)
		}
		defer geminiClient.Close()
		analysisOpts = append(analysisOpts, service.WithNarrator(service.NewGeminiNarrator(geminiClient, cfg.GeminiModel)))
	} else {
		log.Println("Warning: GEMINI_API_KEY not set, narration is disabled")
	}

	analysisService := service.NewAnalysisService(analysisOpts...)

	var queryLogService *service.QueryLogService
	if queryLogRepo != nil {
		queryLogService = service.NewQueryLogService(queryLogRepo)
	} else {
		queryLogService = service.NewQueryLogService(nil)
	}

	if cfg.PreloadDataset {
		if _, err := datasetCache.Get(context.Background()); err != nil {
			log.Printf("Warning: Failed to preload dataset: %v", err)
		}
	}

	// Initialize handlers
	analysisHandler := handlers.NewAnalysisHandler(analysisService)
	datasetHandler := handlers.NewDatasetHandler(datasetCache, snapshotService)
	queryLogHandler := handlers.NewQueryLogHandler(queryLogService)

	// Setup Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	r.POST("/analyze", analysisHandler.Analyze)

	// API routes
	api := r.Group("/api")
	{
		api.POST("/analyze", analysisHandler.Analyze)

		// Dataset endpoints
		api.POST("/dataset/refresh", handlers.RequireAdminToken(cfg.AdminTokenHash), datasetHandler.Refresh)
		api.GET("/dataset/schema", datasetHandler.Schema)
		api.GET("/dataset/snapshots", datasetHandler.Snapshots)

		// Query history endpoints
		api.GET("/queries", queryLogHandler.ListQueryLogs)
		api.GET("/queries/:id", queryLogHandler.GetQueryLog)
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func initPostgres(connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, err
	}

	log.Println("Postgres connection established")
	return pool, nil
}

func initGemini(apiKey string) (*genai.Client, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	log.Println("Gemini client initialized")
	return client, nil
}
