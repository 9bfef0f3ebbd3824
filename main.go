package main

import (
	"log"

	"realty-insights-backend/config"
	"realty-insights-backend/handlers"
	"realty-insights-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// Minimal server: analysis over the published sheet, no database or storage.
// cmd/server runs the full stack.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: No .env file found, using environment variables")
	}

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	source := service.NewHTTPSource(cfg.SheetCSVURL, cfg.HTTPTimeout())
	datasetCache := service.NewDatasetCache(source)
	analysisService := service.NewAnalysisService(
		service.WithDatasetProvider(datasetCache),
	)
	analysisHandler := handlers.NewAnalysisHandler(analysisService)

	// Setup Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	r.POST("/analyze", analysisHandler.Analyze)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
