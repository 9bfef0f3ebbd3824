package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"realty-insights-backend/service"

	"github.com/gin-gonic/gin"
)

// DatasetHandler handles HTTP requests for the cached dataset
type DatasetHandler struct {
	cache     *service.DatasetCache
	snapshots *service.SnapshotService
}

// NewDatasetHandler creates a new dataset handler; snapshots may be nil
func NewDatasetHandler(cache *service.DatasetCache, snapshots *service.SnapshotService) *DatasetHandler {
	return &DatasetHandler{
		cache:     cache,
		snapshots: snapshots,
	}
}

// Refresh handles POST /api/dataset/refresh
func (h *DatasetHandler) Refresh(c *gin.Context) {
	ds, err := h.cache.Load(c.Request.Context(), true)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REFRESH_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"rows":      ds.Len(),
			"columns":   len(ds.Schema.Columns),
			"loaded_at": ds.LoadedAt,
		},
	})
}

// Schema handles GET /api/dataset/schema
func (h *DatasetHandler) Schema(c *gin.Context) {
	ds, err := h.cache.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ds.Schema,
	})
}

// Snapshots handles GET /api/dataset/snapshots
func (h *DatasetHandler) Snapshots(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	snapshots, err := h.snapshots.ListSnapshots(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, service.ErrRepositoryNotSet) {
			respondNoDatabase(c)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    snapshots,
	})
}

// parseLimit reads the optional ?limit= parameter, writing a 400 when it is malformed
func parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_LIMIT",
				"message": "limit must be a non-negative integer",
			},
		})
		return 0, false
	}
	return limit, true
}

func respondNoDatabase(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "NO_DATABASE",
			"message": "Database is not configured",
		},
	})
}
