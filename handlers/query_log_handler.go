package handlers

import (
	"errors"
	"net/http"

	"realty-insights-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QueryLogHandler handles HTTP requests for the query history
type QueryLogHandler struct {
	queryLogService *service.QueryLogService
}

// NewQueryLogHandler creates a new query log handler
func NewQueryLogHandler(queryLogService *service.QueryLogService) *QueryLogHandler {
	return &QueryLogHandler{queryLogService: queryLogService}
}

// ListQueryLogs handles GET /api/queries
func (h *QueryLogHandler) ListQueryLogs(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	result, err := h.queryLogService.ListQueryLogs(c.Request.Context(), service.ListQueryLogsRequest{Limit: limit})
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
		"data":    result.Entries,
	})
}

// GetQueryLog handles GET /api/queries/:id
func (h *QueryLogHandler) GetQueryLog(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid query log ID format",
			},
		})
		return
	}

	result, err := h.queryLogService.GetQueryLog(c.Request.Context(), service.GetQueryLogRequest{ID: id})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRepositoryNotSet):
			respondNoDatabase(c)
		case errors.Is(err, service.ErrQueryLogNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Query log not found",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "GET_FAILED",
					"message": err.Error(),
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Entry,
	})
}
