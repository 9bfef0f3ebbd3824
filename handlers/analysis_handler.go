package handlers

import (
	"errors"
	"io"
	"net/http"

	"realty-insights-backend/service"

	"github.com/gin-gonic/gin"
)

// AnalysisHandler handles HTTP requests for query analysis
type AnalysisHandler struct {
	analysisService *service.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisService *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// AnalyzeRequest represents the request body for analyzing a query
type AnalyzeRequest struct {
	Query   string `json:"query"`
	Narrate bool   `json:"narrate"`
}

// Analyze handles POST /analyze and POST /api/analyze
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	// an empty body is treated like {}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}

	serviceReq := service.AnalyzeRequest{
		Query:   req.Query,
		Narrate: req.Narrate,
	}

	result, err := h.analysisService.Analyze(c.Request.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, service.ErrQueryRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result.Result)
}
