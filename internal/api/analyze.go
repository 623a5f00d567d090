package api

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/snapdish/backend/config"
	"github.com/snapdish/backend/internal/middleware"
	"github.com/snapdish/backend/internal/models"
	"github.com/snapdish/backend/internal/service"
)

// AnalyzeHandler handles image analysis requests
type AnalyzeHandler struct {
	cfg             *config.Config
	analysisService service.AnalysisServiceInterface
	rateLimiter     *middleware.RateLimiter
}

// NewAnalyzeHandler creates a new AnalyzeHandler instance
func NewAnalyzeHandler(cfg *config.Config, analysisService service.AnalysisServiceInterface, rateLimiter *middleware.RateLimiter) *AnalyzeHandler {
	return &AnalyzeHandler{
		cfg:             cfg,
		analysisService: analysisService,
		rateLimiter:     rateLimiter,
	}
}

// RegisterRoutes registers the analysis routes
func (h *AnalyzeHandler) RegisterRoutes(router *gin.RouterGroup) {
	analyze := router.Group("/analyze")
	if h.rateLimiter != nil {
		analyze.Use(h.rateLimiter.RateLimitMiddleware())
	}
	analyze.POST("", h.Analyze)
}

// Analyze accepts one uploaded image, validates it, and returns detected
// ingredients with recipe suggestions.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, h.cfg.Debug, http.StatusBadRequest, "No file provided", err)
		return
	}

	log.Printf("[AnalyzeHandler] Received image analysis request: %s (%d bytes)", fileHeader.Filename, fileHeader.Size)

	contentType := strings.TrimSpace(fileHeader.Header.Get("Content-Type"))
	if !h.cfg.IsAllowedFileType(contentType) {
		respondError(c, h.cfg.Debug, http.StatusBadRequest,
			fmt.Sprintf("Unsupported file type. Allowed types: %s", strings.Join(h.cfg.AllowedFileTypes, ", ")), nil)
		return
	}

	maxBytes := h.cfg.MaxFileSizeBytes()
	if fileHeader.Size > maxBytes {
		respondError(c, h.cfg.Debug, http.StatusBadRequest,
			fmt.Sprintf("File too large. Maximum size: %dMB", h.cfg.MaxFileSizeMB), nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, h.cfg.Debug, http.StatusBadRequest, "Failed to read uploaded file", err)
		return
	}
	defer func() { _ = file.Close() }()

	// The declared size is client-controlled, so the read is capped too.
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		respondError(c, h.cfg.Debug, http.StatusBadRequest, "Failed to read uploaded file", err)
		return
	}
	if int64(len(data)) > maxBytes {
		respondError(c, h.cfg.Debug, http.StatusBadRequest,
			fmt.Sprintf("File too large. Maximum size: %dMB", h.cfg.MaxFileSizeMB), nil)
		return
	}
	if len(data) == 0 {
		respondError(c, h.cfg.Debug, http.StatusBadRequest, "Empty file provided", nil)
		return
	}

	result, err := h.analysisService.AnalyzeImage(c.Request.Context(), data, contentType)
	if err != nil {
		var upErr *service.UpstreamError
		if errors.As(err, &upErr) {
			log.Printf("[AnalyzeHandler] Inference API error: %v", err)
			respondError(c, h.cfg.Debug, http.StatusServiceUnavailable,
				"Analysis service temporarily unavailable. Please try again later.", err)
			return
		}
		log.Printf("[AnalyzeHandler] Unexpected error during analysis: %v", err)
		respondError(c, h.cfg.Debug, http.StatusInternalServerError,
			"Internal server error during image analysis", err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    *result,
		Message: "Image analyzed successfully",
	})
}
