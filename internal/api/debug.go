package api

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/snapdish/backend/config"
	"github.com/snapdish/backend/internal/service"
)

// DebugHandler exposes development-only introspection endpoints. The
// routes are only registered when debug mode is on.
type DebugHandler struct {
	cfg             *config.Config
	analysisService service.AnalysisServiceInterface
}

// NewDebugHandler creates a new DebugHandler instance
func NewDebugHandler(cfg *config.Config, analysisService service.AnalysisServiceInterface) *DebugHandler {
	return &DebugHandler{
		cfg:             cfg,
		analysisService: analysisService,
	}
}

// RegisterRoutes registers the debug routes
func (h *DebugHandler) RegisterRoutes(router *gin.RouterGroup) {
	debug := router.Group("/debug")
	{
		debug.GET("/config", h.Config)
		debug.POST("/test-gemini", h.TestGemini)
	}
}

// Config reports the effective non-secret configuration.
func (h *DebugHandler) Config(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"gemini_model":        h.cfg.GeminiModel,
		"max_file_size_mb":    h.cfg.MaxFileSizeMB,
		"allowed_file_types":  h.cfg.AllowedFileTypes,
		"allowed_origins":     h.cfg.AllowedOrigins,
		"request_timeout":     h.cfg.RequestTimeout.Seconds(),
		"max_retries":         h.cfg.MaxRetries,
		"rate_limit_requests": h.cfg.RateLimitRequests,
		"rate_limit_window":   h.cfg.RateLimitWindow.String(),
		"redis_configured":    h.cfg.RedisConfigured(),
	})
}

// TestGemini sends a generated 1x1 white JPEG through the full analysis
// pipeline to verify Gemini connectivity. A blank image should come back
// with empty results.
func (h *DebugHandler) TestGemini(c *gin.Context) {
	data, err := testImageJPEG()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	result, err := h.analysisService.AnalyzeImage(c.Request.Context(), data, "image/jpeg")
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"status":            "error",
			"gemini_responsive": false,
			"error":             err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":            "success",
		"gemini_responsive": true,
		"test_result": gin.H{
			"ingredients_found": len(result.Ingredients),
			"recipes_found":     len(result.Recipes),
		},
	})
}

func testImageJPEG() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.White)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
