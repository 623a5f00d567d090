package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	ServiceName    = "snapdish-backend"
	ServiceVersion = "1.0.0"
)

// HealthCheck returns the health status of the API. It reports healthy
// whenever the process is running, independent of Gemini or Redis.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": ServiceName,
		"version": ServiceVersion,
	})
}
