package api

import (
	"github.com/gin-gonic/gin"

	"github.com/snapdish/backend/internal/models"
)

// respondError writes an ErrorResponse. Exception detail is only exposed
// when debug mode is on; production responses carry the message alone.
func respondError(c *gin.Context, debug bool, status int, message string, err error) {
	body := models.ErrorResponse{
		Error:      message,
		StatusCode: status,
	}
	if debug && err != nil {
		body.Detail = err.Error()
	}
	c.JSON(status, body)
}
