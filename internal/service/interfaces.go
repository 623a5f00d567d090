package service

import (
	"context"

	"github.com/snapdish/backend/internal/models"
)

// AnalysisServiceInterface defines the image analysis operations used by
// the API handlers. Kept as an interface so handlers can be tested with
// a stub instead of a live Gemini client.
type AnalysisServiceInterface interface {
	// AnalyzeImage sends the image to the model and reshapes its answer.
	// Returns an *UpstreamError when the model could not be reached or
	// kept erroring after retries.
	AnalyzeImage(ctx context.Context, data []byte, mimeType string) (*models.AnalysisResult, error)
}
