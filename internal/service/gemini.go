package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/snapdish/backend/config"
	"github.com/snapdish/backend/internal/models"
)

const systemPrompt = `You are an AI chef assistant.
- Your job is to identify ingredients from an uploaded image and generate simple recipes.
- Always return valid JSON.
- JSON schema:
  {
    "ingredients": [ { "name": string, "category": string } ],
    "recipes": [
      { "title": string, "prep_time": string, "difficulty": string, "steps": [string] }
    ]
  }
- Do not include explanations or extra text outside JSON.
- If the image is unclear or contains non-food items, return an empty ingredient list and recipes array.`

const userPrompt = `Analyze the uploaded image. 1) Detect all visible food ingredients. 2) Suggest 3 recipes using ONLY these ingredients and common kitchen staples (oil, salt, pepper, basic spices).`

// UpstreamError marks failures of the external inference API so handlers
// can map them to 503 rather than 500.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("inference API unavailable: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// GeminiService handles interactions with the Google Gemini API
type GeminiService struct {
	model      string
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration

	// generate performs a single inference attempt. Replaced in tests.
	generate func(ctx context.Context, data []byte, mimeType string) (string, error)
}

// NewGeminiService creates a new GeminiService instance
func NewGeminiService(cfg *config.Config) (*GeminiService, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	s := &GeminiService{
		model:      cfg.GeminiModel,
		timeout:    cfg.RequestTimeout,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Second,
	}
	s.generate = func(ctx context.Context, data []byte, mimeType string) (string, error) {
		return generateContent(ctx, client, s.model, data, mimeType)
	}

	log.Printf("[GeminiService] Initialized with model %s", s.model)
	return s, nil
}

// AnalyzeImage sends the image bytes to Gemini and reshapes the answer into
// an AnalysisResult. Attempts are retried with exponential backoff; once
// they are exhausted the failure surfaces as an *UpstreamError.
func (s *GeminiService) AnalyzeImage(ctx context.Context, data []byte, mimeType string) (*models.AnalysisResult, error) {
	var lastErr error

	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
		text, err := s.generate(attemptCtx, data, mimeType)
		cancel()

		if err == nil {
			result := ParseAnalysis(text)
			log.Printf("[GeminiService] Analysis complete: %d ingredients, %d recipes",
				len(result.Ingredients), len(result.Recipes))
			return result, nil
		}

		lastErr = err
		log.Printf("[GeminiService] Attempt %d/%d failed: %v", attempt, s.maxRetries, err)

		if attempt < s.maxRetries {
			select {
			case <-ctx.Done():
				return nil, &UpstreamError{Err: ctx.Err()}
			case <-time.After(s.backoff << (attempt - 1)):
			}
		}
	}

	return nil, &UpstreamError{Err: lastErr}
}

// generateContent performs a single Gemini call with the image inline.
func generateContent(ctx context.Context, client *genai.Client, model string, data []byte, mimeType string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, mimeType),
			genai.NewPartFromText(userPrompt),
		}, genai.RoleUser),
	}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}

	resp, err := client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from gemini")
	}

	return text, nil
}
