package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(generate func(ctx context.Context, data []byte, mimeType string) (string, error)) *GeminiService {
	return &GeminiService{
		model:      "gemini-test",
		timeout:    time.Second,
		maxRetries: 3,
		backoff:    time.Millisecond,
		generate:   generate,
	}
}

func TestAnalyzeImageSuccess(t *testing.T) {
	s := newTestService(func(ctx context.Context, data []byte, mimeType string) (string, error) {
		assert.Equal(t, "image/jpeg", mimeType)
		return `{"ingredients": [{"name": "lemon", "category": "fruit"}], "recipes": []}`, nil
	})

	result, err := s.AnalyzeImage(context.Background(), []byte{0xFF, 0xD8}, "image/jpeg")
	require.NoError(t, err)
	require.Len(t, result.Ingredients, 1)
	assert.Equal(t, "lemon", result.Ingredients[0].Name)
}

func TestAnalyzeImageRetriesThenSucceeds(t *testing.T) {
	attempts := 0
	s := newTestService(func(ctx context.Context, data []byte, mimeType string) (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("transient upstream error")
		}
		return `{"ingredients": [], "recipes": []}`, nil
	})

	result, err := s.AnalyzeImage(context.Background(), []byte{0x01}, "image/png")
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, 3, attempts)
}

func TestAnalyzeImageExhaustsRetries(t *testing.T) {
	attempts := 0
	s := newTestService(func(ctx context.Context, data []byte, mimeType string) (string, error) {
		attempts++
		return "", errors.New("upstream down")
	})

	result, err := s.AnalyzeImage(context.Background(), []byte{0x01}, "image/png")
	assert.Nil(t, result)
	assert.Equal(t, 3, attempts)

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Contains(t, upErr.Error(), "upstream down")
}

func TestAnalyzeImageStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newTestService(func(ctx context.Context, data []byte, mimeType string) (string, error) {
		cancel()
		return "", errors.New("failure before cancel")
	})
	s.backoff = time.Minute // would hang if cancellation were ignored

	_, err := s.AnalyzeImage(ctx, []byte{0x01}, "image/png")

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.ErrorIs(t, upErr.Unwrap(), context.Canceled)
}

func TestAnalyzeImageUnparseableAnswerIsNotAnError(t *testing.T) {
	s := newTestService(func(ctx context.Context, data []byte, mimeType string) (string, error) {
		return "I could not find any food in this picture.", nil
	})

	result, err := s.AnalyzeImage(context.Background(), []byte{0x01}, "image/jpeg")
	require.NoError(t, err)
	assert.Empty(t, result.Ingredients)
	assert.Empty(t, result.Recipes)
}
