package llm

import (
	"context"
	"errors"
	"fmt"
)

// Generator produces the next model message for a conversation.
type Generator interface {
	GenerateContent(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
}

// Embedder turns text into a fixed-width vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

var (
	ErrEmptyResponse = errors.New("empty gemini response")
	ErrEmptyInput    = errors.New("empty input text")
)

// APIError is a non-2xx answer from the provider.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini api error: status %d: %s", e.StatusCode, e.Body)
}
