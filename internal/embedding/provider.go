package embedding

import "context"

// Provider turns text into a vector. The Gemini client satisfies it.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
