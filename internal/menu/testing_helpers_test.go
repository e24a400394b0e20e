package menu

import (
	"context"
	"errors"
	"io"
	"sync"
)

type stubEmbedder struct {
	mu    sync.Mutex
	texts []string
	fail  map[string]bool
}

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.texts = append(e.texts, text)
	if e.fail[text] {
		return nil, errors.New("embedding failed")
	}
	return []float32{1, 0, 0}, nil
}

type stubStorage struct {
	key         string
	contentType string
	body        []byte
}

func (s *stubStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	s.key = key
	s.contentType = contentType
	s.body, _ = io.ReadAll(body)
	return "https://cdn.example/" + key, nil
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func boolPtr(v bool) *bool { return &v }

func seed(repo *InMemoryRepository, items ...Item) {
	for i := range items {
		_ = repo.Create(context.Background(), &items[i])
	}
}
