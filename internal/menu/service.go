package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrStorageUnavailable = errors.New("image storage not configured")

type Storage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Service struct {
	repo     Repository
	embedder Embedder
	storage  Storage

	// Pause between items during batch embedding.
	embedDelay time.Duration
	wg         sync.WaitGroup
}

// NewService wires the menu service. storage may be nil, in which case
// image uploads fail with ErrStorageUnavailable.
func NewService(repo Repository, embedder Embedder, storage Storage) *Service {
	return &Service{
		repo:       repo,
		embedder:   embedder,
		storage:    storage,
		embedDelay: 100 * time.Millisecond,
	}
}

// --------------------------------------------------
// Reads
// --------------------------------------------------

func (s *Service) List(ctx context.Context, f Filter) (*Page, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id int64) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

// GroupByCategory buckets every item by category. perCategory > 0 keeps at
// most that many items per bucket; zero returns counts only.
func (s *Service) GroupByCategory(ctx context.Context, perCategory int) ([]CategorySummary, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var out []CategorySummary
	index := map[string]int{}
	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(out)
			index[item.Category] = i
			out = append(out, CategorySummary{Category: item.Category})
		}
		out[i].Count++
		if perCategory > 0 && len(out[i].Items) < perCategory {
			out[i].Items = append(out[i].Items, item)
		}
	}
	return out, nil
}

// SemanticSearch exposes the repository search to the assistant.
func (s *Service) SemanticSearch(ctx context.Context, embedding []float32, limit int, floor float64) ([]Item, error) {
	return s.repo.SemanticSearch(ctx, embedding, limit, floor)
}

// --------------------------------------------------
// Writes (embedding refreshed in the background)
// --------------------------------------------------

func (s *Service) Create(ctx context.Context, in Input) (*Item, error) {
	item := &Item{}
	in.apply(item)

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.refreshEmbeddingAsync(*item)
	return item, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in.apply(item)
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.refreshEmbeddingAsync(*item)
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// UploadImage stores the image under menus/<id>/ and records its URL.
func (s *Service) UploadImage(
	ctx context.Context,
	id int64,
	file io.Reader,
	filename string,
) (*Item, error) {

	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	ext, contentType, err := ValidateImageExtension(filename)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("menus/%d/%s%s", id, uuid.New().String(), ext)
	url, err := s.storage.Upload(ctx, key, file, contentType)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetImageURL(ctx, id, url); err != nil {
		return nil, err
	}

	log.Printf("[MENU] image uploaded for menu=%d key=%s", id, key)
	return s.repo.GetByID(ctx, id)
}

// --------------------------------------------------
// Embeddings
// --------------------------------------------------

func (s *Service) refreshEmbeddingAsync(item Item) {
	if s.embedder == nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.embedItem(ctx, &item); err != nil {
			log.Printf("[MENU EMBED] menu=%d failed: %v", item.ID, err)
		}
	}()
}

// Wait blocks until background embedding refreshes finish.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) embedItem(ctx context.Context, item *Item) error {
	vec, err := s.embedder.Embed(ctx, item.EmbeddingText())
	if err != nil {
		return err
	}
	return s.repo.SetEmbedding(ctx, item.ID, vec)
}

// GenerateEmbeddings embeds every item lacking an embedding (or all items
// when force is set). A non-zero id limits the run to that item, which must
// exist. Per-item failures are counted, not returned.
func (s *Service) GenerateEmbeddings(ctx context.Context, force bool, id int64) (EmbedReport, error) {
	var report EmbedReport

	if s.embedder == nil {
		return report, errors.New("no embedding provider configured")
	}

	if id != 0 {
		if _, err := s.repo.GetByID(ctx, id); err != nil {
			return report, err
		}
	}

	items, err := s.repo.ListForEmbedding(ctx, force, id)
	if err != nil {
		return report, err
	}

	for i := range items {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if i > 0 && s.embedDelay > 0 {
			time.Sleep(s.embedDelay)
		}

		report.Processed++
		if err := s.embedItem(ctx, &items[i]); err != nil {
			report.Failed++
			log.Printf("[MENU EMBED] menu=%d (%s) failed: %v", items[i].ID, items[i].Name, err)
			continue
		}
		report.Succeeded++
	}

	log.Printf("[MENU EMBED] processed=%d succeeded=%d failed=%d",
		report.Processed, report.Succeeded, report.Failed)
	return report, nil
}
