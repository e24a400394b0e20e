package menu

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

// InMemoryRepository backs tests and local runs without Postgres.
// Semantic search ranks by cosine similarity.
type InMemoryRepository struct {
	mu         sync.RWMutex
	items      map[int64]*Item
	embeddings map[int64][]float32
	nextID     int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		items:      make(map[int64]*Item),
		embeddings: make(map[int64][]float32),
		nextID:     1,
	}
}

func cloneItem(item *Item) Item {
	c := *item
	c.Ingredients = append([]string(nil), item.Ingredients...)
	c.Allergens = append([]string(nil), item.Allergens...)
	return c
}

func (r *InMemoryRepository) sorted() []Item {
	out := make([]Item, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, cloneItem(item))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *InMemoryRepository) List(ctx context.Context, f Filter) (*Page, error) {
	f.Normalize()

	r.mu.RLock()
	all := r.sorted()
	r.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(f.Query))
	var matched []Item
	for _, item := range all {
		if q != "" &&
			!strings.Contains(strings.ToLower(item.Name), q) &&
			!strings.Contains(strings.ToLower(item.Description), q) &&
			!strings.Contains(strings.ToLower(strings.Join(item.Ingredients, " ")), q) {
			continue
		}
		if f.Category != "" && item.Category != f.Category {
			continue
		}
		if f.MinPrice != nil && item.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && item.Price > *f.MaxPrice {
			continue
		}
		if f.MaxCalories != nil && (item.Calories == nil || *item.Calories > *f.MaxCalories) {
			continue
		}
		matched = append(matched, item)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if f.SortOrder == "desc" {
			return lessBy(f.SortField, matched[j], matched[i])
		}
		return lessBy(f.SortField, matched[i], matched[j])
	})

	total := len(matched)
	start := (f.Page - 1) * f.PerPage
	if start > total {
		start = total
	}
	end := start + f.PerPage
	if end > total {
		end = total
	}
	return newPage(matched[start:end], total, f), nil
}

func lessBy(field string, a, b Item) bool {
	switch field {
	case "name":
		return a.Name < b.Name
	case "category":
		return a.Category < b.Category
	case "price":
		return a.Price < b.Price
	case "calories":
		return intOrZero(a.Calories) < intOrZero(b.Calories)
	case "created_at":
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	return a.ID < b.ID
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func (r *InMemoryRepository) ListAll(ctx context.Context) ([]Item, error) {
	r.mu.RLock()
	all := r.sorted()
	r.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool { return all[i].Category < all[j].Category })
	return all, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int64) (*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := cloneItem(item)
	return &c, nil
}

// Create keeps a caller-chosen ID so fixtures can pin IDs.
func (r *InMemoryRepository) Create(ctx context.Context, item *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == 0 {
		item.ID = r.nextID
	}
	if item.ID >= r.nextID {
		r.nextID = item.ID + 1
	}
	now := time.Now()
	item.CreatedAt, item.UpdatedAt = now, now

	c := cloneItem(item)
	r.items[item.ID] = &c
	return nil
}

func (r *InMemoryRepository) Update(ctx context.Context, item *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[item.ID]
	if !ok {
		return ErrNotFound
	}
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = time.Now()

	c := cloneItem(item)
	r.items[item.ID] = &c
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	delete(r.embeddings, id)
	return nil
}

func (r *InMemoryRepository) SetImageURL(ctx context.Context, id int64, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	item.ImageURL = url
	item.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryRepository) SetEmbedding(ctx context.Context, id int64, embedding []float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	r.embeddings[id] = append([]float32(nil), embedding...)
	return nil
}

// HasEmbedding reports whether an embedding was stored for id.
func (r *InMemoryRepository) HasEmbedding(id int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.embeddings[id]
	return ok
}

func (r *InMemoryRepository) ListForEmbedding(ctx context.Context, force bool, id int64) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Item
	for _, item := range r.sorted() {
		if id != 0 && item.ID != id {
			continue
		}
		if _, has := r.embeddings[item.ID]; has && !force {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *InMemoryRepository) SemanticSearch(
	ctx context.Context,
	embedding []float32,
	limit int,
	floor float64,
) ([]Item, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Item
	for _, item := range r.sorted() {
		vec, ok := r.embeddings[item.ID]
		if !ok {
			continue
		}
		sim := cosineSimilarity(embedding, vec)
		if sim < floor {
			continue
		}
		item.Similarity = &sim
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool { return *out[i].Similarity > *out[j].Similarity })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
