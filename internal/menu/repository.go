package menu

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("menu not found")

// Repository defines all database operations for menu items.
type Repository interface {

	// -------------------------------
	// Catalogue
	// -------------------------------

	List(ctx context.Context, f Filter) (*Page, error)
	GetByID(ctx context.Context, id int64) (*Item, error)
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id int64) error
	SetImageURL(ctx context.Context, id int64, url string) error

	// Items ordered by category then id.
	ListAll(ctx context.Context) ([]Item, error)

	// -------------------------------
	// Embeddings
	// -------------------------------

	SetEmbedding(ctx context.Context, id int64, embedding []float32) error

	// Items that still need an embedding, or every item when force is set.
	// A non-zero id restricts the result to that item.
	ListForEmbedding(ctx context.Context, force bool, id int64) ([]Item, error)

	// Items with similarity >= floor, most similar first, at most limit.
	SemanticSearch(ctx context.Context, embedding []float32, limit int, floor float64) ([]Item, error)
}
