package order

import (
	"context"
	"sort"
	"sync"
	"time"
)

// CartLineRemover deletes the checked-out lines of a session cart.
type CartLineRemover interface {
	RemoveLines(ctx context.Context, sessionID string, ids []int64) (int, error)
}

type InMemoryRepository struct {
	mu     sync.Mutex
	carts  CartLineRemover
	orders map[string]*Order
	nextID int64
}

func NewInMemoryRepository(carts CartLineRemover) *InMemoryRepository {
	return &InMemoryRepository{
		carts:  carts,
		orders: make(map[string]*Order),
		nextID: 1,
	}
}

// Checkout stores the order, then removes the snapshotted cart lines. A
// failed removal drops the order again so the pair stays atomic.
func (r *InMemoryRepository) Checkout(ctx context.Context, o *Order, lineIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[o.OrderNumber]; exists {
		return ErrDuplicateNumber
	}

	now := time.Now()
	o.ID = r.nextID
	o.CreatedAt, o.UpdatedAt = now, now

	stored := *o
	stored.Items = append([]LineItem(nil), o.Items...)
	r.orders[o.OrderNumber] = &stored

	if _, err := r.carts.RemoveLines(ctx, o.SessionID, lineIDs); err != nil {
		delete(r.orders, o.OrderNumber)
		o.ID = 0
		return err
	}

	r.nextID++
	return nil
}

func (r *InMemoryRepository) GetByNumber(ctx context.Context, number string) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[number]
	if !ok {
		return nil, ErrNotFound
	}
	c := *o
	return &c, nil
}

func (r *InMemoryRepository) ListBySession(ctx context.Context, sessionID string) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []Order{}
	for _, o := range r.orders {
		if o.SessionID == sessionID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *InMemoryRepository) UpdateStatus(ctx context.Context, number string, status Status) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[number]
	if !ok {
		return nil, ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	c := *o
	return &c, nil
}

// Count returns the number of stored orders.
func (r *InMemoryRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}
