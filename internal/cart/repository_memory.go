package cart

import (
	"context"
	"sort"
	"sync"
	"time"

	"eatery/internal/menu"
)

// MenuLookup resolves the live menu fields of a line.
type MenuLookup interface {
	GetByID(ctx context.Context, id int64) (*menu.Item, error)
}

type InMemoryRepository struct {
	mu     sync.Mutex
	menus  MenuLookup
	lines  map[int64]*Line
	nextID int64
}

func NewInMemoryRepository(menus MenuLookup) *InMemoryRepository {
	return &InMemoryRepository{
		menus:  menus,
		lines:  make(map[int64]*Line),
		nextID: 1,
	}
}

// hydrate copies l and joins it with the current menu row.
func (r *InMemoryRepository) hydrate(ctx context.Context, l *Line) (*Line, error) {
	out := *l
	item, err := r.menus.GetByID(ctx, l.MenuID)
	if err != nil {
		return nil, err
	}
	out.MenuName = item.Name
	out.MenuCategory = item.Category
	out.MenuImageURL = item.ImageURL
	out.UnitPrice = item.Price
	return &out, nil
}

func (r *InMemoryRepository) Add(
	ctx context.Context,
	sessionID string,
	menuID int64,
	quantity int,
	notes *string,
) (*Line, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, l := range r.lines {
		if l.SessionID == sessionID && l.MenuID == menuID {
			l.Quantity += quantity
			if notes != nil {
				l.Notes = notes
			}
			l.UpdatedAt = now
			return r.hydrate(ctx, l)
		}
	}

	l := &Line{
		ID:        r.nextID,
		SessionID: sessionID,
		MenuID:    menuID,
		Quantity:  quantity,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.nextID++
	r.lines[l.ID] = l
	return r.hydrate(ctx, l)
}

func (r *InMemoryRepository) List(ctx context.Context, sessionID string) ([]Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []Line{}
	for _, l := range r.lines {
		if l.SessionID != sessionID {
			continue
		}
		h, err := r.hydrate(ctx, l)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *InMemoryRepository) find(sessionID string, id int64) (*Line, error) {
	l, ok := r.lines[id]
	if !ok || l.SessionID != sessionID {
		return nil, ErrNotFound
	}
	return l, nil
}

func (r *InMemoryRepository) Get(ctx context.Context, sessionID string, id int64) (*Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, err := r.find(sessionID, id)
	if err != nil {
		return nil, err
	}
	return r.hydrate(ctx, l)
}

func (r *InMemoryRepository) Update(ctx context.Context, sessionID string, id int64, upd Update) (*Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, err := r.find(sessionID, id)
	if err != nil {
		return nil, err
	}
	if upd.Quantity != nil {
		l.Quantity = *upd.Quantity
	}
	if upd.Notes != nil {
		l.Notes = upd.Notes
	}
	l.UpdatedAt = time.Now()
	return r.hydrate(ctx, l)
}

func (r *InMemoryRepository) Remove(ctx context.Context, sessionID string, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.find(sessionID, id); err != nil {
		return err
	}
	delete(r.lines, id)
	return nil
}

func (r *InMemoryRepository) RemoveByMenuIDs(ctx context.Context, sessionID string, menuIDs []int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[int64]bool, len(menuIDs))
	for _, id := range menuIDs {
		wanted[id] = true
	}

	removed := 0
	for id, l := range r.lines {
		if l.SessionID == sessionID && wanted[l.MenuID] {
			delete(r.lines, id)
			removed++
		}
	}
	return removed, nil
}

func (r *InMemoryRepository) RemoveLines(ctx context.Context, sessionID string, ids []int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for _, id := range ids {
		if l, ok := r.lines[id]; ok && l.SessionID == sessionID {
			delete(r.lines, id)
			removed++
		}
	}
	return removed, nil
}

func (r *InMemoryRepository) Clear(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, l := range r.lines {
		if l.SessionID == sessionID {
			delete(r.lines, id)
		}
	}
	return nil
}
