package cart

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("cart item not found")

// Repository stores cart lines. Every method is scoped to a session; a line
// belonging to another session is reported as ErrNotFound.
type Repository interface {
	// Add inserts a line or increments the quantity of the existing line
	// for the same menu item.
	Add(ctx context.Context, sessionID string, menuID int64, quantity int, notes *string) (*Line, error)
	List(ctx context.Context, sessionID string) ([]Line, error)
	Get(ctx context.Context, sessionID string, id int64) (*Line, error)
	Update(ctx context.Context, sessionID string, id int64, upd Update) (*Line, error)
	Remove(ctx context.Context, sessionID string, id int64) error
	// RemoveByMenuIDs deletes the lines for the given menu items and
	// returns how many were removed. Unknown IDs are ignored.
	RemoveByMenuIDs(ctx context.Context, sessionID string, menuIDs []int64) (int, error)
	// RemoveLines deletes exactly the given line IDs. Lines added after the
	// caller read the cart survive.
	RemoveLines(ctx context.Context, sessionID string, ids []int64) (int, error)
	Clear(ctx context.Context, sessionID string) error
}
