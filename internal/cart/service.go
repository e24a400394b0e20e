package cart

import (
	"context"
	"errors"

	"eatery/internal/menu"
)

var (
	ErrMenuUnavailable = errors.New("menu is not available")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrNoMenuIDs       = errors.New("no menu_ids provided")
)

type MenuReader interface {
	GetByID(ctx context.Context, id int64) (*menu.Item, error)
}

type Service struct {
	repo  Repository
	menus MenuReader
}

func NewService(repo Repository, menus MenuReader) *Service {
	return &Service{repo: repo, menus: menus}
}

// Add puts quantity units of an available menu item in the session cart.
// Unknown items return menu.ErrNotFound.
func (s *Service) Add(
	ctx context.Context,
	sessionID string,
	menuID int64,
	quantity int,
	notes *string,
) (*Line, error) {

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.menus.GetByID(ctx, menuID)
	if err != nil {
		return nil, err
	}
	if !item.IsAvailable {
		return nil, ErrMenuUnavailable
	}

	return s.repo.Add(ctx, sessionID, menuID, quantity, notes)
}

func (s *Service) View(ctx context.Context, sessionID string) (*View, error) {
	lines, err := s.repo.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &View{Lines: lines, Summary: Summarize(lines)}, nil
}

func (s *Service) Update(ctx context.Context, sessionID string, id int64, upd Update) (*Line, error) {
	if upd.Quantity != nil && *upd.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	return s.repo.Update(ctx, sessionID, id, upd)
}

func (s *Service) Remove(ctx context.Context, sessionID string, id int64) error {
	return s.repo.Remove(ctx, sessionID, id)
}

func (s *Service) RemoveByMenuIDs(ctx context.Context, sessionID string, menuIDs []int64) (int, error) {
	if len(menuIDs) == 0 {
		return 0, ErrNoMenuIDs
	}
	return s.repo.RemoveByMenuIDs(ctx, sessionID, menuIDs)
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.repo.Clear(ctx, sessionID)
}
