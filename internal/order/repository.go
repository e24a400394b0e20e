package order

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrDuplicateNumber = errors.New("order number already exists")
)

type Repository interface {
	// Checkout stores o and deletes the cart lines it was built from in one
	// unit of work. If either step fails neither is visible.
	Checkout(ctx context.Context, o *Order, lineIDs []int64) error
	GetByNumber(ctx context.Context, number string) (*Order, error)
	ListBySession(ctx context.Context, sessionID string) ([]Order, error)
	UpdateStatus(ctx context.Context, number string, status Status) (*Order, error)
}
