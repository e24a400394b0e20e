package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"eatery/internal/cart"

	"github.com/google/uuid"
)

var (
	ErrCartEmpty         = errors.New("cart is empty")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("order status change not allowed")
)

const numberAttempts = 3

type CartReader interface {
	List(ctx context.Context, sessionID string) ([]cart.Line, error)
}

// Publisher announces committed orders. Delivery failures never undo an
// order.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, e Event) error
}

type Service struct {
	repo      Repository
	carts     CartReader
	publisher Publisher
	now       func() time.Time
	newNumber func(time.Time) string
}

// NewService wires checkout. publisher may be nil.
func NewService(repo Repository, carts CartReader, publisher Publisher) *Service {
	return &Service{
		repo:      repo,
		carts:     carts,
		publisher: publisher,
		now:       time.Now,
		newNumber: GenerateOrderNumber,
	}
}

// GenerateOrderNumber returns ORD-YYYYMMDD-XXXXXX with six random
// uppercase hex characters.
func GenerateOrderNumber(t time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("ORD-%s-%s", t.Format("20060102"), suffix)
}

// --------------------------------------------------
// Checkout
// --------------------------------------------------

// Checkout converts the session cart into a pending order and removes the
// lines it ordered. Lines added meanwhile stay in the cart. An empty cart
// is ErrCartEmpty and creates nothing.
func (s *Service) Checkout(ctx context.Context, sessionID string, in CheckoutInput) (*Order, error) {
	lines, err := s.carts.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	summary := cart.Summarize(lines)
	items := make([]LineItem, 0, len(lines))
	lineIDs := make([]int64, 0, len(lines))
	for _, l := range lines {
		lineIDs = append(lineIDs, l.ID)
		items = append(items, LineItem{
			MenuID:   l.MenuID,
			MenuName: l.MenuName,
			Category: l.MenuCategory,
			Price:    l.UnitPrice,
			Quantity: l.Quantity,
			Notes:    l.Notes,
			Subtotal: cart.Round2(l.Subtotal()),
		})
	}

	o := &Order{
		SessionID:     sessionID,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		TableNumber:   in.TableNumber,
		Notes:         in.Notes,
		Items:         items,
		Subtotal:      summary.Subtotal,
		Tax:           summary.Tax,
		Total:         summary.Total,
		Status:        StatusPending,
	}

	for attempt := 1; ; attempt++ {
		o.OrderNumber = s.newNumber(s.now())
		err = s.repo.Checkout(ctx, o, lineIDs)
		if !errors.Is(err, ErrDuplicateNumber) || attempt == numberAttempts {
			break
		}
		log.Printf("[ORDER] number collision on %s, retrying", o.OrderNumber)
	}
	if err != nil {
		return nil, err
	}

	log.Printf("[ORDER] created %s session=%s total=%.2f", o.OrderNumber, sessionID, o.Total)
	s.publish(ctx, o)
	return o, nil
}

func (s *Service) publish(ctx context.Context, o *Order) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderCreated(ctx, newCreatedEvent(o)); err != nil {
		log.Printf("[ORDER] publish %s failed: %v", o.OrderNumber, err)
	}
}

// --------------------------------------------------
// Reads / status
// --------------------------------------------------

func (s *Service) GetByNumber(ctx context.Context, number string) (*Order, error) {
	return s.repo.GetByNumber(ctx, number)
}

func (s *Service) ListBySession(ctx context.Context, sessionID string) ([]Order, error) {
	return s.repo.ListBySession(ctx, sessionID)
}

func (s *Service) UpdateStatus(ctx context.Context, number string, next Status) (*Order, error) {
	if !next.Valid() {
		return nil, ErrInvalidStatus
	}

	o, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanMoveTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}

	return s.repo.UpdateStatus(ctx, number, next)
}
