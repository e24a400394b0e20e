package order

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"eatery/internal/cart"
	"eatery/internal/menu"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) PublishOrderCreated(ctx context.Context, e Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

type failingClearer struct{}

func (failingClearer) RemoveLines(ctx context.Context, sessionID string, ids []int64) (int, error) {
	return 0, errors.New("cart store unavailable")
}

type fixture struct {
	carts  *cart.Service
	orders *Service
	repo   *InMemoryRepository
	pub    *recordingPublisher
}

func newFixture(t *testing.T, clearer CartLineRemover) *fixture {
	t.Helper()
	menus := menu.NewInMemoryRepository()
	for _, item := range []menu.Item{
		{ID: 1, Name: "Sate Ayam", Category: "Main", Price: 30000, IsAvailable: true},
		{ID: 2, Name: "Es Teh", Category: "Drink", Price: 8000, IsAvailable: true},
	} {
		item := item
		require.NoError(t, menus.Create(context.Background(), &item))
	}

	cartRepo := cart.NewInMemoryRepository(menus)
	if clearer == nil {
		clearer = cartRepo
	}
	repo := NewInMemoryRepository(clearer)
	pub := &recordingPublisher{}

	return &fixture{
		carts:  cart.NewService(cartRepo, menus),
		orders: NewService(repo, cartRepo, pub),
		repo:   repo,
		pub:    pub,
	}
}

func strPtr(s string) *string { return &s }

func TestCheckoutSnapshotsCartAndClearsIt(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.carts.Add(ctx, "s1", 1, 2, strPtr("extra sambal"))
	require.NoError(t, err)
	_, err = f.carts.Add(ctx, "s1", 2, 1, nil)
	require.NoError(t, err)

	o, err := f.orders.Checkout(ctx, "s1", CheckoutInput{CustomerName: strPtr("Budi"), TableNumber: strPtr("12")})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{6}$`), o.OrderNumber)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, 68000.0, o.Subtotal)
	assert.Equal(t, 6800.0, o.Tax)
	assert.Equal(t, 74800.0, o.Total)
	require.Len(t, o.Items, 2)
	assert.Equal(t, LineItem{
		MenuID: 1, MenuName: "Sate Ayam", Category: "Main", Price: 30000,
		Quantity: 2, Notes: strPtr("extra sambal"), Subtotal: 60000,
	}, o.Items[0])

	view, err := f.carts.View(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, view.Lines)

	require.Len(t, f.pub.events, 1)
	assert.Equal(t, EventOrderCreated, f.pub.events[0].Type)
	assert.Equal(t, o.OrderNumber, f.pub.events[0].OrderNumber)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.orders.Checkout(context.Background(), "s1", CheckoutInput{})
	assert.ErrorIs(t, err, ErrCartEmpty)
	assert.Zero(t, f.repo.Count())
	assert.Empty(t, f.pub.events)
}

func TestCheckoutIsAtomicWhenCartClearFails(t *testing.T) {
	f := newFixture(t, failingClearer{})
	ctx := context.Background()
	_, err := f.carts.Add(ctx, "s1", 1, 1, nil)
	require.NoError(t, err)

	_, err = f.orders.Checkout(ctx, "s1", CheckoutInput{})
	require.Error(t, err)

	assert.Zero(t, f.repo.Count())
	view, err := f.carts.View(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, view.Lines, 1)
	assert.Empty(t, f.pub.events)
}

// lateAddCarts adds a line right after the checkout read, as a second
// request for the same session would.
type lateAddCarts struct {
	*cart.InMemoryRepository
	menuID int64
}

func (c lateAddCarts) List(ctx context.Context, sessionID string) ([]cart.Line, error) {
	lines, err := c.InMemoryRepository.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := c.InMemoryRepository.Add(ctx, sessionID, c.menuID, 1, nil); err != nil {
		return nil, err
	}
	return lines, nil
}

func TestCheckoutKeepsLinesAddedDuringCheckout(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.carts.Add(ctx, "s1", 1, 1, nil)
	require.NoError(t, err)

	cartRepo := f.orders.carts.(*cart.InMemoryRepository)
	f.orders.carts = lateAddCarts{InMemoryRepository: cartRepo, menuID: 2}

	o, err := f.orders.Checkout(ctx, "s1", CheckoutInput{})
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Sate Ayam", o.Items[0].MenuName)

	view, err := f.carts.View(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, int64(2), view.Lines[0].MenuID)
}

func TestCheckoutSucceedsWhenPublishFails(t *testing.T) {
	f := newFixture(t, nil)
	f.pub.err = errors.New("broker down")
	ctx := context.Background()
	_, err := f.carts.Add(ctx, "s1", 1, 1, nil)
	require.NoError(t, err)

	o, err := f.orders.Checkout(ctx, "s1", CheckoutInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.Count())
	assert.NotEmpty(t, o.OrderNumber)
}

func TestCheckoutRetriesNumberCollision(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	numbers := []string{"ORD-20260101-AAAAAA", "ORD-20260101-AAAAAA", "ORD-20260101-BBBBBB"}
	f.orders.newNumber = func(time.Time) string {
		n := numbers[0]
		numbers = numbers[1:]
		return n
	}

	_, err := f.carts.Add(ctx, "s1", 1, 1, nil)
	require.NoError(t, err)
	_, err = f.orders.Checkout(ctx, "s1", CheckoutInput{})
	require.NoError(t, err)

	_, err = f.carts.Add(ctx, "s1", 2, 1, nil)
	require.NoError(t, err)
	o, err := f.orders.Checkout(ctx, "s1", CheckoutInput{})
	require.NoError(t, err)
	assert.Equal(t, "ORD-20260101-BBBBBB", o.OrderNumber)
}

func TestOrderSnapshotIgnoresLaterPriceChange(t *testing.T) {
	menus := menu.NewInMemoryRepository()
	item := menu.Item{ID: 1, Name: "Sate", Price: 10000, IsAvailable: true}
	require.NoError(t, menus.Create(context.Background(), &item))
	cartRepo := cart.NewInMemoryRepository(menus)
	carts := cart.NewService(cartRepo, menus)
	orders := NewService(NewInMemoryRepository(cartRepo), cartRepo, nil)
	ctx := context.Background()

	_, err := carts.Add(ctx, "s1", 1, 1, nil)
	require.NoError(t, err)
	o, err := orders.Checkout(ctx, "s1", CheckoutInput{})
	require.NoError(t, err)

	item.Price = 99999
	require.NoError(t, menus.Update(ctx, &item))

	got, err := orders.GetByNumber(ctx, o.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, 10000.0, got.Items[0].Price)
}

func TestGetByNumberUnknown(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.orders.GetByNumber(context.Background(), "ORD-00000000-XXXXXX")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.carts.Add(ctx, "s1", 1, 1, nil)
	require.NoError(t, err)
	o, err := f.orders.Checkout(ctx, "s1", CheckoutInput{})
	require.NoError(t, err)

	_, err = f.orders.UpdateStatus(ctx, o.OrderNumber, StatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.orders.UpdateStatus(ctx, o.OrderNumber, "teleported")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	for _, next := range []Status{StatusPreparing, StatusReady, StatusCompleted} {
		updated, err := f.orders.UpdateStatus(ctx, o.OrderNumber, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	_, err = f.orders.UpdateStatus(ctx, o.OrderNumber, StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestListBySessionNewestFirst(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	var numbers []string
	for i := 0; i < 2; i++ {
		_, err := f.carts.Add(ctx, "s1", 1, 1, nil)
		require.NoError(t, err)
		o, err := f.orders.Checkout(ctx, "s1", CheckoutInput{})
		require.NoError(t, err)
		numbers = append(numbers, o.OrderNumber)
	}

	orders, err := f.orders.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, numbers[1], orders[0].OrderNumber)

	others, err := f.orders.ListBySession(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, others)
}
