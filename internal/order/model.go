package order

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanMoveTo reports whether the kitchen may move an order from s to next.
func (s Status) CanMoveTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// LineItem is the checkout-time snapshot of a cart line. Later menu edits
// never change it.
type LineItem struct {
	MenuID   int64   `json:"menu_id"`
	MenuName string  `json:"menu_name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Notes    *string `json:"notes"`
	Subtotal float64 `json:"subtotal"`
}

type Order struct {
	ID            int64      `json:"id"`
	OrderNumber   string     `json:"order_number"`
	SessionID     string     `json:"-"`
	CustomerName  *string    `json:"customer_name"`
	CustomerPhone *string    `json:"customer_phone"`
	TableNumber   *string    `json:"table_number"`
	Items         []LineItem `json:"items"`
	Subtotal      float64    `json:"subtotal"`
	Tax           float64    `json:"tax"`
	Total         float64    `json:"total"`
	Status        Status     `json:"status"`
	Notes         *string    `json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type CheckoutInput struct {
	CustomerName  *string `json:"customer_name" binding:"omitempty,max=255"`
	CustomerPhone *string `json:"customer_phone" binding:"omitempty,max=20"`
	TableNumber   *string `json:"table_number" binding:"omitempty,max=10"`
	Notes         *string `json:"notes" binding:"omitempty,max=1000"`
}

// Event is published after an order is committed.
type Event struct {
	Type        string     `json:"type"`
	OrderNumber string     `json:"order_number"`
	SessionID   string     `json:"session_id"`
	TableNumber *string    `json:"table_number,omitempty"`
	Items       []LineItem `json:"items"`
	Total       float64    `json:"total"`
	CreatedAt   time.Time  `json:"created_at"`
}

const EventOrderCreated = "order.created"

func newCreatedEvent(o *Order) Event {
	return Event{
		Type:        EventOrderCreated,
		OrderNumber: o.OrderNumber,
		SessionID:   o.SessionID,
		TableNumber: o.TableNumber,
		Items:       o.Items,
		Total:       o.Total,
		CreatedAt:   o.CreatedAt,
	}
}
