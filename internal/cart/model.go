package cart

import (
	"math"
	"time"
)

// TaxRate applied to every cart and order subtotal.
const TaxRate = 0.10

// Line is one (session, menu item) entry. Menu fields are read live from
// the menu table, so UnitPrice always reflects the current price.
type Line struct {
	ID           int64     `json:"id"`
	SessionID    string    `json:"-"`
	MenuID       int64     `json:"menu_id"`
	Quantity     int       `json:"quantity"`
	Notes        *string   `json:"notes"`
	MenuName     string    `json:"menu_name"`
	MenuCategory string    `json:"category"`
	MenuImageURL string    `json:"image_url,omitempty"`
	UnitPrice    float64   `json:"price"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (l Line) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Update is a partial change to a line. Nil fields are left alone.
type Update struct {
	Quantity *int    `json:"quantity"`
	Notes    *string `json:"notes"`
}

type Summary struct {
	Subtotal      float64 `json:"subtotal"`
	Tax           float64 `json:"tax"`
	Total         float64 `json:"total"`
	TotalItems    int     `json:"total_items"`
	TotalQuantity int     `json:"total_quantity"`
}

// Round2 rounds money to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func Summarize(lines []Line) Summary {
	var s Summary
	for _, l := range lines {
		s.Subtotal += l.Subtotal()
		s.TotalQuantity += l.Quantity
	}
	s.TotalItems = len(lines)
	s.Subtotal = Round2(s.Subtotal)
	s.Tax = Round2(s.Subtotal * TaxRate)
	s.Total = Round2(s.Subtotal + s.Tax)
	return s
}

// View is a cart with its computed totals.
type View struct {
	Lines   []Line  `json:"items"`
	Summary Summary `json:"summary"`
}
