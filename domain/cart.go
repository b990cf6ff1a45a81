package domain

import "time"

// CartLine is one product in the cart with the quantity being sold.
type CartLine struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int32   `json:"quantity"`
}

func (l CartLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// CartSnapshot is the full cart state captured at submission time. Later
// cart mutations never reach a snapshot.
type CartSnapshot struct {
	Items      []CartLine `json:"items"`
	Total      float64    `json:"total"`
	Currency   string     `json:"currency"`
	CapturedAt time.Time  `json:"captured_at"`
}
