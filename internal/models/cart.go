package models

import "time"

// CartItem caches the line total as quantity × price at the time of
// add/update. The cart total is always recomputed from these, never
// adjusted incrementally.
type CartItem struct {
	ID        string   `json:"id"`
	ProductID string   `json:"productId"`
	Quantity  int      `json:"quantity"`
	ItemTotal float64  `json:"itemTotal"`
	Product   *Product `json:"product,omitempty"`
}

type Cart struct {
	UserID      string     `json:"userId"`
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Recompute returns the sum of all cached line totals.
func (c *Cart) Recompute() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.ItemTotal
	}
	return total
}
