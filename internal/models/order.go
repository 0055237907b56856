package models

import "time"

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentOnline PaymentMethod = "online"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCOD || m == PaymentOnline
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type OrderStatus string

const (
	StatusPlaced         OrderStatus = "placed"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// CanTransitionTo reports whether the status machine allows moving from s
// to next. Delivery progresses strictly forward; cancellation is allowed
// from any non-terminal state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == StatusDelivered || s == StatusCancelled {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	forward := map[OrderStatus]OrderStatus{
		StatusPlaced:         StatusConfirmed,
		StatusConfirmed:      StatusPreparing,
		StatusPreparing:      StatusOutForDelivery,
		StatusOutForDelivery: StatusDelivered,
	}
	return forward[s] == next
}

// OrderItem is a by-value snapshot: name and price are frozen at purchase
// time so later catalog edits cannot alter order history.
type OrderItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type Order struct {
	ID                string        `json:"id"`
	OrderNumber       string        `json:"orderNumber"`
	UserID            string        `json:"userId"`
	Items             []OrderItem   `json:"items"`
	DeliveryAddress   Address       `json:"deliveryAddress"`
	PaymentMethod     PaymentMethod `json:"paymentMethod"`
	PaymentStatus     PaymentStatus `json:"paymentStatus"`
	OrderStatus       OrderStatus   `json:"orderStatus"`
	Subtotal          float64       `json:"subtotal"`
	DeliveryCharge    float64       `json:"deliveryCharge"`
	Discount          float64       `json:"discount"`
	TotalAmount       float64       `json:"totalAmount"`
	CouponApplied     string        `json:"couponApplied,omitempty"`
	EstimatedDelivery time.Time     `json:"estimatedDelivery"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}
