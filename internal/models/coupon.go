package models

import "time"

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFlat       DiscountType = "flat"
)

type Coupon struct {
	ID             string       `json:"id"`
	Code           string       `json:"code"`
	Description    string       `json:"description"`
	DiscountType   DiscountType `json:"discountType"`
	DiscountValue  float64      `json:"discountValue"`
	MinOrderAmount float64      `json:"minOrderAmount"`
	// MaxDiscount caps a percentage discount; 0 means uncapped.
	MaxDiscount float64   `json:"maxDiscount"`
	ValidFrom   time.Time `json:"validFrom"`
	ValidUntil  time.Time `json:"validUntil"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
