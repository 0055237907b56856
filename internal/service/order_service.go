package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"pizza-storefront/internal/models"
)

// OrderStore is the order repository surface. PlaceOrder must be
// atomic: inventory reservation, order creation and cart clearing
// commit or roll back together.
type OrderStore interface {
	PlaceOrder(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, orderID string) (*models.Order, error)
	GetByID(ctx context.Context, userID, orderID string) (*models.Order, error)
	GetByNumber(ctx context.Context, userID, orderNumber string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, orderID string, from, to models.OrderStatus) error
}

type AddressStore interface {
	GetAddress(ctx context.Context, userID, addressID string) (*models.Address, error)
}

// Pricing carries the checkout pricing knobs.
type Pricing struct {
	FreeDeliveryThreshold float64
	DeliveryCharge        float64
	DeliveryETA           time.Duration
}

type OrderService struct {
	orders    OrderStore
	carts     CartStore
	addresses AddressStore
	coupons   *CouponService
	pricing   Pricing
	log       *zap.Logger
	now       func() time.Time
}

func NewOrderService(orders OrderStore, carts CartStore, addresses AddressStore, coupons *CouponService, pricing Pricing, log *zap.Logger) *OrderService {
	return &OrderService{
		orders:    orders,
		carts:     carts,
		addresses: addresses,
		coupons:   coupons,
		pricing:   pricing,
		log:       log,
		now:       time.Now,
	}
}

type PlaceOrderInput struct {
	AddressID     string
	PaymentMethod models.PaymentMethod
	CouponCode    string
}

// PlaceOrder runs the checkout workflow: snapshot the cart, price the
// order, then hand the reservation + creation + cart-clear to the store
// as one atomic unit. The cart's cached line totals are authoritative
// for the subtotal; live inventory is re-checked inside the store
// transaction.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, in PlaceOrderInput) (*models.Order, error) {
	if in.AddressID == "" || in.PaymentMethod == "" {
		return nil, models.ValidationError("address and payment method are required")
	}
	if !in.PaymentMethod.Valid() {
		return nil, models.ValidationError("payment method must be cod or online")
	}

	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, models.ErrEmptyCart
	}

	address, err := s.addresses.GetAddress(ctx, userID, in.AddressID)
	if err != nil {
		return nil, fmt.Errorf("address: %w", err)
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		if it.Product == nil {
			return nil, fmt.Errorf("cart item %s missing product details", it.ID)
		}
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Product.Name,
			Quantity:  it.Quantity,
			Price:     it.Product.BasePrice,
		})
	}

	now := s.now().UTC()
	subtotal := cart.TotalAmount

	deliveryCharge := 0.0
	if subtotal < s.pricing.FreeDeliveryThreshold {
		deliveryCharge = s.pricing.DeliveryCharge
	}

	// A coupon that fails to apply is skipped, not an order failure.
	var discount float64
	var appliedCoupon string
	if in.CouponCode != "" {
		discount, appliedCoupon = s.coupons.DiscountFor(ctx, in.CouponCode, subtotal, now)
	}

	total := subtotal + deliveryCharge - discount
	if total < 0 {
		// A flat discount larger than the order acts as a freebie; the
		// customer never owes a negative amount.
		total = 0
	}

	paymentStatus := models.PaymentPending
	if in.PaymentMethod == models.PaymentOnline {
		paymentStatus = models.PaymentPaid
	}

	order := &models.Order{
		UserID:            userID,
		Items:             items,
		DeliveryAddress:   *address,
		PaymentMethod:     in.PaymentMethod,
		PaymentStatus:     paymentStatus,
		OrderStatus:       models.StatusPlaced,
		Subtotal:          subtotal,
		DeliveryCharge:    deliveryCharge,
		Discount:          discount,
		TotalAmount:       total,
		CouponApplied:     appliedCoupon,
		EstimatedDelivery: now.Add(s.pricing.DeliveryETA),
	}

	if err := s.orders.PlaceOrder(ctx, order); err != nil {
		return nil, err
	}

	s.log.Info("order placed",
		zap.String("orderNumber", order.OrderNumber),
		zap.String("userId", userID),
		zap.Int("items", len(order.Items)),
		zap.Float64("total", order.TotalAmount),
	)
	return order, nil
}

func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.orders.ListAll(ctx)
}

func (s *OrderService) GetByID(ctx context.Context, userID, orderID string) (*models.Order, error) {
	return s.orders.GetByID(ctx, userID, orderID)
}

func (s *OrderService) TrackByNumber(ctx context.Context, userID, orderNumber string) (*models.Order, error) {
	return s.orders.GetByNumber(ctx, userID, orderNumber)
}

// UpdateStatus advances the order through the status machine. The
// conditional store update keeps two concurrent transitions from both
// succeeding.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, error) {
	switch status {
	case models.StatusPlaced, models.StatusConfirmed, models.StatusPreparing,
		models.StatusOutForDelivery, models.StatusDelivered, models.StatusCancelled:
	default:
		return nil, models.ErrInvalidStatus
	}

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.OrderStatus.CanTransitionTo(status) {
		return nil, models.ErrInvalidStatus
	}
	if err := s.orders.UpdateStatus(ctx, orderID, order.OrderStatus, status); err != nil {
		return nil, err
	}
	return s.orders.Get(ctx, orderID)
}
