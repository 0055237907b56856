package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"pizza-storefront/internal/cache"
	"pizza-storefront/internal/models"
)

// Reasons a coupon does not apply. The standalone validate endpoint
// surfaces them; the order workflow treats all of them as a silent skip.
var (
	ErrCouponNotYetValid  = errors.New("coupon is not yet valid")
	ErrCouponExpired      = errors.New("coupon has expired")
	ErrCouponBelowMinimum = errors.New("order subtotal below coupon minimum")
)

// CouponStore is the repository surface the service needs.
type CouponStore interface {
	GetActiveByCode(ctx context.Context, code string) (*models.Coupon, error)
	ListActive(ctx context.Context, now time.Time) ([]models.Coupon, error)
	Create(ctx context.Context, c *models.Coupon) error
	Update(ctx context.Context, c *models.Coupon) (string, error)
	Delete(ctx context.Context, id string) (string, error)
}

type CouponService struct {
	store CouponStore
	cache cache.CouponCache
	log   *zap.Logger
}

func NewCouponService(store CouponStore, c cache.CouponCache, log *zap.Logger) *CouponService {
	return &CouponService{store: store, cache: c, log: log}
}

// EvaluateDiscount is a pure function of (coupon, subtotal, now). It
// returns the discount amount, or an error naming why the coupon does
// not apply. A percentage discount is clamped to MaxDiscount when that
// cap is set; a flat discount is returned as-is and callers guard the
// resulting total.
func EvaluateDiscount(c *models.Coupon, subtotal float64, now time.Time) (float64, error) {
	if now.Before(c.ValidFrom) {
		return 0, ErrCouponNotYetValid
	}
	if now.After(c.ValidUntil) {
		return 0, ErrCouponExpired
	}
	if subtotal < c.MinOrderAmount {
		return 0, ErrCouponBelowMinimum
	}

	if c.DiscountType == models.DiscountPercentage {
		discount := subtotal * c.DiscountValue / 100
		if c.MaxDiscount > 0 && discount > c.MaxDiscount {
			discount = c.MaxDiscount
		}
		return discount, nil
	}
	return c.DiscountValue, nil
}

// Lookup normalizes the code and fetches the active coupon, consulting
// the cache first.
func (s *CouponService) Lookup(ctx context.Context, code string) (*models.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, models.ErrNotFound
	}
	if c, ok := s.cache.Get(ctx, code); ok {
		return c, nil
	}
	c, err := s.store.GetActiveByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, code, c)
	return c, nil
}

// Validate backs the standalone coupon-check endpoint: unlike the order
// workflow it reports why a code is unusable.
func (s *CouponService) Validate(ctx context.Context, code string, now time.Time) (*models.Coupon, error) {
	c, err := s.Lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	if now.Before(c.ValidFrom) {
		return nil, ErrCouponNotYetValid
	}
	if now.After(c.ValidUntil) {
		return nil, ErrCouponExpired
	}
	return c, nil
}

// DiscountFor evaluates a coupon code against an order subtotal for the
// checkout path. A missing or non-applicable coupon yields a zero
// discount and no applied code rather than an error; the order proceeds
// undiscounted.
func (s *CouponService) DiscountFor(ctx context.Context, code string, subtotal float64, now time.Time) (float64, string) {
	c, err := s.Lookup(ctx, code)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.log.Warn("coupon lookup failed", zap.String("code", code), zap.Error(err))
		}
		return 0, ""
	}
	discount, err := EvaluateDiscount(c, subtotal, now)
	if err != nil {
		return 0, ""
	}
	return discount, c.Code
}

func (s *CouponService) ListActive(ctx context.Context, now time.Time) ([]models.Coupon, error) {
	return s.store.ListActive(ctx, now)
}

func (s *CouponService) Create(ctx context.Context, c *models.Coupon) error {
	if c.Code == "" || c.DiscountValue < 0 {
		return models.ValidationError("code and a non-negative discount value are required")
	}
	if c.DiscountType != models.DiscountPercentage && c.DiscountType != models.DiscountFlat {
		return models.ValidationError("discount type must be percentage or flat")
	}
	return s.store.Create(ctx, c)
}

func (s *CouponService) Update(ctx context.Context, c *models.Coupon) error {
	prevCode, err := s.store.Update(ctx, c)
	if err != nil {
		return err
	}
	// Evict under the code the coupon had before the update as well; a
	// rename would otherwise leave the old code served from cache until
	// its TTL runs out.
	s.cache.Invalidate(ctx, prevCode)
	if c.Code != prevCode {
		s.cache.Invalidate(ctx, c.Code)
	}
	return nil
}

func (s *CouponService) Delete(ctx context.Context, id string) error {
	code, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.cache.Invalidate(ctx, code)
	return nil
}
