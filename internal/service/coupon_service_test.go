package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"pizza-storefront/internal/cache"
	"pizza-storefront/internal/models"
)

var (
	evalNow   = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	evalFrom  = evalNow.AddDate(0, -1, 0)
	evalUntil = evalNow.AddDate(0, 1, 0)
)

func percentCoupon(code string, value, minOrder, maxDiscount float64) models.Coupon {
	return models.Coupon{
		Code:           code,
		DiscountType:   models.DiscountPercentage,
		DiscountValue:  value,
		MinOrderAmount: minOrder,
		MaxDiscount:    maxDiscount,
		ValidFrom:      evalFrom,
		ValidUntil:     evalUntil,
		IsActive:       true,
	}
}

func TestEvaluateDiscount(t *testing.T) {
	mega50 := percentCoupon("MEGA50", 50, 500, 500)
	flat100 := models.Coupon{
		Code:          "FLAT100",
		DiscountType:  models.DiscountFlat,
		DiscountValue: 100,
		ValidFrom:     evalFrom,
		ValidUntil:    evalUntil,
		IsActive:      true,
	}

	tests := []struct {
		name     string
		coupon   models.Coupon
		subtotal float64
		now      time.Time
		want     float64
		wantErr  error
	}{
		{
			name:     "percentage capped at max discount",
			coupon:   mega50,
			subtotal: 1000,
			now:      evalNow,
			want:     500,
		},
		{
			name:     "percentage under the cap",
			coupon:   mega50,
			subtotal: 600,
			now:      evalNow,
			want:     300,
		},
		{
			name:     "percentage uncapped when max discount is zero",
			coupon:   percentCoupon("HALF", 50, 0, 0),
			subtotal: 2000,
			now:      evalNow,
			want:     1000,
		},
		{
			name:     "below minimum order amount",
			coupon:   mega50,
			subtotal: 499,
			now:      evalNow,
			wantErr:  ErrCouponBelowMinimum,
		},
		{
			name:     "flat discount returned as-is",
			coupon:   flat100,
			subtotal: 398,
			now:      evalNow,
			want:     100,
		},
		{
			name:     "flat discount may exceed subtotal",
			coupon:   models.Coupon{Code: "FLAT1000", DiscountType: models.DiscountFlat, DiscountValue: 1000, ValidFrom: evalFrom, ValidUntil: evalUntil},
			subtotal: 398,
			now:      evalNow,
			want:     1000,
		},
		{
			name:     "not yet valid",
			coupon:   mega50,
			subtotal: 1000,
			now:      evalFrom.Add(-time.Hour),
			wantErr:  ErrCouponNotYetValid,
		},
		{
			name:     "expired",
			coupon:   mega50,
			subtotal: 1000,
			now:      evalUntil.Add(time.Hour),
			wantErr:  ErrCouponExpired,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EvaluateDiscount(&tc.coupon, tc.subtotal, tc.now)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluateDiscountProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		coupon := models.Coupon{
			Code:           "PROP",
			DiscountType:   models.DiscountPercentage,
			DiscountValue:  rapid.Float64Range(0, 100).Draw(t, "value"),
			MinOrderAmount: rapid.Float64Range(0, 1000).Draw(t, "minOrder"),
			MaxDiscount:    rapid.Float64Range(0, 2000).Draw(t, "maxDiscount"),
			ValidFrom:      evalFrom,
			ValidUntil:     evalUntil,
		}
		subtotal := rapid.Float64Range(0, 10000).Draw(t, "subtotal")

		discount, err := EvaluateDiscount(&coupon, subtotal, evalNow)
		if err != nil {
			if subtotal >= coupon.MinOrderAmount {
				t.Fatalf("unexpected error: %v", err)
			}
			return
		}

		if discount < 0 {
			t.Fatalf("negative discount %v", discount)
		}
		if discount > subtotal {
			t.Fatalf("percentage discount %v exceeds subtotal %v", discount, subtotal)
		}
		if coupon.MaxDiscount > 0 && discount > coupon.MaxDiscount {
			t.Fatalf("discount %v exceeds cap %v", discount, coupon.MaxDiscount)
		}
	})
}

func newTestCouponService(store CouponStore) *CouponService {
	return NewCouponService(store, cache.NewMemoryCache(time.Minute), zap.NewNop())
}

func TestCouponValidate(t *testing.T) {
	store := newFakeCouponStore()
	store.put(percentCoupon("MEGA50", 50, 500, 500))
	svc := newTestCouponService(store)
	ctx := context.Background()

	t.Run("lowercase code is normalized", func(t *testing.T) {
		c, err := svc.Validate(ctx, "mega50", evalNow)
		require.NoError(t, err)
		assert.Equal(t, "MEGA50", c.Code)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := svc.Validate(ctx, "NOPE", evalNow)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("expired", func(t *testing.T) {
		_, err := svc.Validate(ctx, "MEGA50", evalUntil.Add(time.Hour))
		assert.ErrorIs(t, err, ErrCouponExpired)
	})
}

func TestDiscountForSilentlySkips(t *testing.T) {
	store := newFakeCouponStore()
	store.put(percentCoupon("MEGA50", 50, 500, 500))
	svc := newTestCouponService(store)
	ctx := context.Background()

	t.Run("applicable", func(t *testing.T) {
		discount, applied := svc.DiscountFor(ctx, "MEGA50", 1000, evalNow)
		assert.Equal(t, 500.0, discount)
		assert.Equal(t, "MEGA50", applied)
	})

	t.Run("below minimum yields zero, no code", func(t *testing.T) {
		discount, applied := svc.DiscountFor(ctx, "MEGA50", 400, evalNow)
		assert.Zero(t, discount)
		assert.Empty(t, applied)
	})

	t.Run("unknown code yields zero, no code", func(t *testing.T) {
		discount, applied := svc.DiscountFor(ctx, "GHOST", 1000, evalNow)
		assert.Zero(t, discount)
		assert.Empty(t, applied)
	})
}

func TestCouponCacheInvalidation(t *testing.T) {
	store := newFakeCouponStore()
	coupon := percentCoupon("MEGA50", 50, 500, 500)
	coupon.ID = "coupon-1"
	store.put(coupon)
	svc := newTestCouponService(store)
	ctx := context.Background()

	// Prime the cache, then update the store through the service.
	_, err := svc.Lookup(ctx, "MEGA50")
	require.NoError(t, err)

	updated := coupon
	updated.DiscountValue = 10
	require.NoError(t, svc.Update(ctx, &updated))

	got, err := svc.Lookup(ctx, "MEGA50")
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.DiscountValue)
}

func TestCouponRenameEvictsOldCode(t *testing.T) {
	store := newFakeCouponStore()
	coupon := percentCoupon("MEGA50", 50, 500, 500)
	coupon.ID = "coupon-1"
	store.put(coupon)
	svc := newTestCouponService(store)
	ctx := context.Background()

	// Prime the cache under the original code.
	_, err := svc.Lookup(ctx, "MEGA50")
	require.NoError(t, err)

	renamed := coupon
	renamed.Code = "MEGA60"
	renamed.DiscountValue = 60
	require.NoError(t, svc.Update(ctx, &renamed))

	// The retired code must not be served from cache.
	_, err = svc.Lookup(ctx, "MEGA50")
	assert.ErrorIs(t, err, models.ErrNotFound)

	got, err := svc.Lookup(ctx, "MEGA60")
	require.NoError(t, err)
	assert.Equal(t, 60.0, got.DiscountValue)
}
