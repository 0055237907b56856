package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pizza-storefront/internal/models"
)

type CouponRepo struct {
	db *sql.DB
}

func NewCouponRepo(db *sql.DB) *CouponRepo {
	return &CouponRepo{db: db}
}

const couponColumns = `id, code, description, discount_type, discount_value,
	min_order_amount, max_discount, valid_from, valid_until, is_active,
	created_at, updated_at`

func scanCoupon(row interface{ Scan(...any) error }) (*models.Coupon, error) {
	var c models.Coupon
	err := row.Scan(
		&c.ID, &c.Code, &c.Description, &c.DiscountType, &c.DiscountValue,
		&c.MinOrderAmount, &c.MaxDiscount, &c.ValidFrom, &c.ValidUntil,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetActiveByCode looks up an active coupon by its upper-cased code.
func (r *CouponRepo) GetActiveByCode(ctx context.Context, code string) (*models.Coupon, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE code = $1 AND is_active`,
		strings.ToUpper(strings.TrimSpace(code)))
	c, err := scanCoupon(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	return c, err
}

// ListActive returns coupons usable at the given instant, newest first.
func (r *CouponRepo) ListActive(ctx context.Context, now time.Time) ([]models.Coupon, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+couponColumns+`
		FROM coupons
		WHERE is_active AND valid_from <= $1 AND valid_until >= $1
		ORDER BY created_at DESC`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	coupons := []models.Coupon{}
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, *c)
	}
	return coupons, rows.Err()
}

func (r *CouponRepo) Create(ctx context.Context, c *models.Coupon) error {
	c.ID = uuid.NewString()
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO coupons
		(id, code, description, discount_type, discount_value, min_order_amount,
		 max_discount, valid_from, valid_until, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		c.ID, c.Code, c.Description, c.DiscountType, c.DiscountValue,
		c.MinOrderAmount, c.MaxDiscount, c.ValidFrom, c.ValidUntil,
		c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return models.ValidationError("coupon code already exists")
	}
	return err
}

// Update rewrites a coupon and reports the code it carried before the
// update, so callers can evict a stale cache entry after a rename.
func (r *CouponRepo) Update(ctx context.Context, c *models.Coupon) (string, error) {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	var prevCode string
	err := r.db.QueryRowContext(ctx, `
		UPDATE coupons SET
			code = $2, description = $3, discount_type = $4, discount_value = $5,
			min_order_amount = $6, max_discount = $7, valid_from = $8,
			valid_until = $9, is_active = $10, updated_at = NOW()
		FROM coupons prev
		WHERE coupons.id = $1 AND prev.id = coupons.id
		RETURNING prev.code`,
		c.ID, c.Code, c.Description, c.DiscountType, c.DiscountValue,
		c.MinOrderAmount, c.MaxDiscount, c.ValidFrom, c.ValidUntil, c.IsActive,
	).Scan(&prevCode)
	if errors.Is(err, sql.ErrNoRows) {
		return "", models.ErrNotFound
	}
	if isUniqueViolation(err) {
		return "", models.ValidationError("coupon code already exists")
	}
	return prevCode, err
}

// Delete removes a coupon and reports its code so callers can evict
// cache entries.
func (r *CouponRepo) Delete(ctx context.Context, id string) (string, error) {
	var code string
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM coupons WHERE id = $1 RETURNING code`, id).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", models.ErrNotFound
	}
	return code, err
}
