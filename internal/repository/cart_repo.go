package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"pizza-storefront/internal/models"
)

type CartRepo struct {
	db *sql.DB
}

func NewCartRepo(db *sql.DB) *CartRepo {
	return &CartRepo{db: db}
}

// GetByUser loads the user's cart with denormalized product details per
// line item. A user with no cart row gets an empty cart, not an error.
func (r *CartRepo) GetByUser(ctx context.Context, userID string) (*models.Cart, error) {
	cart := &models.Cart{UserID: userID, Items: []models.CartItem{}}

	err := r.db.QueryRowContext(ctx,
		`SELECT total_amount, updated_at FROM carts WHERE user_id = $1`, userID,
	).Scan(&cart.TotalAmount, &cart.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return cart, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT ci.id, ci.product_id, ci.quantity, ci.item_total,
		       p.id, p.name, p.description, p.category, p.base_price, p.image,
		       p.is_veg, p.is_available, p.inventory, p.max_inventory,
		       p.created_at, p.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.position, ci.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var it models.CartItem
		var p models.Product
		if err := rows.Scan(
			&it.ID, &it.ProductID, &it.Quantity, &it.ItemTotal,
			&p.ID, &p.Name, &p.Description, &p.Category, &p.BasePrice, &p.Image,
			&p.IsVeg, &p.IsAvailable, &p.Inventory, &p.MaxInventory,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		it.Product = &p
		cart.Items = append(cart.Items, it)
	}
	return cart, rows.Err()
}

// ReplaceItems overwrites the cart's line items and persisted total in
// one transaction-friendly pass. Passing an empty slice clears the cart
// while keeping the cart row, which is how checkout empties it.
func (r *CartRepo) ReplaceItems(ctx context.Context, q Querier, userID string, items []models.CartItem, total float64) error {
	now := time.Now().UTC()
	_, err := q.ExecContext(ctx, `
		INSERT INTO carts (user_id, total_amount, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET total_amount = $2, updated_at = $3`,
		userID, total, now,
	)
	if err != nil {
		return err
	}

	if _, err := q.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return err
	}

	for i, it := range items {
		id := it.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err := q.ExecContext(ctx, `
			INSERT INTO cart_items (id, user_id, product_id, quantity, item_total, position)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			id, userID, it.ProductID, it.Quantity, it.ItemTotal, i,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// Save persists the cart outside any larger transaction.
func (r *CartRepo) Save(ctx context.Context, userID string, items []models.CartItem, total float64) error {
	return r.ReplaceItems(ctx, r.db, userID, items, total)
}

// Clear empties the cart, keeping the cart row.
func (r *CartRepo) Clear(ctx context.Context, userID string) error {
	return r.ReplaceItems(ctx, r.db, userID, nil, 0)
}
