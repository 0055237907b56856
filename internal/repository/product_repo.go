package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"pizza-storefront/internal/models"
)

type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

const productColumns = `id, name, description, category, base_price, image,
	is_veg, is_available, inventory, max_inventory, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.BasePrice, &p.Image,
		&p.IsVeg, &p.IsAvailable, &p.Inventory, &p.MaxInventory,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	return p, err
}

// List returns a page of products, newest first, optionally filtered by
// category, along with the total match count.
func (r *ProductRepo) List(ctx context.Context, category models.Category, limit, offset int) ([]models.Product, int, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	countQuery := `SELECT COUNT(*) FROM products`
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		countQuery += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ` + strconv.Itoa(limit) + ` OFFSET ` + strconv.Itoa(offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *models.Product) error {
	p.ID = uuid.NewString()
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products
		(id, name, description, category, base_price, image, is_veg,
		 is_available, inventory, max_inventory, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		p.ID, p.Name, p.Description, p.Category, p.BasePrice, p.Image,
		p.IsVeg, p.IsAvailable, p.Inventory, p.MaxInventory, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *ProductRepo) Update(ctx context.Context, p *models.Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET
			name = $2, description = $3, category = $4, base_price = $5,
			image = $6, is_veg = $7, is_available = $8, inventory = $9,
			max_inventory = $10, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Category, p.BasePrice,
		p.Image, p.IsVeg, p.IsAvailable, p.Inventory, p.MaxInventory,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// TryReserve atomically decrements inventory, succeeding only if the
// post-decrement value stays non-negative. Every inventory deduction in
// the system goes through this one statement.
func (r *ProductRepo) TryReserve(ctx context.Context, q Querier, productID string, qty int) error {
	res, err := q.ExecContext(ctx, `
		UPDATE products
		SET inventory = inventory - $2, updated_at = NOW()
		WHERE id = $1 AND inventory >= $2`,
		productID, qty,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	// Reservation failed: distinguish a missing product from a stock
	// shortfall so the caller can report which.
	var name string
	var available int
	err = q.QueryRowContext(ctx,
		`SELECT name, inventory FROM products WHERE id = $1`, productID,
	).Scan(&name, &available)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	if err != nil {
		return err
	}
	return &models.InsufficientInventoryError{
		ProductID:   productID,
		ProductName: name,
		Available:   available,
		Requested:   qty,
	}
}

// ResetInventory restores every product's stock to its configured
// maximum in one bulk statement. Running it twice is a no-op.
func (r *ProductRepo) ResetInventory(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET inventory = max_inventory, updated_at = NOW()
		WHERE inventory <> max_inventory`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
