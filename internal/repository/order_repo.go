package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pizza-storefront/internal/models"
)

type OrderRepo struct {
	db       *sql.DB
	products *ProductRepo
	carts    *CartRepo
}

func NewOrderRepo(db *sql.DB, products *ProductRepo, carts *CartRepo) *OrderRepo {
	return &OrderRepo{db: db, products: products, carts: carts}
}

// newOrderNumber builds a human-readable order number. Uniqueness is
// enforced by the orders.order_number constraint, with retry on
// conflict at insert time.
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// PlaceOrder executes the all-or-nothing tail of the order workflow in
// one transaction: reserve inventory for every line item, insert the
// order with its item snapshot, and empty the cart. Any failure rolls
// the whole thing back.
func (r *OrderRepo) PlaceOrder(ctx context.Context, order *models.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Re-check and reserve stock per line item. TryReserve fails the
	// transaction if inventory has dropped since the cart was built.
	for _, it := range order.Items {
		if err := r.products.TryReserve(ctx, tx, it.ProductID, it.Quantity); err != nil {
			return err
		}
	}

	if err := r.insertOrder(ctx, tx, order); err != nil {
		return err
	}

	if err := r.carts.ReplaceItems(ctx, tx, order.UserID, nil, 0); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

func (r *OrderRepo) insertOrder(ctx context.Context, q Querier, order *models.Order) error {
	order.ID = uuid.NewString()
	now := time.Now().UTC()
	order.CreatedAt, order.UpdatedAt = now, now

	const insert = `
		INSERT INTO orders
		(id, order_number, user_id, address_type, address_street, address_city,
		 address_state, address_pincode, address_landmark, payment_method,
		 payment_status, order_status, subtotal, delivery_charge, discount,
		 total_amount, coupon_applied, estimated_delivery, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)`

	// A generated order number can collide. A unique violation aborts
	// the enclosing transaction in postgres, so each attempt runs under
	// a savepoint; rolling back to it keeps the reserved inventory and
	// lets a fresh number be tried.
	var insertErr error
	for attempt := 0; attempt < 3; attempt++ {
		if _, err := q.ExecContext(ctx, `SAVEPOINT insert_order`); err != nil {
			return fmt.Errorf("savepoint: %w", err)
		}
		order.OrderNumber = newOrderNumber(now)
		a := order.DeliveryAddress
		_, insertErr = q.ExecContext(ctx, insert,
			order.ID, order.OrderNumber, order.UserID,
			a.Type, a.Street, a.City, a.State, a.Pincode, a.Landmark,
			order.PaymentMethod, order.PaymentStatus, order.OrderStatus,
			order.Subtotal, order.DeliveryCharge, order.Discount,
			order.TotalAmount, order.CouponApplied, order.EstimatedDelivery,
			order.CreatedAt, order.UpdatedAt,
		)
		if insertErr == nil {
			if _, err := q.ExecContext(ctx, `RELEASE SAVEPOINT insert_order`); err != nil {
				return fmt.Errorf("release savepoint: %w", err)
			}
			break
		}
		if !isUniqueViolation(insertErr) {
			return fmt.Errorf("insert order: %w", insertErr)
		}
		if _, err := q.ExecContext(ctx, `ROLLBACK TO SAVEPOINT insert_order`); err != nil {
			return fmt.Errorf("rollback to savepoint: %w", err)
		}
	}
	if insertErr != nil {
		return fmt.Errorf("insert order: %w", insertErr)
	}

	for i := range order.Items {
		it := &order.Items[i]
		it.ID = uuid.NewString()
		_, err := q.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, name, quantity, price, position)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			it.ID, order.ID, it.ProductID, it.Name, it.Quantity, it.Price, i,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

const orderColumns = `id, order_number, user_id, address_type, address_street,
	address_city, address_state, address_pincode, address_landmark,
	payment_method, payment_status, order_status, subtotal, delivery_charge,
	discount, total_amount, coupon_applied, estimated_delivery, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID,
		&o.DeliveryAddress.Type, &o.DeliveryAddress.Street, &o.DeliveryAddress.City,
		&o.DeliveryAddress.State, &o.DeliveryAddress.Pincode, &o.DeliveryAddress.Landmark,
		&o.PaymentMethod, &o.PaymentStatus, &o.OrderStatus,
		&o.Subtotal, &o.DeliveryCharge, &o.Discount, &o.TotalAmount,
		&o.CouponApplied, &o.EstimatedDelivery, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) loadItems(ctx context.Context, order *models.Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, name, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY position, id`, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	order.Items = []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Name, &it.Quantity, &it.Price); err != nil {
			return err
		}
		order.Items = append(order.Items, it)
	}
	return rows.Err()
}

func (r *OrderRepo) getOne(ctx context.Context, query string, args ...any) (*models.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// GetByID fetches a single order scoped to its owner.
func (r *OrderRepo) GetByID(ctx context.Context, userID, orderID string) (*models.Order, error) {
	return r.getOne(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2`,
		orderID, userID)
}

// GetByNumber fetches a single order by order number, scoped to its owner.
func (r *OrderRepo) GetByNumber(ctx context.Context, userID, orderNumber string) (*models.Order, error) {
	return r.getOne(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_number = $1 AND user_id = $2`,
		orderNumber, userID)
}

// Get fetches an order without owner scoping, for status updates and
// the admin listing.
func (r *OrderRepo) Get(ctx context.Context, orderID string) (*models.Order, error) {
	return r.getOne(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)
}

func (r *OrderRepo) list(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return r.list(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
}

func (r *OrderRepo) ListAll(ctx context.Context) ([]models.Order, error) {
	return r.list(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

// UpdateStatus moves an order to the next status only if it is still in
// the expected one, guarding against concurrent transitions.
func (r *OrderRepo) UpdateStatus(ctx context.Context, orderID string, from, to models.OrderStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET order_status = $3, updated_at = NOW()
		WHERE id = $1 AND order_status = $2`,
		orderID, from, to,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrInvalidStatus
	}
	return nil
}
