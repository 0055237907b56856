package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate runs the idempotent schema statements at startup.
func Migrate(ctx context.Context, conn *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			phone TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS addresses (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			label TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL,
			street TEXT NOT NULL,
			city TEXT NOT NULL,
			state TEXT NOT NULL,
			pincode TEXT NOT NULL,
			landmark TEXT NOT NULL DEFAULT '',
			is_default BOOLEAN NOT NULL DEFAULT false,
			position INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_addresses_user_id ON addresses(user_id)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			token UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			base_price NUMERIC(10,2) NOT NULL CHECK (base_price >= 0),
			image TEXT NOT NULL DEFAULT '',
			is_veg BOOLEAN NOT NULL DEFAULT true,
			is_available BOOLEAN NOT NULL DEFAULT true,
			inventory INTEGER NOT NULL DEFAULT 100 CHECK (inventory >= 0),
			max_inventory INTEGER NOT NULL DEFAULT 100,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)`,

		`CREATE TABLE IF NOT EXISTS carts (
			user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			total_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS cart_items (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES carts(user_id) ON DELETE CASCADE,
			product_id UUID NOT NULL REFERENCES products(id),
			quantity INTEGER NOT NULL CHECK (quantity >= 1),
			item_total NUMERIC(10,2) NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			UNIQUE (user_id, product_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cart_items_user_id ON cart_items(user_id)`,

		`CREATE TABLE IF NOT EXISTS coupons (
			id UUID PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			discount_type TEXT NOT NULL,
			discount_value NUMERIC(10,2) NOT NULL CHECK (discount_value >= 0),
			min_order_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			max_discount NUMERIC(10,2) NOT NULL DEFAULT 0,
			valid_from TIMESTAMPTZ NOT NULL,
			valid_until TIMESTAMPTZ NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			order_number TEXT NOT NULL UNIQUE,
			user_id UUID NOT NULL REFERENCES users(id),
			address_type TEXT NOT NULL,
			address_street TEXT NOT NULL,
			address_city TEXT NOT NULL,
			address_state TEXT NOT NULL,
			address_pincode TEXT NOT NULL,
			address_landmark TEXT NOT NULL DEFAULT '',
			payment_method TEXT NOT NULL,
			payment_status TEXT NOT NULL,
			order_status TEXT NOT NULL,
			subtotal NUMERIC(10,2) NOT NULL,
			delivery_charge NUMERIC(10,2) NOT NULL DEFAULT 0,
			discount NUMERIC(10,2) NOT NULL DEFAULT 0,
			total_amount NUMERIC(10,2) NOT NULL,
			coupon_applied TEXT NOT NULL DEFAULT '',
			estimated_delivery TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at)`,

		`CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id UUID NOT NULL,
			name TEXT NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity >= 1),
			price NUMERIC(10,2) NOT NULL,
			position INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)`,
	}

	for _, m := range migrations {
		if _, err := conn.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
