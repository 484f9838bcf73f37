package db

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is idempotent. cart_items.product_id deliberately has no foreign
// key: carts may outlive a deleted product and are cleaned up at checkout.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         BIGSERIAL PRIMARY KEY,
		username   TEXT NOT NULL UNIQUE,
		email      TEXT NOT NULL,
		password   TEXT NOT NULL,
		location   TEXT NOT NULL CHECK (location IN ('margao', 'panjim', 'vasco')),
		user_type  TEXT NOT NULL DEFAULT 'customer' CHECK (user_type IN ('admin', 'customer')),
		auth_token TEXT UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id               BIGSERIAL PRIMARY KEY,
		name             TEXT NOT NULL,
		category         TEXT NOT NULL CHECK (category IN ('vegetable', 'fruit', 'herb')),
		price_per_unit   NUMERIC(10, 2) NOT NULL CHECK (price_per_unit >= 0),
		unit_type        TEXT NOT NULL CHECK (unit_type IN ('kg', 'g')),
		stock_quantity   DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
		available_margao BOOLEAN NOT NULL DEFAULT TRUE,
		available_panjim BOOLEAN NOT NULL DEFAULT TRUE,
		available_vasco  BOOLEAN NOT NULL DEFAULT TRUE,
		image_path       TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		product_id BIGINT NOT NULL,
		quantity   DOUBLE PRECISION NOT NULL CHECK (quantity > 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id                BIGSERIAL PRIMARY KEY,
		user_id           BIGINT NOT NULL REFERENCES users(id),
		total_amount      NUMERIC(12, 2) NOT NULL,
		delivery_location TEXT NOT NULL,
		status            TEXT NOT NULL,
		order_date        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_id          BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id        BIGINT NOT NULL,
		quantity          DOUBLE PRECISION NOT NULL,
		price_at_purchase NUMERIC(10, 2) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS order_items_order_id_idx ON order_items (order_id)`,
}

// EnsureSchema creates any missing tables.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
