package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Cheertaboi/farmfresh-storefront/internal/models"
)

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// BeginSettlement starts a READ COMMITTED transaction. Stock rows are locked
// by the conditional UPDATE in DecrementStock, so two settlements touching
// the same product queue on that row until the first one finishes.
func (r *OrderRepo) BeginSettlement(ctx context.Context) (SettlementTx, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return &settlementTx{tx: tx}, nil
}

type settlementTx struct {
	tx *sql.Tx
}

func (s *settlementTx) DecrementStock(ctx context.Context, productID int64, qty float64) (bool, error) {
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity - $1
		WHERE id = $2 AND stock_quantity >= $1
	`
	res, err := s.tx.ExecContext(ctx, query, qty, productID)
	if err != nil {
		return false, fmt.Errorf("decrement stock %d: %w", productID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// InsertOrder stores the total rounded to cents, the precision of
// total_amount.
func (s *settlementTx) InsertOrder(ctx context.Context, o *models.Order) (int64, error) {
	query := `
		INSERT INTO orders (user_id, total_amount, delivery_location, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, order_date
	`
	err := s.tx.QueryRowContext(ctx, query, o.UserID, o.Total.Round(2), o.Location, o.Status).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	return o.ID, nil
}

func (s *settlementTx) InsertOrderItem(ctx context.Context, it models.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := s.tx.ExecContext(ctx, query, it.OrderID, it.ProductID, it.Quantity, it.PriceAtPurchase); err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

func (s *settlementTx) ClearCart(ctx context.Context, userID int64) (int64, error) {
	res, err := s.tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	return res.RowsAffected()
}

func (s *settlementTx) Commit() error {
	return s.tx.Commit()
}

func (s *settlementTx) Rollback() error {
	if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

// ListOrders returns the user's orders, newest first, with their items.
func (r *OrderRepo) ListOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	query := `
		SELECT o.id, o.user_id, o.total_amount, o.delivery_location, o.status, o.order_date,
		       oi.product_id, COALESCE(p.name, ''), oi.quantity, oi.price_at_purchase
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE o.user_id = $1
		ORDER BY o.order_date DESC, o.id DESC, oi.product_id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var (
			o  models.Order
			it models.OrderItem
		)
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.Total, &o.Location, &o.Status, &o.CreatedAt,
			&it.ProductID, &it.ProductName, &it.Quantity, &it.PriceAtPurchase,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		it.OrderID = o.ID
		if n := len(orders); n > 0 && orders[n-1].ID == o.ID {
			orders[n-1].Items = append(orders[n-1].Items, it)
			continue
		}
		o.Items = []models.OrderItem{it}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
