package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Cheertaboi/farmfresh-storefront/internal/models"
)

type CartRepo struct {
	db *sql.DB
}

func NewCartRepo(db *sql.DB) *CartRepo {
	return &CartRepo{db: db}
}

// ListCart uses a LEFT JOIN so rows pointing at deleted products are
// reported instead of silently dropped.
func (r *CartRepo) ListCart(ctx context.Context, userID int64, loc models.Location) ([]models.CartLine, error) {
	if !loc.Valid() {
		return nil, models.ErrUnknownLocation
	}
	query := fmt.Sprintf(`
		SELECT ci.product_id, ci.quantity, p.id IS NULL,
		       COALESCE(p.name, ''), COALESCE(p.price_per_unit, 0), COALESCE(p.unit_type, 'kg'),
		       COALESCE(p.stock_quantity, 0), COALESCE(p.%s, FALSE), COALESCE(p.image_path, '')
		FROM cart_items ci
		LEFT JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at, ci.product_id
	`, loc.Column())

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	defer rows.Close()

	lines := []models.CartLine{}
	for rows.Next() {
		var l models.CartLine
		if err := rows.Scan(
			&l.ProductID,
			&l.Quantity,
			&l.Missing,
			&l.Name,
			&l.PricePerUnit,
			&l.UnitType,
			&l.Stock,
			&l.Available,
			&l.ImagePath,
		); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *CartRepo) AddToCart(ctx context.Context, userID, productID int64, qty float64) error {
	query := `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`
	if _, err := r.db.ExecContext(ctx, query, userID, productID, qty); err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	return nil
}

func (r *CartRepo) SetCartQuantity(ctx context.Context, userID, productID int64, qty float64) error {
	query := `UPDATE cart_items SET quantity = $1 WHERE user_id = $2 AND product_id = $3`
	res, err := r.db.ExecContext(ctx, query, qty, userID, productID)
	if err != nil {
		return fmt.Errorf("set cart quantity: %w", err)
	}
	return expectOneRow(res)
}

func (r *CartRepo) RemoveFromCart(ctx context.Context, userID, productID int64) error {
	query := `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, productID); err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	return nil
}

func (r *CartRepo) CountCart(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(product_id) FROM cart_items WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count cart: %w", err)
	}
	return n, nil
}
