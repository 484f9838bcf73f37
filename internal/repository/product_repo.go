package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Cheertaboi/farmfresh-storefront/internal/models"
)

type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

const productColumns = `
	id, name, category, price_per_unit, unit_type, stock_quantity,
	available_margao, available_panjim, available_vasco, image_path`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Category,
		&p.PricePerUnit,
		&p.UnitType,
		&p.Stock,
		&p.Availability.Margao,
		&p.Availability.Panjim,
		&p.Availability.Vasco,
		&p.ImagePath,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

func (r *ProductRepo) ListProducts(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		args = append(args, string(f.Category))
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *ProductRepo) CreateProduct(ctx context.Context, p *models.Product) (int64, error) {
	query := `
		INSERT INTO products
		(name, category, price_per_unit, unit_type, stock_quantity,
		 available_margao, available_panjim, available_vasco, image_path)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		p.Name,
		p.Category,
		p.PricePerUnit,
		p.UnitType,
		p.Stock,
		p.Availability.Margao,
		p.Availability.Panjim,
		p.Availability.Vasco,
		p.ImagePath,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	return id, nil
}

func (r *ProductRepo) UpdateProduct(ctx context.Context, p *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, category = $2, price_per_unit = $3, unit_type = $4, stock_quantity = $5,
		    available_margao = $6, available_panjim = $7, available_vasco = $8, image_path = $9
		WHERE id = $10
	`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Category,
		p.PricePerUnit,
		p.UnitType,
		p.Stock,
		p.Availability.Margao,
		p.Availability.Panjim,
		p.Availability.Vasco,
		p.ImagePath,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}
	return expectOneRow(res)
}

func (r *ProductRepo) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
