package repository

import (
	"context"
	"errors"

	"github.com/Cheertaboi/farmfresh-storefront/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("unique constraint violated")
)

type ProductStore interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, f models.ProductFilter) ([]models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) (int64, error)
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

// CartStore holds one row per (user, product). ListCart joins every row
// with its product as seen from loc; rows whose product is gone come back
// with Missing set.
type CartStore interface {
	ListCart(ctx context.Context, userID int64, loc models.Location) ([]models.CartLine, error)
	AddToCart(ctx context.Context, userID, productID int64, qty float64) error
	SetCartQuantity(ctx context.Context, userID, productID int64, qty float64) error
	RemoveFromCart(ctx context.Context, userID, productID int64) error
	CountCart(ctx context.Context, userID int64) (int, error)
}

type OrderStore interface {
	ListOrders(ctx context.Context, userID int64) ([]models.Order, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByToken(ctx context.Context, token string) (*models.User, error)
	SetAuthToken(ctx context.Context, userID int64, token string) error
	UpdateProfile(ctx context.Context, userID int64, username string, loc models.Location) error
}

// Settlements opens the transaction that turns a cart into an order.
type Settlements interface {
	BeginSettlement(ctx context.Context) (SettlementTx, error)
}

// SettlementTx is a single all-or-nothing unit. Nothing done through it is
// visible to other callers until Commit; Rollback after Commit is a no-op.
type SettlementTx interface {
	// DecrementStock subtracts qty from the product's stock only if at
	// least qty is left. It reports false when nothing was decremented.
	DecrementStock(ctx context.Context, productID int64, qty float64) (bool, error)
	InsertOrder(ctx context.Context, o *models.Order) (int64, error)
	InsertOrderItem(ctx context.Context, it models.OrderItem) error
	ClearCart(ctx context.Context, userID int64) (int64, error)
	Commit() error
	Rollback() error
}
