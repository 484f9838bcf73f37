package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/farmfresh-storefront/internal/models"
)

const decrementSQL = `UPDATE products SET stock_quantity = stock_quantity - $1 WHERE id = $2 AND stock_quantity >= $1`

func TestSettlement_DecrementStock(t *testing.T) {
	db, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(decrementSQL)).
		WithArgs(0.5, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(decrementSQL)).
		WithArgs(12.0, int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := NewOrderRepo(db).BeginSettlement(ctx)
	require.NoError(t, err)

	ok, err := tx.DecrementStock(ctx, 7, 0.5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tx.DecrementStock(ctx, 8, 12)
	require.NoError(t, err)
	assert.False(t, ok, "no row updated means not enough stock")

	require.NoError(t, tx.Rollback())
}

func TestSettlement_DecrementStockError(t *testing.T) {
	db, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(decrementSQL)).WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	tx, err := NewOrderRepo(db).BeginSettlement(ctx)
	require.NoError(t, err)
	_, err = tx.DecrementStock(ctx, 7, 1)
	assert.ErrorContains(t, err, "decrement stock 7")
	require.NoError(t, tx.Rollback())
}

func TestSettlement_BeginError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	_, err := NewOrderRepo(db).BeginSettlement(context.Background())
	assert.ErrorContains(t, err, "begin tx")
}

func TestSettlement_CommitThenRollbackIsNoop(t *testing.T) {
	db, mock := newMock(t)
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO orders (user_id, total_amount, delivery_location, status) VALUES ($1, $2, $3, $4) RETURNING id, order_date`)).
		WithArgs(int64(1), "30.01", "panjim", models.OrderStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_date"}).AddRow(int64(9), created))
	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase) VALUES ($1, $2, $3, $4)`)).
		WithArgs(int64(9), int64(7), 0.012, "1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_items WHERE user_id = $1`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	tx, err := NewOrderRepo(db).BeginSettlement(ctx)
	require.NoError(t, err)

	order := &models.Order{
		UserID:   1,
		Total:    decimal.RequireFromString("30.012"),
		Location: models.LocationPanjim,
		Status:   models.OrderStatusPending,
	}
	id, err := tx.InsertOrder(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
	assert.Equal(t, created, order.CreatedAt)

	require.NoError(t, tx.InsertOrderItem(ctx, models.OrderItem{
		OrderID: 9, ProductID: 7, Quantity: 0.012, PriceAtPurchase: decimal.NewFromInt(1),
	}))

	n, err := tx.ClearCart(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, tx.Commit())
	assert.NoError(t, tx.Rollback(), "rollback after commit is a no-op")
}

func TestOrderRepo_ListOrdersGroupsItems(t *testing.T) {
	db, mock := newMock(t)
	newer := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	older := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "total_amount", "delivery_location", "status", "order_date",
		"product_id", "name", "quantity", "price_at_purchase",
	}).
		AddRow(int64(2), int64(5), "110.00", "margao", "Pending", newer, int64(1), "Tomatoes", 0.5, "100.00").
		AddRow(int64(2), int64(5), "110.00", "margao", "Pending", newer, int64(3), "", 1.0, "30.00").
		AddRow(int64(1), int64(5), "80.00", "margao", "Pending", older, int64(1), "Tomatoes", 0.5, "100.00")
	mock.ExpectQuery(`FROM orders o JOIN order_items oi ON oi.order_id = o.id`).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	orders, err := NewOrderRepo(db).ListOrders(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, int64(2), orders[0].ID)
	require.Len(t, orders[0].Items, 2)
	assert.Equal(t, int64(2), orders[0].Items[1].OrderID)
	assert.Equal(t, models.LocationMargao, orders[0].Location)
	assert.Equal(t, "110", orders[0].Total.String())
	require.Len(t, orders[1].Items, 1)
	assert.Equal(t, "Tomatoes", orders[1].Items[0].ProductName)
}
