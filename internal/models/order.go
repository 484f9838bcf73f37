package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const OrderStatusPending = "Pending"

type Order struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Total     decimal.Decimal `json:"total_amount"`
	Location  Location        `json:"delivery_location"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"order_date"`
	Items     []OrderItem     `json:"items,omitempty"`
}

// OrderItem records a purchased line. PriceAtPurchase is the kg-equivalent
// price at the time of settlement, so it matches Quantity (kg).
type OrderItem struct {
	OrderID         int64           `json:"order_id"`
	ProductID       int64           `json:"product_id"`
	ProductName     string          `json:"product_name,omitempty"`
	Quantity        float64         `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}
