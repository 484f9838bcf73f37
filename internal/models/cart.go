package models

import "github.com/shopspring/decimal"

// CartLine is a cart row joined with the live state of its product, as
// seen from one delivery zone.
type CartLine struct {
	ProductID    int64           `json:"product_id"`
	Quantity     float64         `json:"quantity"`
	Name         string          `json:"name"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	UnitType     Unit            `json:"unit_type"`
	Stock        float64         `json:"stock_quantity"`
	Available    bool            `json:"available"`
	ImagePath    string          `json:"image_path,omitempty"`
	// Missing is set when the row references a product that no longer exists.
	Missing bool `json:"missing,omitempty"`
}

// CartView is a priced cart, ready for display.
type CartView struct {
	Lines []PricedLine    `json:"lines"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type PricedLine struct {
	CartLine
	PricePerKg decimal.Decimal `json:"price_per_kg"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}
