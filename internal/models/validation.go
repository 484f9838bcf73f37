package models

import "github.com/shopspring/decimal"

type IssueCode string

const (
	IssueCartEmpty         IssueCode = "cart_empty"
	IssueUnavailable       IssueCode = "unavailable_at_location"
	IssueInsufficientStock IssueCode = "insufficient_stock"
	IssueProductMissing    IssueCode = "product_missing"
)

// ValidationIssue describes why a cart cannot be settled as it is.
type ValidationIssue struct {
	Code      IssueCode `json:"code"`
	ProductID int64     `json:"product_id,omitempty"`
	Message   string    `json:"message"`
}

// ValidationReport is the result of checking a cart against live stock and
// zone availability.
type ValidationReport struct {
	Issues   []ValidationIssue `json:"issues"`
	Subtotal decimal.Decimal   `json:"subtotal"`
	Empty    bool              `json:"empty"`
}

// Valid reports whether the cart may proceed to settlement.
func (r ValidationReport) Valid() bool {
	return !r.Empty && len(r.Issues) == 0
}

// Receipt is returned for a settled order.
type Receipt struct {
	OrderID     int64           `json:"order_id"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}
