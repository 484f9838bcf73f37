package service

import (
	"errors"
	"fmt"

	"github.com/Cheertaboi/farmfresh-storefront/internal/models"
)

var (
	// Cart
	ErrInvalidQuantity       = errors.New("quantity must be a positive number")
	ErrProductNotFound       = errors.New("product not found")
	ErrUnavailableAtLocation = errors.New("product not available at your location")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrCartItemNotFound      = errors.New("item not in cart")

	// Checkout
	ErrNothingToOrder       = errors.New("cart is empty, nothing to order")
	ErrValidation           = errors.New("cart failed validation")
	ErrProcessing           = errors.New("order could not be processed")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrConfirmationRejected = errors.New("confirmation rejected")

	// Accounts
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("not signed in")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidProfile     = errors.New("invalid profile")
)

// CheckoutError carries what the caller may see about a failed checkout:
// the validation issues, or an opaque reference to the logged cause.
type CheckoutError struct {
	Op     string
	Err    error
	Issues []models.ValidationIssue
	Ref    string
}

func (e *CheckoutError) Error() string {
	switch {
	case e.Ref != "":
		return fmt.Sprintf("%s: %v (ref %s)", e.Op, e.Err, e.Ref)
	case len(e.Issues) > 0:
		return fmt.Sprintf("%s: %v (%d issues)", e.Op, e.Err, len(e.Issues))
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CheckoutError) Unwrap() error {
	return e.Err
}

// IssuesOf returns the validation issues attached to err, if any.
func IssuesOf(err error) []models.ValidationIssue {
	var ce *CheckoutError
	if errors.As(err, &ce) {
		return ce.Issues
	}
	return nil
}

// RefOf returns the failure reference attached to err, if any.
func RefOf(err error) string {
	var ce *CheckoutError
	if errors.As(err, &ce) {
		return ce.Ref
	}
	return ""
}
