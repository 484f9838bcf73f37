package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Cheertaboi/farmfresh-storefront/internal/cache"
	"github.com/Cheertaboi/farmfresh-storefront/internal/models"
	"github.com/Cheertaboi/farmfresh-storefront/internal/pricing"
	"github.com/Cheertaboi/farmfresh-storefront/internal/repository"
)

const tracerName = "github.com/Cheertaboi/farmfresh-storefront/internal/service"

var (
	DefaultDeliveryFee = decimal.NewFromInt(30)
	DefaultPaymentCode = PaymentCode("2004")
)

// ConfirmationPolicy decides whether the caller really meant to place the
// order.
type ConfirmationPolicy interface {
	Confirm(token string) error
}

// PaymentCode accepts exactly one code, as entered on a simulated payment
// form.
type PaymentCode string

func (c PaymentCode) Confirm(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrConfirmationRequired
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(c)) != 1 {
		return ErrConfirmationRejected
	}
	return nil
}

// PlaceOrderToken is what a "place order" button submits.
const PlaceOrderToken = "place_order"

// PlaceOrder accepts the plain "place order" confirmation.
type PlaceOrder struct{}

func (PlaceOrder) Confirm(token string) error {
	switch strings.TrimSpace(token) {
	case "":
		return ErrConfirmationRequired
	case PlaceOrderToken:
		return nil
	}
	return ErrConfirmationRejected
}

// Preview is what the checkout page shows before the order is placed.
type Preview struct {
	models.ValidationReport
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
	Valid       bool            `json:"valid"`
}

type CheckoutService struct {
	carts       repository.CartStore
	settlements repository.Settlements
	counts      cache.CartCountCache
	policy      ConfirmationPolicy
	deliveryFee decimal.Decimal
	log         *zap.Logger
	tracer      trace.Tracer
	newRef      func() string
}

type CheckoutOption func(*CheckoutService)

func WithDeliveryFee(fee decimal.Decimal) CheckoutOption {
	return func(s *CheckoutService) { s.deliveryFee = fee }
}

func WithConfirmation(p ConfirmationPolicy) CheckoutOption {
	return func(s *CheckoutService) { s.policy = p }
}

func NewCheckoutService(carts repository.CartStore, settlements repository.Settlements, counts cache.CartCountCache, log *zap.Logger, opts ...CheckoutOption) *CheckoutService {
	s := &CheckoutService{
		carts:       carts,
		settlements: settlements,
		counts:      counts,
		policy:      DefaultPaymentCode,
		deliveryFee: DefaultDeliveryFee,
		log:         log,
		tracer:      otel.Tracer(tracerName),
		newRef:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CheckoutService) DeliveryFee() decimal.Decimal { return s.deliveryFee }

// Validate checks every line against its product's zone flag and stock and
// totals the cart. Lines pointing at deleted products are reported too.
func Validate(loc models.Location, lines []models.CartLine) models.ValidationReport {
	report := models.ValidationReport{Issues: []models.ValidationIssue{}, Subtotal: decimal.Zero}
	if len(lines) == 0 {
		report.Empty = true
		report.Issues = append(report.Issues, models.ValidationIssue{
			Code:    models.IssueCartEmpty,
			Message: "Your cart is empty. Nothing to checkout.",
		})
		return report
	}

	for _, l := range lines {
		if l.Missing {
			report.Issues = append(report.Issues, models.ValidationIssue{
				Code:      models.IssueProductMissing,
				ProductID: l.ProductID,
				Message:   fmt.Sprintf("Product #%d is no longer sold and was removed from your cart.", l.ProductID),
			})
			continue
		}
		report.Subtotal = report.Subtotal.Add(pricing.LineTotal(l.PricePerUnit, l.UnitType, l.Quantity))

		if !l.Available {
			report.Issues = append(report.Issues, models.ValidationIssue{
				Code:      models.IssueUnavailable,
				ProductID: l.ProductID,
				Message:   fmt.Sprintf("%s is no longer available in %s. Please remove it from your cart.", l.Name, loc),
			})
		}
		if l.Stock < l.Quantity {
			report.Issues = append(report.Issues, insufficientStock(l))
		}
	}
	return report
}

func insufficientStock(l models.CartLine) models.ValidationIssue {
	return models.ValidationIssue{
		Code:      models.IssueInsufficientStock,
		ProductID: l.ProductID,
		Message: fmt.Sprintf("%s quantity (%.3f kg) exceeds current stock. Only %.3f kg remaining.",
			l.Name, l.Quantity, l.Stock),
	}
}

// Preview validates the cart without changing anything.
func (s *CheckoutService) Preview(ctx context.Context, id models.Identity) (Preview, error) {
	lines, err := s.carts.ListCart(ctx, id.UserID, id.Location)
	if err != nil {
		return Preview{}, err
	}
	report := Validate(id.Location, lines)
	return Preview{
		ValidationReport: report,
		DeliveryFee:      s.deliveryFee,
		Total:            report.Subtotal.Add(s.deliveryFee),
		Valid:            report.Valid(),
	}, nil
}

// Checkout settles the caller's cart: stock is decremented, an order is
// recorded and the cart is cleared, all in one transaction.
//
// Errors: ErrNothingToOrder for an empty cart; a *CheckoutError wrapping
// ErrValidation with issues; ErrConfirmationRequired or
// ErrConfirmationRejected; or a *CheckoutError wrapping ErrProcessing with
// a reference to the logged cause.
func (s *CheckoutService) Checkout(ctx context.Context, id models.Identity, confirmation string) (*models.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "checkout.Settle", trace.WithAttributes(
		attribute.Int64("user.id", id.UserID),
		attribute.String("user.location", string(id.Location)),
	))
	defer span.End()

	lines, err := s.carts.ListCart(ctx, id.UserID, id.Location)
	if err != nil {
		return nil, s.fail(span, id, "read cart", err)
	}
	if len(lines) == 0 {
		return nil, ErrNothingToOrder
	}

	report := Validate(id.Location, lines)
	if !report.Valid() {
		s.dropMissing(ctx, id, lines)
		span.SetAttributes(attribute.Int("checkout.issues", len(report.Issues)))
		return nil, &CheckoutError{Op: "checkout", Err: ErrValidation, Issues: report.Issues}
	}

	if err := s.policy.Confirm(confirmation); err != nil {
		return nil, err
	}

	receipt, err := s.settle(ctx, span, id, lines, report.Subtotal)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int64("order.id", receipt.OrderID))
	s.log.Info("order placed",
		zap.Int64("order_id", receipt.OrderID),
		zap.Int64("user_id", id.UserID),
		zap.String("location", string(id.Location)),
		zap.String("total", receipt.Total.StringFixed(2)),
		zap.Int("lines", len(lines)))
	return receipt, nil
}

func (s *CheckoutService) settle(ctx context.Context, span trace.Span, id models.Identity, lines []models.CartLine, subtotal decimal.Decimal) (*models.Receipt, error) {
	tx, err := s.settlements.BeginSettlement(ctx)
	if err != nil {
		return nil, s.fail(span, id, "begin", err)
	}
	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				s.log.Error("rollback failed", zap.Int64("user_id", id.UserID), zap.Error(err))
			}
		}
	}()

	// Rows are locked in product order so concurrent settlements over the
	// same products cannot deadlock.
	ordered := append([]models.CartLine(nil), lines...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ProductID < ordered[j].ProductID })
	for _, l := range ordered {
		ok, err := tx.DecrementStock(ctx, l.ProductID, l.Quantity)
		if err != nil {
			return nil, s.fail(span, id, "decrement stock", err)
		}
		if !ok {
			// stock moved since validation; nothing has been applied
			return nil, &CheckoutError{Op: "checkout", Err: ErrValidation, Issues: []models.ValidationIssue{insufficientStock(l)}}
		}
	}

	order := &models.Order{
		UserID:   id.UserID,
		Total:    subtotal.Add(s.deliveryFee),
		Location: id.Location,
		Status:   models.OrderStatusPending,
	}
	orderID, err := tx.InsertOrder(ctx, order)
	if err != nil {
		return nil, s.fail(span, id, "insert order", err)
	}
	for _, l := range lines {
		item := models.OrderItem{
			OrderID:         orderID,
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			PriceAtPurchase: pricing.PricePerKg(l.PricePerUnit, l.UnitType),
		}
		if err := tx.InsertOrderItem(ctx, item); err != nil {
			return nil, s.fail(span, id, "insert order item", err)
		}
	}

	if _, err := tx.ClearCart(ctx, id.UserID); err != nil {
		return nil, s.fail(span, id, "clear cart", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, s.fail(span, id, "commit", err)
	}
	committed = true

	if err := s.counts.Invalidate(ctx, id.UserID); err != nil {
		s.log.Warn("cart count cache invalidate failed", zap.Int64("user_id", id.UserID), zap.Error(err))
	}

	return &models.Receipt{
		OrderID:     orderID,
		Subtotal:    subtotal,
		DeliveryFee: s.deliveryFee,
		Total:       order.Total,
	}, nil
}

// fail logs the real cause under a fresh reference and returns an error
// that only carries the reference.
func (s *CheckoutService) fail(span trace.Span, id models.Identity, step string, cause error) error {
	ref := s.newRef()
	s.log.Error("checkout failed",
		zap.String("ref", ref),
		zap.String("step", step),
		zap.Int64("user_id", id.UserID),
		zap.Error(cause))
	span.RecordError(cause)
	span.SetStatus(codes.Error, step)
	return &CheckoutError{Op: "checkout", Err: ErrProcessing, Ref: ref}
}

func (s *CheckoutService) dropMissing(ctx context.Context, id models.Identity, lines []models.CartLine) {
	removed := false
	for _, l := range lines {
		if !l.Missing {
			continue
		}
		if err := s.carts.RemoveFromCart(ctx, id.UserID, l.ProductID); err != nil {
			s.log.Warn("could not drop orphaned cart line",
				zap.Int64("user_id", id.UserID), zap.Int64("product_id", l.ProductID), zap.Error(err))
			continue
		}
		removed = true
	}
	if removed {
		if err := s.counts.Invalidate(ctx, id.UserID); err != nil {
			s.log.Warn("cart count cache invalidate failed", zap.Int64("user_id", id.UserID), zap.Error(err))
		}
	}
}
