package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/Cheertaboi/farmfresh-storefront/internal/cache"
	"github.com/Cheertaboi/farmfresh-storefront/internal/models"
	"github.com/Cheertaboi/farmfresh-storefront/internal/pricing"
	"github.com/Cheertaboi/farmfresh-storefront/internal/repository"
)

// ZeroQuantityKg is the largest quantity treated as "nothing". Setting a
// cart line at or below it removes the line.
const ZeroQuantityKg = 0.001

type CartService struct {
	products repository.ProductStore
	carts    repository.CartStore
	counts   cache.CartCountCache
	log      *zap.Logger
}

func NewCartService(products repository.ProductStore, carts repository.CartStore, counts cache.CartCountCache, log *zap.Logger) *CartService {
	return &CartService{
		products: products,
		carts:    carts,
		counts:   counts,
		log:      log,
	}
}

func validQuantity(qty float64) bool {
	return !math.IsNaN(qty) && !math.IsInf(qty, 0)
}

// Add puts qty kg of a product into the cart, or tops up an existing line.
// Availability and stock are checked against a fresh read of the product.
// Quantities at or below ZeroQuantityKg are rejected.
func (s *CartService) Add(ctx context.Context, id models.Identity, productID int64, qty float64) error {
	if !validQuantity(qty) || qty <= ZeroQuantityKg {
		return ErrInvalidQuantity
	}

	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("load product: %w", err)
	}
	if !p.Availability.At(id.Location) {
		return fmt.Errorf("%w: %s is not available in %s", ErrUnavailableAtLocation, p.Name, id.Location)
	}
	if p.Stock < qty {
		return fmt.Errorf("%w: only %.3f kg of %s remaining", ErrInsufficientStock, p.Stock, p.Name)
	}

	if err := s.carts.AddToCart(ctx, id.UserID, productID, qty); err != nil {
		return err
	}
	s.invalidate(ctx, id.UserID)
	return nil
}

// SetQuantity overwrites a cart line. Quantities at or below ZeroQuantityKg
// delete the line instead; removed reports which happened.
func (s *CartService) SetQuantity(ctx context.Context, id models.Identity, productID int64, qty float64) (removed bool, err error) {
	if !validQuantity(qty) {
		return false, ErrInvalidQuantity
	}
	if qty <= ZeroQuantityKg {
		return true, s.Remove(ctx, id, productID)
	}

	if err := s.carts.SetCartQuantity(ctx, id.UserID, productID, qty); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrCartItemNotFound
		}
		return false, err
	}
	return false, nil
}

func (s *CartService) Remove(ctx context.Context, id models.Identity, productID int64) error {
	if err := s.carts.RemoveFromCart(ctx, id.UserID, productID); err != nil {
		return err
	}
	s.invalidate(ctx, id.UserID)
	return nil
}

// View returns the priced cart as seen from the caller's zone.
func (s *CartService) View(ctx context.Context, id models.Identity) (models.CartView, error) {
	lines, err := s.carts.ListCart(ctx, id.UserID, id.Location)
	if err != nil {
		return models.CartView{}, err
	}
	return pricing.Price(lines), nil
}

// Count returns the number of distinct lines in the user's cart.
func (s *CartService) Count(ctx context.Context, userID int64) (int, error) {
	if n, ok, err := s.counts.Get(ctx, userID); err != nil {
		s.log.Warn("cart count cache read failed", zap.Int64("user_id", userID), zap.Error(err))
	} else if ok {
		return n, nil
	}

	n, err := s.carts.CountCart(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := s.counts.Set(ctx, userID, n); err != nil {
		s.log.Warn("cart count cache write failed", zap.Int64("user_id", userID), zap.Error(err))
	}
	return n, nil
}

func (s *CartService) invalidate(ctx context.Context, userID int64) {
	if err := s.counts.Invalidate(ctx, userID); err != nil {
		s.log.Warn("cart count cache invalidate failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}
