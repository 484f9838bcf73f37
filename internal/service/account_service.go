package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Cheertaboi/farmfresh-storefront/internal/models"
	"github.com/Cheertaboi/farmfresh-storefront/internal/repository"
)

type AccountService struct {
	users  repository.UserStore
	orders repository.OrderStore
}

func NewAccountService(users repository.UserStore, orders repository.OrderStore) *AccountService {
	return &AccountService{users: users, orders: orders}
}

func (s *AccountService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	u, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	return u, err
}

// UpdateProfile changes the username and delivery zone. Empty arguments keep
// the current value.
func (s *AccountService) UpdateProfile(ctx context.Context, userID int64, username, location string) (*models.User, error) {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(username); name != "" {
		u.Username = name
	}
	if strings.TrimSpace(location) != "" {
		loc, err := models.ParseLocation(location)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
		}
		u.Location = loc
	}

	if err := s.users.UpdateProfile(ctx, userID, u.Username, u.Location); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return u, nil
}

func (s *AccountService) Orders(ctx context.Context, userID int64) ([]models.Order, error) {
	return s.orders.ListOrders(ctx, userID)
}
