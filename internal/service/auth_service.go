package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Cheertaboi/farmfresh-storefront/internal/models"
	"github.com/Cheertaboi/farmfresh-storefront/internal/repository"
)

// AuthService turns credentials into an opaque token stored on the user row,
// and tokens back into a request Identity.
type AuthService struct {
	users    repository.UserStore
	log      *zap.Logger
	newToken func() (string, error)
}

func NewAuthService(users repository.UserStore, log *zap.Logger) *AuthService {
	return &AuthService{users: users, log: log, newToken: randomToken}
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

type Registration struct {
	Username string
	Email    string
	Password string
	Location string
	Role     models.Role
}

func (s *AuthService) Register(ctx context.Context, r Registration) (*models.User, error) {
	username := strings.TrimSpace(r.Username)
	if username == "" || r.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidProfile)
	}
	loc, err := models.ParseLocation(r.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	role := r.Role
	if role == "" {
		role = models.RoleCustomer
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		Username:     username,
		Email:        strings.TrimSpace(r.Email),
		PasswordHash: string(hash),
		Location:     loc,
		Role:         role,
	}
	if _, err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return u, nil
}

// Login checks the password and issues a fresh token, replacing any
// previous one.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	u, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.newToken()
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	if err := s.users.SetAuthToken(ctx, u.ID, token); err != nil {
		return nil, "", err
	}
	u.AuthToken = token
	s.log.Info("user signed in", zap.Int64("user_id", u.ID), zap.String("role", string(u.Role)))
	return u, token, nil
}

func (s *AuthService) Resolve(ctx context.Context, token string) (models.Identity, error) {
	u, err := s.users.GetUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Identity{}, ErrUnauthenticated
		}
		return models.Identity{}, err
	}
	return u.Identity(), nil
}

func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	return s.users.SetAuthToken(ctx, userID, "")
}
