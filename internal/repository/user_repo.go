package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Cheertaboi/farmfresh-storefront/internal/models"
)

// uniqueViolation is the Postgres SQLSTATE for a unique index conflict.
const uniqueViolation = "23505"

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, username, email, password, location, user_type, COALESCE(auth_token, '')`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Location, &u.Role, &u.AuthToken); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func (r *UserRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	query := `
		INSERT INTO users (username, email, password, location, user_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, u.Username, u.Email, u.PasswordHash, u.Location, u.Role).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrConflict
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return u.ID, nil
}

func (r *UserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (r *UserRepo) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE auth_token = $1`, token))
}

// SetAuthToken stores token for the user. An empty token clears it.
func (r *UserRepo) SetAuthToken(ctx context.Context, userID int64, token string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET auth_token = NULLIF($1, '') WHERE id = $2`, token, userID)
	if err != nil {
		return fmt.Errorf("set auth token: %w", err)
	}
	return expectOneRow(res)
}

func (r *UserRepo) UpdateProfile(ctx context.Context, userID int64, username string, loc models.Location) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET username = $1, location = $2 WHERE id = $3`, username, loc, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("update profile: %w", err)
	}
	return expectOneRow(res)
}
