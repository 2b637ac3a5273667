package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MullerEsposito/starkoverflow-engine/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByAddress retrieves a user record. Returns nil when the address has
// never been touched; callers treat that as reputation zero.
func (r *UserRepository) FindByAddress(ctx context.Context, address string) (*models.User, error) {
	query := `
		SELECT address, reputation, created_at, updated_at
		FROM users
		WHERE address = ?
	`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, address).Scan(
		&user.Address, &user.Reputation, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
