package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edumgmt-api/internal/models"
)

// UserRepository manages persistence for users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail fetches a user by email. sql.ErrNoRows passes through.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `SELECT id, email, password_hash, full_name, role, active, created_at, updated_at
FROM users WHERE email = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID fetches a user by id. sql.ErrNoRows passes through.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	const query = `SELECT id, email, password_hash, full_name, role, active, created_at, updated_at
FROM users WHERE id = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListIDsByRole returns active user ids holding the role, used to fan out
// notifications to academic coordinators.
func (r *UserRepository) ListIDsByRole(ctx context.Context, role models.UserRole) ([]string, error) {
	const query = `SELECT id FROM users WHERE role = $1 AND active = TRUE`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, role); err != nil {
		return nil, fmt.Errorf("list user ids by role: %w", err)
	}
	return ids, nil
}
