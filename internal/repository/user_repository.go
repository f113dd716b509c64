package repository

import (
	"context"
	"database/sql"
	"fmt"

	"anime-catalog-service/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser creates a new user. The password is stored as given.
func (r *UserRepository) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password) VALUES ($1, $2)
		RETURNING id, username, password
	`, username, password).Scan(&user.ID, &user.Username, &user.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", translate(err))
	}
	return &user, nil
}

// GetUser returns a user by ID.
func (r *UserRepository) GetUser(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, password FROM users WHERE id = $1
	`, id).Scan(&user.ID, &user.Username, &user.Password)
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetUserByUsername returns a user by username.
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, password FROM users WHERE username = $1
	`, username).Scan(&user.ID, &user.Username, &user.Password)
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}
