package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"anime-catalog-service/internal/auth"
	"anime-catalog-service/internal/models"
	"anime-catalog-service/internal/repository"
)

type UserService struct {
	store  UserStore
	tokens auth.TokenService
}

func NewUserService(store UserStore, tokens auth.TokenService) *UserService {
	return &UserService{store: store, tokens: tokens}
}

// CreateUser stores a new account. Passwords are kept as given.
func (s *UserService) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	user, err := s.store.CreateUser(ctx, username, password)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and issues a user token.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !auth.EqualSecret(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Sign(auth.Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: exp.UTC().Format(time.RFC3339),
		User:      *user,
	}, nil
}

// CurrentUser returns the account behind an identity.
func (s *UserService) CurrentUser(ctx context.Context, id *auth.Identity) (*models.User, error) {
	if id == nil {
		return nil, ErrUnauthenticated
	}
	user, err := s.store.GetUser(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
