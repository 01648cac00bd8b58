package services

import (
	"context"

	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
	"github.com/valutatrade/valutatrade_hub/internal/dto"
)

// UserSvcFacade handles registration, login and user lookup.
type UserSvcFacade interface {
	// Register creates a user and their seeded portfolio.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// Login verifies credentials and returns a signed JWT for the user.
	Login(ctx context.Context, req dto.LoginRequest) (string, *domain.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}
