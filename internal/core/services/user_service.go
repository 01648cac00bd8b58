package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
	portsrepo "github.com/valutatrade/valutatrade_hub/internal/core/ports/repositories"
	portssvc "github.com/valutatrade/valutatrade_hub/internal/core/ports/services"
	"github.com/valutatrade/valutatrade_hub/internal/dto"
	"github.com/valutatrade/valutatrade_hub/internal/utils"
)

// UserService handles registration, login and user lookup.
type UserService struct {
	userRepo     portsrepo.UserRepositoryFacade
	portfolioSvc portssvc.PortfolioWriterSvc
	logger       *slog.Logger

	jwtSecret string
	jwtExpiry time.Duration
	jwtIssuer string
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, portfolioSvc portssvc.PortfolioWriterSvc, jwtSecret string, jwtExpiry time.Duration, jwtIssuer string, logger *slog.Logger) *UserService {
	return &UserService{
		userRepo:     userRepo,
		portfolioSvc: portfolioSvc,
		logger:       logger,
		jwtSecret:    jwtSecret,
		jwtExpiry:    jwtExpiry,
		jwtIssuer:    jwtIssuer,
	}
}

// Register creates a user and their seeded portfolio.
func (s *UserService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username '%s' is taken", apperrors.ErrDuplicate, req.Username)
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	if _, err := s.portfolioSvc.CreatePortfolio(ctx, user.UserID); err != nil {
		// The user row exists but the portfolio does not; surface the error
		// so the caller can retry registration.
		return nil, fmt.Errorf("failed to create portfolio for new user: %w", err)
	}

	s.logger.Info("User registered",
		slog.String("user_id", user.UserID),
		slog.String("username", user.Username))
	return &user, nil
}

// Login verifies credentials and returns a signed JWT for the user.
func (s *UserService) Login(ctx context.Context, req dto.LoginRequest) (string, *domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, fmt.Errorf("%w: invalid username or password", apperrors.ErrValidation)
		}
		return "", nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return "", nil, fmt.Errorf("%w: invalid username or password", apperrors.ErrValidation)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.UserID,
		Issuer:    s.jwtIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info("User logged in", slog.String("user_id", user.UserID))
	return token, user, nil
}

// GetUserByID retrieves a user by ID.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}
