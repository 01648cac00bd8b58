package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/valutatrade/valutatrade_hub/internal/apperrors"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

const pgUniqueViolation = "23505"

// PgxUserRepository implements the user repository ports using pgxpool.
type PgxUserRepository struct {
	BaseRepository
}

// NewPgxUserRepository creates a new PgxUserRepository.
func NewPgxUserRepository(pool *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// SaveUser inserts a new user. A username collision maps to ErrDuplicate.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO users (user_id, username, password_hash, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		user.UserID, user.Username, user.PasswordHash, user.CreatedAt, user.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: username %s", apperrors.ErrDuplicate, user.Username)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// FindUserByID retrieves a user by their unique ID.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findUser(ctx, "user_id", userID)
}

// FindUserByUsername retrieves a user by username.
func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findUser(ctx, "username", username)
}

func (r *PgxUserRepository) findUser(ctx context.Context, column, value string) (*domain.User, error) {
	query := fmt.Sprintf(`
		SELECT user_id, username, password_hash, created_at, last_updated_at
		FROM users WHERE %s = $1`, column)

	var user domain.User
	err := r.Pool.QueryRow(ctx, query, value).Scan(
		&user.UserID, &user.Username, &user.PasswordHash, &user.CreatedAt, &user.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s=%s", apperrors.ErrNotFound, column, value)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}
