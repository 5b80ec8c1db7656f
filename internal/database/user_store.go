package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/storefront/internal/domain"
)

// var _ ensures that UserStore implements the domain.UserRepository interface at compile time.
var _ domain.UserRepository = (*UserStore)(nil)

// UserStore persists users, their embedded carts and reset tokens in SurrealDB.
type UserStore struct {
	client *Client[userRecord]
}

// NewUserStore creates a new UserStore.
func NewUserStore(client *Client[userRecord]) *UserStore {
	return &UserStore{client: client}
}

// Create inserts a new user with an empty cart.
func (s *UserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil || user.Email == "" || user.PasswordHash == "" {
		return nil, NewDBError(ErrInvalidInput, "user email and password hash are required")
	}

	existing, err := s.FindByEmail(ctx, user.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}

	now := time.Now().UTC()
	query := "CREATE $id CONTENT $data"
	params := map[string]any{
		"id": recordID(userTable, uuid.NewString()),
		"data": map[string]any{
			"email":      user.Email,
			"password":   user.PasswordHash,
			"cart":       toCartRecord(domain.Cart{}),
			"created_at": dateTime(now),
		},
	}

	rows, err := s.client.Mutate(ctx, query, params)
	if err != nil {
		// The unique index catches a concurrent signup with the same address.
		if isUniqueViolation(err) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if len(rows) == 0 {
		return nil, NewDBError(ErrQueryFailed, "create user returned no record")
	}

	created := rows[0].toDomain()
	slog.InfoContext(ctx, "Created user", "event", "user_created", "user_id", created.ID)
	return created, nil
}

// FindByID loads a user by bare key.
func (s *UserStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, notFound("user", id)
	}
	rec, err := s.client.QueryOne(ctx, "SELECT * FROM $id", map[string]any{"id": recordID(userTable, id)})
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if rec == nil {
		return nil, notFound("user", id)
	}
	return rec.toDomain(), nil
}

// FindByEmail queries for a single user by their (normalized) email address.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := "SELECT * FROM user WHERE email = $email"
	rec, err := s.client.QueryOne(ctx, query, map[string]any{"email": domain.NormalizeEmail(email)})
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	if rec == nil {
		return nil, notFound("user with email", email)
	}
	return rec.toDomain(), nil
}

// SaveCart overwrites the embedded cart. Concurrent writers race; the last one wins.
func (s *UserStore) SaveCart(ctx context.Context, userID string, cart domain.Cart) error {
	query := "UPDATE $id SET cart = $cart RETURN AFTER"
	rows, err := s.client.Mutate(ctx, query, map[string]any{
		"id":   recordID(userTable, userID),
		"cart": toCartRecord(cart),
	})
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	if len(rows) == 0 {
		return notFound("user", userID)
	}
	return nil
}

// SetResetToken attaches a reset token and its expiry to the user.
func (s *UserStore) SetResetToken(ctx context.Context, userID, token string, expires time.Time) error {
	query := `
		UPDATE $id SET
			reset_token = $reset_token,
			reset_token_expires = $expires
		RETURN AFTER
	`
	rows, err := s.client.Mutate(ctx, query, map[string]any{
		"id":          recordID(userTable, userID),
		"reset_token": token,
		"expires":     dateTime(expires),
	})
	if err != nil {
		return fmt.Errorf("failed to update user with reset token: %w", err)
	}
	if len(rows) == 0 {
		return notFound("user", userID)
	}
	return nil
}

// FindByResetToken returns the user whose token is still live at now.
func (s *UserStore) FindByResetToken(ctx context.Context, token string, now time.Time) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrInvalidResetToken
	}
	// "target_token" avoids SurrealDB's reserved $token parameter.
	query := "SELECT * FROM user WHERE reset_token = $target_token AND reset_token_expires > $now"
	rec, err := s.client.QueryOne(ctx, query, map[string]any{
		"target_token": token,
		"now":          dateTime(now),
	})
	if err != nil {
		return nil, fmt.Errorf("error finding user by reset token: %w", err)
	}
	if rec == nil {
		return nil, domain.ErrInvalidResetToken
	}
	return rec.toDomain(), nil
}

// ResetPassword performs the whole check-and-set in one UPDATE so a token
// cannot be used twice, expire mid-way, or be applied to another user.
func (s *UserStore) ResetPassword(ctx context.Context, userID, token, passwordHash string, now time.Time) error {
	if userID == "" || token == "" || passwordHash == "" {
		return domain.ErrInvalidResetToken
	}

	query := `
		UPDATE $id SET
			password = $password,
			reset_token = NONE,
			reset_token_expires = NONE
		WHERE reset_token = $target_token AND reset_token_expires > $now
		RETURN AFTER
	`
	rows, err := s.client.Mutate(ctx, query, map[string]any{
		"id":           recordID(userTable, userID),
		"password":     passwordHash,
		"target_token": token,
		"now":          dateTime(now),
	})
	if err != nil {
		slog.ErrorContext(ctx, "Database error during atomic password reset", "event", "password_reset_failure", "error", err)
		return fmt.Errorf("failed to execute atomic password reset: %w", err)
	}
	if len(rows) == 0 {
		return domain.ErrInvalidResetToken
	}
	return nil
}
