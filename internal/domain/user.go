package domain

import (
	"context"
	"strings"
	"time"
)

// ResetTokenTTL is how long a password reset link stays valid.
const ResetTokenTTL = time.Hour

// User represents the core user model in the application domain.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	// ResetToken and ResetTokenExpires are set and cleared together.
	ResetToken        *string
	ResetTokenExpires *time.Time
	Cart              Cart
	CreatedAt         time.Time
}

// HasLiveResetToken reports whether token matches the stored one and has not expired at now.
func (u *User) HasLiveResetToken(token string, now time.Time) bool {
	if u.ResetToken == nil || u.ResetTokenExpires == nil || token == "" {
		return false
	}
	return *u.ResetToken == token && u.ResetTokenExpires.After(now)
}

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserRepository defines the contract for user data storage operations.
// It lives in the domain because it's a requirement OF the domain, not
// of the database implementation.
type UserRepository interface {
	// Create stores a new user. It returns ErrUserAlreadyExists when the email is taken.
	Create(ctx context.Context, user *User) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// SaveCart replaces the embedded cart of the user.
	SaveCart(ctx context.Context, userID string, cart Cart) error
	SetResetToken(ctx context.Context, userID, token string, expires time.Time) error
	// FindByResetToken returns the user holding a token that is still valid at now.
	FindByResetToken(ctx context.Context, token string, now time.Time) (*User, error)
	// ResetPassword stores passwordHash and clears the token pair, but only if
	// id, token and expiry > now all match in one step. Otherwise it returns
	// ErrInvalidResetToken and changes nothing.
	ResetPassword(ctx context.Context, userID, token, passwordHash string, now time.Time) error
}
