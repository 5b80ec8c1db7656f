// Package auth implements credential checks, signup and the password reset
// handshake.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nfrund/storefront/internal/domain"
	"github.com/nfrund/storefront/internal/email"
	"github.com/nfrund/storefront/internal/pubsub"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost used for stored passwords.
const DefaultCost = 12

// resetTokenBytes is the entropy of a reset token before hex encoding.
const resetTokenBytes = 32

// Service implements login, signup and password recovery.
type Service struct {
	users     domain.UserRepository
	mailer    domain.EmailSender
	publisher pubsub.Publisher
	cost      int
	now       func() time.Time

	// dummyHash is compared against when no user matches, so a missing
	// account costs the same as a wrong password.
	dummyHash []byte
}

// Option configures a Service.
type Option func(*Service)

// WithCost overrides the bcrypt cost.
func WithCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates an auth service.
func NewService(users domain.UserRepository, mailer domain.EmailSender, publisher pubsub.Publisher, opts ...Option) *Service {
	s := &Service{
		users:     users,
		mailer:    mailer,
		publisher: publisher,
		cost:      DefaultCost,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("storefront-dummy-password"), s.cost)
	return s
}

// Signup creates an account for a previously unused email and announces it.
func (s *Service) Signup(ctx context.Context, emailAddr, password string) (*domain.User, error) {
	emailAddr = domain.NormalizeEmail(emailAddr)

	_, err := s.users.FindByEmail(ctx, emailAddr)
	switch {
	case err == nil:
		return nil, domain.ErrUserAlreadyExists
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &domain.User{
		Email:        emailAddr,
		PasswordHash: string(hash),
		Cart:         domain.Cart{Items: []domain.CartItem{}},
	})
	if err != nil {
		return nil, err
	}

	if err := pubsub.Publish(ctx, s.publisher, pubsub.UserSignedUp, user.ID, domain.UserSignedUp{UserID: user.ID, Email: user.Email}); err != nil {
		slog.ErrorContext(ctx, "Failed to publish signup event", "event", "signup_publish_failed", "user_id", user.ID, "error", err)
	}
	return user, nil
}

// Login verifies the credentials. Unknown email and wrong password both
// return domain.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, emailAddr, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// RequestReset issues a reset token for emailAddr and mails the link built
// from baseURL. An unknown email is not an error and sends nothing.
func (s *Service) RequestReset(ctx context.Context, emailAddr, baseURL string) error {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			slog.InfoContext(ctx, "Password reset requested for unknown email", "event", "reset_unknown_email")
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}

	token, err := newResetToken()
	if err != nil {
		return err
	}
	if err := s.users.SetResetToken(ctx, user.ID, token, s.now().Add(domain.ResetTokenTTL)); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	msg := email.PasswordReset(baseURL + "/reset/" + token)
	if err := s.mailer.Send(ctx, user.Email, msg.Subject, msg.HTML); err != nil {
		// The response must not differ from the unknown-email case.
		slog.ErrorContext(ctx, "Failed to send password reset email", "event", "reset_email_failed", "user_id", user.ID, "error", err)
	}
	return nil
}

// ValidateResetToken returns the user holding a live token.
func (s *Service) ValidateResetToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrInvalidResetToken
	}
	user, err := s.users.FindByResetToken(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidResetToken) {
			return nil, domain.ErrInvalidResetToken
		}
		return nil, err
	}
	return user, nil
}

// CompleteReset sets a new password if userID still holds a live token.
// A successful reset consumes the token.
func (s *Service) CompleteReset(ctx context.Context, userID, token, newPassword string) error {
	if userID == "" || token == "" {
		return domain.ErrInvalidResetToken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.ResetPassword(ctx, userID, token, string(hash), s.now())
}

func newResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
