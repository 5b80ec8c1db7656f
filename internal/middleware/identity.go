package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/storefront/internal/domain"
)

// UserContextKey is the echo context key holding the resolved *domain.User.
const UserContextKey = "user"

const userKey = contextKey("user")

// UserFinder loads users by id.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Identity resolves the session's user id to a user record on every request.
// A session pointing at a deleted user is logged out. Anonymous requests pass
// through untouched.
func Identity(users UserFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := sessionUserID(c)
			if userID == "" {
				return next(c)
			}

			ctx := c.Request().Context()
			user, err := users.FindByID(ctx, userID)
			if err != nil {
				if !errors.Is(err, domain.ErrNotFound) {
					return err
				}
				FromContext(ctx).Info("Session references a missing user", "event", "session_user_missing", "user_id", userID)
				if err := LogOut(c); err != nil {
					return err
				}
				return next(c)
			}

			c.Set(UserContextKey, user)
			c.SetRequest(c.Request().WithContext(WithUser(ctx, user)))
			return next(c)
		}
	}
}

// RequireAuth redirects anonymous requests to /login.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentUser(c) == nil {
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		return next(c)
	}
}

// CurrentUser returns the user resolved for this request, or nil.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(UserContextKey).(*domain.User)
	return user
}

// WithUser stores user in ctx.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the user stored by WithUser, or nil.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userKey).(*domain.User)
	return user
}
