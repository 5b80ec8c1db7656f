package middleware

import (
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/storefront/internal/domain"
)

// SessionName is the cookie carrying login state.
const SessionName = "shop-session"

const (
	sessionKeyUserID   = "user_id"
	sessionKeyEmail    = "email"
	sessionKeyCheckout = "checkout_session"
)

func shopSession(c echo.Context) (*sessions.Session, error) {
	return session.Get(SessionName, c)
}

// LogIn links the session to user. The previous session id is discarded.
func LogIn(c echo.Context, user *domain.User) error {
	sess, err := shopSession(c)
	if err != nil && sess == nil {
		return err
	}
	sess.ID = ""
	sess.IsNew = true
	sess.Values = map[any]any{
		sessionKeyUserID: user.ID,
		sessionKeyEmail:  user.Email,
	}
	return sess.Save(c.Request(), c.Response())
}

// LogOut destroys the session server-side and expires the cookie.
func LogOut(c echo.Context) error {
	sess, err := shopSession(c)
	if err != nil && sess == nil {
		return err
	}
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

// SetPendingCheckout remembers the payment session the user was sent to.
func SetPendingCheckout(c echo.Context, paymentSessionID string) error {
	sess, err := shopSession(c)
	if err != nil && sess == nil {
		return err
	}
	sess.Values[sessionKeyCheckout] = paymentSessionID
	return sess.Save(c.Request(), c.Response())
}

// PendingCheckout returns the remembered payment session id, or "".
func PendingCheckout(c echo.Context) (string, error) {
	sess, err := shopSession(c)
	if err != nil && sess == nil {
		return "", err
	}
	id, _ := sess.Values[sessionKeyCheckout].(string)
	return id, nil
}

// ClearPendingCheckout forgets the remembered payment session id.
func ClearPendingCheckout(c echo.Context) error {
	sess, err := shopSession(c)
	if err != nil && sess == nil {
		return err
	}
	if _, ok := sess.Values[sessionKeyCheckout]; !ok {
		return nil
	}
	delete(sess.Values, sessionKeyCheckout)
	return sess.Save(c.Request(), c.Response())
}

func sessionUserID(c echo.Context) string {
	sess, _ := shopSession(c)
	if sess == nil {
		return ""
	}
	id, _ := sess.Values[sessionKeyUserID].(string)
	return id
}
