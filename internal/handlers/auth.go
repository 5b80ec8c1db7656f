package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/storefront/internal/domain"
	"github.com/nfrund/storefront/internal/middleware"
	"github.com/nfrund/storefront/internal/rendering"
	"github.com/nfrund/storefront/internal/view"
	"github.com/nfrund/storefront/web/src/templates/pages"
)

// User-facing auth messages.
const (
	MsgSignupSucceeded   = "Signup succeeded! Please log in."
	MsgEmailTaken        = "E-Mail exists already, please pick a different one."
	MsgInvalidLogin      = "Invalid email or password."
	MsgResetRequested    = "If an account with that email exists, a password reset link has been sent."
	MsgResetLinkInvalid  = "Reset link is invalid or has expired."
	MsgPasswordUpdated   = "Your password has been updated. Please log in."
	MsgLoggedOut         = "You have been logged out."
	msgSignupUnavailable = "Could not create your account."
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	base
	auth Authenticator
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth Authenticator, renderer rendering.Renderer, baseURL string) *AuthHandler {
	return &AuthHandler{base: base{renderer: renderer, baseURL: baseURL}, auth: auth}
}

// LoginGet renders the login page (GET /login).
func (h *AuthHandler) LoginGet(c echo.Context) error {
	return h.renderer.RenderPage(c, http.StatusOK, pages.Login(view.NewPage(c, "Login"), view.AuthForm{}))
}

// LoginPost handles the form submission for logging in a user.
func (h *AuthHandler) LoginPost(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	form := view.AuthForm{Email: req.Email}
	if err := c.Validate(&req); err != nil {
		form.Errors = view.FieldMessages(err)
		return h.renderer.RenderPage(c, http.StatusUnprocessableEntity, pages.Login(view.NewPage(c, "Login"), form))
	}

	user, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			return err
		}
		middleware.FromContext(c.Request().Context()).Info("Failed login attempt", "event", "login_failed")
		page := view.NewPage(c, "Login")
		page.Flash.Error = append(page.Flash.Error, MsgInvalidLogin)
		return h.renderer.RenderPage(c, http.StatusUnprocessableEntity, pages.Login(page, form))
	}

	if err := middleware.LogIn(c, user); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// SignupGet renders the signup page (GET /signup).
func (h *AuthHandler) SignupGet(c echo.Context) error {
	return h.renderer.RenderPage(c, http.StatusOK, pages.Signup(view.NewPage(c, "Signup"), view.AuthForm{}))
}

// SignupPost handles the form submission for creating a new user.
func (h *AuthHandler) SignupPost(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	form := view.AuthForm{Email: req.Email}
	if err := c.Validate(&req); err != nil {
		form.Errors = view.FieldMessages(err)
		return h.renderer.RenderPage(c, http.StatusUnprocessableEntity, pages.Signup(view.NewPage(c, "Signup"), form))
	}

	if _, err := h.auth.Signup(c.Request().Context(), req.Email, req.Password); err != nil {
		if !errors.Is(err, domain.ErrUserAlreadyExists) {
			middleware.FromContext(c.Request().Context()).Error("Error creating user", "error", err)
			view.SetFlashError(c, msgSignupUnavailable)
			return c.Redirect(http.StatusSeeOther, "/signup")
		}
		form.Errors = domain.FieldErrors{"email": MsgEmailTaken}
		return h.renderer.RenderPage(c, http.StatusUnprocessableEntity, pages.Signup(view.NewPage(c, "Signup"), form))
	}

	view.SetFlashSuccess(c, MsgSignupSucceeded)
	return c.Redirect(http.StatusSeeOther, "/login")
}

// Logout destroys the server-side session.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := middleware.LogOut(c); err != nil {
		return err
	}
	view.SetFlashSuccess(c, MsgLoggedOut)
	return c.Redirect(http.StatusSeeOther, "/")
}

// ResetGet renders the password reset request page.
func (h *AuthHandler) ResetGet(c echo.Context) error {
	return h.renderer.RenderPage(c, http.StatusOK, pages.Reset(view.NewPage(c, "Reset Password"), view.AuthForm{}))
}

// ResetPost sends a reset link. The response is the same whether or not the
// account exists.
func (h *AuthHandler) ResetPost(c echo.Context) error {
	var req ResetRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		form := view.AuthForm{Email: req.Email, Errors: view.FieldMessages(err)}
		return h.renderer.RenderPage(c, http.StatusUnprocessableEntity, pages.Reset(view.NewPage(c, "Reset Password"), form))
	}

	if err := h.auth.RequestReset(c.Request().Context(), req.Email, h.appBaseURL(c)); err != nil {
		return err
	}
	view.SetFlashSuccess(c, MsgResetRequested)
	return c.Redirect(http.StatusSeeOther, "/reset")
}

// NewPasswordGet renders the new password form for a live reset token
// (GET /reset/:token).
func (h *AuthHandler) NewPasswordGet(c echo.Context) error {
	token := c.Param("token")
	user, err := h.auth.ValidateResetToken(c.Request().Context(), token)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidResetToken) {
			return err
		}
		view.SetFlashError(c, MsgResetLinkInvalid)
		return c.Redirect(http.StatusSeeOther, "/reset")
	}

	form := view.NewPasswordForm{UserID: user.ID, Token: token}
	return h.renderer.RenderPage(c, http.StatusOK, pages.NewPassword(view.NewPage(c, "New Password"), form))
}

// NewPasswordPost sets the new password and consumes the token.
func (h *AuthHandler) NewPasswordPost(c echo.Context) error {
	var req NewPasswordRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		fields := view.FieldMessages(err)
		if _, ok := fields["password"]; !ok {
			// The hidden fields were tampered with.
			view.SetFlashError(c, MsgResetLinkInvalid)
			return c.Redirect(http.StatusSeeOther, "/reset")
		}
		form := view.NewPasswordForm{UserID: req.UserID, Token: req.Token, Errors: fields}
		return h.renderer.RenderPage(c, http.StatusUnprocessableEntity, pages.NewPassword(view.NewPage(c, "New Password"), form))
	}

	if err := h.auth.CompleteReset(c.Request().Context(), req.UserID, req.Token, req.Password); err != nil {
		if !errors.Is(err, domain.ErrInvalidResetToken) {
			return err
		}
		view.SetFlashError(c, MsgResetLinkInvalid)
		return c.Redirect(http.StatusSeeOther, "/reset")
	}

	view.SetFlashSuccess(c, MsgPasswordUpdated)
	return c.Redirect(http.StatusSeeOther, "/login")
}
