package view

import (
	"github.com/labstack/echo/v4"
	"github.com/nfrund/storefront/internal/domain"
	"github.com/nfrund/storefront/internal/middleware"
)

// Page carries the values every full page needs from the request.
type Page struct {
	Title string
	Path  string
	CSRF  string
	User  *domain.User
	Flash FlashData
}

// NewPage collects request-scoped layout data. It consumes pending flashes.
func NewPage(c echo.Context, title string) Page {
	return Page{
		Title: title,
		Path:  c.Request().URL.Path,
		CSRF:  middleware.CSRFToken(c),
		User:  middleware.CurrentUser(c),
		Flash: GetFlashData(c),
	}
}

// IsAuthenticated reports whether a user is logged in for this request.
func (p Page) IsAuthenticated() bool {
	return p.User != nil
}

// AuthForm is the state of the login, signup and reset request forms.
type AuthForm struct {
	Email  string
	Errors domain.FieldErrors
}

// NewPasswordForm is the state of the form reached from a reset link.
type NewPasswordForm struct {
	UserID string
	Token  string
	Errors domain.FieldErrors
}

// ProductForm is the state of the add and edit product forms.
type ProductForm struct {
	ProductID   string
	Title       string
	Price       string
	Description string
	Editing     bool
	Errors      domain.FieldErrors
}

// FieldError returns the message for field, or "".
func (f ProductForm) FieldError(field string) string {
	return f.Errors[field]
}
