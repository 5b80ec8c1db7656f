package handlers

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nfrund/storefront/internal/domain"
)

// CustomValidator wraps the shared domain validator to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: domain.Validator()}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// LoginRequest is the login form.
type LoginRequest struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=5,alphanum"`
}

// SignupRequest is the signup form.
type SignupRequest struct {
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=5,alphanum"`
	ConfirmPassword string `form:"confirmPassword" validate:"eqfield=Password"`
}

// ResetRequest asks for a reset link.
type ResetRequest struct {
	Email string `form:"email" validate:"required,email"`
}

// NewPasswordRequest completes a reset.
type NewPasswordRequest struct {
	UserID   string `form:"userId" validate:"required,safepath"`
	Token    string `form:"passwordToken" validate:"required,hexadecimal"`
	Password string `form:"password" validate:"required,min=5,alphanum"`
}

// ProductRequest is the add and edit product form. The image travels as a
// separate multipart file.
type ProductRequest struct {
	ProductID   string `form:"productId" validate:"omitempty,safepath"`
	Title       string `form:"title" validate:"required,min=3"`
	Price       string `form:"price" validate:"required,money"`
	Description string `form:"description" validate:"min=5,max=400"`
}

// Normalize trims the free-text fields before validation.
func (r *ProductRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Price = strings.TrimSpace(r.Price)
	r.Description = strings.TrimSpace(r.Description)
}

// ProductIDRequest names a product in the path or a form body.
type ProductIDRequest struct {
	ProductID string `param:"productId" form:"productId" validate:"required,safepath"`
}

// OrderIDRequest names an order in the path.
type OrderIDRequest struct {
	OrderID string `param:"orderId" validate:"required,safepath"`
}
