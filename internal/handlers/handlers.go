// Package handlers contains the HTTP handlers of the storefront.
package handlers

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/storefront/internal/cart"
	"github.com/nfrund/storefront/internal/catalog"
	"github.com/nfrund/storefront/internal/checkout"
	"github.com/nfrund/storefront/internal/domain"
	"github.com/nfrund/storefront/internal/rendering"
)

// Authenticator is the account side of the auth service.
type Authenticator interface {
	Signup(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	RequestReset(ctx context.Context, email, baseURL string) error
	ValidateResetToken(ctx context.Context, token string) (*domain.User, error)
	CompleteReset(ctx context.Context, userID, token, newPassword string) error
}

// Catalog is the product management surface.
type Catalog interface {
	List(ctx context.Context, pageNumber int) ([]*domain.Product, domain.Pagination, error)
	ListByOwner(ctx context.Context, ownerID string, pageNumber int) ([]*domain.Product, domain.Pagination, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	GetOwned(ctx context.Context, id, ownerID string) (*domain.Product, error)
	Create(ctx context.Context, ownerID string, in catalog.Input, image *catalog.Image) (*domain.Product, error)
	Update(ctx context.Context, ownerID, id string, in catalog.Input, image *catalog.Image) (*domain.Product, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// Carts reads and mutates the current user's cart.
type Carts interface {
	Add(ctx context.Context, userID, productID string) (domain.Cart, error)
	Remove(ctx context.Context, userID, productID string) (domain.Cart, error)
	Lines(ctx context.Context, userID string) ([]cart.Line, error)
}

// Checkout runs the payment pipeline.
type Checkout interface {
	StartPayment(ctx context.Context, user *domain.User, baseURL string) (*domain.PaymentSession, *checkout.Quote, error)
	Confirm(ctx context.Context, userID, paymentSessionID string) (*domain.Order, error)
	Orders(ctx context.Context, userID string) ([]*domain.Order, error)
}

// Invoices authorises and streams invoice documents.
type Invoices interface {
	Prepare(ctx context.Context, orderID, requesterID string) (*domain.Order, error)
	Write(ctx context.Context, order *domain.Order, w io.Writer) error
}

// base holds what every page handler needs.
type base struct {
	renderer rendering.Renderer
	baseURL  string
}

// appBaseURL prefers the configured URL and falls back to the request host.
func (b base) appBaseURL(c echo.Context) string {
	if b.baseURL != "" {
		return b.baseURL
	}
	return c.Scheme() + "://" + c.Request().Host
}

// pageParam reads ?page=, treating anything non-numeric as the first page.
func pageParam(c echo.Context) int {
	n, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || n < 1 {
		return domain.DefaultPage
	}
	return n
}

// bindProductID binds and validates a product id. Malformed ids are reported
// as not found.
func bindProductID(c echo.Context) (string, error) {
	var req ProductIDRequest
	if err := c.Bind(&req); err != nil {
		return "", err
	}
	if err := c.Validate(&req); err != nil {
		return "", domain.ErrNotFound
	}
	return req.ProductID, nil
}

func isKind(err error, kind domain.Kind) bool {
	return err != nil && domain.KindOf(err) == kind
}

var errNoUser = errors.New("handler reached without an authenticated user")
