package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/storefront/internal/domain"
	"github.com/nfrund/storefront/internal/invoice"
	"github.com/nfrund/storefront/internal/middleware"
	"github.com/nfrund/storefront/internal/rendering"
	"github.com/nfrund/storefront/internal/view"
	"github.com/nfrund/storefront/web/src/templates/pages"
)

// User-facing shop messages.
const (
	MsgCartEmpty         = "Your cart is empty."
	MsgCheckoutCancelled = "Checkout was cancelled."
	MsgCheckoutMismatch  = "We could not match this payment to your checkout."
	MsgOrderPlaced       = "Thank you! Your order has been placed."
)

// ShopHandler serves the public catalog and the customer's cart, checkout
// and orders.
type ShopHandler struct {
	base
	catalog  Catalog
	carts    Carts
	checkout Checkout
	invoices Invoices
}

// NewShopHandler creates a new ShopHandler.
func NewShopHandler(catalog Catalog, carts Carts, checkout Checkout, invoices Invoices, renderer rendering.Renderer, baseURL string) *ShopHandler {
	return &ShopHandler{
		base:     base{renderer: renderer, baseURL: baseURL},
		catalog:  catalog,
		carts:    carts,
		checkout: checkout,
		invoices: invoices,
	}
}

// Index renders the first page of the catalog at / (GET /?page=).
func (h *ShopHandler) Index(c echo.Context) error {
	return h.list(c, "Shop", "/")
}

// Products renders the catalog listing (GET /products?page=).
func (h *ShopHandler) Products(c echo.Context) error {
	return h.list(c, "All Products", "/products")
}

func (h *ShopHandler) list(c echo.Context, title, basePath string) error {
	products, pagination, err := h.catalog.List(c.Request().Context(), pageParam(c))
	if err != nil {
		return err
	}
	return h.renderer.RenderPage(c, http.StatusOK, pages.ProductList(view.NewPage(c, title), basePath, products, pagination))
}

// Product renders the detail page (GET /products/:productId).
func (h *ShopHandler) Product(c echo.Context) error {
	id, err := bindProductID(c)
	if err != nil {
		return err
	}
	product, err := h.catalog.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return h.renderer.RenderPage(c, http.StatusOK, pages.ProductDetail(view.NewPage(c, product.Title), product))
}

// Cart renders the current cart (GET /cart).
func (h *ShopHandler) Cart(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	lines, err := h.carts.Lines(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return h.renderer.RenderPage(c, http.StatusOK, pages.Cart(view.NewPage(c, "Your Cart"), lines))
}

// AddToCart puts one unit of productId in the cart (POST /cart).
func (h *ShopHandler) AddToCart(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := bindProductID(c)
	if err != nil {
		return err
	}
	if _, err := h.carts.Add(c.Request().Context(), user.ID, id); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/cart")
}

// RemoveFromCart drops the productId entry (POST /cart-delete-item).
func (h *ShopHandler) RemoveFromCart(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := bindProductID(c)
	if err != nil {
		return err
	}
	if _, err := h.carts.Remove(c.Request().Context(), user.ID, id); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/cart")
}

// Checkout opens a payment session and renders the summary (GET /checkout).
// The session id is remembered so the success callback can be matched.
func (h *ShopHandler) Checkout(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	session, quote, err := h.checkout.StartPayment(c.Request().Context(), user, h.appBaseURL(c))
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCart) {
			view.SetFlashError(c, MsgCartEmpty)
			return c.Redirect(http.StatusSeeOther, "/cart")
		}
		return err
	}
	if err := middleware.SetPendingCheckout(c, session.ID); err != nil {
		return err
	}
	return h.renderer.RenderPage(c, http.StatusOK, pages.Checkout(view.NewPage(c, "Checkout"), quote, session))
}

// CheckoutSuccess turns the cart into an order (GET /checkout/success).
// The pending payment session is forgotten only once the order exists, so a
// failed confirmation can be retried from the same callback URL.
func (h *ShopHandler) CheckoutSuccess(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	pending, err := middleware.PendingCheckout(c)
	if err != nil {
		return err
	}
	if pending == "" || pending != c.QueryParam("session_id") {
		middleware.FromContext(c.Request().Context()).Warn("Checkout callback without matching session",
			"event", "checkout_session_mismatch", "user_id", user.ID)
		view.SetFlashError(c, MsgCheckoutMismatch)
		return c.Redirect(http.StatusSeeOther, "/cart")
	}

	order, err := h.checkout.Confirm(c.Request().Context(), user.ID, pending)
	if err != nil {
		return err
	}
	if err := middleware.ClearPendingCheckout(c); err != nil {
		return err
	}
	if order != nil {
		view.SetFlashSuccess(c, MsgOrderPlaced)
	}
	return c.Redirect(http.StatusSeeOther, "/orders")
}

// CheckoutCancel returns the user to the cart (GET /checkout/cancel).
func (h *ShopHandler) CheckoutCancel(c echo.Context) error {
	if err := middleware.ClearPendingCheckout(c); err != nil {
		return err
	}
	view.SetFlashError(c, MsgCheckoutCancelled)
	return c.Redirect(http.StatusSeeOther, "/cart")
}

// Orders lists the user's orders (GET /orders).
func (h *ShopHandler) Orders(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	orders, err := h.checkout.Orders(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return h.renderer.RenderPage(c, http.StatusOK, pages.Orders(view.NewPage(c, "Your Orders"), orders))
}

// Invoice streams the PDF invoice of an order owned by the user
// (GET /orders/:orderId).
func (h *ShopHandler) Invoice(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req OrderIDRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return domain.ErrNotFound
	}

	order, err := h.invoices.Prepare(c.Request().Context(), req.OrderID, user.ID)
	if err != nil {
		return err
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, invoice.ContentType)
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+invoice.FileName(order.ID)+`"`)
	res.WriteHeader(http.StatusOK)
	return h.invoices.Write(c.Request().Context(), order, res)
}

func currentUser(c echo.Context) (*domain.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, errNoUser
	}
	return user, nil
}
