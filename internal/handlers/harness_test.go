package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/storefront/internal/auth"
	"github.com/nfrund/storefront/internal/cart"
	"github.com/nfrund/storefront/internal/catalog"
	"github.com/nfrund/storefront/internal/checkout"
	"github.com/nfrund/storefront/internal/domain"
	"github.com/nfrund/storefront/internal/handlers"
	"github.com/nfrund/storefront/internal/invoice"
	"github.com/nfrund/storefront/internal/middleware"
	"github.com/nfrund/storefront/internal/payment"
	"github.com/nfrund/storefront/internal/rendering"
	"github.com/nfrund/storefront/internal/storage"
	"github.com/nfrund/storefront/internal/testutils"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSessionSecret = "a-very-secret-key-for-testing-0123"
	testPassword      = "secret123"
)

type harness struct {
	e        *echo.Echo
	users    *testutils.MemUsers
	products *testutils.MemProducts
	orders   *testutils.MemOrders
	mailer   *testutils.RecordingSender
	fs       afero.Fs
	store    *storage.AferoStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		e:        echo.New(),
		users:    testutils.NewMemUsers(),
		products: testutils.NewMemProducts(),
		orders:   testutils.NewMemOrders(),
		mailer:   &testutils.RecordingSender{},
		fs:       afero.NewMemMapFs(),
	}
	h.store = storage.NewAferoStore(h.fs)

	authSvc := auth.NewService(h.users, h.mailer, &testutils.RecordingPublisher{}, auth.WithCost(bcrypt.MinCost))
	catalogSvc := catalog.NewService(h.products, h.store, 3)
	cartSvc := cart.NewService(h.users, h.products)
	checkoutSvc := checkout.NewService(h.users, h.products, h.orders, payment.LogGateway{}, &testutils.RecordingPublisher{}, "usd")
	invoiceSvc := invoice.NewService(h.orders, h.store)
	renderer := rendering.NewNodeRenderer()

	authH := handlers.NewAuthHandler(authSvc, renderer, "http://shop.test")
	shopH := handlers.NewShopHandler(catalogSvc, cartSvc, checkoutSvc, invoiceSvc, renderer, "http://shop.test")
	adminH := handlers.NewAdminHandler(catalogSvc, renderer, 1<<20)

	e := h.e
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = c.NoContent(he.Code)
			return
		}
		_ = c.NoContent(domain.KindOf(err).HTTPStatus())
	}
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(testSessionSecret))))
	e.Use(middleware.Identity(h.users))

	e.GET("/", shopH.Index)
	e.GET("/products", shopH.Products)
	e.GET("/products/:productId", shopH.Product)
	e.GET("/login", authH.LoginGet)
	e.POST("/login", authH.LoginPost)
	e.GET("/signup", authH.SignupGet)
	e.POST("/signup", authH.SignupPost)
	e.POST("/logout", authH.Logout)
	e.GET("/reset", authH.ResetGet)
	e.POST("/reset", authH.ResetPost)
	e.GET("/reset/:token", authH.NewPasswordGet)
	e.POST("/new-password", authH.NewPasswordPost)

	g := e.Group("", middleware.RequireAuth)
	g.GET("/cart", shopH.Cart)
	g.POST("/cart", shopH.AddToCart)
	g.POST("/cart-delete-item", shopH.RemoveFromCart)
	g.GET("/checkout", shopH.Checkout)
	g.GET("/checkout/success", shopH.CheckoutSuccess)
	g.GET("/checkout/cancel", shopH.CheckoutCancel)
	g.GET("/orders", shopH.Orders)
	g.GET("/orders/:orderId", shopH.Invoice)
	g.GET("/admin/products", adminH.Products)
	g.GET("/admin/add-product", adminH.AddProductGet)
	g.POST("/admin/add-product", adminH.AddProductPost)
	g.GET("/admin/edit-product/:productId", adminH.EditProductGet)
	g.POST("/admin/edit-product", adminH.EditProductPost)
	g.DELETE("/admin/product/:productId", adminH.DeleteProduct)
	return h
}

// createUser stores a user whose password is testPassword.
func (h *harness) createUser(t *testing.T, email string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user, err := h.users.Create(context.Background(), &domain.User{Email: email, PasswordHash: string(hash)})
	require.NoError(t, err)
	return user
}

func (h *harness) createProduct(t *testing.T, ownerID, title string) *domain.Product {
	t.Helper()
	_, err := h.store.Save(context.Background(), "images/"+title+".png", strings.NewReader("png"))
	require.NoError(t, err)
	p, err := h.products.Create(context.Background(), &domain.Product{
		Title: title, Price: decimal.RequireFromString("9.99"), Description: "A fine product",
		ImagePath: "images/" + title + ".png", OwnerID: ownerID,
	})
	require.NoError(t, err)
	return p
}

// browser keeps cookies between requests like a user agent would.
type browser struct {
	h       *harness
	cookies map[string]*http.Cookie
}

func (h *harness) browser() *browser {
	return &browser{h: h, cookies: map[string]*http.Cookie{}}
}

// loggedIn returns a browser holding a session for email.
func (h *harness) loggedIn(t *testing.T, email string) *browser {
	t.Helper()
	b := h.browser()
	rec := b.postForm("/login", url.Values{"email": {email}, "password": {testPassword}})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	return b
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.h.e.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return b.do(req)
}

func (b *browser) delete(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodDelete, path, nil))
}

// upload is an optional file part for postMultipart.
type upload struct {
	contentType string
	body        string
}

func (b *browser) postMultipart(t *testing.T, path string, fields map[string]string, file *upload) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="image"; filename="upload"`)
		hdr.Set("Content-Type", file.contentType)
		part, err := w.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write([]byte(file.body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return b.do(req)
}

// flashes decodes the flash messages a response left in its cookie.
func flashes(t *testing.T, rec *httptest.ResponseRecorder, key string) []interface{} {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	sess, err := sessions.NewCookieStore([]byte(testSessionSecret)).Get(req, "flash-session")
	require.NoError(t, err)
	return sess.Flashes(key)
}

// assertFlashMessage checks that the response set a specific flash message.
func assertFlashMessage(t *testing.T, rec *httptest.ResponseRecorder, key, expectedMessage string) {
	t.Helper()
	got := flashes(t, rec, key)
	require.NotEmpty(t, got, "expected flash message but found none for key: %s", key)
	require.Equal(t, expectedMessage, got[0])
}

func domainPage() domain.Page {
	return domain.NewPage(1, 10)
}
