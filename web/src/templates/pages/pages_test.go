package pages

import (
	"bytes"
	"testing"

	"github.com/nfrund/storefront/internal/cart"
	"github.com/nfrund/storefront/internal/domain"
	"github.com/nfrund/storefront/internal/view"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cmp "maragu.dev/gomponents"
)

func render(t *testing.T, node cmp.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, node.Render(&buf))
	return buf.String()
}

func TestEditProductEchoesInput(t *testing.T) {
	form := view.ProductForm{
		ProductID: "p1", Title: "Bo", Price: "12.5", Description: "Some words",
		Editing: true, Errors: domain.FieldErrors{"title": "Title must be at least 3 characters."},
	}
	html := render(t, EditProduct(view.Page{CSRF: "tok"}, form))

	assert.Contains(t, html, `action="/admin/edit-product"`)
	assert.Contains(t, html, `value="Bo"`)
	assert.Contains(t, html, `value="12.5"`)
	assert.Contains(t, html, "Some words")
	assert.Contains(t, html, "Title must be at least 3 characters.")
	assert.Contains(t, html, `name="productId" value="p1"`)
}

func TestAdminProductsUsesHTMXDelete(t *testing.T) {
	p := &domain.Product{ID: "p1", Title: "Book", Price: decimal.NewFromInt(3), ImagePath: "images/x.png"}
	html := render(t, AdminProducts(view.Page{CSRF: "tok"}, []*domain.Product{p}, domain.Pagination{}))

	assert.Contains(t, html, `hx-delete="/admin/product/p1"`)
	assert.Contains(t, html, "X-CSRF-Token")
	assert.Contains(t, html, `href="/admin/edit-product/p1?edit=true"`)
}

func TestCartMarksVanishedProducts(t *testing.T) {
	lines := []cart.Line{
		{ProductID: "p1", Quantity: 2, Product: &domain.Product{ID: "p1", Title: "Book"}},
		{ProductID: "gone", Quantity: 1},
	}
	html := render(t, Cart(view.Page{User: &domain.User{ID: "u1"}}, lines))

	assert.Contains(t, html, "Book")
	assert.Contains(t, html, "Quantity: 2")
	assert.Contains(t, html, "Product no longer available")
	assert.Contains(t, html, `name="productId" value="gone"`)
}

func TestErrorPageHidesDetail(t *testing.T) {
	html := render(t, Error(view.Page{}, 404, "Page not found."))
	assert.Contains(t, html, "404 Not Found")
	assert.Contains(t, html, "Page not found.")
}
