package components

import (
	"bytes"
	"testing"

	"github.com/nfrund/storefront/internal/domain"
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

func TestPagination(t *testing.T) {
	t.Run("single page renders nothing", func(t *testing.T) {
		p := domain.NewPagination(domain.NewPage(1, 3), 2)
		assert.Nil(t, Pagination("/", p))
	})

	t.Run("middle page links neighbours and both ends", func(t *testing.T) {
		p := domain.NewPagination(domain.NewPage(3, 3), 15)
		html := render(t, Pagination("/products", p))
		for _, href := range []string{"/products?page=1", "/products?page=2", "/products?page=4", "/products?page=5"} {
			assert.Contains(t, html, `href="`+href+`"`)
		}
		assert.Contains(t, html, `<a href="/products?page=3" class="active">3</a>`)
	})
}

func TestProductCard(t *testing.T) {
	p := &domain.Product{
		ID: "p1", Title: "Book <b>", Price: decimal.RequireFromString("1234.5"),
		Description: "A book", ImagePath: "images/a.png",
	}
	html := render(t, ProductCard(p))
	assert.Contains(t, html, "Book &lt;b&gt;")
	assert.Contains(t, html, "$1,234.50")
	assert.Contains(t, html, `src="/images/a.png"`)
}

func TestFieldShowsError(t *testing.T) {
	html := render(t, Field("Email", "email", "email", "a@b.c", "Please enter a valid email."))
	assert.Contains(t, html, "form-control--invalid")
	assert.Contains(t, html, `value="a@b.c"`)
	assert.Contains(t, html, "Please enter a valid email.")

	html = render(t, Field("Password", "password", "password", "secret", ""))
	assert.NotContains(t, html, "secret")
}
