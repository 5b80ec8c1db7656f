package layouts

import (
	"bytes"
	"testing"

	"github.com/nfrund/storefront/internal/domain"
	"github.com/nfrund/storefront/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cmp "maragu.dev/gomponents"
)

func TestCalculateTitle(t *testing.T) {
	assert.Equal(t, "Cart - Storefront", CalculateTitle("Cart"))
	assert.Equal(t, "Storefront", CalculateTitle(""))
}

func render(t *testing.T, node cmp.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, node.Render(&buf))
	return buf.String()
}

func TestBaseNavigation(t *testing.T) {
	t.Run("anonymous visitors see login links", func(t *testing.T) {
		html := render(t, Base(view.Page{Title: "Shop", Path: "/"}))
		assert.Contains(t, html, `href="/login"`)
		assert.Contains(t, html, `href="/signup"`)
		assert.NotContains(t, html, `action="/logout"`)
		assert.NotContains(t, html, `href="/cart"`)
	})

	t.Run("authenticated users see cart and logout", func(t *testing.T) {
		page := view.Page{Path: "/", CSRF: "tok", User: &domain.User{ID: "u1"}}
		html := render(t, Base(page))
		assert.Contains(t, html, `href="/cart"`)
		assert.Contains(t, html, `action="/logout"`)
		assert.Contains(t, html, `name="_csrf" value="tok"`)
		assert.NotContains(t, html, `href="/login"`)
	})

	t.Run("flashes are rendered", func(t *testing.T) {
		page := view.Page{Flash: view.FlashData{Success: []string{"Saved"}, Error: []string{"Oops"}}}
		html := render(t, Base(page))
		assert.Contains(t, html, "Saved")
		assert.Contains(t, html, "Oops")
	})
}
