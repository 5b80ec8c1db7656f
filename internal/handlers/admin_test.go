package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/storefront/internal/catalog"
	"github.com/nfrund/storefront/internal/handlers"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageFiles(t *testing.T, h *harness) []string {
	t.Helper()
	files, err := afero.Glob(h.fs, "images/*")
	require.NoError(t, err)
	return files
}

func validProduct() map[string]string {
	return map[string]string{"title": " Desk Lamp ", "price": "12.50", "description": "Bright and small."}
}

func TestAddProduct(t *testing.T) {
	t.Run("stores product and image", func(t *testing.T) {
		h := newHarness(t)
		owner := h.createUser(t, "owner@example.com")
		b := h.loggedIn(t, "owner@example.com")

		rec := b.postMultipart(t, "/admin/add-product", validProduct(), &upload{contentType: "image/png", body: "png-bytes"})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/products", rec.Header().Get(echo.HeaderLocation))

		products, total, err := h.products.ListByOwner(context.Background(), owner.ID, domainPage())
		require.NoError(t, err)
		require.EqualValues(t, 1, total)
		assert.Equal(t, "Desk Lamp", products[0].Title)
		assert.Equal(t, "12.5", products[0].Price.String())
		assert.Len(t, imageFiles(t, h), 1)
	})

	t.Run("rejects files that are not images", func(t *testing.T) {
		h := newHarness(t)
		h.createUser(t, "owner@example.com")
		b := h.loggedIn(t, "owner@example.com")

		rec := b.postMultipart(t, "/admin/add-product", validProduct(), &upload{contentType: "image/gif", body: "gif"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), catalog.MsgNotAnImage)
		assert.Contains(t, rec.Body.String(), `value="Desk Lamp"`)
		assert.Empty(t, imageFiles(t, h))
	})

	t.Run("reports invalid fields and echoes the input", func(t *testing.T) {
		h := newHarness(t)
		h.createUser(t, "owner@example.com")
		b := h.loggedIn(t, "owner@example.com")

		fields := map[string]string{"title": "ab", "price": "1.999", "description": "tiny"}
		rec := b.postMultipart(t, "/admin/add-product", fields, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Title must be at least 3 characters.")
		assert.Contains(t, body, "at most two decimals")
		assert.Contains(t, body, "Description must be at least 5 characters.")
		assert.Contains(t, body, catalog.MsgNotAnImage)
		assert.Contains(t, body, `value="1.999"`)
	})
}

func TestEditProduct(t *testing.T) {
	h := newHarness(t)
	owner := h.createUser(t, "owner@example.com")
	h.createUser(t, "other@example.com")
	p := h.createProduct(t, owner.ID, "lamp")
	ownerBrowser := h.loggedIn(t, "owner@example.com")
	otherBrowser := h.loggedIn(t, "other@example.com")

	t.Run("requires edit mode", func(t *testing.T) {
		rec := ownerBrowser.get("/admin/edit-product/" + p.ID)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("non-owner is sent home", func(t *testing.T) {
		rec := otherBrowser.get("/admin/edit-product/" + p.ID + "?edit=true")
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

		fields := validProduct()
		fields["productId"] = p.ID
		rec = otherBrowser.postMultipart(t, "/admin/edit-product", fields, nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

		unchanged, err := h.products.FindByID(context.Background(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, "lamp", unchanged.Title)
	})

	t.Run("owner sees the prefilled form", func(t *testing.T) {
		rec := ownerBrowser.get("/admin/edit-product/" + p.ID + "?edit=true")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `value="lamp"`)
		assert.Contains(t, rec.Body.String(), `value="9.99"`)
		assert.Contains(t, rec.Body.String(), `name="productId" value="`+p.ID+`"`)
	})

	t.Run("new image replaces the old one", func(t *testing.T) {
		fields := validProduct()
		fields["productId"] = p.ID
		rec := ownerBrowser.postMultipart(t, "/admin/edit-product", fields, &upload{contentType: "image/jpeg", body: "jpg"})
		assert.Equal(t, http.StatusSeeOther, rec.Code)

		updated, err := h.products.FindByID(context.Background(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Desk Lamp", updated.Title)
		assert.NotEqual(t, p.ImagePath, updated.ImagePath)

		oldExists, err := afero.Exists(h.fs, p.ImagePath)
		require.NoError(t, err)
		assert.False(t, oldExists)
		assert.Equal(t, []string{updated.ImagePath}, imageFiles(t, h))
	})
}

func TestDeleteProduct(t *testing.T) {
	h := newHarness(t)
	owner := h.createUser(t, "owner@example.com")
	h.createUser(t, "other@example.com")
	p := h.createProduct(t, owner.ID, "lamp")

	decode := func(t *testing.T, body []byte) handlers.MessageResponse {
		var res handlers.MessageResponse
		require.NoError(t, json.Unmarshal(body, &res))
		return res
	}

	t.Run("non-owner is forbidden", func(t *testing.T) {
		rec := h.loggedIn(t, "other@example.com").delete("/admin/product/" + p.ID)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Deleting product failed", decode(t, rec.Body.Bytes()).Message)
	})

	b := h.loggedIn(t, "owner@example.com")

	t.Run("owner deletes product and image", func(t *testing.T) {
		rec := b.delete("/admin/product/" + p.ID)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Success", decode(t, rec.Body.Bytes()).Message)
		assert.Empty(t, imageFiles(t, h))
	})

	t.Run("missing product is not found", func(t *testing.T) {
		rec := b.delete("/admin/product/" + p.ID)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAdminProductsListsOwnProducts(t *testing.T) {
	h := newHarness(t)
	owner := h.createUser(t, "owner@example.com")
	other := h.createUser(t, "other@example.com")
	h.createProduct(t, owner.ID, "mine")
	h.createProduct(t, other.ID, "theirs")

	rec := h.loggedIn(t, "owner@example.com").get("/admin/products")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ">mine<")
	assert.NotContains(t, rec.Body.String(), ">theirs<")
	assert.Contains(t, rec.Body.String(), "hx-delete")
}

func TestAddProductRejectsOversizedImage(t *testing.T) {
	h := newHarness(t)
	h.createUser(t, "owner@example.com")
	b := h.loggedIn(t, "owner@example.com")

	big := strings.Repeat("x", 2<<20)
	rec := b.postMultipart(t, "/admin/add-product", validProduct(), &upload{contentType: "image/png", body: big})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), handlers.MsgImageTooLarge)
	assert.Empty(t, imageFiles(t, h))
}
