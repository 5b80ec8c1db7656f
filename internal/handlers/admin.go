package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/storefront/internal/catalog"
	"github.com/nfrund/storefront/internal/domain"
	"github.com/nfrund/storefront/internal/middleware"
	"github.com/nfrund/storefront/internal/rendering"
	"github.com/nfrund/storefront/internal/view"
	"github.com/nfrund/storefront/web/src/templates/pages"
)

// AdminHandler manages the products owned by the current user.
type AdminHandler struct {
	base
	catalog   Catalog
	maxUpload int64
}

// MsgImageTooLarge is shown when the upload exceeds the configured limit.
const MsgImageTooLarge = "Image is too large."

// NewAdminHandler creates a new AdminHandler accepting images up to maxUpload bytes.
func NewAdminHandler(catalog Catalog, renderer rendering.Renderer, maxUpload int64) *AdminHandler {
	return &AdminHandler{base: base{renderer: renderer}, catalog: catalog, maxUpload: maxUpload}
}

// Products lists the user's own products (GET /admin/products).
func (h *AdminHandler) Products(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	products, pagination, err := h.catalog.ListByOwner(c.Request().Context(), user.ID, pageParam(c))
	if err != nil {
		return err
	}
	return h.renderer.RenderPage(c, http.StatusOK, pages.AdminProducts(view.NewPage(c, "Admin Products"), products, pagination))
}

// AddProductGet renders an empty product form (GET /admin/add-product).
func (h *AdminHandler) AddProductGet(c echo.Context) error {
	return h.renderForm(c, http.StatusOK, view.ProductForm{})
}

// AddProductPost creates a product from the multipart form.
func (h *AdminHandler) AddProductPost(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	req, form, err := h.bindProduct(c)
	if err != nil {
		return err
	}

	image, closeImage, err := h.formImage(c)
	if errors.Is(err, errImageTooLarge) {
		form.Errors = domain.FieldErrors{"image": MsgImageTooLarge}
		return h.renderForm(c, http.StatusUnprocessableEntity, form)
	}
	if err != nil {
		return err
	}
	defer closeImage()

	if err := c.Validate(req); err != nil {
		form.Errors = view.FieldMessages(err)
		if form.Errors == nil {
			form.Errors = domain.FieldErrors{}
		}
		if image == nil {
			form.Errors["image"] = catalog.MsgNotAnImage
		}
		return h.renderForm(c, http.StatusUnprocessableEntity, form)
	}

	price, _ := domain.ParsePrice(req.Price)
	in := catalog.Input{Title: req.Title, Price: price, Description: req.Description}
	if _, err := h.catalog.Create(c.Request().Context(), user.ID, in, image); err != nil {
		if fields := view.FieldMessages(err); fields != nil {
			form.Errors = fields
			return h.renderForm(c, http.StatusUnprocessableEntity, form)
		}
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/products")
}

// EditProductGet renders the edit form (GET /admin/edit-product/:productId?edit=true).
// Missing edit mode, unknown products and foreign products redirect home.
func (h *AdminHandler) EditProductGet(c echo.Context) error {
	if c.QueryParam("edit") != "true" {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := bindProductID(c)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	product, err := h.catalog.GetOwned(c.Request().Context(), id, user.ID)
	if err != nil {
		if isKind(err, domain.KindNotFound) || isKind(err, domain.KindForbidden) {
			return c.Redirect(http.StatusSeeOther, "/")
		}
		return err
	}

	return h.renderForm(c, http.StatusOK, view.ProductForm{
		ProductID:   product.ID,
		Title:       product.Title,
		Price:       product.Price.StringFixed(2),
		Description: product.Description,
		Editing:     true,
	})
}

// EditProductPost applies the edit form (POST /admin/edit-product).
func (h *AdminHandler) EditProductPost(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	req, form, err := h.bindProduct(c)
	if err != nil {
		return err
	}
	form.Editing = true
	if req.ProductID == "" {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	image, closeImage, err := h.formImage(c)
	if errors.Is(err, errImageTooLarge) {
		form.Errors = domain.FieldErrors{"image": MsgImageTooLarge}
		return h.renderForm(c, http.StatusUnprocessableEntity, form)
	}
	if err != nil {
		return err
	}
	defer closeImage()

	if err := c.Validate(req); err != nil {
		form.Errors = view.FieldMessages(err)
		return h.renderForm(c, http.StatusUnprocessableEntity, form)
	}

	price, _ := domain.ParsePrice(req.Price)
	in := catalog.Input{Title: req.Title, Price: price, Description: req.Description}
	if _, err := h.catalog.Update(c.Request().Context(), user.ID, req.ProductID, in, image); err != nil {
		switch {
		case isKind(err, domain.KindNotFound), isKind(err, domain.KindForbidden):
			return c.Redirect(http.StatusSeeOther, "/")
		case view.FieldMessages(err) != nil:
			form.Errors = view.FieldMessages(err)
			return h.renderForm(c, http.StatusUnprocessableEntity, form)
		}
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/products")
}

// DeleteProduct removes a product and its image (DELETE /admin/product/:productId).
// It answers with JSON for htmx.
func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := bindProductID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, MessageResponse{Message: msgDeleteFailed})
	}

	if err := h.catalog.Delete(c.Request().Context(), user.ID, id); err != nil {
		kind := domain.KindOf(err)
		if kind != domain.KindNotFound && kind != domain.KindForbidden {
			middleware.FromContext(c.Request().Context()).Error("Deleting product failed",
				"event", "product_delete_failed", "product_id", id, "error", err)
			return c.JSON(http.StatusInternalServerError, MessageResponse{Message: msgDeleteFailed})
		}
		return c.JSON(kind.HTTPStatus(), MessageResponse{Message: msgDeleteFailed})
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: msgDeleteSucceeded})
}

func (h *AdminHandler) bindProduct(c echo.Context) (*ProductRequest, view.ProductForm, error) {
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return nil, view.ProductForm{}, err
	}
	req.Normalize()
	form := view.ProductForm{
		ProductID:   req.ProductID,
		Title:       req.Title,
		Price:       req.Price,
		Description: req.Description,
	}
	return &req, form, nil
}

func (h *AdminHandler) renderForm(c echo.Context, status int, form view.ProductForm) error {
	title := "Add Product"
	if form.Editing {
		title = "Edit Product"
	}
	return h.renderer.RenderPage(c, status, pages.EditProduct(view.NewPage(c, title), form))
}

var errImageTooLarge = errors.New("uploaded image exceeds the size limit")

// formImage opens the optional "image" upload. The returned func closes it.
func (h *AdminHandler) formImage(c echo.Context) (*catalog.Image, func(), error) {
	noop := func() {}
	header, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, echo.NewHTTPError(http.StatusBadRequest, "invalid upload").SetInternal(err)
	}
	if header.Size == 0 {
		return nil, noop, nil
	}
	if h.maxUpload > 0 && header.Size > h.maxUpload {
		return nil, noop, errImageTooLarge
	}
	file, err := header.Open()
	if err != nil {
		return nil, noop, err
	}
	return &catalog.Image{ContentType: contentType(header), Body: file}, func() { _ = file.Close() }, nil
}

func contentType(header *multipart.FileHeader) string {
	return header.Header.Get(echo.HeaderContentType)
}
