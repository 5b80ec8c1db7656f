package pages

import (
	"encoding/json"

	"github.com/nfrund/storefront/internal/domain"
	"github.com/nfrund/storefront/internal/middleware"
	"github.com/nfrund/storefront/internal/view"
	"github.com/nfrund/storefront/web/src/templates/components"
	"github.com/nfrund/storefront/web/src/templates/layouts"
	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents/html"
)

// AdminProducts lists the products owned by the current user.
func AdminProducts(page view.Page, products []*domain.Product, pagination domain.Pagination) cmp.Node {
	return layouts.Base(page,
		g.H1(cmp.Text("Admin Products")),
		cmp.If(len(products) == 0, g.P(g.Class("centered"), cmp.Text("No Products Found!"))),
		g.Div(
			g.Class("grid"),
			cmp.Map(products, func(p *domain.Product) cmp.Node {
				return components.ProductCard(p,
					g.A(g.Class("btn"), g.Href("/admin/edit-product/"+p.ID+"?edit=true"), cmp.Text("Edit")),
					g.Button(
						g.Class("btn btn--danger"), g.Type("button"),
						hx.Delete("/admin/product/"+p.ID),
						hx.Headers(csrfHeader(page.CSRF)),
						hx.Confirm("Delete "+p.Title+"?"),
						hx.Target("closest article"),
						hx.Swap("delete"),
						cmp.Text("Delete"),
					),
				)
			}),
		),
		components.Pagination("/admin/products", pagination),
	)
}

// EditProduct renders the add and edit product form.
func EditProduct(page view.Page, form view.ProductForm) cmp.Node {
	action, label := "/admin/add-product", "Add Product"
	if form.Editing {
		action, label = "/admin/edit-product", "Update Product"
	}
	return layouts.Base(page,
		g.Form(
			g.Class("product-form"),
			g.Action(action), g.Method("post"), g.EncType("multipart/form-data"), cmp.Attr("novalidate"),
			components.CSRFField(page.CSRF),
			components.Field("Title", "title", "text", form.Title, form.FieldError("title")),
			components.Field("Image", "image", "file", "", form.FieldError("image"), g.Accept("image/png,image/jpeg")),
			components.Field("Price", "price", "number", form.Price, form.FieldError("price"), g.Step("0.01"), g.Min("0")),
			components.TextArea("Description", "description", form.Description, form.FieldError("description"), 5),
			cmp.If(form.Editing, components.HiddenField("productId", form.ProductID)),
			components.SubmitButton(label),
		),
	)
}

func csrfHeader(token string) string {
	b, _ := json.Marshal(map[string]string{middleware.CSRFHeader: token})
	return string(b)
}
