package pages

import (
	"github.com/nfrund/storefront/internal/domain"
	"github.com/nfrund/storefront/internal/view"
	"github.com/nfrund/storefront/web/src/templates/components"
	"github.com/nfrund/storefront/web/src/templates/layouts"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// ProductList renders one page of the public catalog at basePath.
func ProductList(page view.Page, basePath string, products []*domain.Product, pagination domain.Pagination) cmp.Node {
	return layouts.Base(page,
		g.H1(cmp.Text(page.Title)),
		cmp.If(len(products) == 0, g.P(g.Class("centered"), cmp.Text("No Products Found!"))),
		cmp.If(len(products) > 0, g.Div(
			g.Class("grid"),
			cmp.Map(products, func(p *domain.Product) cmp.Node {
				return components.ProductCard(p,
					g.A(g.Class("btn"), g.Href("/products/"+p.ID), cmp.Text("Details")),
					cmp.If(page.IsAuthenticated(), components.AddToCart(p.ID, page.CSRF)),
				)
			}),
		)),
		components.Pagination(basePath, pagination),
	)
}

// ProductDetail renders a single product.
func ProductDetail(page view.Page, p *domain.Product) cmp.Node {
	return layouts.Base(page,
		g.Div(
			g.Class("centered"),
			g.H1(cmp.Text(p.Title)),
			g.Hr(),
			g.Div(g.Class("card__image"), g.Img(g.Src(components.ImageURL(p)), g.Alt(p.Title))),
			g.H2(cmp.Text(domain.FormatMoney(p.Price))),
			g.P(cmp.Text(p.Description)),
			cmp.If(page.IsAuthenticated(), components.AddToCart(p.ID, page.CSRF)),
		),
	)
}
