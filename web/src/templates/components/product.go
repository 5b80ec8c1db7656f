package components

import (
	"strconv"

	"github.com/nfrund/storefront/internal/domain"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// ImageURL is where a stored product image is served from.
func ImageURL(p *domain.Product) string {
	return "/" + p.ImagePath
}

// ProductCard renders a product summary. actions are appended below it.
func ProductCard(p *domain.Product, actions ...cmp.Node) cmp.Node {
	return g.Article(
		g.Class("card product-item"),
		g.Header(g.H2(cmp.Text(p.Title))),
		g.Div(g.Class("card__image"), g.Img(g.Src(ImageURL(p)), g.Alt(p.Title))),
		g.Div(
			g.Class("card__content"),
			g.H3(g.Class("product__price"), cmp.Text(domain.FormatMoney(p.Price))),
			g.P(g.Class("product__description"), cmp.Text(p.Description)),
		),
		cmp.If(len(actions) > 0, g.Div(g.Class("card__actions"), cmp.Group(actions))),
	)
}

// AddToCart is the form that puts one unit of a product in the cart.
func AddToCart(productID, csrf string) cmp.Node {
	return g.Form(
		g.Action("/cart"), g.Method("post"),
		CSRFField(csrf),
		HiddenField("productId", productID),
		SubmitButton("Add to Cart"),
	)
}

// Pagination renders page links for a listing at basePath.
func Pagination(basePath string, p domain.Pagination) cmp.Node {
	if p.LastPage <= 1 {
		return nil
	}
	return g.Section(
		g.Class("pagination"),
		cmp.If(p.CurrentPage != 1 && p.PreviousPage != 1, pageLink(basePath, 1, false)),
		cmp.If(p.HasPreviousPage, pageLink(basePath, p.PreviousPage, false)),
		pageLink(basePath, p.CurrentPage, true),
		cmp.If(p.HasNextPage, pageLink(basePath, p.NextPage, false)),
		cmp.If(p.LastPage != p.CurrentPage && p.NextPage != p.LastPage, pageLink(basePath, p.LastPage, false)),
	)
}

func pageLink(basePath string, page int, active bool) cmp.Node {
	return g.A(
		g.Href(basePath+"?page="+strconv.Itoa(page)),
		cmp.If(active, g.Class("active")),
		cmp.Text(strconv.Itoa(page)),
	)
}
