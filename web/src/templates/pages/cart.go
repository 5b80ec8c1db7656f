package pages

import (
	"strconv"

	"github.com/nfrund/storefront/internal/cart"
	"github.com/nfrund/storefront/internal/checkout"
	"github.com/nfrund/storefront/internal/domain"
	"github.com/nfrund/storefront/internal/view"
	"github.com/nfrund/storefront/web/src/templates/components"
	"github.com/nfrund/storefront/web/src/templates/layouts"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// Cart renders the cart contents with a remove button per entry.
func Cart(page view.Page, lines []cart.Line) cmp.Node {
	return layouts.Base(page,
		g.H1(cmp.Text("Your Cart")),
		cmp.If(len(lines) == 0, g.P(g.Class("centered"), cmp.Text("No Products in Cart!"))),
		cmp.If(len(lines) > 0, cmp.Group{
			g.Ul(
				g.Class("cart__item-list"),
				cmp.Map(lines, func(line cart.Line) cmp.Node {
					return cartLine(page.CSRF, line)
				}),
			),
			g.Div(g.Class("centered"), g.A(g.Class("btn"), g.Href("/checkout"), cmp.Text("Order Now!"))),
		}),
	)
}

func cartLine(csrf string, line cart.Line) cmp.Node {
	title := "Product no longer available"
	class := "cart__item cart__item--unavailable"
	if line.Product != nil {
		title = line.Product.Title
		class = "cart__item"
	}
	return g.Li(
		g.Class(class),
		g.H2(cmp.Text(title)),
		g.H2(cmp.Text("Quantity: "+strconv.Itoa(line.Quantity))),
		g.Form(
			g.Action("/cart-delete-item"), g.Method("post"),
			components.CSRFField(csrf),
			components.HiddenField("productId", line.ProductID),
			g.Button(g.Class("btn btn--danger"), g.Type("submit"), cmp.Text("Delete")),
		),
	)
}

// Checkout renders the priced cart and the button that hands off to the
// payment provider.
func Checkout(page view.Page, quote *checkout.Quote, session *domain.PaymentSession) cmp.Node {
	return layouts.Base(page,
		g.H1(cmp.Text("Checkout")),
		g.Ul(
			g.Class("cart__item-list"),
			cmp.Map(quote.Lines, func(line checkout.QuoteLine) cmp.Node {
				return g.Li(
					g.Class("cart__item"),
					g.H2(cmp.Text(line.Product.Title)),
					g.H2(cmp.Text("Quantity: "+strconv.Itoa(line.Quantity))),
					g.H2(cmp.Text(domain.FormatMoney(line.Subtotal()))),
				)
			}),
		),
		g.Div(
			g.Class("centered"),
			g.H2(cmp.Text("Total: "+domain.FormatMoney(quote.Total))),
			g.A(g.Class("btn"), g.ID("order-btn"), g.Href(session.URL), cmp.Text("ORDER")),
		),
	)
}
