package pages

import (
	"strconv"

	"github.com/nfrund/storefront/internal/domain"
	"github.com/nfrund/storefront/internal/view"
	"github.com/nfrund/storefront/web/src/templates/layouts"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// Orders lists the orders of the current user with invoice links.
func Orders(page view.Page, orders []*domain.Order) cmp.Node {
	return layouts.Base(page,
		g.H1(cmp.Text("Your Orders")),
		cmp.If(len(orders) == 0, g.P(g.Class("centered"), cmp.Text("Nothing there!"))),
		g.Ul(
			g.Class("orders"),
			cmp.Map(orders, func(o *domain.Order) cmp.Node {
				return g.Li(
					g.Class("orders__item"),
					g.Div(
						g.H2(
							cmp.Text("Order - #"+o.ID+" - "),
							g.A(g.Href("/orders/"+o.ID), cmp.Text("Invoice")),
						),
						g.Ul(
							g.Class("orders__products"),
							cmp.Map(o.Items, func(item domain.OrderItem) cmp.Node {
								return g.Li(cmp.Text(item.Title + " (" + strconv.Itoa(item.Quantity) + ")"))
							}),
						),
					),
					g.Strong(cmp.Text(domain.FormatMoney(o.Total()))),
				)
			}),
		),
	)
}
