package layouts

import (
	"github.com/nfrund/storefront/internal/view"
	"github.com/nfrund/storefront/web/src/templates/components"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// Base wraps page content in the document shell shared by every page.
func Base(page view.Page, content ...cmp.Node) cmp.Node {
	return g.Doctype(
		g.HTML(
			g.Lang("en"),
			g.Head(
				g.Meta(g.Charset("utf-8")),
				g.Meta(g.Name("viewport"), g.Content("width=device-width, initial-scale=1")),
				g.TitleEl(cmp.Text(CalculateTitle(page.Title))),
				g.Link(g.Rel("stylesheet"), g.Href("/static/css/main.css")),
				g.Script(g.Src("https://unpkg.com/htmx.org@2.0.4"), g.Defer()),
			),
			g.Body(
				navigation(page),
				g.Main(
					components.Flashes(page.Flash),
					cmp.Group(content),
				),
			),
		),
	)
}

func navigation(page view.Page) cmp.Node {
	return g.Header(
		g.Class("main-header"),
		g.Nav(
			g.Ul(
				navItem(page.Path, "/", "Shop"),
				navItem(page.Path, "/products", "Products"),
				cmp.If(page.IsAuthenticated(), cmp.Group{
					navItem(page.Path, "/cart", "Cart"),
					navItem(page.Path, "/orders", "Orders"),
					navItem(page.Path, "/admin/add-product", "Add Product"),
					navItem(page.Path, "/admin/products", "Admin Products"),
				}),
			),
		),
		g.Nav(
			g.Ul(
				cmp.If(!page.IsAuthenticated(), cmp.Group{
					navItem(page.Path, "/login", "Login"),
					navItem(page.Path, "/signup", "Signup"),
				}),
				cmp.If(page.IsAuthenticated(), g.Li(
					g.Form(
						g.Action("/logout"), g.Method("post"),
						components.CSRFField(page.CSRF),
						g.Button(g.Type("submit"), cmp.Text("Logout")),
					),
				)),
			),
		),
	)
}

func navItem(current, href, label string) cmp.Node {
	return g.Li(g.A(
		g.Href(href),
		cmp.If(current == href, g.Class("active")),
		cmp.Text(label),
	))
}
