package pages

import (
	"net/http"
	"strconv"

	"github.com/nfrund/storefront/internal/view"
	"github.com/nfrund/storefront/web/src/templates/layouts"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// Error renders the generic failure page. message must be safe for clients.
func Error(page view.Page, status int, message string) cmp.Node {
	return layouts.Base(page,
		g.Div(
			g.Class("centered"),
			g.H1(cmp.Text(strconv.Itoa(status)+" "+http.StatusText(status))),
			g.P(cmp.Text(message)),
			g.A(g.Class("btn"), g.Href("/"), cmp.Text("Back to the shop")),
		),
	)
}
