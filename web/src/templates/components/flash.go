package components

import (
	"github.com/nfrund/storefront/internal/view"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// Flashes renders one-time messages left by the previous request.
func Flashes(data view.FlashData) cmp.Node {
	return cmp.Group{
		cmp.Map(data.Success, func(msg string) cmp.Node {
			return g.Div(g.Class("flash flash--success"), g.Role("status"), cmp.Text(msg))
		}),
		cmp.Map(data.Error, func(msg string) cmp.Node {
			return g.Div(g.Class("flash flash--error"), g.Role("alert"), cmp.Text(msg))
		}),
	}
}
