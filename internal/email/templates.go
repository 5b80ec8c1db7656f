package email

import (
	"bytes"

	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// Message is a rendered email.
type Message struct {
	Subject string
	HTML    string
}

func render(subject string, body ...cmp.Node) Message {
	var buf bytes.Buffer
	// Rendering static nodes into a buffer cannot fail.
	_ = g.Doctype(g.HTML(g.Body(body...))).Render(&buf)
	return Message{Subject: subject, HTML: buf.String()}
}

// SignupConfirmation is sent after an account is created.
func SignupConfirmation() Message {
	return render("Signup succeeded!",
		g.H1(cmp.Text("You successfully signed up!")),
	)
}

// PasswordReset carries the reset link. The link stays valid for one hour.
func PasswordReset(link string) Message {
	return render("Password reset",
		g.P(cmp.Text("You requested a password reset.")),
		g.P(
			cmp.Text("Click this "),
			g.A(g.Href(link), cmp.Text("link")),
			cmp.Text(" to set a new password. It expires in one hour."),
		),
	)
}

// OrderConfirmation summarises a placed order.
func OrderConfirmation(orderID, total string, items int) Message {
	return render("Your order "+orderID,
		g.H1(cmp.Text("Thank you for your order!")),
		g.P(cmp.Textf("Order %s with %d item(s), total %s.", orderID, items, total)),
	)
}
