package pages

import (
	"github.com/nfrund/storefront/internal/view"
	"github.com/nfrund/storefront/web/src/templates/components"
	"github.com/nfrund/storefront/web/src/templates/layouts"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// Login renders the login form.
func Login(page view.Page, form view.AuthForm) cmp.Node {
	return layouts.Base(page,
		authForm("/login", page.CSRF,
			components.Field("E-Mail", "email", "email", form.Email, form.Errors["email"], g.AutoComplete("email")),
			components.Field("Password", "password", "password", "", form.Errors["password"]),
			components.SubmitButton("Login"),
		),
		g.Div(g.Class("centered"), g.A(g.Href("/reset"), cmp.Text("Reset Password"))),
	)
}

// Signup renders the signup form.
func Signup(page view.Page, form view.AuthForm) cmp.Node {
	return layouts.Base(page,
		authForm("/signup", page.CSRF,
			components.Field("E-Mail", "email", "email", form.Email, form.Errors["email"], g.AutoComplete("email")),
			components.Field("Password", "password", "password", "", form.Errors["password"]),
			components.Field("Confirm Password", "confirmPassword", "password", "", form.Errors["confirmPassword"]),
			components.SubmitButton("Signup"),
		),
	)
}

// Reset renders the form requesting a password reset link.
func Reset(page view.Page, form view.AuthForm) cmp.Node {
	return layouts.Base(page,
		authForm("/reset", page.CSRF,
			components.Field("E-Mail", "email", "email", form.Email, form.Errors["email"]),
			components.SubmitButton("Reset Password"),
		),
	)
}

// NewPassword renders the form reached from a valid reset link.
func NewPassword(page view.Page, form view.NewPasswordForm) cmp.Node {
	return layouts.Base(page,
		authForm("/new-password", page.CSRF,
			components.Field("Password", "password", "password", "", form.Errors["password"]),
			components.HiddenField("userId", form.UserID),
			components.HiddenField("passwordToken", form.Token),
			components.SubmitButton("Update Password"),
		),
	)
}

func authForm(action, csrf string, fields ...cmp.Node) cmp.Node {
	return g.Form(
		g.Class("login-form"),
		g.Action(action), g.Method("post"), cmp.Attr("novalidate"),
		components.CSRFField(csrf),
		cmp.Group(fields),
	)
}
