package components

import (
	"strconv"

	"github.com/nfrund/storefront/internal/middleware"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// CSRFField is the hidden token every state-changing form must carry.
func CSRFField(token string) cmp.Node {
	return g.Input(g.Type("hidden"), g.Name(middleware.CSRFFormField), g.Value(token))
}

// HiddenField renders a hidden input.
func HiddenField(name, value string) cmp.Node {
	return g.Input(g.Type("hidden"), g.Name(name), g.Value(value))
}

// Field renders a labelled input with its validation message, if any.
func Field(label, name, inputType, value, errMsg string, attrs ...cmp.Node) cmp.Node {
	return fieldWrapper(label, name, errMsg,
		g.Input(
			g.Type(inputType), g.Name(name), g.ID(name),
			cmp.If(inputType != "password" && inputType != "file", g.Value(value)),
			cmp.Group(attrs),
		),
	)
}

// TextArea renders a labelled textarea with its validation message, if any.
func TextArea(label, name, value, errMsg string, rows int) cmp.Node {
	return fieldWrapper(label, name, errMsg,
		g.Textarea(g.Name(name), g.ID(name), g.Rows(strconv.Itoa(rows)), cmp.Text(value)),
	)
}

func fieldWrapper(label, name, errMsg string, control cmp.Node) cmp.Node {
	class := "form-control"
	if errMsg != "" {
		class += " form-control--invalid"
	}
	return g.Div(
		g.Class(class),
		g.Label(g.For(name), cmp.Text(label)),
		control,
		cmp.If(errMsg != "", g.P(g.Class("form-control__error"), cmp.Text(errMsg))),
	)
}

// SubmitButton renders the primary form button.
func SubmitButton(label string) cmp.Node {
	return g.Button(g.Class("btn"), g.Type("submit"), cmp.Text(label))
}
