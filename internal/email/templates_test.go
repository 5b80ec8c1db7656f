package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordReset_EscapesAndLinks(t *testing.T) {
	msg := PasswordReset("http://localhost:3000/reset/abc123")
	assert.Equal(t, "Password reset", msg.Subject)
	assert.Contains(t, msg.HTML, `<a href="http://localhost:3000/reset/abc123">link</a>`)
	assert.Contains(t, msg.HTML, "<!doctype html>")
}

func TestOrderConfirmation(t *testing.T) {
	msg := OrderConfirmation("o1", "$19.98", 2)
	assert.Equal(t, "Your order o1", msg.Subject)
	assert.Contains(t, msg.HTML, "Order o1 with 2 item(s), total $19.98.")
}
