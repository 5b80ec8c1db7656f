package handlers_test

import (
	"net/http"
	"net/url"
	"regexp"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/storefront/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resetLinkPattern = regexp.MustCompile(`/reset/([0-9a-f]+)`)

func TestSignupPost(t *testing.T) {
	h := newHarness(t)
	b := h.browser()

	t.Run("sets success flash on successful signup", func(t *testing.T) {
		rec := b.postForm("/signup", url.Values{
			"email": {"new@example.com"}, "password": {"secret123"}, "confirmPassword": {"secret123"},
		})

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
		assertFlashMessage(t, rec, "success", handlers.MsgSignupSucceeded)
	})

	t.Run("re-renders the form on password mismatch", func(t *testing.T) {
		rec := b.postForm("/signup", url.Values{
			"email": {"other@example.com"}, "password": {"secret123"}, "confirmPassword": {"secret124"},
		})

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "Passwords have to match!")
		assert.Contains(t, rec.Body.String(), `value="other@example.com"`)
	})

	t.Run("rejects an email that is taken", func(t *testing.T) {
		rec := b.postForm("/signup", url.Values{
			"email": {"NEW@example.com"}, "password": {"secret123"}, "confirmPassword": {"secret123"},
		})

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "E-Mail exists already")
	})
}

func TestLoginPost(t *testing.T) {
	h := newHarness(t)
	h.createUser(t, "buyer@example.com")

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		wrongPassword := h.browser().postForm("/login", url.Values{"email": {"buyer@example.com"}, "password": {"wrong123"}})
		unknownEmail := h.browser().postForm("/login", url.Values{"email": {"nobody@example.com"}, "password": {"wrong123"}})

		assert.Equal(t, http.StatusUnprocessableEntity, wrongPassword.Code)
		assert.Equal(t, wrongPassword.Code, unknownEmail.Code)
		assert.Contains(t, wrongPassword.Body.String(), handlers.MsgInvalidLogin)
		assert.Contains(t, unknownEmail.Body.String(), handlers.MsgInvalidLogin)
	})

	t.Run("invalid input is reported inline", func(t *testing.T) {
		rec := h.browser().postForm("/login", url.Values{"email": {"not-an-email"}, "password": {"x"}})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "Please enter a valid email.")
	})

	t.Run("successful login opens protected pages", func(t *testing.T) {
		b := h.loggedIn(t, "Buyer@Example.com")
		rec := b.get("/cart")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("logout closes the session", func(t *testing.T) {
		b := h.loggedIn(t, "buyer@example.com")
		rec := b.postForm("/logout", nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)

		rec = b.get("/cart")
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	})
}

func TestPasswordResetFlow(t *testing.T) {
	h := newHarness(t)
	user := h.createUser(t, "forgetful@example.com")

	t.Run("unknown email gets the same answer and no mail", func(t *testing.T) {
		rec := h.browser().postForm("/reset", url.Values{"email": {"ghost@example.com"}})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assertFlashMessage(t, rec, "success", handlers.MsgResetRequested)
		assert.Empty(t, h.mailer.Sent())
	})

	t.Run("invalid link redirects to the request form", func(t *testing.T) {
		rec := h.browser().get("/reset/deadbeef")
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/reset", rec.Header().Get(echo.HeaderLocation))
		assertFlashMessage(t, rec, "error", handlers.MsgResetLinkInvalid)
	})

	t.Run("link from the mail sets a new password once", func(t *testing.T) {
		b := h.browser()
		rec := b.postForm("/reset", url.Values{"email": {"forgetful@example.com"}})
		assertFlashMessage(t, rec, "success", handlers.MsgResetRequested)

		sent := h.mailer.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "forgetful@example.com", sent[0].To)
		match := resetLinkPattern.FindStringSubmatch(sent[0].Body)
		require.Len(t, match, 2)
		token := match[1]
		assert.Contains(t, sent[0].Body, "http://shop.test/reset/"+token)

		rec = b.get("/reset/" + token)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `name="passwordToken" value="`+token+`"`)
		assert.Contains(t, rec.Body.String(), `name="userId" value="`+user.ID+`"`)

		form := url.Values{"userId": {user.ID}, "passwordToken": {token}, "password": {"fresh123"}}
		rec = b.postForm("/new-password", form)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assertFlashMessage(t, rec, "success", handlers.MsgPasswordUpdated)

		rec = h.browser().postForm("/login", url.Values{"email": {"forgetful@example.com"}, "password": {"fresh123"}})
		assert.Equal(t, http.StatusSeeOther, rec.Code)

		rec = b.postForm("/new-password", form)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assertFlashMessage(t, rec, "error", handlers.MsgResetLinkInvalid)
	})
}
