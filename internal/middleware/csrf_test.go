package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSRF(t *testing.T) {
	e := echo.New()
	e.Use(CSRF())
	e.GET("/form", func(c echo.Context) error { return c.String(http.StatusOK, CSRFToken(c)) })
	e.POST("/form", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	get := httptest.NewRecorder()
	e.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/form", nil))
	token := get.Body.String()
	require.NotEmpty(t, token)
	cookies := get.Result().Cookies()

	post := func(form url.Values) int {
		req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, post(url.Values{CSRFFormField: {token}}))
	assert.Equal(t, http.StatusBadRequest, post(url.Values{}))
	assert.Equal(t, http.StatusForbidden, post(url.Values{CSRFFormField: {"forged"}}))
}
