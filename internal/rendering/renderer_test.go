package rendering

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

func TestRenderPage(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	err := NewNodeRenderer().RenderPage(c, http.StatusUnprocessableEntity, g.P(cmp.Text("hello")))
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
	assert.Equal(t, "<p>hello</p>", rec.Body.String())
}

func TestRenderComponent(t *testing.T) {
	out, err := NewNodeRenderer().RenderComponent(g.Span(g.Class("x"), cmp.Text("a & b")))
	require.NoError(t, err)
	assert.Equal(t, `<span class="x">a &amp; b</span>`, string(out))
}

func TestRenderRejectsNonNodes(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	err := NewNodeRenderer().Render(rec, "page", "not a node", c)
	assert.Error(t, err)
}
