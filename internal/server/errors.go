package server

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/storefront/internal/domain"
	"github.com/nfrund/storefront/internal/handlers"
	"github.com/nfrund/storefront/internal/rendering"
	"github.com/nfrund/storefront/internal/view"
	"github.com/nfrund/storefront/web/src/templates/pages"
)

// setupErrorHandling installs the terminal error handler. Unexpected errors
// are logged with a stack trace; clients only ever see a generic message.
func setupErrorHandling(e *echo.Echo, renderer rendering.Renderer) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		ctx := c.Request().Context()
		if c.Response().Committed {
			slog.ErrorContext(ctx, "Error after response was committed", "error", err, "path", c.Request().URL.Path)
			return
		}

		status, message := classify(err)
		if status >= http.StatusInternalServerError {
			slog.ErrorContext(ctx, "Internal Server Error (Unhandled)",
				"error", err,
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"stack_trace", string(debug.Stack()),
			)
		}

		var respErr error
		switch {
		case c.Request().Method == http.MethodHead:
			respErr = c.NoContent(status)
		case wantsJSON(c):
			respErr = c.JSON(status, handlers.MessageResponse{Message: message})
		default:
			title := http.StatusText(status)
			respErr = renderer.RenderPage(c, status, pages.Error(view.NewPage(c, title), status, message))
		}
		if respErr != nil {
			slog.ErrorContext(ctx, "Failed to write error response", "error", respErr)
		}
	}
}

// classify maps err to a status and a client-safe message.
func classify(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			return http.StatusNotFound, domain.KindNotFound.PublicMessage()
		case http.StatusForbidden:
			return he.Code, domain.KindForbidden.PublicMessage()
		}
		if he.Code >= http.StatusInternalServerError {
			return he.Code, domain.KindUnexpected.PublicMessage()
		}
		return he.Code, http.StatusText(he.Code)
	}

	kind := domain.KindOf(err)
	return kind.HTTPStatus(), kind.PublicMessage()
}

func wantsJSON(c echo.Context) bool {
	if c.Request().Header.Get("HX-Request") != "" {
		return true
	}
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}
