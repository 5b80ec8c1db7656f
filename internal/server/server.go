package server

import (
	"path/filepath"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/storefront/internal/config"
	"github.com/nfrund/storefront/internal/handlers"
	"github.com/nfrund/storefront/internal/middleware"
	"github.com/nfrund/storefront/internal/rendering"
	"github.com/nfrund/storefront/internal/storage"
	"github.com/nfrund/storefront/web"
)

// authRateLimit is the per-IP budget for credential and reset submissions.
const authRateLimit = 20

// Handlers groups the HTTP handlers mounted by the server.
type Handlers struct {
	Auth   *handlers.AuthHandler
	Shop   *handlers.ShopHandler
	Admin  *handlers.AdminHandler
	Health *handlers.HealthHandler
}

// Options holds the dependencies for the HTTP server.
type Options struct {
	Config   config.Provider
	Sessions sessions.Store
	Users    middleware.UserFinder
	Renderer *rendering.NodeRenderer
	Handlers Handlers
}

// Server holds the echo instance and its configuration.
type Server struct {
	E   *echo.Echo
	cfg config.Provider
}

// New builds the echo instance with the full middleware stack and routes.
func New(opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.Renderer = opts.Renderer

	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)
	e.Use(echomw.Recover())
	e.Use(echomw.Secure())
	e.Use(echomw.Gzip())
	e.Use(echomw.BodyLimit(opts.Config.GetBodyLimit()))
	e.Use(session.Middleware(opts.Sessions))
	e.Use(middleware.Identity(opts.Users))
	e.Use(middleware.CSRF())

	e.StaticFS("/static", echo.MustSubFS(web.FS, "static"))
	e.Static("/"+storage.ImageDir, filepath.Join(opts.Config.GetStorageRoot(), storage.ImageDir))

	setupErrorHandling(e, opts.Renderer)

	s := &Server{E: e, cfg: opts.Config}
	s.registerRoutes(opts.Handlers)
	return s
}
