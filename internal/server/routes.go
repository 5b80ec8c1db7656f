package server

import (
	"github.com/nfrund/storefront/internal/middleware"
)

// registerRoutes sets up all the application routes.
func (s *Server) registerRoutes(h Handlers) {
	rateLimiter := middleware.RateLimiter(authRateLimit)

	s.E.GET("/health", h.Health.Health)

	// Public catalog.
	s.E.GET("/", h.Shop.Index)
	s.E.GET("/products", h.Shop.Products)
	s.E.GET("/products/:productId", h.Shop.Product)

	// Authentication and recovery.
	s.E.GET("/login", h.Auth.LoginGet)
	s.E.POST("/login", h.Auth.LoginPost, rateLimiter)
	s.E.GET("/signup", h.Auth.SignupGet)
	s.E.POST("/signup", h.Auth.SignupPost, rateLimiter)
	s.E.POST("/logout", h.Auth.Logout)
	s.E.GET("/reset", h.Auth.ResetGet)
	s.E.POST("/reset", h.Auth.ResetPost, rateLimiter)
	s.E.GET("/reset/:token", h.Auth.NewPasswordGet)
	s.E.POST("/new-password", h.Auth.NewPasswordPost, rateLimiter)

	// Everything below requires a logged-in user.
	shop := s.E.Group("", middleware.RequireAuth)
	shop.GET("/cart", h.Shop.Cart)
	shop.POST("/cart", h.Shop.AddToCart)
	shop.POST("/cart-delete-item", h.Shop.RemoveFromCart)
	shop.GET("/checkout", h.Shop.Checkout)
	shop.GET("/checkout/success", h.Shop.CheckoutSuccess)
	shop.GET("/checkout/cancel", h.Shop.CheckoutCancel)
	shop.GET("/orders", h.Shop.Orders)
	shop.GET("/orders/:orderId", h.Shop.Invoice)

	admin := s.E.Group("/admin", middleware.RequireAuth)
	admin.GET("/products", h.Admin.Products)
	admin.GET("/add-product", h.Admin.AddProductGet)
	admin.POST("/add-product", h.Admin.AddProductPost)
	admin.GET("/edit-product/:productId", h.Admin.EditProductGet)
	admin.POST("/edit-product", h.Admin.EditProductPost)
	admin.DELETE("/product/:productId", h.Admin.DeleteProduct)
}
