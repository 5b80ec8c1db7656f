package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/nfrund/storefront/internal/auth"
	"github.com/nfrund/storefront/internal/cache"
	"github.com/nfrund/storefront/internal/cart"
	"github.com/nfrund/storefront/internal/catalog"
	"github.com/nfrund/storefront/internal/checkout"
	"github.com/nfrund/storefront/internal/config"
	"github.com/nfrund/storefront/internal/database"
	"github.com/nfrund/storefront/internal/domain"
	"github.com/nfrund/storefront/internal/email"
	"github.com/nfrund/storefront/internal/handlers"
	"github.com/nfrund/storefront/internal/invoice"
	"github.com/nfrund/storefront/internal/notify"
	"github.com/nfrund/storefront/internal/payment"
	"github.com/nfrund/storefront/internal/pubsub"
	"github.com/nfrund/storefront/internal/rendering"
	"github.com/nfrund/storefront/internal/server"
	"github.com/nfrund/storefront/internal/sessionstore"
	"github.com/nfrund/storefront/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do/v2"
)

func (a *App) register() {
	i := a.injector

	do.ProvideValue(i, a.cfg)
	do.Provide(i, a.provideConnection)
	do.Provide(i, provideStores)
	do.Provide(i, a.provideRedis)
	do.Provide(i, provideProducts)
	do.Provide(i, provideFileStore)
	do.Provide(i, provideMailer)
	do.Provide(i, provideGateway)
	do.Provide(i, a.provideBus)
	do.Provide(i, provideSessions)

	do.Provide(i, provideAuth)
	do.Provide(i, provideCatalog)
	do.Provide(i, provideCarts)
	do.Provide(i, provideCheckout)
	do.Provide(i, provideInvoices)
	do.Provide(i, provideNotifier)

	do.Provide(i, provideRenderer)
	do.Provide(i, provideHandlers)
	do.Provide(i, provideServer)
}

func (a *App) provideConnection(i do.Injector) (*database.Connection, error) {
	cfg := do.MustInvoke[config.Provider](i)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	conn := database.NewConnection(cfg)
	if err := conn.Connect(ctx); err != nil {
		return nil, err
	}
	a.onClose(conn.Close)

	db, err := conn.DB()
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	conn.StartMonitoring(healthCheckInterval)
	return conn, nil
}

func provideStores(i do.Injector) (*database.Stores, error) {
	conn, err := do.Invoke[*database.Connection](i)
	if err != nil {
		return nil, err
	}
	db, err := conn.DB()
	if err != nil {
		return nil, err
	}
	return database.NewStores(db, do.MustInvoke[config.Provider](i))
}

// provideRedis returns a nil client when no cache is configured.
func (a *App) provideRedis(i do.Injector) (*redis.Client, error) {
	cfg := do.MustInvoke[config.Provider](i)
	if cfg.GetRedisURL() == "" {
		return nil, nil
	}
	client, err := cache.NewRedisClient(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}
	a.onClose(func(context.Context) error { return client.Close() })
	return client, nil
}

func provideProducts(i do.Injector) (domain.ProductRepository, error) {
	stores, err := do.Invoke[*database.Stores](i)
	if err != nil {
		return nil, err
	}
	client, err := do.Invoke[*redis.Client](i)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return stores.Products, nil
	}
	cfg := do.MustInvoke[config.Provider](i)
	slog.Info("Product cache enabled", "event", "cache_enabled", "ttl", cfg.GetCacheTTL())
	return cache.NewCachedProducts(stores.Products, cache.NewRedisCache(client, cfg.GetCacheTTL())), nil
}

func provideFileStore(i do.Injector) (storage.Store, error) {
	return storage.NewDiskStore(do.MustInvoke[config.Provider](i).GetStorageRoot())
}

func provideMailer(i do.Injector) (domain.EmailSender, error) {
	return email.NewEmailService(do.MustInvoke[config.Provider](i))
}

func provideGateway(i do.Injector) (domain.PaymentGateway, error) {
	return payment.NewGateway(do.MustInvoke[config.Provider](i))
}

// provideBus builds the event bus, tracing it when tracing.enabled is set.
func (a *App) provideBus(i do.Injector) (*pubsub.WatermillBridge, error) {
	cfg := do.MustInvoke[config.Provider](i)
	tracer, shutdown, err := pubsub.SetupTracing(pubsub.TracingConfig{
		Enabled:     cfg.GetTracingEnabled(),
		ServiceName: cfg.GetTracingServiceName(),
		ZipkinURL:   cfg.GetTracingZipkinURL(),
	})
	if err != nil {
		return nil, err
	}
	a.onClose(shutdown)
	if cfg.GetTracingEnabled() {
		slog.Info("Event bus tracing enabled", "event", "tracing_enabled", "zipkin_url", cfg.GetTracingZipkinURL())
	}

	bus := pubsub.NewWatermillBridge(pubsub.WithTracer(tracer))
	a.onClose(func(context.Context) error { return bus.Close() })
	return bus, nil
}

// provideSessions selects the cookie-only store or the database-backed one.
func provideSessions(i do.Injector) (sessions.Store, error) {
	cfg := do.MustInvoke[config.Provider](i)
	secret := []byte(cfg.GetSessionSecret())

	if cfg.GetSessionStore() == "cookie" {
		store := sessions.NewCookieStore(secret)
		store.Options = &sessions.Options{
			Path:     "/",
			MaxAge:   int(cfg.GetSessionMaxAge().Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		}
		return store, nil
	}

	stores, err := do.Invoke[*database.Stores](i)
	if err != nil {
		return nil, err
	}
	return sessionstore.New(stores.Sessions, cfg.GetSessionMaxAge(), secret), nil
}

func provideAuth(i do.Injector) (*auth.Service, error) {
	stores, err := do.Invoke[*database.Stores](i)
	if err != nil {
		return nil, err
	}
	mailer, err := do.Invoke[domain.EmailSender](i)
	if err != nil {
		return nil, err
	}
	bus, err := do.Invoke[*pubsub.WatermillBridge](i)
	if err != nil {
		return nil, err
	}
	return auth.NewService(stores.Users, mailer, bus), nil
}

func provideCatalog(i do.Injector) (*catalog.Service, error) {
	products, err := do.Invoke[domain.ProductRepository](i)
	if err != nil {
		return nil, err
	}
	files, err := do.Invoke[storage.Store](i)
	if err != nil {
		return nil, err
	}
	return catalog.NewService(products, files, do.MustInvoke[config.Provider](i).GetCatalogPageSize()), nil
}

func provideCarts(i do.Injector) (*cart.Service, error) {
	stores, err := do.Invoke[*database.Stores](i)
	if err != nil {
		return nil, err
	}
	products, err := do.Invoke[domain.ProductRepository](i)
	if err != nil {
		return nil, err
	}
	return cart.NewService(stores.Users, products), nil
}

func provideCheckout(i do.Injector) (*checkout.Service, error) {
	stores, err := do.Invoke[*database.Stores](i)
	if err != nil {
		return nil, err
	}
	products, err := do.Invoke[domain.ProductRepository](i)
	if err != nil {
		return nil, err
	}
	gateway, err := do.Invoke[domain.PaymentGateway](i)
	if err != nil {
		return nil, err
	}
	bus, err := do.Invoke[*pubsub.WatermillBridge](i)
	if err != nil {
		return nil, err
	}
	currency := do.MustInvoke[config.Provider](i).GetPaymentCurrency()
	return checkout.NewService(stores.Users, products, stores.Orders, gateway, bus, currency), nil
}

func provideInvoices(i do.Injector) (*invoice.Service, error) {
	stores, err := do.Invoke[*database.Stores](i)
	if err != nil {
		return nil, err
	}
	files, err := do.Invoke[storage.Store](i)
	if err != nil {
		return nil, err
	}
	return invoice.NewService(stores.Orders, files), nil
}

func provideNotifier(i do.Injector) (*notify.Notifier, error) {
	mailer, err := do.Invoke[domain.EmailSender](i)
	if err != nil {
		return nil, err
	}
	return notify.New(mailer), nil
}

func provideRenderer(do.Injector) (*rendering.NodeRenderer, error) {
	return rendering.NewNodeRenderer(), nil
}

func provideHandlers(i do.Injector) (server.Handlers, error) {
	cfg := do.MustInvoke[config.Provider](i)
	renderer := do.MustInvoke[*rendering.NodeRenderer](i)

	authSvc, err := do.Invoke[*auth.Service](i)
	if err != nil {
		return server.Handlers{}, err
	}
	catalogSvc, err := do.Invoke[*catalog.Service](i)
	if err != nil {
		return server.Handlers{}, err
	}
	carts, err := do.Invoke[*cart.Service](i)
	if err != nil {
		return server.Handlers{}, err
	}
	checkoutSvc, err := do.Invoke[*checkout.Service](i)
	if err != nil {
		return server.Handlers{}, err
	}
	invoices, err := do.Invoke[*invoice.Service](i)
	if err != nil {
		return server.Handlers{}, err
	}
	conn, err := do.Invoke[*database.Connection](i)
	if err != nil {
		return server.Handlers{}, err
	}

	baseURL := cfg.GetAppBaseURL()
	return server.Handlers{
		Auth:   handlers.NewAuthHandler(authSvc, renderer, baseURL),
		Shop:   handlers.NewShopHandler(catalogSvc, carts, checkoutSvc, invoices, renderer, baseURL),
		Admin:  handlers.NewAdminHandler(catalogSvc, renderer, cfg.GetMaxUploadSize()),
		Health: handlers.NewHealthHandler(conn),
	}, nil
}

func provideServer(i do.Injector) (*server.Server, error) {
	hs, err := do.Invoke[server.Handlers](i)
	if err != nil {
		return nil, err
	}
	store, err := do.Invoke[sessions.Store](i)
	if err != nil {
		return nil, err
	}
	stores, err := do.Invoke[*database.Stores](i)
	if err != nil {
		return nil, err
	}
	return server.New(server.Options{
		Config:   do.MustInvoke[config.Provider](i),
		Sessions: store,
		Users:    stores.Users,
		Renderer: do.MustInvoke[*rendering.NodeRenderer](i),
		Handlers: hs,
	}), nil
}
