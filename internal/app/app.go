// Package app wires the storefront together with a samber/do injector.
package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/sessions"
	"github.com/nfrund/storefront/internal/config"
	"github.com/nfrund/storefront/internal/database"
	"github.com/nfrund/storefront/internal/invoice"
	"github.com/nfrund/storefront/internal/notify"
	"github.com/nfrund/storefront/internal/pubsub"
	"github.com/nfrund/storefront/internal/server"
	"github.com/nfrund/storefront/internal/sessionstore"
	"github.com/samber/do/v2"
	"golang.org/x/sync/errgroup"
)

const (
	connectTimeout       = 10 * time.Second
	healthCheckInterval  = 30 * time.Second
	sessionPurgeInterval = time.Hour
)

// App owns the injector and the resources its providers opened.
type App struct {
	cfg      config.Provider
	injector *do.RootScope

	mu      sync.Mutex
	closers []func(context.Context) error
}

// New registers every provider. Nothing is built until first use.
func New(cfg config.Provider) *App {
	a := &App{cfg: cfg, injector: do.New()}
	a.register()
	return a
}

// onClose registers fn to run, in reverse order, on Close.
func (a *App) onClose(fn func(context.Context) error) {
	a.mu.Lock()
	a.closers = append(a.closers, fn)
	a.mu.Unlock()
}

// Server builds the HTTP server and everything behind it.
func (a *App) Server() (*server.Server, error) {
	return do.Invoke[*server.Server](a.injector)
}

// Invoices builds the invoice service.
func (a *App) Invoices() (*invoice.Service, error) {
	return do.Invoke[*invoice.Service](a.injector)
}

// Sessions builds the server-side session repository.
func (a *App) Sessions() (*database.SessionStore, error) {
	stores, err := do.Invoke[*database.Stores](a.injector)
	if err != nil {
		return nil, err
	}
	return stores.Sessions, nil
}

// Run serves HTTP and runs the background workers until ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	srv, err := a.Server()
	if err != nil {
		return err
	}
	bus, err := do.Invoke[*pubsub.WatermillBridge](a.injector)
	if err != nil {
		return err
	}
	notifier, err := do.Invoke[*notify.Notifier](a.injector)
	if err != nil {
		return err
	}
	store, err := do.Invoke[sessions.Store](a.injector)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	if err := notifier.Start(ctx, bus); err != nil {
		return err
	}
	if dbStore, ok := store.(*sessionstore.Store); ok {
		g.Go(func() error {
			purgeSessions(ctx, dbStore, sessionPurgeInterval)
			return nil
		})
	}
	g.Go(func() error {
		return srv.Start(ctx)
	})
	return g.Wait()
}

// Close releases everything the providers opened, newest first.
func (a *App) Close(ctx context.Context) error {
	a.mu.Lock()
	closers := a.closers
	a.closers = nil
	a.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// purgeSessions deletes expired session rows every interval until ctx ends.
func purgeSessions(ctx context.Context, store *sessionstore.Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := store.Purge(ctx, now)
			if err != nil {
				slog.WarnContext(ctx, "Session purge failed", "event", "session_purge_failure", "error", err)
				continue
			}
			slog.DebugContext(ctx, "Expired sessions purged", "event", "session_purge", "count", n)
		}
	}
}
