package database

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/nfrund/storefront/internal/config"
	"github.com/surrealdb/surrealdb.go"
)

// Connection owns the SurrealDB session used by every store.
type Connection struct {
	cfg     config.Provider
	conn    *surrealdb.DB
	mu      sync.RWMutex
	healthy bool
	done    chan struct{}
}

// NewConnection creates a new managed database connection. Call Connect before use.
func NewConnection(cfg config.Provider) *Connection {
	return &Connection{
		cfg:  cfg,
		done: make(chan struct{}),
	}
}

// Connect dials the endpoint, signs in and selects the namespace and database.
func (c *Connection) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	dbURL := c.cfg.GetDBURL()
	slog.DebugContext(ctx, "Attempting to connect to database", "event", "db_connect_attempt", "db_url", redactDBURL(dbURL))

	conn, err := surrealdb.FromEndpointURLString(ctx, dbURL)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create database connection", "event", "db_connect_failure",
			"db_url", redactDBURL(dbURL),
			"error", err,
		)
		return fmt.Errorf("failed to connect to database at %s: %w", redactDBURL(dbURL), err)
	}

	if c.cfg.GetDBUser() != "" {
		authData := &surrealdb.Auth{
			Username: c.cfg.GetDBUser(),
			Password: c.cfg.GetDBPass(),
		}
		if _, err = conn.SignIn(ctx, authData); err != nil {
			_ = conn.Close(ctx)
			slog.ErrorContext(ctx, "Failed to sign in to database", "event", "db_auth_failure",
				"db_url", redactDBURL(dbURL),
				"user", c.cfg.GetDBUser(),
				"error", err,
			)
			return fmt.Errorf("failed to sign in: %w", err)
		}
	}

	if err = conn.Use(ctx, c.cfg.GetDBNs(), c.cfg.GetDBDb()); err != nil {
		_ = conn.Close(ctx)
		slog.ErrorContext(ctx, "Failed to use namespace/database", "event", "db_namespace_failure",
			"namespace", c.cfg.GetDBNs(),
			"database", c.cfg.GetDBDb(),
			"error", err,
		)
		return fmt.Errorf("failed to use namespace/db: %w", err)
	}

	c.conn = conn
	c.healthy = true
	slog.InfoContext(ctx, "Database connection established", "event", "db_connect_success",
		"db_url", redactDBURL(dbURL),
		"namespace", c.cfg.GetDBNs(),
		"database", c.cfg.GetDBDb(),
	)
	return nil
}

// DB returns the underlying connection or ErrNotConnected.
func (c *Connection) DB() (*surrealdb.DB, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.conn == nil {
		return nil, NewDBError(ErrNotConnected, "database not connected")
	}
	return c.conn, nil
}

// Ping asks the server for its version and records the outcome.
func (c *Connection) Ping(ctx context.Context) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		c.setHealthy(false)
		return NewDBError(ErrNotConnected, "no active database connection")
	}
	if _, err := conn.Version(ctx); err != nil {
		c.setHealthy(false)
		return fmt.Errorf("database health check failed for %s: %w", redactDBURL(c.cfg.GetDBURL()), err)
	}
	c.setHealthy(true)
	return nil
}

// IsHealthy returns the outcome of the latest connect or ping.
func (c *Connection) IsHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.healthy
}

// StartMonitoring pings the server every interval until Close. Failures are
// logged; there is no reconnection.
func (c *Connection) StartMonitoring(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				if err := c.Ping(ctx); err != nil {
					slog.WarnContext(ctx, "Database health check failed", "event", "db_health_check_failure", "error", err)
				}
				cancel()
			case <-c.done:
				return
			}
		}
	}()
}

// Close shuts down the connection and monitoring.
func (c *Connection) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
	default:
		close(c.done)
	}
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close(ctx)
	c.conn = nil
	c.healthy = false
	return err
}

func (c *Connection) setHealthy(v bool) {
	c.mu.Lock()
	c.healthy = v
	c.mu.Unlock()
}

// redactDBURL returns dbURL with any password replaced by "xxxxx".
func redactDBURL(dbURL string) string {
	parsedURL, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}
	return parsedURL.Redacted()
}
