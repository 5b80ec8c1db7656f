package database

import (
	"context"
	"time"

	"github.com/nfrund/storefront/internal/config"
	"github.com/surrealdb/surrealdb.go"
)

// Client is a type-safe query surface over one SurrealDB connection with the
// configured read and write timeouts applied to every call.
type Client[T any] struct {
	db             *surrealdb.DB
	queryTimeout   time.Duration
	executeTimeout time.Duration
}

// NewClient creates a new type-safe database client.
func NewClient[T any](db *surrealdb.DB, cfg config.Provider) (*Client[T], error) {
	if db == nil {
		return nil, NewDBError(ErrInvalidInput, "db cannot be nil")
	}
	if cfg.GetDBQueryTimeout() <= 0 || cfg.GetDBExecuteTimeout() <= 0 {
		return nil, NewDBError(ErrInvalidInput, "db timeouts must be positive durations")
	}
	return &Client[T]{
		db:             db,
		queryTimeout:   cfg.GetDBQueryTimeout(),
		executeTimeout: cfg.GetDBExecuteTimeout(),
	}, nil
}

// Query runs a read with the query timeout.
func (c *Client[T]) Query(ctx context.Context, query string, params map[string]any) ([]T, error) {
	ctx, cancel := getTimeoutFromContext(ctx, c.queryTimeout, ContextKeyQueryTimeout)
	defer cancel()
	return Query[T](ctx, c.db, query, params)
}

// QueryOne runs a single-row read with the query timeout.
func (c *Client[T]) QueryOne(ctx context.Context, query string, params map[string]any) (*T, error) {
	ctx, cancel := getTimeoutFromContext(ctx, c.queryTimeout, ContextKeyQueryTimeout)
	defer cancel()
	return QueryOne[T](ctx, c.db, query, params)
}

// Mutate runs a write that returns rows (CREATE, UPDATE ... RETURN AFTER) with the execute timeout.
func (c *Client[T]) Mutate(ctx context.Context, query string, params map[string]any) ([]T, error) {
	ctx, cancel := getTimeoutFromContext(ctx, c.executeTimeout, ContextKeyExecuteTimeout)
	defer cancel()
	return Query[T](ctx, c.db, query, params)
}

// Execute runs a write whose rows are discarded.
func (c *Client[T]) Execute(ctx context.Context, query string, params map[string]any) error {
	ctx, cancel := getTimeoutFromContext(ctx, c.executeTimeout, ContextKeyExecuteTimeout)
	defer cancel()
	return Execute(ctx, c.db, query, params)
}

// Count runs a "SELECT count() ... GROUP ALL" query.
func (c *Client[T]) Count(ctx context.Context, query string, params map[string]any) (int64, error) {
	type countRow struct {
		Count int64 `json:"count"`
	}
	ctx, cancel := getTimeoutFromContext(ctx, c.queryTimeout, ContextKeyQueryTimeout)
	defer cancel()
	rows, err := Query[countRow](ctx, c.db, query, params)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Count, nil
}
