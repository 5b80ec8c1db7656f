package database

import (
	"context"
	"log/slog"

	"github.com/surrealdb/surrealdb.go"
)

// Table names.
const (
	userTable    = "user"
	productTable = "product"
	orderTable   = "orders"
	sessionTable = "session"
)

// schema is applied at startup. Every statement is idempotent.
const schema = `
DEFINE TABLE IF NOT EXISTS user SCHEMALESS;
DEFINE INDEX IF NOT EXISTS user_email ON TABLE user FIELDS email UNIQUE;
DEFINE INDEX IF NOT EXISTS user_reset_token ON TABLE user FIELDS reset_token;
DEFINE TABLE IF NOT EXISTS product SCHEMALESS;
DEFINE INDEX IF NOT EXISTS product_owner ON TABLE product FIELDS owner;
DEFINE TABLE IF NOT EXISTS orders SCHEMALESS;
DEFINE INDEX IF NOT EXISTS orders_buyer ON TABLE orders FIELDS buyer.user;
DEFINE TABLE IF NOT EXISTS session SCHEMALESS;
DEFINE INDEX IF NOT EXISTS session_expires ON TABLE session FIELDS expires_at;
`

// EnsureSchema defines the tables and indexes the stores rely on.
func EnsureSchema(ctx context.Context, db *surrealdb.DB) error {
	if err := Execute(ctx, db, schema, nil); err != nil {
		return NewDBError(err, "apply schema")
	}
	slog.InfoContext(ctx, "Database schema ensured", "event", "db_schema_ready")
	return nil
}
