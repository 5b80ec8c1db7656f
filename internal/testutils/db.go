package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/nfrund/storefront/internal/database"
)

// SetupStores connects to the test database and returns the stores. The test
// is skipped if the database cannot be reached.
func SetupStores(t *testing.T) *database.Stores {
	t.Helper()

	cfg := ConfigForTests(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := database.NewConnection(cfg)
	if err := conn.Connect(ctx); err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close(context.Background()) })

	db, err := conn.DB()
	if err != nil {
		t.Fatalf("connection has no database: %v", err)
	}
	if err := database.EnsureSchema(ctx, db); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	stores, err := database.NewStores(db, cfg)
	if err != nil {
		t.Fatalf("failed to build stores: %v", err)
	}
	return stores
}
