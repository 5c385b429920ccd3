package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/julianstephens/daypoints/internal/storage/storagetest"
)

// TestStore_Integration runs the shared contract against a real database.
// Set POSTGRES_TEST_URL to run it, e.g.
// POSTGRES_TEST_URL="postgres://daypoints_user@localhost:5432/daypoints_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}
	ctx := context.Background()

	store := New(connStr)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer func() {
		for _, table := range []string{"habit_tracking", "habits", "daily_score", "conversations", "settings", "schema_version"} {
			store.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		}
		store.Close()
	}()

	storagetest.Run(t, store)
}
