package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
)

// SetupTestDB creates a connection to the test database. The DSN can be
// overridden with TEST_DATABASE_URL for CI environments.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		connStr = "host=localhost port=5432 user=postgres password=postgres dbname=elis_sync_test sslmode=disable"
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	return db
}

// SetupTestTransaction creates a test database connection and begins a
// transaction that is rolled back when the test ends, for isolation without
// cleanup.
func SetupTestTransaction(t *testing.T) (*sql.DB, *sql.Tx) {
	t.Helper()

	db := SetupTestDB(t)

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		db.Close()
		t.Fatalf("Failed to begin transaction: %v", err)
	}

	t.Cleanup(func() {
		tx.Rollback()
		db.Close()
	})

	return db, tx
}

// CleanupTestDB truncates the service tables between tests.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	t.Helper()

	tables := []string{
		"elis_failed_events",
		"order_lines",
		"orders",
		"products",
		"patients",
		"settings",
		"sequences",
	}
	for _, table := range tables {
		if _, err := db.Exec("TRUNCATE TABLE " + table + " RESTART IDENTITY CASCADE"); err != nil {
			t.Logf("Warning: Failed to clean up %s: %v", table, err)
		}
	}
}

// SeedSequence inserts a named sequence for tests.
func SeedSequence(t *testing.T, db *sql.DB, name, prefix string, padding int, start int64) {
	t.Helper()

	query := `
		INSERT INTO sequences (name, prefix, padding, next_value)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET prefix = $2, padding = $3, next_value = $4
	`
	if _, err := db.Exec(query, name, prefix, padding, start); err != nil {
		t.Fatalf("Failed to seed sequence %s: %v", name, err)
	}
}

// SeedSyncConfig writes the OpenELIS sync settings for tests.
func SeedSyncConfig(t *testing.T, db *sql.DB, values map[string]string) {
	t.Helper()

	query := `
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = $2
	`
	for key, value := range values {
		if _, err := db.Exec(query, key, value); err != nil {
			t.Fatalf("Failed to seed setting %s: %v", key, err)
		}
	}
}
