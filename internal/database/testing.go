package database

import (
	"context"
	"testing"
	"time"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/config"
)

// SetupTestDB creates a test database connection and ensures the schema
func SetupTestDB(t *testing.T) *DB {
	cfg, err := config.LoadWithDefaults("../../config/config.yaml")
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("failed to ensure test schema: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	db.Close()
}
