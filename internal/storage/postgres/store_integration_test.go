package postgres

import (
	"context"
	"testing"
	"time"
)

func TestStore_PostgresPingAndMigrationStatus(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	version, count, err := store.MigrationStatus(ctx)
	if err != nil {
		t.Fatalf("migration status: %v", err)
	}
	if version < 1 || count < 1 {
		t.Fatalf("expected applied migrations, got version=%d count=%d", version, count)
	}
}

func TestStore_PostgresNilSafety(t *testing.T) {
	t.Parallel()

	var store *Store
	if err := store.Ping(context.Background()); err == nil {
		t.Fatal("expected error for uninitialized store")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close on nil store: %v", err)
	}
}
