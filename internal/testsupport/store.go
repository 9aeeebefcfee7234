package testsupport

import (
	"context"
	"testing"

	"ttv/internal/config"
	"ttv/internal/follows"
)

// MustOpenStore opens a follows.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *follows.Store {
	t.Helper()

	path, err := cfg.DatabasePath()
	if err != nil {
		t.Fatalf("database path: %v", err)
	}
	store, err := follows.Open(path)
	if err != nil {
		t.Fatalf("follows.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// Follow seeds a followed channel for tests using the provided store.
func Follow(t testing.TB, store *follows.Store, id, login, displayName string) {
	t.Helper()

	err := store.Upsert(context.Background(), follows.Channel{
		ID:          id,
		Login:       login,
		DisplayName: displayName,
	})
	if err != nil {
		t.Fatalf("store.Upsert: %v", err)
	}
}
