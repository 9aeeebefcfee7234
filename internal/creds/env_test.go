package creds

import (
	"path/filepath"
	"testing"
)

func TestEnvStoreOverlay(t *testing.T) {
	t.Setenv(EnvClientID, "env-id")
	t.Setenv(EnvClientSecret, "env-secret")

	inner := NewFileStore(filepath.Join(t.TempDir(), "config.json"))
	if err := inner.Save(Record{ClientID: "stored-id", ClientSecret: "stored-secret"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	store := NewEnvStore(inner)
	rec, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec.ClientID != "env-id" || rec.ClientSecret != "env-secret" {
		t.Fatalf("overlay not applied: %#v", rec)
	}

	rec.AccessToken = "tok"
	if err := store.Save(rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	persisted, err := inner.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if persisted.ClientID != "stored-id" || persisted.ClientSecret != "stored-secret" {
		t.Fatalf("environment values written back: %#v", persisted)
	}
	if persisted.AccessToken != "tok" {
		t.Fatalf("token update lost: %#v", persisted)
	}
}

func TestEnvStoreWithoutEnvIsTransparent(t *testing.T) {
	t.Setenv(EnvClientID, "")
	t.Setenv(EnvClientSecret, "")

	inner := NewFileStore(filepath.Join(t.TempDir(), "config.json"))
	store := NewEnvStore(inner)

	if err := store.Save(Record{ClientID: "id", ClientSecret: "secret"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	rec, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec.ClientID != "id" || rec.ClientSecret != "secret" {
		t.Fatalf("unexpected record %#v", rec)
	}
}
