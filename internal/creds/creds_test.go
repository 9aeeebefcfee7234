package creds

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingFileYieldsZeroRecord(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "config.json"))

	rec, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec != (Record{}) {
		t.Fatalf("expected zero record, got %#v", rec)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store := NewFileStore(path)

	want := Record{
		ClientID:     "abc123",
		ClientSecret: "s3cret",
		AccessToken:  "tok",
		ExpiresAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.ExpiresAt.Equal(want.ExpiresAt) {
		t.Fatalf("expiry mismatch: got %v want %v", got.ExpiresAt, want.ExpiresAt)
	}
	got.ExpiresAt = want.ExpiresAt
	if got != want {
		t.Fatalf("round trip mismatch: got %#v want %#v", got, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600 permissions, got %o", perm)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestSavePreservesRealValuesNotMasked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store := NewFileStore(path)

	rec := Record{ClientID: "id", ClientSecret: "secret", AccessToken: "token"}
	if err := store.Save(rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(string(data), maskedValue) {
		t.Fatal("masked value leaked into storage")
	}
	if !strings.Contains(string(data), `"secret"`) {
		t.Fatalf("stored secret missing from %s", data)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := NewFileStore(path).Load()
	if err == nil {
		t.Fatal("expected error for malformed record")
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("error should name the path: %v", err)
	}
}

func TestTokenValidBoundary(t *testing.T) {
	expiry := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := Record{AccessToken: "tok", ExpiresAt: expiry}

	if !rec.TokenValid(expiry.Add(-time.Second)) {
		t.Fatal("token should be valid just before expiry")
	}
	if rec.TokenValid(expiry) {
		t.Fatal("token expires the moment now reaches expires_at")
	}
	if rec.TokenValid(expiry.Add(time.Second)) {
		t.Fatal("token should be invalid after expiry")
	}
	if (Record{ExpiresAt: expiry}).TokenValid(expiry.Add(-time.Hour)) {
		t.Fatal("empty token is never valid")
	}
	if (Record{AccessToken: "tok"}).TokenValid(time.Now()) {
		t.Fatal("zero expiry is never valid")
	}
}

func TestMasked(t *testing.T) {
	rec := Record{ClientID: "id", ClientSecret: "secret", AccessToken: "token"}
	masked := rec.Masked()

	if masked.ClientID != "id" {
		t.Fatalf("client id should not be masked: %q", masked.ClientID)
	}
	if masked.ClientSecret != maskedValue || masked.AccessToken != maskedValue {
		t.Fatalf("secrets not masked: %#v", masked)
	}
	if rec.ClientSecret != "secret" {
		t.Fatal("Masked must not mutate the receiver")
	}

	empty := Record{}.Masked()
	if empty.ClientSecret != "" || empty.AccessToken != "" {
		t.Fatalf("empty fields should stay empty: %#v", empty)
	}
}
