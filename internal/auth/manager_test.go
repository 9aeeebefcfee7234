package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"ttv/internal/creds"
)

func newTestStore(t *testing.T, rec creds.Record) *creds.FileStore {
	t.Helper()
	store := creds.NewFileStore(filepath.Join(t.TempDir(), "config.json"))
	if rec != (creds.Record{}) {
		if err := store.Save(rec); err != nil {
			t.Fatalf("seed store: %v", err)
		}
	}
	return store
}

func newTokenServer(t *testing.T, calls *int, token string, expiresIn int64) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
			t.Errorf("unexpected grant_type %q", got)
		}
		if got := r.PostForm.Get("client_id"); got != "cid" {
			t.Errorf("unexpected client_id %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"` + token + `","expires_in":` + strconv.FormatInt(expiresIn, 10) + `}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestTokenUsesStoredValueUntilExpiry(t *testing.T) {
	expiry := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newTestStore(t, creds.Record{
		ClientID:     "cid",
		ClientSecret: "sec",
		AccessToken:  "stored",
		ExpiresAt:    expiry,
	})

	calls := 0
	server := newTokenServer(t, &calls, "fresh", 3600)

	now := expiry.Add(-time.Second)
	mgr, err := NewManager(store, WithBaseURL(server.URL), WithNow(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	token, err := mgr.Token(context.Background())
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if token != "stored" {
		t.Fatalf("expected stored token before expiry, got %q", token)
	}
	if calls != 0 {
		t.Fatalf("no exchange expected before expiry, got %d calls", calls)
	}
}

func TestTokenRefreshesExactlyAtExpiry(t *testing.T) {
	expiry := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newTestStore(t, creds.Record{
		ClientID:     "cid",
		ClientSecret: "sec",
		AccessToken:  "stored",
		ExpiresAt:    expiry,
	})

	calls := 0
	server := newTokenServer(t, &calls, "fresh", 3600)

	mgr, err := NewManager(store,
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
		WithNow(func() time.Time { return expiry }))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	token, err := mgr.Token(context.Background())
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if token != "fresh" {
		t.Fatalf("expected refreshed token at expiry instant, got %q", token)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one exchange, got %d", calls)
	}

	rec, err := store.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if rec.AccessToken != "fresh" {
		t.Fatalf("refresh not persisted: %q", rec.AccessToken)
	}
	if want := expiry.Add(3600 * time.Second); !rec.ExpiresAt.Equal(want) {
		t.Fatalf("expiry not persisted: got %v want %v", rec.ExpiresAt, want)
	}
}

func TestRefreshIsUnconditional(t *testing.T) {
	expiry := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newTestStore(t, creds.Record{
		ClientID:     "cid",
		ClientSecret: "sec",
		AccessToken:  "stored",
		ExpiresAt:    expiry,
	})

	calls := 0
	server := newTokenServer(t, &calls, "fresh", 60)

	now := expiry.Add(-time.Hour)
	mgr, err := NewManager(store, WithBaseURL(server.URL), WithNow(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	rec, err := mgr.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rec.AccessToken != "fresh" {
		t.Fatalf("expected forced refresh, got %q", rec.AccessToken)
	}
	if calls != 1 {
		t.Fatalf("expected one exchange, got %d", calls)
	}
}

func TestTokenMissingCredentials(t *testing.T) {
	store := newTestStore(t, creds.Record{})

	mgr, err := NewManager(store)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	_, err = mgr.Token(context.Background())
	if !errors.Is(err, ErrCredentialsMissing) {
		t.Fatalf("expected ErrCredentialsMissing, got %v", err)
	}
}

func TestExchangeStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"bad client id", http.StatusBadRequest, ErrInvalidClientID},
		{"bad client secret", http.StatusForbidden, ErrInvalidClientSecret},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			store := newTestStore(t, creds.Record{ClientID: "cid", ClientSecret: "sec"})
			mgr, err := NewManager(store, WithBaseURL(server.URL))
			if err != nil {
				t.Fatalf("new manager: %v", err)
			}

			_, err = mgr.Refresh(context.Background())
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestExchangeUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	store := newTestStore(t, creds.Record{ClientID: "cid", ClientSecret: "sec"})
	mgr, err := NewManager(store, WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	_, err = mgr.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected error for unexpected status")
	}
}

// fakeStore lets the test observe the double-checked re-read after the lock
// is acquired: the store already holds a fresh token by the time refresh
// reloads it.
type fakeStore struct {
	*creds.FileStore
	loads int
	fresh creds.Record
}

func (f *fakeStore) Load() (creds.Record, error) {
	f.loads++
	if f.loads > 1 {
		return f.fresh, nil
	}
	return f.FileStore.Load()
}

func TestRefreshSkipsWhenAnotherProcessWon(t *testing.T) {
	expiry := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := expiry.Add(-time.Minute)

	base := newTestStore(t, creds.Record{
		ClientID:     "cid",
		ClientSecret: "sec",
		AccessToken:  "expired",
		ExpiresAt:    now.Add(-time.Hour),
	})
	store := &fakeStore{
		FileStore: base,
		fresh: creds.Record{
			ClientID:     "cid",
			ClientSecret: "sec",
			AccessToken:  "theirs",
			ExpiresAt:    expiry,
		},
	}

	calls := 0
	server := newTokenServer(t, &calls, "mine", 3600)

	mgr, err := NewManager(store, WithBaseURL(server.URL), WithNow(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	token, err := mgr.Token(context.Background())
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if token != "theirs" {
		t.Fatalf("expected the other process's token, got %q", token)
	}
	if calls != 0 {
		t.Fatalf("expected no exchange after double-check, got %d", calls)
	}
}
