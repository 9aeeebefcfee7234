package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"ttv/internal/creds"
	"ttv/internal/logging"
)

const defaultAuthURL = "https://id.twitch.tv/oauth2/token"

// Sentinel errors commands branch on.
var (
	// ErrCredentialsMissing is returned when no client id or secret has
	// been configured yet.
	ErrCredentialsMissing = errors.New("client credentials missing; run `ttv config --client-id <id> --client-secret <secret>` first")

	// ErrInvalidClientID is returned when Twitch rejects the client id.
	ErrInvalidClientID = errors.New("twitch rejected the client id; check `ttv config --show`")

	// ErrInvalidClientSecret is returned when Twitch rejects the client secret.
	ErrInvalidClientSecret = errors.New("twitch rejected the client secret; check `ttv config --show`")

	// ErrRateLimited is returned when the token endpoint throttles the exchange.
	ErrRateLimited = errors.New("twitch rate limited the token exchange; try again later")
)

// Option customises Manager construction.
type Option func(*Manager)

// WithHTTPClient overrides the HTTP client used for the token exchange.
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		if client != nil {
			m.httpClient = client
		}
	}
}

// WithBaseURL overrides the token endpoint (used in tests).
func WithBaseURL(baseURL string) Option {
	return func(m *Manager) {
		m.authURL = strings.TrimSpace(baseURL)
	}
}

// WithLogger attaches a logger for refresh diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logging.NewComponentLogger(logger, "auth")
		}
	}
}

// WithNow overrides the clock (used in tests to pin the expiry boundary).
func WithNow(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// Manager wraps the credential store and the OAuth token endpoint.
type Manager struct {
	store      creds.Store
	authURL    string
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

// NewManager builds a Manager over the provided credential store.
func NewManager(store creds.Store, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, errors.New("credential store is nil")
	}

	mgr := &Manager{
		store:      store,
		authURL:    defaultAuthURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     logging.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(mgr)
	}
	return mgr, nil
}

// Token returns a currently valid access token, refreshing first when the
// stored one is absent or its expiry has passed. The stored token is used
// right up to the expiry instant; there is no leeway window.
func (m *Manager) Token(ctx context.Context) (string, error) {
	rec, err := m.store.Load()
	if err != nil {
		return "", err
	}
	if rec.TokenValid(m.now()) {
		return rec.AccessToken, nil
	}
	refreshed, err := m.refresh(ctx, false)
	if err != nil {
		return "", err
	}
	return refreshed.AccessToken, nil
}

// Refresh performs the client-credentials exchange unconditionally and
// returns the updated record. `ttv auth` calls this.
func (m *Manager) Refresh(ctx context.Context) (creds.Record, error) {
	return m.refresh(ctx, true)
}

func (m *Manager) refresh(ctx context.Context, force bool) (creds.Record, error) {
	lock := flock.New(m.store.Path() + ".lock")
	if err := lock.Lock(); err != nil {
		return creds.Record{}, fmt.Errorf("lock credentials: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	// Another process may have refreshed while we waited for the lock.
	rec, err := m.store.Load()
	if err != nil {
		return creds.Record{}, err
	}
	if !force && rec.TokenValid(m.now()) {
		m.logger.Debug("token refreshed by another process", logging.Time("expires_at", rec.ExpiresAt))
		return rec, nil
	}

	if strings.TrimSpace(rec.ClientID) == "" || strings.TrimSpace(rec.ClientSecret) == "" {
		return creds.Record{}, ErrCredentialsMissing
	}

	token, expiresIn, err := m.exchange(ctx, rec.ClientID, rec.ClientSecret)
	if err != nil {
		return creds.Record{}, err
	}

	rec.AccessToken = token
	rec.ExpiresAt = m.now().Add(time.Duration(expiresIn) * time.Second)
	if err := m.store.Save(rec); err != nil {
		return creds.Record{}, err
	}

	m.logger.Debug("access token refreshed",
		logging.Int64("expires_in", expiresIn),
		logging.Time("expires_at", rec.ExpiresAt))
	return rec, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (m *Manager) exchange(ctx context.Context, clientID, clientSecret string) (string, int64, error) {
	form := url.Values{}
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("request access token: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		return "", 0, ErrInvalidClientID
	case http.StatusForbidden:
		return "", 0, ErrInvalidClientSecret
	case http.StatusTooManyRequests:
		return "", 0, ErrRateLimited
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", 0, fmt.Errorf("token exchange returned unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", 0, fmt.Errorf("decode token response: %w", err)
	}
	if strings.TrimSpace(payload.AccessToken) == "" {
		return "", 0, errors.New("token response carried no access token")
	}
	if payload.ExpiresIn <= 0 {
		return "", 0, fmt.Errorf("token response carried invalid expires_in %d", payload.ExpiresIn)
	}
	return payload.AccessToken, payload.ExpiresIn, nil
}
