package testsupport

import (
	"path/filepath"
	"testing"

	"ttv/internal/config"
)

// SettingsOption allows callers to customize the generated test settings.
type SettingsOption func(*config.Config)

// NewSettings produces settings seeded with unique temp paths per test so
// nothing touches the real per-OS locations.
func NewSettings(t testing.TB, opts ...SettingsOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.Credentials = filepath.Join(base, "config.json")
	cfg.Paths.Database = filepath.Join(base, "ttv.sqlite")
	cfg.Twitch.RequestTimeoutSeconds = 2

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithAPIURL points the Helix client at a test server.
func WithAPIURL(url string) SettingsOption {
	return func(cfg *config.Config) {
		cfg.Twitch.APIURL = url
	}
}

// WithAuthURL points the token exchange at a test server.
func WithAuthURL(url string) SettingsOption {
	return func(cfg *config.Config) {
		cfg.Twitch.AuthURL = url
	}
}
