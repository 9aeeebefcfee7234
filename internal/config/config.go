package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_settings.toml
var sampleSettings string

// Twitch contains endpoint configuration for the Helix API and the OAuth
// token endpoint.
type Twitch struct {
	APIURL                string `toml:"api_url"`
	AuthURL               string `toml:"auth_url"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// RequestTimeout returns the API request timeout as a duration.
func (t Twitch) RequestTimeout() time.Duration {
	return time.Duration(t.RequestTimeoutSeconds) * time.Second
}

// Player contains the streamlink pipeline configuration.
type Player struct {
	Streamlink string `toml:"streamlink"`
	Player     string `toml:"player"`
	PlayerArgs string `toml:"player_args"`
	Quality    string `toml:"quality"`
	DisableAds bool   `toml:"disable_ads"`
}

// Paths overrides the default locations of the credential record and the
// follow database. Empty values fall back to the per-OS defaults.
type Paths struct {
	Credentials string `toml:"credentials"`
	Database    string `toml:"database"`
}

// Logging contains configuration for diagnostic output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates the optional settings file. Every field has a
// default; a missing file is equivalent to an empty one.
type Config struct {
	Twitch  Twitch  `toml:"twitch"`
	Player  Player  `toml:"player"`
	Paths   Paths   `toml:"paths"`
	Logging Logging `toml:"logging"`
}

// Load locates, parses, and validates a settings file. The returned config
// has all path fields expanded and normalized. A missing file yields the
// defaults with exists=false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveSettingsPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open settings: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse settings %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveSettingsPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat settings: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultSettingsPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// CredentialsPath returns the resolved location of the credential record.
func (c *Config) CredentialsPath() (string, error) {
	if strings.TrimSpace(c.Paths.Credentials) != "" {
		return c.Paths.Credentials, nil
	}
	return DefaultCredentialsPath()
}

// DatabasePath returns the resolved location of the follow database.
func (c *Config) DatabasePath() (string, error) {
	if strings.TrimSpace(c.Paths.Database) != "" {
		return c.Paths.Database, nil
	}
	return DefaultDatabasePath()
}

func (c *Config) normalize() error {
	c.Twitch.APIURL = strings.TrimRight(strings.TrimSpace(c.Twitch.APIURL), "/")
	if c.Twitch.APIURL == "" {
		c.Twitch.APIURL = defaultAPIURL
	}
	c.Twitch.AuthURL = strings.TrimSpace(c.Twitch.AuthURL)
	if c.Twitch.AuthURL == "" {
		c.Twitch.AuthURL = defaultAuthURL
	}
	if c.Twitch.RequestTimeoutSeconds == 0 {
		c.Twitch.RequestTimeoutSeconds = defaultRequestTimeoutSeconds
	}

	c.Player.Streamlink = strings.TrimSpace(c.Player.Streamlink)
	if c.Player.Streamlink == "" {
		c.Player.Streamlink = defaultStreamlinkBinary
	}
	c.Player.Player = strings.TrimSpace(c.Player.Player)
	if c.Player.Player == "" {
		c.Player.Player = defaultPlayerBinary
	}
	if strings.TrimSpace(c.Player.PlayerArgs) == "" {
		c.Player.PlayerArgs = defaultPlayerArgs
	}
	c.Player.Quality = strings.TrimSpace(c.Player.Quality)
	if c.Player.Quality == "" {
		c.Player.Quality = defaultQuality
	}

	var err error
	if strings.TrimSpace(c.Paths.Credentials) != "" {
		if c.Paths.Credentials, err = expandPath(c.Paths.Credentials); err != nil {
			return fmt.Errorf("paths.credentials: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.Database) != "" {
		if c.Paths.Database, err = expandPath(c.Paths.Database); err != nil {
			return fmt.Errorf("paths.database: %w", err)
		}
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	return nil
}

// Validate rejects settings the rest of the program cannot work with.
func (c *Config) Validate() error {
	if c.Twitch.RequestTimeoutSeconds < 1 {
		return fmt.Errorf("settings: twitch.request_timeout_seconds must be at least 1, got %d", c.Twitch.RequestTimeoutSeconds)
	}
	if !strings.Contains(c.Twitch.APIURL, "://") {
		return fmt.Errorf("settings: twitch.api_url %q is not an absolute URL", c.Twitch.APIURL)
	}
	if !strings.Contains(c.Twitch.AuthURL, "://") {
		return fmt.Errorf("settings: twitch.auth_url %q is not an absolute URL", c.Twitch.AuthURL)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("settings: logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("settings: logging.format %q is not one of console, json", c.Logging.Format)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a commented sample settings file to the specified
// location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleSettings), 0o644); err != nil {
		return fmt.Errorf("write sample settings: %w", err)
	}
	return nil
}
