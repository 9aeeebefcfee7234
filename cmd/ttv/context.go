package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"ttv/internal/auth"
	"ttv/internal/config"
	"ttv/internal/creds"
	"ttv/internal/follows"
	"ttv/internal/logging"
	"ttv/internal/player"
	"ttv/internal/twitch"
)

// commandContext lazily wires the shared dependencies behind the CLI
// verbs. Everything resolves at most once per invocation.
type commandContext struct {
	settingsFlag *string
	verboseFlag  *bool

	settingsOnce sync.Once
	settings     *config.Config
	settingsErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(settingsFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		settingsFlag: settingsFlag,
		verboseFlag:  verboseFlag,
	}
}

func (c *commandContext) ensureSettings() (*config.Config, error) {
	c.settingsOnce.Do(func() {
		var path string
		if c.settingsFlag != nil {
			path = strings.TrimSpace(*c.settingsFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.settingsErr = err
			return
		}
		c.settings = cfg
	})
	return c.settings, c.settingsErr
}

func (c *commandContext) log() *slog.Logger {
	c.loggerOnce.Do(func() {
		opts := logging.Options{Level: "warn", Format: "console"}
		if cfg, err := c.ensureSettings(); err == nil {
			opts.Level = cfg.Logging.Level
			opts.Format = cfg.Logging.Format
		}
		verbose := c.verboseFlag != nil && *c.verboseFlag
		if verbose {
			opts.Level = "debug"
		}

		logger, err := logging.New(opts)
		if err != nil {
			logger = logging.NewNop()
		}
		if verbose {
			logger = logger.With(logging.String("run_id", uuid.NewString()))
		}
		c.logger = logger
	})
	return c.logger
}

// credStore opens the plain on-disk record. `ttv config` uses this so
// edits always hit the file, bypassing the environment overlay.
func (c *commandContext) credStore() (*creds.FileStore, error) {
	cfg, err := c.ensureSettings()
	if err != nil {
		return nil, err
	}
	path, err := cfg.CredentialsPath()
	if err != nil {
		return nil, err
	}
	return creds.NewFileStore(path), nil
}

// apiStore is the record as API commands see it: environment overlay
// applied on load, never persisted.
func (c *commandContext) apiStore() (creds.Store, error) {
	store, err := c.credStore()
	if err != nil {
		return nil, err
	}
	return creds.NewEnvStore(store), nil
}

func (c *commandContext) authManager() (*auth.Manager, error) {
	cfg, err := c.ensureSettings()
	if err != nil {
		return nil, err
	}
	store, err := c.apiStore()
	if err != nil {
		return nil, err
	}
	return auth.NewManager(store,
		auth.WithBaseURL(cfg.Twitch.AuthURL),
		auth.WithLogger(c.log()),
	)
}

func (c *commandContext) helixClient() (*twitch.Client, error) {
	cfg, err := c.ensureSettings()
	if err != nil {
		return nil, err
	}
	store, err := c.apiStore()
	if err != nil {
		return nil, err
	}
	rec, err := store.Load()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(rec.ClientID) == "" {
		return nil, auth.ErrCredentialsMissing
	}
	manager, err := c.authManager()
	if err != nil {
		return nil, err
	}
	return twitch.New(cfg.Twitch.APIURL, rec.ClientID, manager,
		twitch.WithTimeout(cfg.Twitch.RequestTimeout()),
	)
}

func (c *commandContext) openFollows() (*follows.Store, error) {
	cfg, err := c.ensureSettings()
	if err != nil {
		return nil, err
	}
	path, err := cfg.DatabasePath()
	if err != nil {
		return nil, err
	}
	return follows.Open(path)
}

func (c *commandContext) launcher() (*player.Launcher, error) {
	cfg, err := c.ensureSettings()
	if err != nil {
		return nil, err
	}
	return player.New(cfg.Player, player.WithLogger(c.log()))
}
