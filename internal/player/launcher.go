package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"ttv/internal/config"
	"ttv/internal/logging"
)

// Session is a running playback pipeline. Wait blocks until the process
// exits and returns its exit error untouched.
type Session interface {
	Wait() error
}

// Executor abstracts process spawning for testability.
type Executor interface {
	Start(ctx context.Context, binary string, args []string) (Session, error)
}

// Option configures the launcher.
type Option func(*Launcher)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(l *Launcher) {
		if exec != nil {
			l.exec = exec
		}
	}
}

// WithLogger attaches a logger for spawn diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Launcher) {
		if logger != nil {
			l.logger = logging.NewComponentLogger(logger, "player")
		}
	}
}

// Launcher spawns the streamlink pipeline configured in settings.
type Launcher struct {
	cfg    config.Player
	exec   Executor
	logger *slog.Logger
}

// New constructs a Launcher from the player settings.
func New(cfg config.Player, opts ...Option) (*Launcher, error) {
	if strings.TrimSpace(cfg.Streamlink) == "" {
		return nil, errors.New("streamlink binary required")
	}
	if strings.TrimSpace(cfg.Player) == "" {
		return nil, errors.New("player binary required")
	}

	launcher := &Launcher{
		cfg:    cfg,
		exec:   commandExecutor{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(launcher)
	}
	return launcher, nil
}

// Args builds the streamlink argument list for a URL. An empty quality
// falls back to the configured default.
func (l *Launcher) Args(url, quality string) []string {
	quality = strings.TrimSpace(quality)
	if quality == "" {
		quality = l.cfg.Quality
	}

	args := make([]string, 0, 8)
	if l.cfg.DisableAds {
		args = append(args, "--twitch-disable-ads")
	}
	args = append(args, "--player", l.cfg.Player)
	if playerArgs := strings.TrimSpace(l.cfg.PlayerArgs); playerArgs != "" {
		args = append(args, "-a", playerArgs)
	}
	return append(args, url, quality)
}

// Start spawns the pipeline for the URL and returns its session.
func (l *Launcher) Start(ctx context.Context, url, quality string) (Session, error) {
	args := l.Args(url, quality)
	l.logger.Debug("starting playback",
		logging.String("url", url),
		logging.String("binary", l.cfg.Streamlink),
		logging.Bool("disable_ads", l.cfg.DisableAds),
		logging.Any("args", args))

	session, err := l.exec.Start(ctx, l.cfg.Streamlink, args)
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", l.cfg.Streamlink, err)
	}
	return session, nil
}

// Play spawns the pipeline and blocks until it exits.
func (l *Launcher) Play(ctx context.Context, url, quality string) error {
	session, err := l.Start(ctx, url, quality)
	if err != nil {
		return err
	}
	started := time.Now()
	if err := session.Wait(); err != nil {
		l.logger.Debug("playback exited",
			logging.Duration("elapsed", time.Since(started)),
			logging.Error(err))
		return err
	}
	return nil
}

// commandExecutor runs real processes with the child's output passed
// through to the terminal.
type commandExecutor struct{}

func (commandExecutor) Start(ctx context.Context, binary string, args []string) (Session, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return commandSession{cmd: cmd}, nil
}

type commandSession struct {
	cmd *exec.Cmd
}

func (s commandSession) Wait() error {
	return s.cmd.Wait()
}
