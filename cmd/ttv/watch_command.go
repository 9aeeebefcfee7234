package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ttv/internal/deps"
	"ttv/internal/logging"
	"ttv/internal/player"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var quality string

	cmd := &cobra.Command{
		Use:   "watch <login-or-url>...",
		Short: "Watch one or more live streams",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logins := make([]string, 0, len(args))
			for _, arg := range args {
				login, err := parseLogin(arg)
				if err != nil {
					return err
				}
				logins = append(logins, login)
			}
			logins = dedupLogins(logins)

			cfg, err := ctx.ensureSettings()
			if err != nil {
				return err
			}
			if err := deps.Ensure(playbackRequirements(cfg.Player.Streamlink, cfg.Player.Player)); err != nil {
				return err
			}

			launcher, err := ctx.launcher()
			if err != nil {
				return err
			}
			ctx.log().Debug("spawning streams", logging.Int("count", len(logins)))

			// Spawn every stream before waiting so they play side by side.
			type pending struct {
				login   string
				session player.Session
				err     error
			}
			sessions := make([]pending, 0, len(logins))
			for _, login := range logins {
				fmt.Fprintf(cmd.OutOrStdout(), "Starting stream for %s...\n", login)
				session, err := launcher.Start(cmd.Context(), channelURL(login), quality)
				sessions = append(sessions, pending{login: login, session: session, err: err})
			}

			var failures []string
			for _, entry := range sessions {
				if entry.err != nil {
					failures = append(failures, fmt.Sprintf("%s (spawn error)", entry.login))
					continue
				}
				if err := entry.session.Wait(); err != nil {
					failures = append(failures, fmt.Sprintf("%s (%s)", entry.login, err))
				}
			}
			if len(failures) > 0 {
				return errors.New("Some streams failed to start or exited early: " + strings.Join(failures, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&quality, "quality", "", "Stream quality passed to streamlink")
	return cmd
}

func playbackRequirements(streamlink, playerBinary string) []deps.Requirement {
	return []deps.Requirement{
		{Name: "streamlink", Binary: streamlink, Hint: "Please install it."},
		{Name: "player", Binary: playerBinary, Hint: "Please install it."},
	}
}

func channelURL(login string) string {
	return "https://www.twitch.tv/" + login
}
