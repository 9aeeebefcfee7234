package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ttv/internal/follows"
)

func newFollowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "follow <login>...",
		Short: "Follow one or more streamers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logins := dedupLogins(args)

			client, err := ctx.helixClient()
			if err != nil {
				return err
			}
			users, err := client.UsersByLogin(cmd.Context(), logins)
			if err != nil {
				return err
			}
			if len(users) == 0 {
				return errors.New("No streamers found for the provided login names.")
			}

			resolved := make(map[string]struct{}, len(users))
			for _, user := range users {
				resolved[strings.ToLower(user.Login)] = struct{}{}
			}
			var missing []string
			for _, login := range logins {
				if _, ok := resolved[login]; !ok {
					missing = append(missing, login)
				}
			}

			store, err := ctx.openFollows()
			if err != nil {
				return err
			}
			defer store.Close()

			for _, user := range users {
				channel := follows.Channel{
					ID:          user.ID,
					Login:       user.Login,
					DisplayName: user.DisplayName,
				}
				if err := store.Upsert(cmd.Context(), channel); err != nil {
					return err
				}
			}

			if len(missing) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "Not found on Twitch: %s\n", strings.Join(missing, ", "))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Followed %d streamer(s).\n", len(users))
			return nil
		},
	}
}

func newUnfollowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unfollow <login>...",
		Short: "Unfollow one or more streamers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logins := dedupLogins(args)

			store, err := ctx.openFollows()
			if err != nil {
				return err
			}
			defer store.Close()

			removed := 0
			var notFollowed []string
			for _, login := range logins {
				ok, err := store.Remove(cmd.Context(), login)
				if err != nil {
					return err
				}
				if ok {
					removed++
				} else {
					notFollowed = append(notFollowed, login)
				}
			}

			if len(notFollowed) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "Not followed: %s\n", strings.Join(notFollowed, ", "))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unfollowed %d streamer(s).\n", removed)
			return nil
		},
	}
}
