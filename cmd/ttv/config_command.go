package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ttv/internal/creds"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	var clientID string
	var clientSecret string
	var accessToken string
	var expiresAt string
	var show bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Maintain the stored Twitch credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("client-id") && !flags.Changed("client-secret") &&
				!flags.Changed("access-token") && !flags.Changed("expires-at") && !show {
				return errors.New("at least one flag is required; use --client-id, --client-secret, --access-token, --expires-at, or --show")
			}

			store, err := ctx.credStore()
			if err != nil {
				return err
			}
			rec, err := store.Load()
			if err != nil {
				return err
			}

			updated := false
			if flags.Changed("client-id") {
				rec.ClientID = clientID
				updated = true
			}
			if flags.Changed("client-secret") {
				rec.ClientSecret = clientSecret
				updated = true
			}
			if flags.Changed("access-token") {
				rec.AccessToken = accessToken
				updated = true
			}
			if flags.Changed("expires-at") {
				parsed, err := time.Parse(time.RFC3339, expiresAt)
				if err != nil {
					return fmt.Errorf("parse --expires-at: %q is not an RFC 3339 timestamp", expiresAt)
				}
				rec.ExpiresAt = parsed
				updated = true
			}

			if updated {
				if err := store.Save(rec); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Config updated at %s\n", store.Path())
			}
			if show {
				printRecord(cmd, rec.Masked())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "Twitch application client id")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "Twitch application client secret")
	cmd.Flags().StringVar(&accessToken, "access-token", "", "App access token")
	cmd.Flags().StringVar(&expiresAt, "expires-at", "", "Token expiry (RFC 3339)")
	cmd.Flags().BoolVar(&show, "show", false, "Print the stored record with secrets masked")

	return cmd
}

func printRecord(cmd *cobra.Command, rec creds.Record) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "client_id:     %s\n", orNotSet(rec.ClientID))
	fmt.Fprintf(out, "client_secret: %s\n", orNotSet(rec.ClientSecret))
	fmt.Fprintf(out, "access_token:  %s\n", orNotSet(rec.AccessToken))
	if rec.ExpiresAt.IsZero() {
		fmt.Fprintf(out, "expires_at:    %s\n", orNotSet(""))
	} else {
		fmt.Fprintf(out, "expires_at:    %s\n", rec.ExpiresAt.Format(time.RFC3339))
	}
}

func orNotSet(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}
