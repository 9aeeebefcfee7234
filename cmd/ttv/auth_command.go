package main

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"
)

func newAuthCommand(ctx *commandContext) *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Fetch a new app access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.authManager()
			if err != nil {
				return err
			}

			rec, err := manager.Refresh(cmd.Context())
			if err != nil {
				return err
			}

			remaining := int64(math.Round(time.Until(rec.ExpiresAt).Seconds()))
			fmt.Fprintf(cmd.OutOrStdout(), "Fetched new access token (expires in %ds).\n", remaining)
			if show {
				printRecord(cmd, rec.Masked())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "Print the stored record with secrets masked")
	return cmd
}
