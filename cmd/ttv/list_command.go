package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"ttv/internal/follows"
	"ttv/internal/twitch"
)

type channelRow struct {
	Login  string `json:"login"`
	Name   string `json:"name"`
	Game   string `json:"game,omitempty"`
	Online bool   `json:"online"`
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var statusFlag string
	var sortFlag string
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List followed streamers and their live status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch statusFlag {
			case "online", "offline", "all":
			default:
				return fmt.Errorf("--status must be online, offline, or all, got %q", statusFlag)
			}
			switch sortFlag {
			case "login", "status":
			default:
				return fmt.Errorf("--sort must be login or status, got %q", sortFlag)
			}

			store, err := ctx.openFollows()
			if err != nil {
				return err
			}
			defer store.Close()

			channels, err := store.All(cmd.Context())
			if err != nil {
				return err
			}
			if len(channels) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No followed streamers.")
				return nil
			}

			client, err := ctx.helixClient()
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(channels))
			for _, channel := range channels {
				ids = append(ids, channel.ID)
			}
			streams, err := client.StreamsByUserID(cmd.Context(), ids)
			if err != nil {
				return err
			}

			rows := classify(channels, streams)
			rows = filterRows(rows, statusFlag)
			if sortFlag == "status" {
				sortByStatus(rows)
			}

			if jsonFlag {
				if rows == nil {
					rows = []channelRow{}
				}
				return writeJSON(cmd, rows)
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), emptyListMessage(statusFlag))
				return nil
			}

			headers := []string{"LOGIN", "NAME", "GAME"}
			withStatus := statusFlag == "all"
			if withStatus {
				headers = append(headers, "STATUS")
			}
			tableRows := make([][]string, 0, len(rows))
			for _, row := range rows {
				game := row.Game
				if !row.Online {
					game = "-"
				}
				cells := []string{row.Login, row.Name, game}
				if withStatus {
					cells = append(cells, statusLabel(row.Online))
				}
				tableRows = append(tableRows, cells)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmd.OutOrStdout(), headers, tableRows, nil))
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", "online", "Filter by status: online, offline, or all")
	cmd.Flags().StringVar(&sortFlag, "sort", "login", "Sort order: login or status")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit the rows as JSON")

	return cmd
}

// classify joins the followed channels with the live streams Helix
// reported. Channels come back from the store in login order, which the
// default sort relies on.
func classify(channels []follows.Channel, streams []twitch.Stream) []channelRow {
	live := make(map[string]twitch.Stream, len(streams))
	for _, stream := range streams {
		live[stream.UserID] = stream
	}

	rows := make([]channelRow, 0, len(channels))
	for _, channel := range channels {
		row := channelRow{
			Login: channel.Login,
			Name:  channel.DisplayLabel(),
		}
		if stream, ok := live[channel.ID]; ok {
			row.Online = true
			row.Game = stream.GameName
		}
		rows = append(rows, row)
	}
	return rows
}

func filterRows(rows []channelRow, status string) []channelRow {
	if status == "all" {
		return rows
	}
	wantOnline := status == "online"
	filtered := rows[:0]
	for _, row := range rows {
		if row.Online == wantOnline {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// sortByStatus puts online channels first, keeping login order within
// each group.
func sortByStatus(rows []channelRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Online && !rows[j].Online
	})
}

func statusLabel(online bool) string {
	if online {
		return "online"
	}
	return "offline"
}

func emptyListMessage(status string) string {
	switch status {
	case "online":
		return "No online streamers."
	case "offline":
		return "No offline streamers."
	default:
		return "No streamers found."
	}
}
