package main

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ttv/internal/deps"
	"ttv/internal/twitch"
)

func newVodCommand(ctx *commandContext) *cobra.Command {
	var quality string
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "vod <login>",
		Short: "Browse and watch a streamer's past broadcasts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			login, err := parseLogin(args[0])
			if err != nil {
				return err
			}

			client, err := ctx.helixClient()
			if err != nil {
				return err
			}
			users, err := client.UsersByLogin(cmd.Context(), []string{login})
			if err != nil {
				return err
			}
			if len(users) == 0 {
				return fmt.Errorf("No user found for login: %s", login)
			}
			user := users[0]

			videos, err := client.VideosByUser(cmd.Context(), user.ID)
			if err != nil {
				return err
			}
			if jsonFlag {
				if videos == nil {
					videos = []twitch.Video{}
				}
				return writeJSON(cmd, videos)
			}
			if len(videos) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No VODs found for %s.\n", user.DisplayName)
				return nil
			}

			rows := make([][]string, 0, len(videos))
			for i, video := range videos {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					video.CreatedAt.Format("2006-01-02"),
					video.Title,
					video.Duration,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out, []string{"#", "DATE", "TITLE", "DURATION"}, rows, []columnAlignment{alignRight}))

			selected, err := promptVodSelection(cmd, len(videos))
			if err != nil {
				return err
			}
			video := videos[selected-1]

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

			fmt.Fprintf(out, "Starting VOD %s...\n", video.ID)
			return launcher.Play(cmd.Context(), videoURL(video), quality)
		},
	}

	cmd.Flags().StringVar(&quality, "quality", "", "Stream quality passed to streamlink")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit the VOD list as JSON")
	return cmd
}

// promptVodSelection reads a 1-based index from stdin, reprompting on
// non-numeric or out-of-range input. Empty input or EOF aborts.
func promptVodSelection(cmd *cobra.Command, count int) (int, error) {
	reader := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	for {
		fmt.Fprintf(out, "Select a VOD to watch [1-%d]: ", count)
		if !reader.Scan() {
			return 0, errors.New("No selection provided.")
		}
		input := strings.TrimSpace(reader.Text())
		if input == "" {
			return 0, errors.New("No selection provided.")
		}
		selected, err := strconv.Atoi(input)
		if err != nil || selected < 1 || selected > count {
			fmt.Fprintf(out, "Enter a number between 1 and %d.\n", count)
			continue
		}
		return selected, nil
	}
}

func videoURL(video twitch.Video) string {
	return "https://www.twitch.tv/videos/" + video.ID
}
