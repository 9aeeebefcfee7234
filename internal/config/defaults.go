package config

const (
	defaultAPIURL                = "https://api.twitch.tv/helix"
	defaultAuthURL               = "https://id.twitch.tv/oauth2/token"
	defaultRequestTimeoutSeconds = 5
	defaultStreamlinkBinary      = "streamlink"
	defaultPlayerBinary          = "mpv"
	defaultPlayerArgs            = "--cache=yes --cache-secs=600"
	defaultQuality               = "best"
	defaultLogLevel              = "warn"
	defaultLogFormat             = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Twitch: Twitch{
			APIURL:                defaultAPIURL,
			AuthURL:               defaultAuthURL,
			RequestTimeoutSeconds: defaultRequestTimeoutSeconds,
		},
		Player: Player{
			Streamlink: defaultStreamlinkBinary,
			Player:     defaultPlayerBinary,
			PlayerArgs: defaultPlayerArgs,
			Quality:    defaultQuality,
			DisableAds: true,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
