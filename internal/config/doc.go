// Package config loads the optional TOML settings file and resolves the
// per-OS locations of everything ttv persists.
//
// Settings cover the Twitch endpoints, the streamlink/player pipeline, path
// overrides, and logging. The credential record itself lives in a separate
// JSON file managed by the creds package; this package only decides where
// that file (and the follow database) belongs: XDG_CONFIG_HOME/ttv and
// XDG_DATA_HOME/ttv, with APPDATA on Windows and ~/.config plus
// ~/.local/share as fallbacks.
package config
