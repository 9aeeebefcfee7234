// Package player spawns the external playback pipeline: streamlink
// resolving a Twitch URL and handing the stream to a media player.
// Launcher builds the argument list from settings, Start returns a
// session handle so `ttv watch` can spawn several streams before waiting,
// and exit errors surface to the caller untouched.
package player
