// Package follows persists the set of followed channels in a local
// SQLite database. Channels are keyed by their Twitch user id so a login
// rename refreshes the cached metadata instead of duplicating the row.
package follows
